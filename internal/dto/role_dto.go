package dto

// UserSummary is the identity slice embedded in role query payloads.
type UserSummary struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ProfileSummary is the student-profile slice of a role query payload,
// present only when the subject has a provisioned profile.
type ProfileSummary struct {
	StudentID         string `json:"studentId"`
	Sport             string `json:"sport"`
	EligibilityStatus string `json:"eligibilityStatus"`
}

// UserRolesResponse is the resolved role and permission set for a user.
// Permissions are recomputed from the catalog on every read.
type UserRolesResponse struct {
	UserID      uint            `json:"userId"`
	Role        string          `json:"role"`
	Permissions []string        `json:"permissions"`
	User        UserSummary     `json:"user"`
	Profile     *ProfileSummary `json:"profile,omitempty"`
}
