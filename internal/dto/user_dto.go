package dto

import (
	"time"

	"github.com/noah-isme/athlos-portal-api/internal/models"
)

// PaginationMeta describes the page window of a list response.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// UserResponse is the admin directory view of a user record.
type UserResponse struct {
	ID         uint      `json:"id"`
	ExternalID string    `json:"external_id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewUserResponse maps a user record to its API view.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		ExternalID: user.ExternalID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Role:       user.Role,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}

// UserListRequest filters the admin user directory.
type UserListRequest struct {
	Search   string
	Role     string
	Page     int
	PageSize int
}

// UserListResponse is a page of the admin user directory.
type UserListResponse struct {
	Items      []UserResponse `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// RoleChangeRequest is the explicit privilege-change payload. This is the
// only path that may grant admin.
type RoleChangeRequest struct {
	Role string `json:"role" validate:"required,oneof=admin staff student"`
}

// StudentProvisionRequest creates a student profile for an existing user.
type StudentProvisionRequest struct {
	UserID            uint     `json:"user_id" validate:"required"`
	StudentID         string   `json:"student_id" validate:"required,max=64"`
	Sport             string   `json:"sport" validate:"max=128"`
	GPA               *float64 `json:"gpa" validate:"omitempty,gte=0,lte=4"`
	CreditHours       int      `json:"credit_hours" validate:"gte=0"`
	EligibilityStatus string   `json:"eligibility_status" validate:"omitempty,oneof=eligible at_risk ineligible"`
}

// StudentProfileUpdateRequest patches a provisioned profile.
type StudentProfileUpdateRequest struct {
	Sport             *string  `json:"sport" validate:"omitempty,max=128"`
	GPA               *float64 `json:"gpa" validate:"omitempty,gte=0,lte=4"`
	CreditHours       *int     `json:"credit_hours" validate:"omitempty,gte=0"`
	EligibilityStatus *string  `json:"eligibility_status" validate:"omitempty,oneof=eligible at_risk ineligible"`
}

// StudentProfileResponse is the API view of a student profile.
type StudentProfileResponse struct {
	UserID            uint      `json:"user_id"`
	StudentID         string    `json:"student_id"`
	Sport             string    `json:"sport"`
	GPA               *float64  `json:"gpa,omitempty"`
	CreditHours       int       `json:"credit_hours"`
	EligibilityStatus string    `json:"eligibility_status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NewStudentProfileResponse maps a profile record to its API view.
func NewStudentProfileResponse(profile models.StudentProfile) StudentProfileResponse {
	return StudentProfileResponse{
		UserID:            profile.UserID,
		StudentID:         profile.StudentID,
		Sport:             profile.Sport,
		GPA:               profile.GPA,
		CreditHours:       profile.CreditHours,
		EligibilityStatus: profile.EligibilityStatus,
		CreatedAt:         profile.CreatedAt,
		UpdatedAt:         profile.UpdatedAt,
	}
}

// StudentSelfResponse is the student zone's own view: identity plus profile.
type StudentSelfResponse struct {
	User    UserResponse            `json:"user"`
	Profile *StudentProfileResponse `json:"profile,omitempty"`
}
