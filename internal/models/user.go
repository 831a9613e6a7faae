package models

import (
	"time"

	"gorm.io/datatypes"
)

// User is the canonical identity record mirrored from the external identity
// provider. SyncVersion orders provider events; it only ever advances.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ExternalID  string         `gorm:"size:191;uniqueIndex;not null" json:"external_id"`
	Email       string         `gorm:"size:255;not null" json:"email"`
	FirstName   string         `gorm:"size:255" json:"first_name"`
	LastName    string         `gorm:"size:255" json:"last_name"`
	Role        string         `gorm:"size:32;not null;default:student" json:"role"`
	Metadata    datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	SyncVersion int64          `gorm:"not null;default:0" json:"sync_version"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// DefaultRole is assigned to records created by identity sync when the
// event carries no role hint.
const DefaultRole = "student"

// Eligibility statuses tracked on a student profile.
const (
	EligibilityEligible   = "eligible"
	EligibilityAtRisk     = "at_risk"
	EligibilityIneligible = "ineligible"
)

// StudentProfile holds athlete data owned by exactly one User. Profiles are
// created by explicit provisioning, never by identity sync.
type StudentProfile struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	StudentID         string    `gorm:"size:64;uniqueIndex;not null" json:"student_id"`
	Sport             string    `gorm:"size:128" json:"sport"`
	GPA               *float64  `json:"gpa,omitempty"`
	CreditHours       int       `gorm:"not null;default:0" json:"credit_hours"`
	EligibilityStatus string    `gorm:"size:32;not null;default:eligible" json:"eligibility_status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
