package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/athlos-portal-api/internal/dto"
	"github.com/noah-isme/athlos-portal-api/internal/models"
	"github.com/noah-isme/athlos-portal-api/internal/repository"
)

var (
	// ErrProfileExists indicates the user already has a student profile.
	ErrProfileExists = errors.New("student profile already provisioned")
	// ErrProfileNotFound indicates the user has no student profile.
	ErrProfileNotFound = errors.New("student profile not found")
)

// StudentProfileService owns the explicit provisioning path for athlete
// profiles and the student zone's self view. Identity sync never touches
// profiles.
type StudentProfileService interface {
	Provision(ctx context.Context, req dto.StudentProvisionRequest) (dto.StudentProfileResponse, error)
	Update(ctx context.Context, userID uint, req dto.StudentProfileUpdateRequest) (dto.StudentProfileResponse, error)
	SelfView(ctx context.Context, userID uint) (dto.StudentSelfResponse, error)
}

type studentProfileService struct {
	users     repository.UserRepository
	profiles  repository.StudentProfileRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewStudentProfileService constructs the student profile service.
func NewStudentProfileService(users repository.UserRepository, profiles repository.StudentProfileRepository, validate *validator.Validate, logger zerolog.Logger) StudentProfileService {
	return &studentProfileService{
		users:     users,
		profiles:  profiles,
		validator: validate,
		logger:    logger.With().Str("component", "student_profile_service").Logger(),
	}
}

func (s *studentProfileService) Provision(ctx context.Context, req dto.StudentProvisionRequest) (dto.StudentProfileResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.StudentProfileResponse{}, err
	}

	if _, err := s.users.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentProfileResponse{}, ErrUserNotFound
		}
		return dto.StudentProfileResponse{}, err
	}

	if _, err := s.profiles.GetByUserID(ctx, req.UserID); err == nil {
		return dto.StudentProfileResponse{}, ErrProfileExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.StudentProfileResponse{}, err
	}

	status := req.EligibilityStatus
	if status == "" {
		status = models.EligibilityEligible
	}

	profile := models.StudentProfile{
		UserID:            req.UserID,
		StudentID:         strings.TrimSpace(req.StudentID),
		Sport:             strings.TrimSpace(req.Sport),
		GPA:               req.GPA,
		CreditHours:       req.CreditHours,
		EligibilityStatus: status,
	}
	if err := s.profiles.Create(ctx, &profile); err != nil {
		return dto.StudentProfileResponse{}, err
	}

	s.logger.Info().Uint("user_id", req.UserID).Str("student_id", profile.StudentID).Msg("student profile provisioned")

	return dto.NewStudentProfileResponse(profile), nil
}

func (s *studentProfileService) Update(ctx context.Context, userID uint, req dto.StudentProfileUpdateRequest) (dto.StudentProfileResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.StudentProfileResponse{}, err
	}

	updates := make(map[string]interface{})
	if req.Sport != nil {
		updates["sport"] = strings.TrimSpace(*req.Sport)
	}
	if req.GPA != nil {
		updates["gpa"] = *req.GPA
	}
	if req.CreditHours != nil {
		updates["credit_hours"] = *req.CreditHours
	}
	if req.EligibilityStatus != nil {
		updates["eligibility_status"] = *req.EligibilityStatus
	}
	if len(updates) == 0 {
		profile, err := s.profiles.GetByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.StudentProfileResponse{}, ErrProfileNotFound
			}
			return dto.StudentProfileResponse{}, err
		}
		return dto.NewStudentProfileResponse(profile), nil
	}

	profile, err := s.profiles.Update(ctx, userID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentProfileResponse{}, ErrProfileNotFound
		}
		return dto.StudentProfileResponse{}, err
	}

	return dto.NewStudentProfileResponse(profile), nil
}

func (s *studentProfileService) SelfView(ctx context.Context, userID uint) (dto.StudentSelfResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentSelfResponse{}, ErrUserNotFound
		}
		return dto.StudentSelfResponse{}, err
	}

	response := dto.StudentSelfResponse{User: dto.NewUserResponse(user)}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err == nil {
		view := dto.NewStudentProfileResponse(profile)
		response.Profile = &view
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.StudentSelfResponse{}, err
	}

	return response, nil
}
