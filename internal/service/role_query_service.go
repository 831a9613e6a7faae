package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/athlos-portal-api/internal/dto"
	"github.com/noah-isme/athlos-portal-api/internal/models"
	"github.com/noah-isme/athlos-portal-api/internal/rbac"
	"github.com/noah-isme/athlos-portal-api/internal/repository"
)

var (
	// ErrUserNotFound indicates the subject has no user record.
	ErrUserNotFound = errors.New("user not found")
	// ErrRoleQueryForbidden indicates the requester may not read another
	// user's roles.
	ErrRoleQueryForbidden = errors.New("role query forbidden")
)

// RoleQueryService resolves a user's role and permission set for internal
// collaborators. Permissions come from the catalog on every call; they are
// never read from the record.
type RoleQueryService interface {
	GetRoles(ctx context.Context, requester rbac.Actor, targetUserID uint) (dto.UserRolesResponse, error)
	GetOwnRoles(ctx context.Context, requester rbac.Actor) (dto.UserRolesResponse, error)
}

type roleQueryService struct {
	users    repository.UserRepository
	profiles repository.StudentProfileRepository
	logger   zerolog.Logger
}

// NewRoleQueryService constructs the role query service.
func NewRoleQueryService(users repository.UserRepository, profiles repository.StudentProfileRepository, logger zerolog.Logger) RoleQueryService {
	return &roleQueryService{
		users:    users,
		profiles: profiles,
		logger:   logger.With().Str("component", "role_query_service").Logger(),
	}
}

func (s *roleQueryService) GetRoles(ctx context.Context, requester rbac.Actor, targetUserID uint) (dto.UserRolesResponse, error) {
	if requester.UserID != targetUserID {
		if decision := rbac.Check(requester, rbac.PermUserRead, targetUserID); !decision.Allowed {
			return dto.UserRolesResponse{}, ErrRoleQueryForbidden
		}
	}
	return s.resolve(ctx, targetUserID)
}

func (s *roleQueryService) GetOwnRoles(ctx context.Context, requester rbac.Actor) (dto.UserRolesResponse, error) {
	if requester.UserID == 0 {
		// Identity verified but not yet synced into a local record.
		return dto.UserRolesResponse{}, ErrUserNotFound
	}
	return s.resolve(ctx, requester.UserID)
}

func (s *roleQueryService) resolve(ctx context.Context, userID uint) (dto.UserRolesResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserRolesResponse{}, ErrUserNotFound
		}
		return dto.UserRolesResponse{}, err
	}

	role := rbac.ParseRole(user.Role)
	response := dto.UserRolesResponse{
		UserID:      user.ID,
		Role:        user.Role,
		Permissions: rbac.PermissionStrings(role),
		User: dto.UserSummary{
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
		},
	}
	if response.Permissions == nil {
		response.Permissions = []string{}
	}

	if summary := s.profileSummary(ctx, user); summary != nil {
		response.Profile = summary
	}

	return response, nil
}

func (s *roleQueryService) profileSummary(ctx context.Context, user models.User) *dto.ProfileSummary {
	profile, err := s.profiles.GetByUserID(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn().Err(err).Uint("user_id", user.ID).Msg("failed to load profile summary")
		}
		return nil
	}
	return &dto.ProfileSummary{
		StudentID:         profile.StudentID,
		Sport:             profile.Sport,
		EligibilityStatus: profile.EligibilityStatus,
	}
}
