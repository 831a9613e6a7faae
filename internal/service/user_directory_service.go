package service

import (
	"context"
	"errors"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/athlos-portal-api/internal/dto"
	"github.com/noah-isme/athlos-portal-api/internal/rbac"
	"github.com/noah-isme/athlos-portal-api/internal/repository"
)

// ErrRoleChangeForbidden indicates the actor lacks the role-assignment
// permission.
var ErrRoleChangeForbidden = errors.New("role change forbidden")

// UserDirectoryService serves the admin user directory and the explicit
// role-change path, the only operation that may grant admin.
type UserDirectoryService interface {
	List(ctx context.Context, req dto.UserListRequest) (dto.UserListResponse, error)
	ChangeRole(ctx context.Context, actor rbac.Actor, targetUserID uint, req dto.RoleChangeRequest) (dto.UserResponse, error)
}

type userDirectoryService struct {
	users     repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewUserDirectoryService constructs the directory service.
func NewUserDirectoryService(users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) UserDirectoryService {
	return &userDirectoryService{
		users:     users,
		validator: validate,
		logger:    logger.With().Str("component", "user_directory_service").Logger(),
	}
}

func (s *userDirectoryService) List(ctx context.Context, req dto.UserListRequest) (dto.UserListResponse, error) {
	users, total, err := s.users.List(ctx, repository.UserFilter{
		Search:   req.Search,
		Role:     req.Role,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		return dto.UserListResponse{}, err
	}

	items := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, dto.NewUserResponse(user))
	}

	pagination := dto.PaginationMeta{
		Page:       maxInt(req.Page, 1),
		PageSize:   req.PageSize,
		TotalItems: total,
	}
	if req.PageSize > 0 {
		pagination.TotalPages = int(math.Ceil(float64(total) / float64(req.PageSize)))
	} else {
		pagination.TotalPages = 1
	}

	return dto.UserListResponse{Items: items, Pagination: pagination}, nil
}

func (s *userDirectoryService) ChangeRole(ctx context.Context, actor rbac.Actor, targetUserID uint, req dto.RoleChangeRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.UserResponse{}, err
	}

	if decision := rbac.Check(actor, rbac.PermRoleAssign, targetUserID); !decision.Allowed {
		return dto.UserResponse{}, ErrRoleChangeForbidden
	}

	user, err := s.users.UpdateRole(ctx, targetUserID, string(rbac.ParseRole(req.Role)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	s.logger.Info().
		Uint("actor_id", actor.UserID).
		Uint("target_id", targetUserID).
		Str("role", user.Role).
		Msg("role changed through explicit path")

	return dto.NewUserResponse(user), nil
}

func maxInt(value, floor int) int {
	if value > floor {
		return value
	}
	return floor
}
