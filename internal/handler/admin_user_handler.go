package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/athlos-portal-api/internal/dto"
	"github.com/noah-isme/athlos-portal-api/internal/middleware"
	"github.com/noah-isme/athlos-portal-api/internal/rbac"
	"github.com/noah-isme/athlos-portal-api/internal/service"
	"github.com/noah-isme/athlos-portal-api/internal/utils"
)

// AdminUserHandler wires the admin zone's user directory, student
// provisioning, and explicit role management endpoints.
type AdminUserHandler struct {
	directory service.UserDirectoryService
	students  service.StudentProfileService
	logger    zerolog.Logger
}

// NewAdminUserHandler constructs the handler.
func NewAdminUserHandler(directory service.UserDirectoryService, students service.StudentProfileService, logger zerolog.Logger) *AdminUserHandler {
	return &AdminUserHandler{
		directory: directory,
		students:  students,
		logger:    logger.With().Str("component", "admin_user_handler").Logger(),
	}
}

// Register attaches admin routes to the zone group.
func (h *AdminUserHandler) Register(router fiber.Router) {
	router.Get("/users", h.listUsers)
	router.Patch("/users/:id/role", h.changeRole)
	router.Post("/students", h.provisionStudent)
	router.Patch("/students/:id", h.updateStudent)
}

func (h *AdminUserHandler) listUsers(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "invalid page")
	}
	if page <= 0 {
		page = 1
	}

	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "invalid page size")
	}
	if pageSize <= 0 {
		pageSize = 20
	} else if pageSize > 100 {
		pageSize = 100
	}

	req := dto.UserListRequest{
		Search:   c.Query("search"),
		Role:     string(rbac.ParseRole(c.Query("role"))),
		Page:     page,
		PageSize: pageSize,
	}

	response, err := h.directory.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list users")
		return utils.SendErrorCode(c, fiber.StatusInternalServerError, utils.CodeInternal, "failed to list users")
	}

	return utils.SendSuccess(c, "users retrieved", response)
}

func (h *AdminUserHandler) changeRole(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFromContext(c)

	targetID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "invalid identifier")
	}

	var req dto.RoleChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "invalid payload")
	}

	response, err := h.directory.ChangeRole(c.Context(), actor, targetID, req)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "invalid role")
		case errors.Is(err, service.ErrRoleChangeForbidden):
			return utils.SendErrorCode(c, fiber.StatusForbidden, utils.CodeForbidden, "role:assign permission required")
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendErrorCode(c, fiber.StatusNotFound, utils.CodeNotFound, "user not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to change role")
		return utils.SendErrorCode(c, fiber.StatusInternalServerError, utils.CodeInternal, "failed to change role")
	}

	return utils.SendSuccess(c, "role updated", response)
}

func (h *AdminUserHandler) provisionStudent(c *fiber.Ctx) error {
	var req dto.StudentProvisionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "invalid payload")
	}

	response, err := h.students.Provision(c.Context(), req)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "invalid profile data")
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendErrorCode(c, fiber.StatusNotFound, utils.CodeNotFound, "user not found")
		case errors.Is(err, service.ErrProfileExists):
			return utils.SendErrorCode(c, fiber.StatusConflict, utils.CodeValidationFailed, "profile already provisioned")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to provision student profile")
		return utils.SendErrorCode(c, fiber.StatusInternalServerError, utils.CodeInternal, "failed to provision profile")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student profile provisioned", response)
}

func (h *AdminUserHandler) updateStudent(c *fiber.Ctx) error {
	userID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "invalid identifier")
	}

	var req dto.StudentProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "invalid payload")
	}

	response, err := h.students.Update(c.Context(), userID, req)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "invalid profile data")
		case errors.Is(err, service.ErrProfileNotFound):
			return utils.SendErrorCode(c, fiber.StatusNotFound, utils.CodeNotFound, "student profile not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to update student profile")
		return utils.SendErrorCode(c, fiber.StatusInternalServerError, utils.CodeInternal, "failed to update profile")
	}

	return utils.SendSuccess(c, "student profile updated", response)
}
