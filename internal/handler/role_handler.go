package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/athlos-portal-api/internal/middleware"
	"github.com/noah-isme/athlos-portal-api/internal/service"
	"github.com/noah-isme/athlos-portal-api/internal/utils"
)

// RoleHandler exposes resolved role and permission sets to callers.
type RoleHandler struct {
	roles  service.RoleQueryService
	logger zerolog.Logger
}

// NewRoleHandler constructs the role query handler.
func NewRoleHandler(roles service.RoleQueryService, logger zerolog.Logger) *RoleHandler {
	return &RoleHandler{
		roles:  roles,
		logger: logger.With().Str("component", "role_handler").Logger(),
	}
}

// Register attaches the role query routes to the router group.
func (h *RoleHandler) Register(router fiber.Router) {
	router.Get("", h.self)
	router.Get("/:id", h.byID)
}

func (h *RoleHandler) self(c *fiber.Ctx) error {
	actor, identified := middleware.ActorFromContext(c)
	if !identified {
		return utils.SendErrorCode(c, fiber.StatusUnauthorized, utils.CodeNoCredential, "authentication required")
	}

	response, err := h.roles.GetOwnRoles(c.Context(), actor)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return utils.SendErrorCode(c, fiber.StatusNotFound, utils.CodeNotFound, "no synced record for caller")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to resolve own roles")
		return utils.SendErrorCode(c, fiber.StatusInternalServerError, utils.CodeInternal, "failed to resolve roles")
	}

	return utils.SendSuccess(c, "roles resolved", response)
}

func (h *RoleHandler) byID(c *fiber.Ctx) error {
	actor, identified := middleware.ActorFromContext(c)
	if !identified {
		return utils.SendErrorCode(c, fiber.StatusUnauthorized, utils.CodeNoCredential, "authentication required")
	}

	targetID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "invalid identifier")
	}

	response, err := h.roles.GetRoles(c.Context(), actor, targetID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoleQueryForbidden):
			return utils.SendErrorCode(c, fiber.StatusForbidden, utils.CodeForbidden, "user:read permission required")
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendErrorCode(c, fiber.StatusNotFound, utils.CodeNotFound, "user not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to resolve roles")
		return utils.SendErrorCode(c, fiber.StatusInternalServerError, utils.CodeInternal, "failed to resolve roles")
	}

	return utils.SendSuccess(c, "roles resolved", response)
}
