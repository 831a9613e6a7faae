package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/athlos-portal-api/internal/middleware"
	"github.com/noah-isme/athlos-portal-api/internal/service"
	"github.com/noah-isme/athlos-portal-api/internal/utils"
)

// StudentProfileHandler serves the student zone's self view.
type StudentProfileHandler struct {
	students service.StudentProfileService
	logger   zerolog.Logger
}

// NewStudentProfileHandler constructs the handler.
func NewStudentProfileHandler(students service.StudentProfileService, logger zerolog.Logger) *StudentProfileHandler {
	return &StudentProfileHandler{
		students: students,
		logger:   logger.With().Str("component", "student_profile_handler").Logger(),
	}
}

// Register attaches student zone routes to the zone group.
func (h *StudentProfileHandler) Register(router fiber.Router) {
	router.Get("/profile", h.self)
}

func (h *StudentProfileHandler) self(c *fiber.Ctx) error {
	actor, identified := middleware.ActorFromContext(c)
	if !identified || actor.UserID == 0 {
		return utils.SendErrorCode(c, fiber.StatusNotFound, utils.CodeNotFound, "no synced record for caller")
	}

	response, err := h.students.SelfView(c.Context(), actor.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return utils.SendErrorCode(c, fiber.StatusNotFound, utils.CodeNotFound, "no synced record for caller")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load student profile")
		return utils.SendErrorCode(c, fiber.StatusInternalServerError, utils.CodeInternal, "failed to load profile")
	}

	return utils.SendSuccess(c, "profile retrieved", response)
}
