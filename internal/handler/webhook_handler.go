package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/athlos-portal-api/internal/dto"
	"github.com/noah-isme/athlos-portal-api/internal/service"
	"github.com/noah-isme/athlos-portal-api/internal/utils"
)

// IdentityWebhookHandler receives change events pushed by the external
// identity provider.
type IdentityWebhookHandler struct {
	sync   service.IdentitySyncService
	logger zerolog.Logger
}

// NewIdentityWebhookHandler constructs the webhook handler.
func NewIdentityWebhookHandler(sync service.IdentitySyncService, logger zerolog.Logger) *IdentityWebhookHandler {
	return &IdentityWebhookHandler{
		sync:   sync,
		logger: logger.With().Str("component", "identity_webhook_handler").Logger(),
	}
}

// Register attaches the webhook route to the router group.
func (h *IdentityWebhookHandler) Register(router fiber.Router) {
	router.Post("/identity", h.receive)
}

// receive maps sync outcomes onto the provider's retry semantics: 2xx means
// "done, do not redeliver" (including dropped and stale events), 5xx means
// "redeliver later", which the version check makes safe.
func (h *IdentityWebhookHandler) receive(c *fiber.Ctx) error {
	var event dto.IdentityEventEnvelope
	if err := c.BodyParser(&event); err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("undecodable identity webhook payload")
		return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "invalid payload")
	}

	result, err := h.sync.HandleEvent(c.Context(), event, deliveryID(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("identity event not applied")
		return utils.SendErrorCode(c, fiber.StatusInternalServerError, utils.CodeInternal, "event not applied")
	}

	switch result {
	case service.SyncInvalid:
		// Malformed events cannot self-correct; acknowledge so the
		// provider stops retrying.
		return utils.SendSuccess(c, "event dropped", fiber.Map{"result": string(result)})
	case service.SyncStale, service.SyncDuplicate:
		return utils.SendSuccess(c, "event absorbed", fiber.Map{"result": string(result)})
	default:
		return utils.SendSuccess(c, "event processed", fiber.Map{"result": string(result)})
	}
}

func deliveryID(c *fiber.Ctx) string {
	if id := c.Get("Svix-Id"); id != "" {
		return id
	}
	return c.Get("X-Delivery-Id")
}
