package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/athlos-portal-api/internal/config"
	"github.com/noah-isme/athlos-portal-api/internal/handler"
	"github.com/noah-isme/athlos-portal-api/internal/middleware"
	"github.com/noah-isme/athlos-portal-api/internal/observability"
	"github.com/noah-isme/athlos-portal-api/internal/utils"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	WebhookHandler        *handler.IdentityWebhookHandler
	RoleHandler           *handler.RoleHandler
	AdminUserHandler      *handler.AdminUserHandler
	StudentProfileHandler *handler.StudentProfileHandler
}

// Register wires the HTTP routes into the fiber application. The session
// middleware and access gate must already be installed on the app; every
// route declared here relies on the gate's public allow-list for its
// exposure.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Public surface, bypassed by the gate through the allow-list.
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// The actual credential exchange happens at the identity provider;
	// this endpoint only anchors the gate's redirect target.
	app.Get(cfg.SignInPath, func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, "sign in with the identity provider", fiber.Map{
			"return_to": c.Query("return_to", "/"),
		})
	})

	if deps.WebhookHandler != nil {
		webhooks := app.Group("/webhooks", middleware.RateLimit("identity_webhook", cfg.WebhookRateLimit, cfg.WebhookRateWindow))
		deps.WebhookHandler.Register(webhooks)
	}

	// Home zone: any authenticated known role.
	if deps.RoleHandler != nil {
		deps.RoleHandler.Register(app.Group("/roles"))
	}

	// Admin zone.
	if deps.AdminUserHandler != nil {
		deps.AdminUserHandler.Register(app.Group("/admin"))
	}

	// Student zone.
	if deps.StudentProfileHandler != nil {
		deps.StudentProfileHandler.Register(app.Group("/student"))
	}
}
