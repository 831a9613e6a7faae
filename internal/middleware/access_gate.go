package middleware

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/athlos-portal-api/internal/observability"
	"github.com/noah-isme/athlos-portal-api/internal/rbac"
	"github.com/noah-isme/athlos-portal-api/internal/utils"
)

// GateConfig declares the gate's static policy: the public allow-list and
// the sign-in location unauthenticated callers are bounced to.
type GateConfig struct {
	Public     rbac.PublicPaths
	SignInPath string
}

// gateOutcome is one decision step's verdict.
type gateOutcome int

const (
	// gateNext passes control to the following check.
	gateNext gateOutcome = iota
	// gateBypass admits the request without running further checks.
	gateBypass
	// gateRedirect bounces the caller to sign-in, carrying the original
	// destination.
	gateRedirect
	// gateReject terminates the request with a forbidden response.
	gateReject
)

// gateCheck is a pure decision function; the first non-gateNext outcome
// wins and the request never retries the gate.
type gateCheck func(c *fiber.Ctx) gateOutcome

// AccessGate enforces zone entry before any handler runs. It is an ordered
// pipeline: public bypass, credential presence, zone role policy. The gate
// mutates nothing; it only decides.
func AccessGate(cfg GateConfig, logger zerolog.Logger) fiber.Handler {
	gateLogger := logger.With().Str("component", "access_gate").Logger()

	checks := []gateCheck{
		publicBypass(cfg.Public),
		requireCredential(),
		requireZoneRole(),
	}

	return func(c *fiber.Ctx) error {
		zone := rbac.ResolveZone(c.Path())

		for _, check := range checks {
			switch check(c) {
			case gateNext:
				continue
			case gateBypass:
				observability.GateDecisions().WithLabelValues(string(zone), "bypassed").Inc()
				return c.Next()
			case gateRedirect:
				observability.GateDecisions().WithLabelValues(string(zone), "redirected").Inc()
				target := cfg.SignInPath + "?return_to=" + url.QueryEscape(c.OriginalURL())
				return c.Redirect(target, fiber.StatusFound)
			case gateReject:
				observability.GateDecisions().WithLabelValues(string(zone), "rejected").Inc()
				gateLogger.Warn().
					Str("path", c.Path()).
					Str("zone", string(zone)).
					Str("correlation_id", GetCorrelationID(c)).
					Msg("zone access rejected")
				return utils.SendErrorCode(c, fiber.StatusForbidden, utils.CodeWrongZoneRole,
					"this area requires "+rbac.ZoneRoleHint(zone)+" access")
			}
		}

		observability.GateDecisions().WithLabelValues(string(zone), "allowed").Inc()
		return c.Next()
	}
}

func publicBypass(public rbac.PublicPaths) gateCheck {
	return func(c *fiber.Ctx) gateOutcome {
		if public.Contains(c.Path()) {
			return gateBypass
		}
		return gateNext
	}
}

func requireCredential() gateCheck {
	return func(c *fiber.Ctx) gateOutcome {
		if _, identified := ActorFromContext(c); !identified {
			return gateRedirect
		}
		return gateNext
	}
}

func requireZoneRole() gateCheck {
	return func(c *fiber.Ctx) gateOutcome {
		actor, _ := ActorFromContext(c)
		if rbac.ZoneAllows(rbac.ResolveZone(c.Path()), actor.Role) {
			return gateNext
		}
		return gateReject
	}
}
