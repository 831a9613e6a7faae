package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/noah-isme/athlos-portal-api/internal/rbac"
)

// Locals keys populated by SessionAuth.
const (
	localExternalID = "external_id"
	localUserID     = "user_id"
	localUserRole   = "user_role"
)

// ActorResolver maps a provider subject to the locally synced user record.
// Found is false until identity sync has created a record for the subject.
type ActorResolver interface {
	ResolveActor(ctx context.Context, externalID string) (userID uint, role rbac.Role, found bool, err error)
}

// SessionAuth verifies the identity provider's session token and, when
// valid, binds the actor to the request. It never rejects by itself: an
// absent or invalid credential simply leaves the request unidentified and
// the access gate decides what that means for the destination.
func SessionAuth(secret string, resolver ActorResolver, logger zerolog.Logger) fiber.Handler {
	sessionLogger := logger.With().Str("component", "session_auth").Logger()

	return func(c *fiber.Ctx) error {
		tokenString := extractToken(c)
		if tokenString == "" {
			return c.Next()
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			// Invalid proof is the same as no proof: fail closed.
			return c.Next()
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Next()
		}

		externalID := subjectFromClaims(claims)
		if externalID == "" {
			return c.Next()
		}

		role := rbac.ParseRole(roleFromClaims(claims))
		c.Locals(localExternalID, externalID)

		userID, storedRole, found, err := resolver.ResolveActor(c.Context(), externalID)
		switch {
		case err != nil:
			// Store trouble must not turn a valid credential into a
			// rejection; the actor proceeds as not-yet-synced.
			sessionLogger.Warn().Err(err).Str("external_id", externalID).Msg("actor resolution failed")
		case found:
			c.Locals(localUserID, userID)
			// The synced record is authoritative for the role; the token
			// claim only covers the window before first sync.
			role = storedRole
		}

		if role != "" {
			c.Locals(localUserRole, string(role))
		}

		return c.Next()
	}
}

// ActorFromContext reconstructs the request's actor from the session
// locals. The second return is false when no verified identity is bound.
func ActorFromContext(c *fiber.Ctx) (rbac.Actor, bool) {
	externalID, _ := c.Locals(localExternalID).(string)
	if externalID == "" {
		return rbac.Actor{}, false
	}

	actor := rbac.Actor{ExternalID: externalID}
	if id, ok := c.Locals(localUserID).(uint); ok {
		actor.UserID = id
	}
	if role, ok := c.Locals(localUserRole).(string); ok {
		actor.Role = rbac.ParseRole(role)
	}
	return actor, true
}

func extractToken(c *fiber.Ctx) string {
	authorization := c.Get("Authorization")
	const bearer = "Bearer "
	if strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
		return strings.TrimSpace(authorization[len(bearer):])
	}
	return strings.TrimSpace(c.Cookies("__session"))
}

func subjectFromClaims(claims jwt.MapClaims) string {
	for _, key := range []string{"sub", "user_id"} {
		if value, ok := claims[key]; ok {
			if subject, ok := value.(string); ok {
				if trimmed := strings.TrimSpace(subject); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return ""
}

func roleFromClaims(claims jwt.MapClaims) string {
	for _, key := range []string{"role", "org_role"} {
		if value, ok := claims[key]; ok {
			if role, ok := value.(string); ok && strings.TrimSpace(role) != "" {
				return role
			}
		}
	}
	// Clerk-style tokens nest custom attributes under metadata.
	if value, ok := claims["metadata"]; ok {
		if metadata, ok := value.(map[string]interface{}); ok {
			if role, ok := metadata["role"].(string); ok {
				return role
			}
		}
	}
	return ""
}
