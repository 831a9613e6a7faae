package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/athlos-portal-api/internal/dto"
	"github.com/noah-isme/athlos-portal-api/internal/rbac"
	"github.com/noah-isme/athlos-portal-api/internal/service"
	"github.com/noah-isme/athlos-portal-api/internal/utils"
)

type roleQueryStub struct {
	response dto.UserRolesResponse
	err      error
}

func (s *roleQueryStub) GetRoles(_ context.Context, _ rbac.Actor, _ uint) (dto.UserRolesResponse, error) {
	return s.response, s.err
}

func (s *roleQueryStub) GetOwnRoles(_ context.Context, _ rbac.Actor) (dto.UserRolesResponse, error) {
	return s.response, s.err
}

// bindActor mimics what the session middleware leaves in locals for an
// identified request.
func bindActor(externalID string, userID uint, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if externalID != "" {
			c.Locals("external_id", externalID)
		}
		if userID != 0 {
			c.Locals("user_id", userID)
		}
		if role != "" {
			c.Locals("user_role", role)
		}
		return c.Next()
	}
}

func newRoleApp(stub *roleQueryStub, actor fiber.Handler) *fiber.App {
	app := fiber.New()
	if actor != nil {
		app.Use(actor)
	}
	NewRoleHandler(stub, zerolog.Nop()).Register(app.Group("/roles"))
	return app
}

func getJSON(t *testing.T, app *fiber.App, path string) (int, utils.APIResponse) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload utils.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp.StatusCode, payload
}

func TestRoleSelfResolved(t *testing.T) {
	stub := &roleQueryStub{response: dto.UserRolesResponse{
		UserID:      7,
		Role:        "staff",
		Permissions: []string{"user:read"},
	}}
	app := newRoleApp(stub, bindActor("u7", 7, "staff"))

	status, payload := getJSON(t, app, "/roles")
	require.Equal(t, fiber.StatusOK, status)
	require.True(t, payload.Success)

	data, err := json.Marshal(payload.Data)
	require.NoError(t, err)
	var resolved dto.UserRolesResponse
	require.NoError(t, json.Unmarshal(data, &resolved))
	require.Equal(t, uint(7), resolved.UserID)
	require.Equal(t, []string{"user:read"}, resolved.Permissions)
}

func TestRoleSelfWithoutCredential(t *testing.T) {
	app := newRoleApp(&roleQueryStub{}, nil)

	status, payload := getJSON(t, app, "/roles")
	require.Equal(t, fiber.StatusUnauthorized, status)
	require.Equal(t, utils.CodeNoCredential, payload.Code)
}

func TestRoleByIDForbidden(t *testing.T) {
	stub := &roleQueryStub{err: service.ErrRoleQueryForbidden}
	app := newRoleApp(stub, bindActor("u3", 3, "student"))

	status, payload := getJSON(t, app, "/roles/1")
	require.Equal(t, fiber.StatusForbidden, status)
	require.Equal(t, utils.CodeForbidden, payload.Code)
}

func TestRoleByIDNotFound(t *testing.T) {
	stub := &roleQueryStub{err: service.ErrUserNotFound}
	app := newRoleApp(stub, bindActor("adm", 9, "admin"))

	status, payload := getJSON(t, app, "/roles/42")
	require.Equal(t, fiber.StatusNotFound, status)
	require.Equal(t, utils.CodeNotFound, payload.Code)
}

func TestRoleByIDInvalidIdentifier(t *testing.T) {
	app := newRoleApp(&roleQueryStub{}, bindActor("adm", 9, "admin"))

	status, payload := getJSON(t, app, "/roles/abc")
	require.Equal(t, fiber.StatusBadRequest, status)
	require.Equal(t, utils.CodeValidationFailed, payload.Code)
}
