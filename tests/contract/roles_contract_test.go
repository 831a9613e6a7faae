package contract_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/athlos-portal-api/internal/dto"
	"github.com/noah-isme/athlos-portal-api/internal/handler"
	"github.com/noah-isme/athlos-portal-api/internal/rbac"
)

type stubRoleQueryService struct {
	response dto.UserRolesResponse
}

func (s stubRoleQueryService) GetRoles(context.Context, rbac.Actor, uint) (dto.UserRolesResponse, error) {
	return s.response, nil
}

func (s stubRoleQueryService) GetOwnRoles(context.Context, rbac.Actor) (dto.UserRolesResponse, error) {
	return s.response, nil
}

func TestUserRolesContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "user_roles.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	roles := dto.UserRolesResponse{
		UserID:      12,
		Role:        "student",
		Permissions: []string{},
		User: dto.UserSummary{
			Email:     "avery@athlos.test",
			FirstName: "Avery",
			LastName:  "Jones",
		},
		Profile: &dto.ProfileSummary{
			StudentID:         "S-2044",
			Sport:             "track",
			EligibilityStatus: "eligible",
		},
	}

	serviceStub := stubRoleQueryService{response: roles}
	roleHandler := handler.NewRoleHandler(serviceStub, zerolog.Nop())

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("external_id", "user_2044")
		c.Locals("user_id", uint(12))
		c.Locals("user_role", "student")
		return c.Next()
	})
	roleHandler.Register(app.Group("/roles"))

	req := httptest.NewRequest(http.MethodGet, "/roles", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}

func TestUserRolesContractStaffPermissions(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "user_roles.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	roles := dto.UserRolesResponse{
		UserID:      3,
		Role:        "staff",
		Permissions: rbac.PermissionStrings(rbac.RoleStaff),
		User: dto.UserSummary{
			Email:     "coach@athlos.test",
			FirstName: "Sam",
			LastName:  "Rivera",
		},
	}

	roleHandler := handler.NewRoleHandler(stubRoleQueryService{response: roles}, zerolog.Nop())

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("external_id", "user_3")
		c.Locals("user_id", uint(3))
		c.Locals("user_role", "staff")
		return c.Next()
	})
	roleHandler.Register(app.Group("/roles"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/roles/3", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}
