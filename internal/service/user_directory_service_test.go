package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/athlos-portal-api/internal/dto"
	"github.com/noah-isme/athlos-portal-api/internal/models"
	"github.com/noah-isme/athlos-portal-api/internal/rbac"
)

func newDirectoryService(repo *userRepoStub) UserDirectoryService {
	return NewUserDirectoryService(repo, validator.New(validator.WithRequiredStructEnabled()), testLogger())
}

func TestDirectoryListPaginationMeta(t *testing.T) {
	repo := newUserRepoStub()
	repo.seed(models.User{ID: 1, ExternalID: "u1", Email: "a@x.com", Role: "student"})
	repo.seed(models.User{ID: 2, ExternalID: "u2", Email: "b@x.com", Role: "staff"})
	repo.seed(models.User{ID: 3, ExternalID: "u3", Email: "c@x.com", Role: "admin"})

	svc := newDirectoryService(repo)

	resp, err := svc.List(context.Background(), dto.UserListRequest{Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), resp.Pagination.TotalItems)
	require.Equal(t, 2, resp.Pagination.TotalPages)
	require.Equal(t, 1, resp.Pagination.Page)
}

func TestChangeRoleRequiresRoleAssign(t *testing.T) {
	repo := newUserRepoStub()
	repo.seed(models.User{ID: 1, ExternalID: "u1", Email: "a@x.com", Role: "student"})

	svc := newDirectoryService(repo)
	req := dto.RoleChangeRequest{Role: "staff"}

	staff := rbac.Actor{ExternalID: "u9", UserID: 9, Role: rbac.RoleStaff}
	_, err := svc.ChangeRole(context.Background(), staff, 1, req)
	require.ErrorIs(t, err, ErrRoleChangeForbidden)

	admin := rbac.Actor{ExternalID: "adm", UserID: 10, Role: rbac.RoleAdmin}
	resp, err := svc.ChangeRole(context.Background(), admin, 1, req)
	require.NoError(t, err)
	require.Equal(t, "staff", resp.Role)
}

func TestChangeRoleSelfAssignmentStillGuarded(t *testing.T) {
	repo := newUserRepoStub()
	repo.seed(models.User{ID: 4, ExternalID: "u4", Email: "d@x.com", Role: "student"})

	svc := newDirectoryService(repo)

	// Own-resource access never bypasses admin-only permissions.
	self := rbac.Actor{ExternalID: "u4", UserID: 4, Role: rbac.RoleStudent}
	_, err := svc.ChangeRole(context.Background(), self, 4, dto.RoleChangeRequest{Role: "admin"})
	require.ErrorIs(t, err, ErrRoleChangeForbidden)
}

func TestChangeRoleValidatesRoleValue(t *testing.T) {
	repo := newUserRepoStub()
	repo.seed(models.User{ID: 1, ExternalID: "u1", Email: "a@x.com", Role: "student"})

	svc := newDirectoryService(repo)
	admin := rbac.Actor{ExternalID: "adm", UserID: 10, Role: rbac.RoleAdmin}

	_, err := svc.ChangeRole(context.Background(), admin, 1, dto.RoleChangeRequest{Role: "superuser"})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrRoleChangeForbidden)
}

func TestChangeRoleUnknownUser(t *testing.T) {
	svc := newDirectoryService(newUserRepoStub())
	admin := rbac.Actor{ExternalID: "adm", UserID: 10, Role: rbac.RoleAdmin}

	_, err := svc.ChangeRole(context.Background(), admin, 77, dto.RoleChangeRequest{Role: "staff"})
	require.ErrorIs(t, err, ErrUserNotFound)
}
