package rbac

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveZone(t *testing.T) {
	require.Equal(t, ZoneAdmin, ResolveZone("/admin/users"))
	require.Equal(t, ZoneAdmin, ResolveZone("/admin"))
	require.Equal(t, ZoneStudent, ResolveZone("/student/profile"))
	require.Equal(t, ZoneHome, ResolveZone("/roles/4"))
	require.Equal(t, ZoneHome, ResolveZone("/"))
	require.Equal(t, ZoneHome, ResolveZone("/administrator"), "prefix match must respect path segments")
}

func TestZoneAllows(t *testing.T) {
	require.True(t, ZoneAllows(ZoneAdmin, RoleAdmin))
	require.True(t, ZoneAllows(ZoneAdmin, RoleStaff))
	require.False(t, ZoneAllows(ZoneAdmin, RoleStudent))

	require.True(t, ZoneAllows(ZoneStudent, RoleStudent))
	require.False(t, ZoneAllows(ZoneStudent, RoleStaff))

	require.True(t, ZoneAllows(ZoneHome, RoleStudent))
	require.False(t, ZoneAllows(ZoneHome, Role("")), "home zone never admits unknown roles")
}

func TestPublicPaths(t *testing.T) {
	paths := DefaultPublicPaths()

	require.True(t, paths.Contains("/api/v1/health"))
	require.True(t, paths.Contains("/webhooks/identity"))
	require.True(t, paths.Contains("/static/app.css"))
	require.False(t, paths.Contains("/roles"))
	require.False(t, paths.Contains("/admin/users"))
}
