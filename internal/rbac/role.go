package rbac

import "strings"

// Role identifies one of the closed set of portal roles.
type Role string

// Known roles. The catalog below is exhaustive over these values; adding a
// role without extending permissionsFor is a compile-time switch error.
const (
	RoleAdmin   Role = "admin"
	RoleStaff   Role = "staff"
	RoleStudent Role = "student"
)

// Permission names an action on a resource class, e.g. "user:read".
type Permission string

// Permissions granted through the role catalog.
const (
	PermUserRead      Permission = "user:read"
	PermUserManage    Permission = "user:manage"
	PermRoleAssign    Permission = "role:assign"
	PermStudentRead   Permission = "student:read"
	PermStudentManage Permission = "student:manage"
)

// ParseRole normalises a raw role string to a known Role. Unknown or empty
// input yields the zero Role, which holds no permissions.
func ParseRole(raw string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleStaff:
		return RoleStaff
	case RoleStudent:
		return RoleStudent
	default:
		return ""
	}
}

// Known reports whether the role is part of the closed enumeration.
func (r Role) Known() bool {
	return r == RoleAdmin || r == RoleStaff || r == RoleStudent
}

func (r Role) String() string {
	return string(r)
}

// PermissionsFor returns the permission set for a role. It is a total
// function: an unknown role yields the empty set, the intentional
// fail-closed default, never an error.
func PermissionsFor(role Role) []Permission {
	switch role {
	case RoleAdmin:
		return []Permission{PermUserRead, PermUserManage, PermRoleAssign, PermStudentRead, PermStudentManage}
	case RoleStaff:
		return []Permission{PermUserRead, PermStudentRead, PermStudentManage}
	case RoleStudent:
		return nil
	default:
		return nil
	}
}

// HasPermission reports whether the role's catalog entry contains the
// permission.
func HasPermission(role Role, permission Permission) bool {
	for _, granted := range PermissionsFor(role) {
		if granted == permission {
			return true
		}
	}
	return false
}

// AdminOnly reports whether the permission is exempt from the implicit
// own-resource allowance and must always be satisfied through the catalog.
func AdminOnly(permission Permission) bool {
	switch permission {
	case PermUserManage, PermRoleAssign:
		return true
	default:
		return false
	}
}

// PermissionStrings renders a role's permission set as plain strings for
// API payloads. Always recomputed from the catalog; never cached on records.
func PermissionStrings(role Role) []string {
	permissions := PermissionsFor(role)
	result := make([]string, 0, len(permissions))
	for _, permission := range permissions {
		result = append(result, string(permission))
	}
	return result
}
