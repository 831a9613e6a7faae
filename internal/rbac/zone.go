package rbac

import "strings"

// Zone is a distinct portal area reached through a path prefix.
type Zone string

const (
	ZoneAdmin   Zone = "admin"
	ZoneStudent Zone = "student"
	// ZoneHome is the default zone for paths matching no declared prefix.
	// It admits every known role but never anonymous callers.
	ZoneHome Zone = "home"
)

// ResolveZone maps a request path to its destination zone.
func ResolveZone(path string) Zone {
	switch {
	case path == "/admin" || strings.HasPrefix(path, "/admin/"):
		return ZoneAdmin
	case path == "/student" || strings.HasPrefix(path, "/student/"):
		return ZoneStudent
	default:
		return ZoneHome
	}
}

// ZoneAllows reports whether a role may enter a zone.
func ZoneAllows(zone Zone, role Role) bool {
	switch zone {
	case ZoneAdmin:
		return role == RoleAdmin || role == RoleStaff
	case ZoneStudent:
		return role == RoleStudent
	case ZoneHome:
		return role.Known()
	default:
		return false
	}
}

// ZoneRoleHint names the role class a zone requires, for 403 payloads.
func ZoneRoleHint(zone Zone) string {
	switch zone {
	case ZoneAdmin:
		return "admin or staff"
	case ZoneStudent:
		return "student"
	default:
		return "an authenticated portal role"
	}
}

// PublicPaths is the explicit allow-list of paths reachable without a
// verified identity. The gate never infers public routes.
type PublicPaths struct {
	exact    map[string]struct{}
	prefixes []string
}

// NewPublicPaths builds an allow-list from exact paths and path prefixes.
func NewPublicPaths(exact []string, prefixes []string) PublicPaths {
	set := make(map[string]struct{}, len(exact))
	for _, path := range exact {
		trimmed := strings.TrimSpace(path)
		if trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	kept := make([]string, 0, len(prefixes))
	for _, prefix := range prefixes {
		trimmed := strings.TrimSpace(prefix)
		if trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return PublicPaths{exact: set, prefixes: kept}
}

// Contains reports whether a path bypasses the access gate.
func (p PublicPaths) Contains(path string) bool {
	if _, ok := p.exact[path]; ok {
		return true
	}
	for _, prefix := range p.prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// DefaultPublicPaths lists the deployment's unauthenticated surface: health,
// metrics scrape, identity webhook receiver, and the sign-in flow, plus
// static asset prefixes excluded from gating.
func DefaultPublicPaths() PublicPaths {
	return NewPublicPaths(
		[]string{"/api/v1/health", "/metrics", "/webhooks/identity", "/sign-in"},
		[]string{"/static/", "/assets/", "/favicon"},
	)
}
