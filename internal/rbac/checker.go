package rbac

// Actor is the authenticated caller of a request, reconstructed per request
// from a verified identity token. UserID is zero until the identity has been
// synced into a local user record.
type Actor struct {
	ExternalID string
	UserID     uint
	Role       Role
}

// DenyReason classifies why a permission check failed.
type DenyReason string

const (
	// DenyMissingPermission means the actor's role does not grant the
	// requested permission.
	DenyMissingPermission DenyReason = "missing_permission"
	// DenyAdminOnly means the permission never passes through the implicit
	// own-resource allowance and the actor's role does not grant it.
	DenyAdminOnly DenyReason = "admin_only"
)

// Decision is the typed outcome of a permission check. Checks never fail
// with an error; callers map a deny to the boundary response they need.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// Allow is the positive decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny is a negative decision carrying its reason.
func Deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

// Check decides whether the actor may exercise a permission against a
// resource owned by ownerID. A zero ownerID means the operation has no
// target owner (the actor acts on its own behalf).
//
// Acting on one's own resource passes regardless of role, unless the
// permission is flagged admin-only; otherwise the role catalog decides.
func Check(actor Actor, permission Permission, ownerID uint) Decision {
	ownResource := ownerID == 0 || (actor.UserID != 0 && ownerID == actor.UserID)
	if ownResource && !AdminOnly(permission) {
		return Allow()
	}

	if HasPermission(actor.Role, permission) {
		return Allow()
	}

	if AdminOnly(permission) {
		return Deny(DenyAdminOnly)
	}
	return Deny(DenyMissingPermission)
}
