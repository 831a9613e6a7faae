package dto

import "strings"

// Identity event types pushed by the external identity provider. Unknown
// types are tolerated and treated as attribute updates.
const (
	IdentityEventUserCreated = "user.created"
	IdentityEventUserUpdated = "user.updated"
)

// IdentityEventEnvelope is the wire shape of a provider change event. Extra
// fields the provider adds over time are ignored on decode.
type IdentityEventEnvelope struct {
	Type      string            `json:"type"`
	Timestamp int64             `json:"timestamp,omitempty"`
	Data      IdentityEventData `json:"data"`
}

// IdentityEventData carries the subject's identity attributes.
type IdentityEventData struct {
	ID             string                 `json:"id"`
	EmailAddresses []IdentityEmailAddress `json:"email_addresses"`
	FirstName      *string                `json:"first_name"`
	LastName       *string                `json:"last_name"`
	PublicMetadata map[string]interface{} `json:"public_metadata,omitempty"`
	UpdatedAt      int64                  `json:"updated_at,omitempty"`
}

// IdentityEmailAddress is one of the subject's provider-registered emails.
type IdentityEmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// Version derives the monotonic ordering value for the event: the subject's
// update timestamp when present, else the envelope timestamp. Replays carry
// the same value, late deliveries an older one.
func (e IdentityEventEnvelope) Version() int64 {
	if e.Data.UpdatedAt > 0 {
		return e.Data.UpdatedAt
	}
	return e.Timestamp
}

// PrimaryEmail returns the first non-empty email address, or "".
func (e IdentityEventEnvelope) PrimaryEmail() string {
	for _, address := range e.Data.EmailAddresses {
		if trimmed := strings.TrimSpace(address.EmailAddress); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// RoleHint extracts the provider-asserted role from public metadata, or "".
func (e IdentityEventEnvelope) RoleHint() string {
	if e.Data.PublicMetadata == nil {
		return ""
	}
	if value, ok := e.Data.PublicMetadata["role"]; ok {
		if role, ok := value.(string); ok {
			return strings.ToLower(strings.TrimSpace(role))
		}
	}
	return ""
}
