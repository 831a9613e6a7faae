package service

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/noah-isme/athlos-portal-api/internal/dto"
	"github.com/noah-isme/athlos-portal-api/internal/observability"
	"github.com/noah-isme/athlos-portal-api/internal/rbac"
	"github.com/noah-isme/athlos-portal-api/internal/repository"
)

// SyncResult classifies the outcome of one identity event.
type SyncResult string

const (
	// SyncApplied means the event created or updated the user record.
	SyncApplied SyncResult = "applied"
	// SyncStale means the event was a replay or arrived out of order and
	// was absorbed as a no-op.
	SyncStale SyncResult = "stale"
	// SyncDuplicate means the exact delivery was already processed.
	SyncDuplicate SyncResult = "duplicate"
	// SyncInvalid means the event was malformed and dropped. Malformed
	// events cannot self-correct, so they are never retried.
	SyncInvalid SyncResult = "invalid"
)

const (
	syncLockStripes  = 64
	deliveryGuardTTL = 24 * time.Hour
)

// IdentitySyncService reconciles user records with change events pushed by
// the external identity provider, tolerating at-least-once and out-of-order
// delivery.
type IdentitySyncService interface {
	HandleEvent(ctx context.Context, event dto.IdentityEventEnvelope, deliveryID string) (SyncResult, error)
}

type identitySyncService struct {
	users     repository.UserRepository
	cache     *redis.Client
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	tracer    trace.Tracer
	locks     [syncLockStripes]sync.Mutex
}

// NewIdentitySyncService constructs the sync service. The redis client is
// optional; without it exact-redelivery detection falls back to the version
// check alone, which is already sufficient for correctness.
func NewIdentitySyncService(users repository.UserRepository, cache *redis.Client, logger zerolog.Logger) IdentitySyncService {
	return &identitySyncService{
		users:     users,
		cache:     cache,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "identity_sync_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/athlos-portal-api/internal/service/identitysync"),
	}
}

func (s *identitySyncService) HandleEvent(ctx context.Context, event dto.IdentityEventEnvelope, deliveryID string) (SyncResult, error) {
	ctx, span := s.tracer.Start(ctx, "identity.sync", trace.WithAttributes(
		attribute.String("event.type", event.Type),
		attribute.String("event.subject", event.Data.ID),
	))
	defer span.End()

	externalID := strings.TrimSpace(event.Data.ID)
	email := event.PrimaryEmail()
	if externalID == "" || email == "" {
		span.SetStatus(codes.Error, "malformed event")
		observability.SyncEvents().WithLabelValues(string(SyncInvalid)).Inc()
		s.logger.Warn().
			Str("event_type", event.Type).
			Str("delivery_id", deliveryID).
			Msg("dropping malformed identity event")
		return SyncInvalid, nil
	}

	if duplicate := s.seenDelivery(ctx, deliveryID); duplicate {
		observability.SyncEvents().WithLabelValues(string(SyncDuplicate)).Inc()
		return SyncDuplicate, nil
	}

	change := repository.UserUpsert{
		ExternalID: externalID,
		Email:      strings.ToLower(email),
		FirstName:  s.cleanName(event.Data.FirstName),
		LastName:   s.cleanName(event.Data.LastName),
		Role:       s.acceptableRole(event),
		Metadata:   encodeMetadata(event.Data.PublicMetadata),
		Version:    event.Version(),
	}

	// Events for one subject are serialised here; distinct subjects stay
	// fully parallel. The version guard in the repository is the backstop.
	lock := s.lockFor(externalID)
	lock.Lock()
	defer lock.Unlock()

	_, outcome, err := s.users.UpsertByExternalID(ctx, change)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upsert failed")
		observability.SyncEvents().WithLabelValues("error").Inc()
		s.logger.Error().Err(err).
			Str("external_id", externalID).
			Int64("event_version", change.Version).
			Msg("identity event not applied, eligible for redelivery")
		return "", err
	}

	result := SyncApplied
	if outcome == repository.UpsertStale {
		result = SyncStale
	}
	observability.SyncEvents().WithLabelValues(string(result)).Inc()
	s.logger.Info().
		Str("external_id", externalID).
		Str("result", string(result)).
		Int64("event_version", change.Version).
		Msg("identity event processed")

	return result, nil
}

// seenDelivery marks the delivery id as processed and reports whether it was
// seen before. Redis unavailability degrades to "not seen": redeliveries are
// then caught by the version check instead.
func (s *identitySyncService) seenDelivery(ctx context.Context, deliveryID string) bool {
	if s.cache == nil || deliveryID == "" {
		return false
	}
	key := fmt.Sprintf("identity:delivery:%s", deliveryID)
	ok, err := s.cache.SetNX(ctx, key, 1, deliveryGuardTTL).Result()
	if err != nil {
		s.logger.Warn().Err(err).Msg("delivery replay guard unavailable")
		return false
	}
	return !ok
}

func (s *identitySyncService) cleanName(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(s.sanitizer.Sanitize(*value))
}

// acceptableRole filters the provider's role hint. Hints never grant admin:
// privilege escalation goes through the explicit role-change endpoint only.
func (s *identitySyncService) acceptableRole(event dto.IdentityEventEnvelope) string {
	hint := rbac.ParseRole(event.RoleHint())
	if hint == "" {
		return ""
	}
	if hint == rbac.RoleAdmin {
		s.logger.Warn().
			Str("external_id", event.Data.ID).
			Msg("ignoring admin role hint from identity event")
		return ""
	}
	return string(hint)
}

func encodeMetadata(metadata map[string]interface{}) datatypes.JSON {
	if len(metadata) == 0 {
		return nil
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func (s *identitySyncService) lockFor(externalID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(externalID))
	return &s.locks[h.Sum32()%syncLockStripes]
}
