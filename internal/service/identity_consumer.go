package service

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/athlos-portal-api/internal/dto"
)

// IdentityEventConsumer feeds identity events from a NATS subject into the
// sync service. It is the second delivery channel next to the HTTP webhook;
// both carry the same provider payload.
type IdentityEventConsumer struct {
	conn    *nats.Conn
	subject string
	sync    IdentitySyncService
	logger  zerolog.Logger
}

// NewIdentityEventConsumer constructs the consumer.
func NewIdentityEventConsumer(conn *nats.Conn, subject string, sync IdentitySyncService, logger zerolog.Logger) *IdentityEventConsumer {
	return &IdentityEventConsumer{
		conn:    conn,
		subject: subject,
		sync:    sync,
		logger:  logger.With().Str("component", "identity_event_consumer").Logger(),
	}
}

// Start subscribes to the identity subject until the context ends. One bad
// message never stops consumption of subsequent, unrelated messages.
func (c *IdentityEventConsumer) Start(ctx context.Context) {
	if c.conn == nil || c.subject == "" {
		return
	}

	sub, err := c.conn.QueueSubscribe(c.subject, "athlos-identity-sync", func(msg *nats.Msg) {
		c.handleMessage(ctx, msg)
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to subscribe to identity events subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			c.logger.Warn().Err(err).Msg("failed to drain identity event subscription")
		}
	}()
}

func (c *IdentityEventConsumer) handleMessage(ctx context.Context, msg *nats.Msg) {
	var event dto.IdentityEventEnvelope
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		c.logger.Warn().Err(err).Msg("dropping undecodable identity event message")
		return
	}

	deliveryID := msg.Header.Get("Nats-Msg-Id")
	if _, err := c.sync.HandleEvent(ctx, event, deliveryID); err != nil {
		// Redelivery is the broker's job; the version check makes it safe.
		c.logger.Error().Err(err).Msg("identity event processing failed")
	}
}
