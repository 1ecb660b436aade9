package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Temutjin2k/qglide-admin/internal/domain/models"
	"github.com/Temutjin2k/qglide-admin/pkg/logger"
	wrap "github.com/Temutjin2k/qglide-admin/pkg/logger/wrapper"
	"github.com/Temutjin2k/qglide-admin/pkg/metrics"
)

const (
	AuditExchange = "admin_audit"

	publishAttempts = 3
	publishBackoff  = 500 * time.Millisecond
)

// Channel is the part of the broker client the audit broker needs.
type Channel interface {
	EnsureConnection(ctx context.Context) error
	Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error
}

// AuditBroker publishes console mutations to a topic exchange under
// "admin.<entity>.<action>" routing keys.
type AuditBroker struct {
	client   Channel
	exchange string
	retries  int
	backoff  time.Duration

	l logger.Logger
}

func NewAuditBroker(client Channel, exchange string, log logger.Logger) *AuditBroker {
	if exchange == "" {
		exchange = AuditExchange
	}
	return &AuditBroker{
		client:   client,
		exchange: exchange,
		retries:  publishAttempts,
		backoff:  publishBackoff,
		l:        log,
	}
}

// RoutingKey is "admin." followed by the audit action, for example
// "admin.ticket.status_changed".
func RoutingKey(event models.AuditEvent) string {
	return "admin." + event.Action.String()
}

func (b *AuditBroker) Publish(ctx context.Context, event models.AuditEvent) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_publish_audit")
	if event.EntityID != "" {
		ctx = wrap.WithEntityID(ctx, event.EntityID)
	}

	if err := b.client.EnsureConnection(ctx); err != nil {
		b.l.Error(ctx, "ensure connection failed", err)
		metrics.RecordRabbitMQPublish("audit", b.exchange, err)
		return wrap.Error(ctx, err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to marshal audit event: %w", err))
	}

	key := RoutingKey(event)
	err = retry(ctx, b.retries, b.backoff, func() error {
		return b.client.Publish(ctx, b.exchange, key, amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			MessageId:     event.ID,
			CorrelationId: event.EntityID,
			Type:          event.Action.String(),
			Timestamp:     event.OccurredAt,
			Body:          body,
		})
	})
	metrics.RecordRabbitMQPublish("audit", b.exchange, err)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to publish %s: %w", key, err))
	}

	b.l.Debug(ctx, "audit event published", "routing_key", key, "event_id", event.ID)
	return nil
}
