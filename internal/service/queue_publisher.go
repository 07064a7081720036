// Package service holds outbound integrations used by the seating tools.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/gala-seating/internal/queue"
)

// AuditPublisher sends seating audit events to a durable RabbitMQ queue.
// Each publish dials its own connection; audit volume is one message per
// admin action.
type AuditPublisher struct {
	url   string
	queue string
	log   *zap.Logger
}

func NewAuditPublisher(url, queueName string, log *zap.Logger) *AuditPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuditPublisher{url: url, queue: queueName, log: log}
}

// PublishSeatingAudit publishes ev as a persistent JSON message.  Errors
// are logged and returned; callers treat them as non-fatal.
func (p *AuditPublisher) PublishSeatingAudit(ctx context.Context, ev queue.SeatingAuditEvent) error {
	log := p.log.With(zap.String("queue", p.queue), zap.String("run_id", ev.RunID))

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Warn("rabbitmq dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Warn("rabbitmq channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		log.Warn("rabbitmq queue declare failed", zap.Error(err))
		return err
	}
	err = ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.RunID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		log.Warn("rabbitmq publish failed", zap.Error(err))
	}
	return err
}
