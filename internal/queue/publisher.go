package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher sends booking events to a durable RabbitMQ queue. Each call dials
// its own connection, so a broker outage never leaves a stale channel behind.
type Publisher struct {
	url   string
	queue string
	log   *zap.Logger
}

func NewPublisher(url, queue string, log *zap.Logger) *Publisher {
	if queue == "" {
		queue = DefaultQueue
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{url: url, queue: queue, log: log}
}

// Publish marshals ev and publishes it as a persistent message. Errors are
// logged and returned; callers decide whether to ignore them.
func (p *Publisher) Publish(ctx context.Context, ev BookingEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warn("rabbitmq dial failed", zap.Error(err))
		return fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("rabbitmq channel open failed", zap.Error(err))
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		p.queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		p.log.Warn("rabbitmq queue declare failed", zap.String("queue", p.queue), zap.Error(err))
		return fmt.Errorf("queue declare: %w", err)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         string(ev.Type),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		p.log.Warn("rabbitmq publish failed", zap.String("type", string(ev.Type)), zap.Error(err))
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, BookingEvent) error { return nil }
