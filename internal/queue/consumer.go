package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// StartBookingConsumer connects to RabbitMQ, declares the durable booking
// queue and writes every event to audit. It reconnects with exponential
// backoff until ctx is cancelled, then returns ctx.Err().
func StartBookingConsumer(ctx context.Context, url, queue string, audit, log *zap.Logger) error {
	if queue == "" {
		queue = DefaultQueue
	}
	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn("booking consumer: dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, queue, audit, log)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("booking consumer: consume loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, queue string, audit, log *zap.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn("booking consumer: set QoS failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := handleMessage(d.Body, audit); err != nil {
				log.Warn("booking consumer: handle message failed", zap.Error(err))
				// reject without requeue to avoid a poison-message loop
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func handleMessage(body []byte, audit *zap.Logger) error {
	var ev BookingEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Type == "" || ev.BookingID == 0 {
		return errors.New("event without type or booking id")
	}
	audit.Info(string(ev.Type),
		zap.Int64("booking_id", ev.BookingID),
		zap.Int64("hotel_id", ev.HotelID),
		zap.String("hotel", ev.HotelName),
		zap.String("user_id", ev.UserID),
		zap.String("actor_id", ev.ActorID),
		zap.String("check_in", ev.CheckIn),
		zap.String("check_out", ev.CheckOut),
		zap.Int("guests", ev.Guests),
		zap.Int64("total_cents", ev.TotalCents),
		zap.String("status", ev.Status),
		zap.Time("occurred_at", ev.OccurredAt),
	)
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
