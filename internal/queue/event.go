// Package queue defines the booking event payloads exchanged over RabbitMQ,
// the publisher used by the booking service, and the audit consumer.
package queue

import "time"

// EventType names a booking lifecycle transition.
type EventType string

const (
	BookingCreated   EventType = "booking.created"
	BookingUpdated   EventType = "booking.updated"
	BookingCancelled EventType = "booking.cancelled"
	BookingConfirmed EventType = "booking.confirmed"
)

// DefaultQueue is used when RABBITMQ_QUEUE is unset.
const DefaultQueue = "booking.events"

// BookingEvent is published after a booking change has been committed. It
// carries enough for downstream consumers to log or notify without querying
// the primary database.
type BookingEvent struct {
	Type       EventType `json:"type"`
	BookingID  int64     `json:"booking_id"`
	HotelID    int64     `json:"hotel_id"`
	HotelName  string    `json:"hotel_name"`
	UserID     string    `json:"user_id"`
	ActorID    string    `json:"actor_id,omitempty"`
	CheckIn    string    `json:"check_in"`
	CheckOut   string    `json:"check_out"`
	Guests     int       `json:"guests"`
	TotalCents int64     `json:"total_cents"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}
