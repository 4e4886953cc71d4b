package model

import (
	"errors"
	"strings"
	"time"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingConfirmed BookingStatus = "Confirmed"
	BookingCancelled BookingStatus = "Cancelled"
)

// ErrBookingCancelled is returned by mutators called on a cancelled booking.
var ErrBookingCancelled = errors.New("booking is cancelled")

// ParseBookingStatus matches a status name case-insensitively.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	for _, st := range []BookingStatus{BookingPending, BookingConfirmed, BookingCancelled} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, true
		}
	}
	return "", false
}

// Booking mirrors the bookings table. HotelName is filled on reads only.
type Booking struct {
	ID           int64
	HotelID      int64
	HotelName    string
	UserID       string
	CheckIn      Date
	CheckOut     Date
	Guests       int
	TotalPrice   Money
	Status       BookingStatus
	CreatedAtUTC time.Time
	UpdatedAtUTC *time.Time
}

// NewBooking prices a pending booking for the given hotel.
func NewBooking(hotel Hotel, userID string, stay DateRange, guests int, now time.Time) Booking {
	return Booking{
		HotelID:      hotel.ID,
		HotelName:    hotel.Name,
		UserID:       userID,
		CheckIn:      stay.CheckIn,
		CheckOut:     stay.CheckOut,
		Guests:       guests,
		TotalPrice:   hotel.PriceFor(stay),
		Status:       BookingPending,
		CreatedAtUTC: now.UTC(),
	}
}

func (b Booking) Stay() DateRange { return DateRange{CheckIn: b.CheckIn, CheckOut: b.CheckOut} }

func (b Booking) IsCancelled() bool { return b.Status == BookingCancelled }

// Reschedule replaces dates and guests and reprices at the hotel's current rate.
func (b *Booking) Reschedule(hotel Hotel, stay DateRange, guests int, now time.Time) error {
	if b.IsCancelled() {
		return ErrBookingCancelled
	}
	b.CheckIn = stay.CheckIn
	b.CheckOut = stay.CheckOut
	b.Guests = guests
	b.TotalPrice = hotel.PriceFor(stay)
	b.touch(now)
	return nil
}

// Cancel moves a live booking to Cancelled.
func (b *Booking) Cancel(now time.Time) error {
	if b.IsCancelled() {
		return ErrBookingCancelled
	}
	b.Status = BookingCancelled
	b.touch(now)
	return nil
}

// Confirm moves a live booking to Confirmed.
func (b *Booking) Confirm(now time.Time) error {
	if b.IsCancelled() {
		return ErrBookingCancelled
	}
	b.Status = BookingConfirmed
	b.touch(now)
	return nil
}

func (b *Booking) touch(now time.Time) {
	t := now.UTC()
	b.UpdatedAtUTC = &t
}
