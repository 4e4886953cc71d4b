// Package dto defines request and response shapes for the HTTP API and the
// hand-written mappers between them and the model types.
package dto

import (
	"time"

	"github.com/iliyamo/hotel-listing-api/internal/model"
	"github.com/iliyamo/hotel-listing-api/internal/result"
)

const (
	MinGuests = 1
	MaxGuests = 10
)

// CreateBookingRequest is the body of POST /api/hotels/:hotelId/bookings.
// HotelID may be omitted; the route value is used then.
type CreateBookingRequest struct {
	HotelID  int64      `json:"hotelId" validate:"gte=0"`
	CheckIn  model.Date `json:"checkIn"`
	CheckOut model.Date `json:"checkOut"`
	Guests   int        `json:"guests" validate:"min=1,max=10"`
}

func (r CreateBookingRequest) Stay() model.DateRange {
	return model.DateRange{CheckIn: r.CheckIn, CheckOut: r.CheckOut}
}

// Check reports date errors the struct tags cannot express.
func (r CreateBookingRequest) Check() []result.Error { return checkStay(r.Stay()) }

// UpdateBookingRequest is the body of PUT .../bookings/:bookingId.
type UpdateBookingRequest struct {
	CheckIn  model.Date `json:"checkIn"`
	CheckOut model.Date `json:"checkOut"`
	Guests   int        `json:"guests" validate:"min=1,max=10"`
}

func (r UpdateBookingRequest) Stay() model.DateRange {
	return model.DateRange{CheckIn: r.CheckIn, CheckOut: r.CheckOut}
}

func (r UpdateBookingRequest) Check() []result.Error { return checkStay(r.Stay()) }

// PatchBookingRequest carries the fields a partial update may change.
// Nil means "keep the current value".
type PatchBookingRequest struct {
	CheckIn  *model.Date `json:"checkIn"`
	CheckOut *model.Date `json:"checkOut"`
	Guests   *int        `json:"guests"`
}

// Empty reports whether the patch changes nothing.
func (p PatchBookingRequest) Empty() bool {
	return p.CheckIn == nil && p.CheckOut == nil && p.Guests == nil
}

// ApplyTo merges the patch onto b's current values. The merged request
// must pass the same checks as a full update.
func (p PatchBookingRequest) ApplyTo(b model.Booking) UpdateBookingRequest {
	out := UpdateBookingRequest{CheckIn: b.CheckIn, CheckOut: b.CheckOut, Guests: b.Guests}
	if p.CheckIn != nil {
		out.CheckIn = *p.CheckIn
	}
	if p.CheckOut != nil {
		out.CheckOut = *p.CheckOut
	}
	if p.Guests != nil {
		out.Guests = *p.Guests
	}
	return out
}

// FullCheck validates every rule of UpdateBookingRequest, including the
// guest bounds normally enforced by struct tags.
func (r UpdateBookingRequest) FullCheck() []result.Error {
	errs := r.Check()
	if r.Guests < MinGuests || r.Guests > MaxGuests {
		errs = append(errs, result.NewError(result.Validation, "Guests must be between 1 and 10."))
	}
	return errs
}

func checkStay(stay model.DateRange) []result.Error {
	var errs []result.Error
	if stay.CheckIn.IsZero() {
		errs = append(errs, result.NewError(result.Validation, "CheckIn is required."))
	}
	if stay.CheckOut.IsZero() {
		errs = append(errs, result.NewError(result.Validation, "CheckOut is required."))
	}
	if len(errs) == 0 && !stay.Valid() {
		errs = append(errs, result.NewError(result.Validation, "CheckOut must be after CheckIn."))
	}
	return errs
}

// BookingResponse is the wire form of a booking.
type BookingResponse struct {
	ID           int64       `json:"id"`
	HotelID      int64       `json:"hotelId"`
	HotelName    string      `json:"hotelName"`
	CheckIn      model.Date  `json:"checkIn"`
	CheckOut     model.Date  `json:"checkOut"`
	Guests       int         `json:"guests"`
	TotalPrice   model.Money `json:"totalPrice"`
	Status       string      `json:"status"`
	CreatedAtUTC time.Time   `json:"createdAtUtc"`
	UpdatedAtUTC *time.Time  `json:"updatedAtUtc,omitempty"`
}

// BookingFromModel maps a booking row to its response.
func BookingFromModel(b model.Booking) BookingResponse {
	return BookingResponse{
		ID:           b.ID,
		HotelID:      b.HotelID,
		HotelName:    b.HotelName,
		CheckIn:      b.CheckIn,
		CheckOut:     b.CheckOut,
		Guests:       b.Guests,
		TotalPrice:   b.TotalPrice,
		Status:       string(b.Status),
		CreatedAtUTC: b.CreatedAtUTC,
		UpdatedAtUTC: b.UpdatedAtUTC,
	}
}

// BookingFilter holds the optional filters of the booking listings.
type BookingFilter struct {
	Status         *model.BookingStatus
	CheckInFrom    *model.Date
	CheckInTo      *model.Date
	CheckOutFrom   *model.Date
	CheckOutTo     *model.Date
	MinPrice       *model.Money
	MaxPrice       *model.Money
	MinGuests      *int
	MaxGuests      *int
	CreatedAfter   *time.Time
	CreatedBefore  *time.Time
	Search         string
	SortBy         string
	SortDescending bool
}
