package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/hotel-listing-api/internal/dto"
	"github.com/iliyamo/hotel-listing-api/internal/model"
	"github.com/iliyamo/hotel-listing-api/internal/query"
	"github.com/iliyamo/hotel-listing-api/internal/queue"
	"github.com/iliyamo/hotel-listing-api/internal/repository"
	"github.com/iliyamo/hotel-listing-api/internal/result"
)

// BookingService defines the booking rules: overlap detection, pricing and
// the Pending -> Confirmed | Cancelled lifecycle.
type BookingService interface {
	// ListBookingsForHotel lists every user's bookings of a hotel (admin view).
	ListBookingsForHotel(ctx context.Context, hotelID int64, page query.PageParams, filter dto.BookingFilter) result.Result[query.Paged[dto.BookingResponse]]

	// ListUserBookingsForHotel lists the caller's bookings of a hotel.
	ListUserBookingsForHotel(ctx context.Context, userID string, hotelID int64, page query.PageParams, filter dto.BookingFilter) result.Result[query.Paged[dto.BookingResponse]]

	// CreateBooking books a stay for the caller at req.HotelID.
	CreateBooking(ctx context.Context, userID string, req dto.CreateBookingRequest) result.Result[dto.BookingResponse]

	// UpdateBooking replaces the dates and guests of one of the caller's bookings.
	UpdateBooking(ctx context.Context, userID string, hotelID, bookingID int64, req dto.UpdateBookingRequest) result.Result[dto.BookingResponse]

	// PatchBooking changes some fields of one of the caller's bookings.
	PatchBooking(ctx context.Context, userID string, hotelID, bookingID int64, patch dto.PatchBookingRequest) result.Result[dto.BookingResponse]

	// CancelBooking cancels one of the caller's bookings.
	CancelBooking(ctx context.Context, userID string, hotelID, bookingID int64) result.Result[result.Unit]

	// AdminCancelBooking cancels any booking of a hotel.
	AdminCancelBooking(ctx context.Context, hotelID, bookingID int64) result.Result[result.Unit]

	// AdminConfirmBooking confirms any booking of a hotel.
	AdminConfirmBooking(ctx context.Context, hotelID, bookingID int64) result.Result[result.Unit]
}

// BookingServiceConfig contains optional collaborators of the booking service.
type BookingServiceConfig struct {
	Now    func() time.Time
	Logger *zap.Logger
}

type bookingService struct {
	store     repository.BookingStore
	publisher EventPublisher
	now       func() time.Time
	log       *zap.Logger
}

// NewBookingService creates a booking service. A nil publisher drops events.
func NewBookingService(store repository.BookingStore, publisher EventPublisher, cfg *BookingServiceConfig) BookingService {
	s := &bookingService{store: store, publisher: publisher, now: utcNow, log: zap.NewNop()}
	if cfg != nil {
		if cfg.Now != nil {
			s.now = cfg.Now
		}
		if cfg.Logger != nil {
			s.log = cfg.Logger
		}
	}
	if s.publisher == nil {
		s.publisher = queue.NoopPublisher{}
	}
	return s
}

var (
	errOverlap          = fail(result.Conflict, "The selected dates overlap with an existing booking.")
	errCancelledChange  = fail(result.Conflict, "Cancelled bookings cannot be modified.")
	errAlreadyCancelled = fail(result.Conflict, "This booking has already been cancelled.")
)

func hotelNotFound(id int64) abort {
	return fail(result.NotFound, fmt.Sprintf("Hotel '%d' was not found.", id))
}

func bookingNotFound(id int64) abort {
	return fail(result.NotFound, fmt.Sprintf("Booking '%d' was not found.", id))
}

func (s *bookingService) ListBookingsForHotel(ctx context.Context, hotelID int64, page query.PageParams, filter dto.BookingFilter) result.Result[query.Paged[dto.BookingResponse]] {
	return s.list(ctx, "booking.list", repository.BookingQuery{HotelID: hotelID, Filter: filter, Page: page})
}

func (s *bookingService) ListUserBookingsForHotel(ctx context.Context, userID string, hotelID int64, page query.PageParams, filter dto.BookingFilter) result.Result[query.Paged[dto.BookingResponse]] {
	return s.list(ctx, "booking.list_user", repository.BookingQuery{HotelID: hotelID, UserID: userID, Filter: filter, Page: page})
}

func (s *bookingService) list(ctx context.Context, op string, q repository.BookingQuery) result.Result[query.Paged[dto.BookingResponse]] {
	type paged = query.Paged[dto.BookingResponse]
	return result.Guard(s.log, op, "An unexpected error occurred while retrieving bookings.", func() (result.Result[paged], error) {
		if _, err := s.store.FindHotel(ctx, q.HotelID); err != nil {
			return settle[paged](hotelErr(err, q.HotelID), nil)
		}
		q.Page = q.Page.Normalize()
		items, total, err := s.store.List(ctx, q)
		if err != nil {
			return result.Result[paged]{}, err
		}
		return result.Success(query.MapPaged(query.NewPaged(items, q.Page, total), dto.BookingFromModel)), nil
	})
}

func (s *bookingService) CreateBooking(ctx context.Context, userID string, req dto.CreateBookingRequest) result.Result[dto.BookingResponse] {
	return result.Guard(s.log, "booking.create", "An unexpected error occurred while creating the booking.", func() (result.Result[dto.BookingResponse], error) {
		var created model.Booking
		err := s.store.InUserTx(ctx, userID, func(tx repository.BookingTx) error {
			overlap, err := tx.AnyOverlap(ctx, repository.OverlapQuery{HotelID: req.HotelID, UserID: userID, Stay: req.Stay()})
			if err != nil {
				return err
			}
			if overlap {
				return errOverlap
			}
			hotel, err := tx.FindHotel(ctx, req.HotelID)
			if err != nil {
				return hotelErr(err, req.HotelID)
			}
			created = model.NewBooking(hotel, userID, req.Stay(), req.Guests, s.now())
			return tx.Insert(ctx, &created)
		})
		return settle(err, func() result.Result[dto.BookingResponse] {
			s.publish(ctx, queue.BookingCreated, created, userID)
			return result.Success(dto.BookingFromModel(created))
		})
	})
}

func (s *bookingService) UpdateBooking(ctx context.Context, userID string, hotelID, bookingID int64, req dto.UpdateBookingRequest) result.Result[dto.BookingResponse] {
	return result.Guard(s.log, "booking.update", "An unexpected error occurred while updating the booking.", func() (result.Result[dto.BookingResponse], error) {
		var updated model.Booking
		err := s.store.InUserTx(ctx, userID, func(tx repository.BookingTx) error {
			var err error
			updated, err = s.reschedule(ctx, tx, userID, hotelID, bookingID, req)
			return err
		})
		return settle(err, func() result.Result[dto.BookingResponse] {
			s.publish(ctx, queue.BookingUpdated, updated, userID)
			return result.Success(dto.BookingFromModel(updated))
		})
	})
}

func (s *bookingService) PatchBooking(ctx context.Context, userID string, hotelID, bookingID int64, patch dto.PatchBookingRequest) result.Result[dto.BookingResponse] {
	return result.Guard(s.log, "booking.patch", "An unexpected error occurred while updating the booking.", func() (result.Result[dto.BookingResponse], error) {
		var updated model.Booking
		err := s.store.InUserTx(ctx, userID, func(tx repository.BookingTx) error {
			current, err := tx.Find(ctx, bookingID, hotelID, userID)
			if err != nil {
				return bookingErr(err, bookingID)
			}
			if current.IsCancelled() {
				return errCancelledChange
			}
			merged := patch.ApplyTo(current)
			if errs := merged.FullCheck(); len(errs) > 0 {
				return abort(errs)
			}
			updated, err = s.reschedule(ctx, tx, userID, hotelID, bookingID, merged)
			return err
		})
		return settle(err, func() result.Result[dto.BookingResponse] {
			s.publish(ctx, queue.BookingUpdated, updated, userID)
			return result.Success(dto.BookingFromModel(updated))
		})
	})
}

// reschedule runs the full-update rules inside tx: overlap excluding the
// booking itself, ownership, the cancelled guard, and repricing at the
// hotel's current rate.
func (s *bookingService) reschedule(ctx context.Context, tx repository.BookingTx, userID string, hotelID, bookingID int64, req dto.UpdateBookingRequest) (model.Booking, error) {
	overlap, err := tx.AnyOverlap(ctx, repository.OverlapQuery{HotelID: hotelID, UserID: userID, Stay: req.Stay(), ExcludeID: bookingID})
	if err != nil {
		return model.Booking{}, err
	}
	if overlap {
		return model.Booking{}, errOverlap
	}
	b, err := tx.Find(ctx, bookingID, hotelID, userID)
	if err != nil {
		return model.Booking{}, bookingErr(err, bookingID)
	}
	if b.IsCancelled() {
		return model.Booking{}, errCancelledChange
	}
	hotel, err := tx.FindHotel(ctx, hotelID)
	if err != nil {
		return model.Booking{}, hotelErr(err, hotelID)
	}
	if err := b.Reschedule(hotel, req.Stay(), req.Guests, s.now()); err != nil {
		return model.Booking{}, errCancelledChange
	}
	if err := tx.Update(ctx, &b); err != nil {
		return model.Booking{}, err
	}
	return b, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, userID string, hotelID, bookingID int64) result.Result[result.Unit] {
	return result.Guard(s.log, "booking.cancel", "An unexpected error occurred while cancelling the booking.", func() (result.Result[result.Unit], error) {
		var b model.Booking
		err := s.store.InUserTx(ctx, userID, func(tx repository.BookingTx) error {
			var err error
			b, err = s.transition(ctx, tx, hotelID, bookingID, userID, (*model.Booking).Cancel)
			return err
		})
		return settle(err, func() result.Result[result.Unit] {
			s.publish(ctx, queue.BookingCancelled, b, userID)
			return result.Ok()
		})
	})
}

func (s *bookingService) AdminCancelBooking(ctx context.Context, hotelID, bookingID int64) result.Result[result.Unit] {
	return result.Guard(s.log, "booking.admin_cancel", "An unexpected error occurred while cancelling the booking.", func() (result.Result[result.Unit], error) {
		b, err := s.transition(ctx, s.store, hotelID, bookingID, "", (*model.Booking).Cancel)
		return settle(err, func() result.Result[result.Unit] {
			s.publish(ctx, queue.BookingCancelled, b, "")
			return result.Ok()
		})
	})
}

func (s *bookingService) AdminConfirmBooking(ctx context.Context, hotelID, bookingID int64) result.Result[result.Unit] {
	return result.Guard(s.log, "booking.admin_confirm", "An unexpected error occurred while confirming the booking.", func() (result.Result[result.Unit], error) {
		b, err := s.transition(ctx, s.store, hotelID, bookingID, "", (*model.Booking).Confirm)
		return settle(err, func() result.Result[result.Unit] {
			s.publish(ctx, queue.BookingConfirmed, b, "")
			return result.Ok()
		})
	})
}

// transition loads a booking (owned by userID unless it is empty), applies
// a status change and persists it. A cancelled booking is never changed.
func (s *bookingService) transition(ctx context.Context, tx repository.BookingTx, hotelID, bookingID int64, userID string, change func(*model.Booking, time.Time) error) (model.Booking, error) {
	b, err := tx.Find(ctx, bookingID, hotelID, userID)
	if err != nil {
		return model.Booking{}, bookingErr(err, bookingID)
	}
	if err := change(&b, s.now()); err != nil {
		if errors.Is(err, model.ErrBookingCancelled) {
			return model.Booking{}, errAlreadyCancelled
		}
		return model.Booking{}, err
	}
	if err := tx.Update(ctx, &b); err != nil {
		return model.Booking{}, err
	}
	return b, nil
}

// publish sends the event for a committed change. Failures are logged only.
func (s *bookingService) publish(ctx context.Context, typ queue.EventType, b model.Booking, actorID string) {
	ev := queue.BookingEvent{
		Type:       typ,
		BookingID:  b.ID,
		HotelID:    b.HotelID,
		HotelName:  b.HotelName,
		UserID:     b.UserID,
		ActorID:    actorID,
		CheckIn:    b.CheckIn.String(),
		CheckOut:   b.CheckOut.String(),
		Guests:     b.Guests,
		TotalCents: b.TotalPrice.Cents(),
		Status:     string(b.Status),
		OccurredAt: s.now(),
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Warn("publish booking event failed",
			zap.String("type", string(typ)),
			zap.Int64("booking_id", b.ID),
			zap.Error(err),
		)
	}
}

func hotelErr(err error, id int64) error {
	if errors.Is(err, repository.ErrHotelNotFound) {
		return hotelNotFound(id)
	}
	return err
}

func bookingErr(err error, id int64) error {
	if errors.Is(err, repository.ErrBookingNotFound) {
		return bookingNotFound(id)
	}
	return err
}
