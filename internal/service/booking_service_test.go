package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-listing-api/internal/dto"
	"github.com/iliyamo/hotel-listing-api/internal/model"
	"github.com/iliyamo/hotel-listing-api/internal/query"
	"github.com/iliyamo/hotel-listing-api/internal/queue"
	"github.com/iliyamo/hotel-listing-api/internal/repository"
	"github.com/iliyamo/hotel-listing-api/internal/repository/memstore"
	"github.com/iliyamo/hotel-listing-api/internal/result"
)

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, ev queue.BookingEvent) error {
	return m.Called(ctx, ev).Error(0)
}

var fixedNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type bookingFixture struct {
	store *memstore.Store
	hotel model.Hotel
	svc   BookingService
}

func newBookingFixture(t *testing.T, pub EventPublisher) bookingFixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()
	country := model.Country{Name: "Jamaica", ShortName: "JM"}
	require.NoError(t, store.Countries.Create(ctx, &country))
	hotel := model.Hotel{Name: "Seaside", Address: "1 Beach Rd", Rating: 4.5, PerNightRate: model.Units(100), CountryID: country.ID}
	require.NoError(t, store.Hotels.Create(ctx, &hotel))

	svc := NewBookingService(store.Bookings, pub, &BookingServiceConfig{
		Now:    func() time.Time { return fixedNow },
		Logger: zap.NewNop(),
	})
	return bookingFixture{store: store, hotel: hotel, svc: svc}
}

func stay(in, out string) (model.Date, model.Date) {
	return model.MustParseDate(in), model.MustParseDate(out)
}

func (f bookingFixture) create(t *testing.T, userID, in, out string, guests int) result.Result[dto.BookingResponse] {
	t.Helper()
	ci, co := stay(in, out)
	return f.svc.CreateBooking(context.Background(), userID, dto.CreateBookingRequest{
		HotelID: f.hotel.ID, CheckIn: ci, CheckOut: co, Guests: guests,
	})
}

func (f bookingFixture) status(t *testing.T, id int64) model.BookingStatus {
	t.Helper()
	b, err := f.store.Bookings.Find(context.Background(), id, f.hotel.ID, "")
	require.NoError(t, err)
	return b.Status
}

func TestBookingScenarios(t *testing.T) {
	f := newBookingFixture(t, nil)
	ctx := context.Background()

	// A: first booking is priced per night and pending.
	first := f.create(t, "u1", "2024-01-01", "2024-01-04", 2)
	require.True(t, first.IsSuccess(), first.Describe())
	assert.Equal(t, model.Units(300), first.Value().TotalPrice)
	assert.Equal(t, "Pending", first.Value().Status)
	assert.Equal(t, "Seaside", first.Value().HotelName)
	assert.Equal(t, fixedNow, first.Value().CreatedAtUTC)
	assert.Nil(t, first.Value().UpdatedAtUTC)

	// B: overlapping stay of the same user conflicts.
	second := f.create(t, "u1", "2024-01-03", "2024-01-05", 1)
	require.True(t, second.IsFailure())
	assert.Equal(t, result.Conflict, second.FirstCode())
	assert.Equal(t, "The selected dates overlap with an existing booking.", second.Describe())

	// C: a cancelled booking no longer blocks the dates.
	cancel := f.svc.CancelBooking(ctx, "u1", f.hotel.ID, first.Value().ID)
	require.True(t, cancel.IsSuccess(), cancel.Describe())
	third := f.create(t, "u1", "2024-01-03", "2024-01-05", 1)
	require.True(t, third.IsSuccess(), third.Describe())
	assert.Equal(t, model.Units(200), third.Value().TotalPrice)

	// D: confirming a cancelled booking conflicts and leaves it cancelled.
	confirm := f.svc.AdminConfirmBooking(ctx, f.hotel.ID, first.Value().ID)
	require.True(t, confirm.IsFailure())
	assert.Equal(t, result.Conflict, confirm.FirstCode())
	assert.Equal(t, model.BookingCancelled, f.status(t, first.Value().ID))
}

func TestBookingScenario_PriceDescendingPage(t *testing.T) {
	f := newBookingFixture(t, nil)
	for i := 0; i < 15; i++ {
		in := model.MustParseDate("2024-02-01")
		r := f.svc.CreateBooking(context.Background(), "user-"+string(rune('a'+i)), dto.CreateBookingRequest{
			HotelID: f.hotel.ID, CheckIn: in, CheckOut: in.AddDays(i + 1), Guests: 1,
		})
		require.True(t, r.IsSuccess(), r.Describe())
	}

	res := f.svc.ListBookingsForHotel(context.Background(), f.hotel.ID,
		query.PageParams{PageNumber: 1, PageSize: 10},
		dto.BookingFilter{SortBy: "price", SortDescending: true})
	require.True(t, res.IsSuccess(), res.Describe())

	page := res.Value()
	require.Len(t, page.Data, 10)
	assert.Equal(t, model.Units(1500), page.Data[0].TotalPrice)
	for i := 1; i < len(page.Data); i++ {
		assert.Greater(t, page.Data[i-1].TotalPrice, page.Data[i].TotalPrice)
	}
	assert.Equal(t, query.Metadata{CurrentPage: 1, PageSize: 10, TotalCount: 15, TotalPages: 2, HasNext: true}, page.Metadata)
}

func TestBookingService_TotalPriceIgnoresCallerAndFollowsRate(t *testing.T) {
	f := newBookingFixture(t, nil)
	ctx := context.Background()

	created := f.create(t, "u1", "2024-03-01", "2024-03-03", 2)
	require.True(t, created.IsSuccess())
	assert.Equal(t, model.Units(200), created.Value().TotalPrice)

	h := f.hotel
	h.PerNightRate = model.Cents(12550)
	require.NoError(t, f.store.Hotels.Update(ctx, &h))

	// moving inside the booking's own range must not conflict with itself
	ci, co := stay("2024-03-02", "2024-03-05")
	updated := f.svc.UpdateBooking(ctx, "u1", f.hotel.ID, created.Value().ID, dto.UpdateBookingRequest{CheckIn: ci, CheckOut: co, Guests: 3})
	require.True(t, updated.IsSuccess(), updated.Describe())
	assert.Equal(t, model.Cents(3*12550), updated.Value().TotalPrice)
	assert.Equal(t, 3, updated.Value().Guests)
	require.NotNil(t, updated.Value().UpdatedAtUTC)
	assert.Equal(t, fixedNow, *updated.Value().UpdatedAtUTC)
}

func TestBookingService_UpdateRules(t *testing.T) {
	f := newBookingFixture(t, nil)
	ctx := context.Background()

	a := f.create(t, "u1", "2024-04-01", "2024-04-03", 1).Value()
	b := f.create(t, "u1", "2024-04-05", "2024-04-07", 1).Value()
	other := f.create(t, "u2", "2024-04-01", "2024-04-03", 1).Value()

	ci, co := stay("2024-04-02", "2024-04-06")
	req := dto.UpdateBookingRequest{CheckIn: ci, CheckOut: co, Guests: 1}

	t.Run("overlap with another own booking", func(t *testing.T) {
		r := f.svc.UpdateBooking(ctx, "u1", f.hotel.ID, b.ID, req)
		assert.Equal(t, result.Conflict, r.FirstCode())
	})

	t.Run("other user's booking is not found", func(t *testing.T) {
		free := model.MustParseDate("2024-04-10")
		r := f.svc.UpdateBooking(ctx, "u1", f.hotel.ID, other.ID, dto.UpdateBookingRequest{CheckIn: free, CheckOut: free.AddDays(1), Guests: 1})
		assert.Equal(t, result.NotFound, r.FirstCode())
		assert.Equal(t, "Booking '3' was not found.", r.Describe())
	})

	t.Run("wrong hotel is not found", func(t *testing.T) {
		r := f.svc.UpdateBooking(ctx, "u1", f.hotel.ID+99, a.ID, req)
		assert.Equal(t, result.NotFound, r.FirstCode())
	})

	t.Run("cancelled booking is immutable", func(t *testing.T) {
		require.True(t, f.svc.CancelBooking(ctx, "u2", f.hotel.ID, other.ID).IsSuccess())
		r := f.svc.UpdateBooking(ctx, "u2", f.hotel.ID, other.ID, dto.UpdateBookingRequest{CheckIn: ci, CheckOut: co, Guests: 4})
		assert.Equal(t, result.Conflict, r.FirstCode())
		assert.Equal(t, "Cancelled bookings cannot be modified.", r.Describe())

		got, err := f.store.Bookings.Find(ctx, other.ID, f.hotel.ID, "")
		require.NoError(t, err)
		assert.Equal(t, 1, got.Guests)
		assert.Equal(t, "2024-04-01", got.CheckIn.String())
	})
}

func TestBookingService_Patch(t *testing.T) {
	f := newBookingFixture(t, nil)
	ctx := context.Background()
	b := f.create(t, "u1", "2024-05-01", "2024-05-03", 2).Value()

	guests := 4
	r := f.svc.PatchBooking(ctx, "u1", f.hotel.ID, b.ID, dto.PatchBookingRequest{Guests: &guests})
	require.True(t, r.IsSuccess(), r.Describe())
	assert.Equal(t, 4, r.Value().Guests)
	assert.Equal(t, "2024-05-01", r.Value().CheckIn.String())
	assert.Equal(t, model.Units(200), r.Value().TotalPrice)

	out := model.MustParseDate("2024-05-06")
	r = f.svc.PatchBooking(ctx, "u1", f.hotel.ID, b.ID, dto.PatchBookingRequest{CheckOut: &out})
	require.True(t, r.IsSuccess(), r.Describe())
	assert.Equal(t, model.Units(500), r.Value().TotalPrice)

	early := model.MustParseDate("2024-04-20")
	r = f.svc.PatchBooking(ctx, "u1", f.hotel.ID, b.ID, dto.PatchBookingRequest{CheckOut: &early})
	assert.Equal(t, result.Validation, r.FirstCode())
	assert.Equal(t, "CheckOut must be after CheckIn.", r.Describe())

	tooMany := 11
	r = f.svc.PatchBooking(ctx, "u1", f.hotel.ID, b.ID, dto.PatchBookingRequest{Guests: &tooMany})
	assert.Equal(t, result.Validation, r.FirstCode())

	r = f.svc.PatchBooking(ctx, "someone-else", f.hotel.ID, b.ID, dto.PatchBookingRequest{Guests: &guests})
	assert.Equal(t, result.NotFound, r.FirstCode())
}

func TestBookingService_PatchCancelledIsConflict(t *testing.T) {
	f := newBookingFixture(t, nil)
	ctx := context.Background()
	b := f.create(t, "u1", "2024-05-01", "2024-05-03", 2).Value()
	require.True(t, f.svc.CancelBooking(ctx, "u1", f.hotel.ID, b.ID).IsSuccess())

	tooMany := 11
	r := f.svc.PatchBooking(ctx, "u1", f.hotel.ID, b.ID, dto.PatchBookingRequest{Guests: &tooMany})
	assert.Equal(t, result.Conflict, r.FirstCode())

	early := model.MustParseDate("2024-04-20")
	r = f.svc.PatchBooking(ctx, "u1", f.hotel.ID, b.ID, dto.PatchBookingRequest{CheckOut: &early})
	assert.Equal(t, result.Conflict, r.FirstCode())

	guests := 3
	r = f.svc.PatchBooking(ctx, "u1", f.hotel.ID, b.ID, dto.PatchBookingRequest{Guests: &guests})
	assert.Equal(t, result.Conflict, r.FirstCode())
	assert.Equal(t, model.BookingCancelled, f.status(t, b.ID))
}

func TestBookingService_FailedTxKeepsAdminWrites(t *testing.T) {
	f := newBookingFixture(t, nil)
	ctx := context.Background()
	mine := f.create(t, "u1", "2024-08-01", "2024-08-03", 1).Value()
	theirs := f.create(t, "u2", "2024-08-01", "2024-08-03", 1).Value()

	boom := errors.New("boom")
	err := f.store.Bookings.InUserTx(ctx, "u1", func(tx repository.BookingTx) error {
		b, err := tx.Find(ctx, mine.ID, f.hotel.ID, "u1")
		require.NoError(t, err)
		b.Guests = 5
		require.NoError(t, tx.Update(ctx, &b))
		extra := model.Booking{HotelID: f.hotel.ID, UserID: "u1", Guests: 1, Status: model.BookingPending}
		require.NoError(t, tx.Insert(ctx, &extra))

		confirm := f.svc.AdminConfirmBooking(ctx, f.hotel.ID, theirs.ID)
		require.True(t, confirm.IsSuccess(), confirm.Describe())
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.Equal(t, model.BookingConfirmed, f.status(t, theirs.ID))
	got, err := f.store.Bookings.Find(ctx, mine.ID, f.hotel.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Guests)

	list := f.svc.ListBookingsForHotel(ctx, f.hotel.ID, query.PageParams{}, dto.BookingFilter{})
	require.True(t, list.IsSuccess())
	assert.Equal(t, 2, list.Value().Metadata.TotalCount)
}

func TestBookingService_HugePageNumberIsEmptyPage(t *testing.T) {
	f := newBookingFixture(t, nil)
	f.create(t, "u1", "2024-09-01", "2024-09-02", 1)

	r := f.svc.ListBookingsForHotel(context.Background(), f.hotel.ID, query.PageParams{PageNumber: math.MaxInt, PageSize: 10}, dto.BookingFilter{})
	require.True(t, r.IsSuccess(), r.Describe())
	assert.Empty(t, r.Value().Data)
	assert.Equal(t, 1, r.Value().Metadata.TotalCount)
	assert.False(t, r.Value().Metadata.HasNext)
}

func TestBookingService_CancelAndAdmin(t *testing.T) {
	f := newBookingFixture(t, nil)
	ctx := context.Background()
	b := f.create(t, "u1", "2024-06-01", "2024-06-02", 1).Value()

	assert.Equal(t, result.NotFound, f.svc.CancelBooking(ctx, "u2", f.hotel.ID, b.ID).FirstCode())

	confirm := f.svc.AdminConfirmBooking(ctx, f.hotel.ID, b.ID)
	require.True(t, confirm.IsSuccess(), confirm.Describe())
	assert.Equal(t, model.BookingConfirmed, f.status(t, b.ID))

	cancel := f.svc.AdminCancelBooking(ctx, f.hotel.ID, b.ID)
	require.True(t, cancel.IsSuccess(), cancel.Describe())
	assert.Equal(t, model.BookingCancelled, f.status(t, b.ID))

	again := f.svc.CancelBooking(ctx, "u1", f.hotel.ID, b.ID)
	assert.Equal(t, result.Conflict, again.FirstCode())
	assert.Equal(t, "This booking has already been cancelled.", again.Describe())
	assert.Equal(t, result.Conflict, f.svc.AdminCancelBooking(ctx, f.hotel.ID, b.ID).FirstCode())
	assert.Equal(t, result.NotFound, f.svc.AdminConfirmBooking(ctx, f.hotel.ID, 999).FirstCode())
}

func TestBookingService_CreateForMissingHotel(t *testing.T) {
	f := newBookingFixture(t, nil)
	ci, co := stay("2024-01-01", "2024-01-02")
	r := f.svc.CreateBooking(context.Background(), "u1", dto.CreateBookingRequest{HotelID: 404, CheckIn: ci, CheckOut: co, Guests: 1})
	assert.Equal(t, result.NotFound, r.FirstCode())
	assert.Equal(t, "Hotel '404' was not found.", r.Describe())
}

func TestBookingService_Lists(t *testing.T) {
	f := newBookingFixture(t, nil)
	ctx := context.Background()
	f.create(t, "u1", "2024-07-01", "2024-07-02", 1)
	f.create(t, "u1", "2024-07-05", "2024-07-08", 1)
	f.create(t, "u2", "2024-07-01", "2024-07-03", 1)

	all := f.svc.ListBookingsForHotel(ctx, f.hotel.ID, query.PageParams{}, dto.BookingFilter{})
	require.True(t, all.IsSuccess())
	assert.Equal(t, 3, all.Value().Metadata.TotalCount)
	assert.Equal(t, query.DefaultPageSize, all.Value().Metadata.PageSize)

	mine := f.svc.ListUserBookingsForHotel(ctx, "u1", f.hotel.ID, query.PageParams{}, dto.BookingFilter{SortBy: "bogus"})
	require.True(t, mine.IsSuccess())
	require.Len(t, mine.Value().Data, 2)
	assert.Equal(t, "2024-07-01", mine.Value().Data[0].CheckIn.String())
	assert.Equal(t, "2024-07-05", mine.Value().Data[1].CheckIn.String())

	missing := f.svc.ListBookingsForHotel(ctx, 404, query.PageParams{}, dto.BookingFilter{})
	assert.Equal(t, result.NotFound, missing.FirstCode())
}

func TestBookingService_PublishesAfterCommit(t *testing.T) {
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(ev queue.BookingEvent) bool {
		return ev.Type == queue.BookingCreated && ev.UserID == "u1" && ev.TotalCents == 30000
	})).Return(errors.New("broker down")).Once()
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(ev queue.BookingEvent) bool {
		return ev.Type == queue.BookingConfirmed && ev.Status == "Confirmed"
	})).Return(nil).Once()

	f := newBookingFixture(t, pub)
	created := f.create(t, "u1", "2024-01-01", "2024-01-04", 2)
	require.True(t, created.IsSuccess(), "publish failures must not fail the booking")

	// a rejected booking publishes nothing
	require.True(t, f.create(t, "u1", "2024-01-02", "2024-01-03", 1).IsFailure())

	require.True(t, f.svc.AdminConfirmBooking(context.Background(), f.hotel.ID, created.Value().ID).IsSuccess())
	pub.AssertExpectations(t)
}

// brokenStore fails every overlap query.
type brokenStore struct {
	repository.BookingStore
	err error
}

func (s brokenStore) InUserTx(_ context.Context, _ string, fn func(repository.BookingTx) error) error {
	return fn(s)
}

func (s brokenStore) AnyOverlap(context.Context, repository.OverlapQuery) (bool, error) {
	return false, s.err
}

func TestBookingService_UnexpectedErrorsBecomeFailure(t *testing.T) {
	svc := NewBookingService(brokenStore{err: errors.New("connection reset")}, nil, nil)
	ci, co := stay("2024-01-01", "2024-01-02")

	r := svc.CreateBooking(context.Background(), "u1", dto.CreateBookingRequest{HotelID: 1, CheckIn: ci, CheckOut: co, Guests: 1})
	require.True(t, r.IsFailure())
	assert.Equal(t, result.Failure, r.FirstCode())
	assert.Equal(t, "An unexpected error occurred while creating the booking.", r.Describe())
	assert.NotContains(t, r.Describe(), "connection reset")
}

func TestBookingService_CancelledContextLeavesNoBooking(t *testing.T) {
	f := newBookingFixture(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ci, co := stay("2024-01-01", "2024-01-02")
	r := f.svc.CreateBooking(ctx, "u1", dto.CreateBookingRequest{HotelID: f.hotel.ID, CheckIn: ci, CheckOut: co, Guests: 1})
	assert.Equal(t, result.Failure, r.FirstCode())

	list := f.svc.ListBookingsForHotel(context.Background(), f.hotel.ID, query.PageParams{}, dto.BookingFilter{})
	require.True(t, list.IsSuccess())
	assert.Zero(t, list.Value().Metadata.TotalCount)
}
