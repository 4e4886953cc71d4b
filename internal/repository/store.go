package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/hotel-listing-api/internal/dto"
	"github.com/iliyamo/hotel-listing-api/internal/model"
	"github.com/iliyamo/hotel-listing-api/internal/query"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// OverlapQuery asks whether a user already holds a live booking at a hotel
// that shares a night with Stay. ExcludeID skips the booking being updated;
// zero excludes nothing.
type OverlapQuery struct {
	HotelID   int64
	UserID    string
	Stay      model.DateRange
	ExcludeID int64
}

// BookingQuery selects one page of a hotel's bookings. An empty UserID
// lists every user's bookings.
type BookingQuery struct {
	HotelID int64
	UserID  string
	Filter  dto.BookingFilter
	Page    query.PageParams
}

// BookingTx is the set of booking operations that can run inside a
// transaction.
type BookingTx interface {
	FindHotel(ctx context.Context, id int64) (model.Hotel, error)
	AnyOverlap(ctx context.Context, q OverlapQuery) (bool, error)
	// Find loads a booking of a hotel. An empty userID skips the ownership filter.
	Find(ctx context.Context, bookingID, hotelID int64, userID string) (model.Booking, error)
	Insert(ctx context.Context, b *model.Booking) error
	Update(ctx context.Context, b *model.Booking) error
}

// BookingStore is the booking persistence used by the booking service.
type BookingStore interface {
	BookingTx
	List(ctx context.Context, q BookingQuery) ([]model.Booking, int, error)
	// InUserTx runs fn in a single transaction. Concurrent calls for the
	// same user are serialised, so a check-then-write inside fn is atomic.
	InUserTx(ctx context.Context, userID string, fn func(tx BookingTx) error) error
}

type HotelStore interface {
	Get(ctx context.Context, id int64) (model.Hotel, error)
	List(ctx context.Context, f dto.HotelFilter, p query.PageParams) ([]model.Hotel, int, error)
	ByCountry(ctx context.Context, countryID int64) ([]model.Hotel, error)
	PageByCountry(ctx context.Context, countryID int64, f dto.CountryFilter, p query.PageParams) ([]model.Hotel, int, error)
	ExistsByName(ctx context.Context, name string, countryID, excludeID int64) (bool, error)
	Create(ctx context.Context, h *model.Hotel) error
	Update(ctx context.Context, h *model.Hotel) error
	Delete(ctx context.Context, id int64) (bool, error)
	IsHotelAdmin(ctx context.Context, userID string, hotelID int64) (bool, error)
}

type CountryStore interface {
	List(ctx context.Context, f dto.CountryFilter) ([]model.Country, error)
	Get(ctx context.Context, id int64) (model.Country, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, c *model.Country) error
	Update(ctx context.Context, c *model.Country) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type UserStore interface {
	// Create inserts the user and, when adminOf is set, the hotel_admins row
	// in the same transaction.
	Create(ctx context.Context, u *model.User, adminOf *int64) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
}

type TokenStore interface {
	StoreRefresh(ctx context.Context, userID, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (string, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

type APIKeyStore interface {
	GetByKey(ctx context.Context, key string) (model.APIKey, error)
}

var (
	_ BookingStore = (*BookingRepo)(nil)
	_ HotelStore   = (*HotelRepo)(nil)
	_ CountryStore = (*CountryRepo)(nil)
	_ UserStore    = (*UserRepo)(nil)
	_ TokenStore   = (*TokenRepo)(nil)
	_ APIKeyStore  = (*APIKeyRepo)(nil)
)
