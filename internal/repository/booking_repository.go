package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/hotel-listing-api/internal/model"
)

// BookingRepo stores bookings in MySQL. The zero-transaction form runs
// against the pool; InUserTx hands fn a copy bound to one *sql.Tx.
type BookingRepo struct {
	db *sql.DB
	q  querier
}

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db, q: db} }

const bookingColumns = `b.id, b.hotel_id, h.name, b.user_id, b.check_in, b.check_out, b.guests,
	b.total_price_cents, b.status, b.created_at_utc, b.updated_at_utc`

const bookingFrom = ` FROM bookings b JOIN hotels h ON h.id = b.hotel_id`

// InUserTx begins a transaction and locks the caller's users row so that
// two requests of the same user cannot both pass an overlap check before
// either writes. A caller without a users row runs unlocked.
func (r *BookingRepo) InUserTx(ctx context.Context, userID string, fn func(tx BookingTx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin booking tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var locked string
	err = tx.QueryRowContext(ctx, "SELECT id FROM users WHERE id = ? FOR UPDATE", userID).Scan(&locked)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("lock user %s: %w", userID, err)
	}

	if err := fn(&BookingRepo{db: r.db, q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit booking tx: %w", err)
	}
	committed = true
	return nil
}

func (r *BookingRepo) FindHotel(ctx context.Context, id int64) (model.Hotel, error) {
	return getHotel(ctx, r.q, id)
}

// AnyOverlap uses the half-open test existing.check_in < new.check_out AND
// existing.check_out > new.check_in over the user's live bookings.
func (r *BookingRepo) AnyOverlap(ctx context.Context, q OverlapQuery) (bool, error) {
	const sqlText = `SELECT EXISTS(
		SELECT 1 FROM bookings
		WHERE hotel_id = ? AND user_id = ? AND status <> ?
		  AND check_in < ? AND check_out > ? AND id <> ?)`
	var exists bool
	err := r.q.QueryRowContext(ctx, sqlText,
		q.HotelID, q.UserID, string(model.BookingCancelled),
		q.Stay.CheckOut, q.Stay.CheckIn, q.ExcludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("overlap check: %w", err)
	}
	return exists, nil
}

func (r *BookingRepo) Find(ctx context.Context, bookingID, hotelID int64, userID string) (model.Booking, error) {
	sqlText := `SELECT ` + bookingColumns + bookingFrom + ` WHERE b.id = ? AND b.hotel_id = ?`
	args := []any{bookingID, hotelID}
	if userID != "" {
		sqlText += ` AND b.user_id = ?`
		args = append(args, userID)
	}
	sqlText += ` LIMIT 1`

	b, err := scanBooking(r.q.QueryRowContext(ctx, sqlText, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, ErrBookingNotFound
	}
	if err != nil {
		return model.Booking{}, fmt.Errorf("find booking %d: %w", bookingID, err)
	}
	return b, nil
}

func (r *BookingRepo) Insert(ctx context.Context, b *model.Booking) error {
	const sqlText = `INSERT INTO bookings
		(hotel_id, user_id, check_in, check_out, guests, total_price_cents, status, created_at_utc)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.q.ExecContext(ctx, sqlText,
		b.HotelID, b.UserID, b.CheckIn, b.CheckOut, b.Guests, b.TotalPrice.Cents(), string(b.Status), b.CreatedAtUTC)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	b.ID = id
	return nil
}

func (r *BookingRepo) Update(ctx context.Context, b *model.Booking) error {
	const sqlText = `UPDATE bookings
		SET check_in = ?, check_out = ?, guests = ?, total_price_cents = ?, status = ?, updated_at_utc = ?
		WHERE id = ?`
	var updated sql.NullTime
	if b.UpdatedAtUTC != nil {
		updated = sql.NullTime{Time: *b.UpdatedAtUTC, Valid: true}
	}
	_, err := r.q.ExecContext(ctx, sqlText,
		b.CheckIn, b.CheckOut, b.Guests, b.TotalPrice.Cents(), string(b.Status), updated, b.ID)
	if err != nil {
		return fmt.Errorf("update booking %d: %w", b.ID, err)
	}
	return nil
}

// List counts and fetches one page using the same WHERE clause.
func (r *BookingRepo) List(ctx context.Context, q BookingQuery) ([]model.Booking, int, error) {
	spec := BookingSpec(q)
	cond, args := spec.WhereSQL()

	var total int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*)`+bookingFrom+` WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	page := q.Page.Normalize()
	dataSQL := `SELECT ` + bookingColumns + bookingFrom + ` WHERE ` + cond +
		` ORDER BY ` + spec.OrderSQL() + ` LIMIT ? OFFSET ?`
	rows, err := r.q.QueryContext(ctx, dataSQL, append(append([]any{}, args...), page.PageSize, page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	out := make([]model.Booking, 0, page.PageSize)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(s rowScanner) (model.Booking, error) {
	var (
		b       model.Booking
		cents   int64
		status  string
		updated sql.NullTime
	)
	if err := s.Scan(&b.ID, &b.HotelID, &b.HotelName, &b.UserID, &b.CheckIn, &b.CheckOut, &b.Guests,
		&cents, &status, &b.CreatedAtUTC, &updated); err != nil {
		return model.Booking{}, err
	}
	b.TotalPrice = model.Cents(cents)
	b.Status = model.BookingStatus(status)
	if updated.Valid {
		t := updated.Time.UTC()
		b.UpdatedAtUTC = &t
	}
	return b, nil
}
