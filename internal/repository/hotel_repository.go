package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/hotel-listing-api/internal/dto"
	"github.com/iliyamo/hotel-listing-api/internal/model"
	"github.com/iliyamo/hotel-listing-api/internal/query"
)

// HotelRepo provides hotel CRUD, listings and the hotel_admins lookup.
type HotelRepo struct {
	db *sql.DB
}

func NewHotelRepo(db *sql.DB) *HotelRepo { return &HotelRepo{db: db} }

const hotelColumns = `h.id, h.name, h.address, h.rating, h.per_night_rate_cents, h.country_id, c.name`

const hotelFrom = ` FROM hotels h JOIN countries c ON c.id = h.country_id`

func getHotel(ctx context.Context, q querier, id int64) (model.Hotel, error) {
	h, err := scanHotel(q.QueryRowContext(ctx, `SELECT `+hotelColumns+hotelFrom+` WHERE h.id = ? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Hotel{}, ErrHotelNotFound
	}
	if err != nil {
		return model.Hotel{}, fmt.Errorf("get hotel %d: %w", id, err)
	}
	return h, nil
}

func (r *HotelRepo) Get(ctx context.Context, id int64) (model.Hotel, error) {
	return getHotel(ctx, r.db, id)
}

func (r *HotelRepo) List(ctx context.Context, f dto.HotelFilter, p query.PageParams) ([]model.Hotel, int, error) {
	return r.page(ctx, HotelSpec(f), p)
}

func (r *HotelRepo) PageByCountry(ctx context.Context, countryID int64, f dto.CountryFilter, p query.PageParams) ([]model.Hotel, int, error) {
	return r.page(ctx, CountryHotelsSpec(countryID, f), p)
}

func (r *HotelRepo) page(ctx context.Context, spec *query.Spec[model.Hotel], p query.PageParams) ([]model.Hotel, int, error) {
	cond, args := spec.WhereSQL()

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*)`+hotelFrom+` WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count hotels: %w", err)
	}

	p = p.Normalize()
	dataSQL := `SELECT ` + hotelColumns + hotelFrom + ` WHERE ` + cond +
		` ORDER BY ` + spec.OrderSQL() + ` LIMIT ? OFFSET ?`
	hotels, err := r.query(ctx, dataSQL, append(append([]any{}, args...), p.PageSize, p.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	return hotels, total, nil
}

func (r *HotelRepo) ByCountry(ctx context.Context, countryID int64) ([]model.Hotel, error) {
	return r.query(ctx, `SELECT `+hotelColumns+hotelFrom+` WHERE h.country_id = ? ORDER BY h.name ASC, h.id ASC`, countryID)
}

func (r *HotelRepo) query(ctx context.Context, sqlText string, args ...any) ([]model.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	defer rows.Close()

	out := []model.Hotel{}
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan hotel: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// ExistsByName compares trimmed, lower-cased names within one country.
func (r *HotelRepo) ExistsByName(ctx context.Context, name string, countryID, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM hotels WHERE LOWER(TRIM(name)) = ? AND country_id = ? AND id <> ?)`,
		strings.ToLower(strings.TrimSpace(name)), countryID, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("hotel name check: %w", err)
	}
	return exists, nil
}

func (r *HotelRepo) Create(ctx context.Context, h *model.Hotel) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO hotels (name, address, rating, per_night_rate_cents, country_id) VALUES (?, ?, ?, ?, ?)`,
		h.Name, h.Address, h.Rating, h.PerNightRate.Cents(), h.CountryID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert hotel: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert hotel: %w", err)
	}
	h.ID = id
	return nil
}

func (r *HotelRepo) Update(ctx context.Context, h *model.Hotel) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE hotels SET name = ?, address = ?, rating = ?, per_night_rate_cents = ?, country_id = ? WHERE id = ?`,
		h.Name, h.Address, h.Rating, h.PerNightRate.Cents(), h.CountryID, h.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("update hotel %d: %w", h.ID, err)
	}
	return nil
}

// Delete reports whether a row was removed.
func (r *HotelRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM hotels WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete hotel %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *HotelRepo) IsHotelAdmin(ctx context.Context, userID string, hotelID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM hotel_admins WHERE user_id = ? AND hotel_id = ?)`,
		userID, hotelID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("hotel admin check: %w", err)
	}
	return exists, nil
}

func scanHotel(s rowScanner) (model.Hotel, error) {
	var (
		h     model.Hotel
		cents int64
	)
	if err := s.Scan(&h.ID, &h.Name, &h.Address, &h.Rating, &cents, &h.CountryID, &h.CountryName); err != nil {
		return model.Hotel{}, err
	}
	h.PerNightRate = model.Cents(cents)
	return h, nil
}
