package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/hotel-listing-api/internal/dto"
	"github.com/iliyamo/hotel-listing-api/internal/model"
)

type CountryRepo struct {
	db *sql.DB
}

func NewCountryRepo(db *sql.DB) *CountryRepo { return &CountryRepo{db: db} }

func (r *CountryRepo) List(ctx context.Context, f dto.CountryFilter) ([]model.Country, error) {
	spec := CountrySpec(f)
	cond, args := spec.WhereSQL()
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.name, c.short_name FROM countries c WHERE `+cond+` ORDER BY `+spec.OrderSQL(), args...)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	defer rows.Close()

	out := []model.Country{}
	for rows.Next() {
		var c model.Country
		if err := rows.Scan(&c.ID, &c.Name, &c.ShortName); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CountryRepo) Get(ctx context.Context, id int64) (model.Country, error) {
	var c model.Country
	err := r.db.QueryRowContext(ctx, `SELECT id, name, short_name FROM countries WHERE id = ? LIMIT 1`, id).
		Scan(&c.ID, &c.Name, &c.ShortName)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Country{}, ErrCountryNotFound
	}
	if err != nil {
		return model.Country{}, fmt.Errorf("get country %d: %w", id, err)
	}
	return c, nil
}

func (r *CountryRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM countries WHERE id = ?)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("country exists: %w", err)
	}
	return exists, nil
}

// ExistsByName compares trimmed, lower-cased names, skipping excludeID.
func (r *CountryRepo) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM countries WHERE LOWER(TRIM(name)) = ? AND id <> ?)`,
		strings.ToLower(strings.TrimSpace(name)), excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("country name check: %w", err)
	}
	return exists, nil
}

func (r *CountryRepo) Create(ctx context.Context, c *model.Country) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO countries (name, short_name) VALUES (?, ?)`, c.Name, c.ShortName)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert country: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert country: %w", err)
	}
	c.ID = id
	return nil
}

func (r *CountryRepo) Update(ctx context.Context, c *model.Country) error {
	_, err := r.db.ExecContext(ctx, `UPDATE countries SET name = ?, short_name = ? WHERE id = ?`, c.Name, c.ShortName, c.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("update country %d: %w", c.ID, err)
	}
	return nil
}

func (r *CountryRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM countries WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete country %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
