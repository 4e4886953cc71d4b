package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/hotel-listing-api/internal/model"
)

type APIKeyRepo struct{ db *sql.DB }

func NewAPIKeyRepo(db *sql.DB) *APIKeyRepo { return &APIKeyRepo{db: db} }

func (r *APIKeyRepo) GetByKey(ctx context.Context, key string) (model.APIKey, error) {
	var (
		k       model.APIKey
		expires sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, api_key, app_name, expires_at_utc, created_at_utc FROM api_keys WHERE api_key = ? LIMIT 1`, key).
		Scan(&k.ID, &k.Key, &k.AppName, &expires, &k.CreatedAtUTC)
	if errors.Is(err, sql.ErrNoRows) {
		return model.APIKey{}, ErrAPIKeyNotFound
	}
	if err != nil {
		return model.APIKey{}, fmt.Errorf("get api key: %w", err)
	}
	if expires.Valid {
		t := expires.Time.UTC()
		k.ExpiresAtUTC = &t
	}
	return k, nil
}
