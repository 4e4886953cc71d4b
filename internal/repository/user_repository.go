package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/hotel-listing-api/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user whose ID and password hash are already set. When
// adminOf is non-nil the hotel_admins link is written in the same transaction.
func (r *UserRepo) Create(ctx context.Context, u *model.User, adminOf *int64) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO users (id, email, first_name, last_name, password_hash, role, created_at) VALUES (?,?,?,?,?,?,?)",
		u.ID, u.Email, u.FirstName, u.LastName, u.PasswordHash, u.Role, u.CreatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	if adminOf != nil {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO hotel_admins (hotel_id, user_id) VALUES (?,?)", *adminOf, u.ID); err != nil {
			return fmt.Errorf("insert hotel admin: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

const userColumns = "id,email,first_name,last_name,password_hash,role,created_at"

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

func (r *UserRepo) getOne(ctx context.Context, q string, arg any) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, q, arg).
		Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}
