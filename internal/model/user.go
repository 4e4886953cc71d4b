package model

import "time"

// Role names carried in the JWT "role" claim.
const (
	RoleAdministrator = "Administrator"
	RoleUser          = "User"
	RoleHotelAdmin    = "HotelAdmin"
)

// IsKnownRole reports whether r is one of the registrable roles.
func IsKnownRole(r string) bool {
	switch r {
	case RoleAdministrator, RoleUser, RoleHotelAdmin:
		return true
	}
	return false
}

// User mirrors the users table. IDs are UUID strings.
type User struct {
	ID           string    // users.id
	Email        string    // users.email (unique, lower-cased)
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	PasswordHash string    // users.password_hash (bcrypt)
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
}

func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// RefreshToken models a row in refresh_tokens. Only the SHA-256 hash of the
// raw token is stored.
type RefreshToken struct {
	ID        int64
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// APIKey mirrors the api_keys table.
type APIKey struct {
	ID           int64
	Key          string
	AppName      string
	ExpiresAtUTC *time.Time
	CreatedAtUTC time.Time
}

// IsActive is true when the key never expires or expires after now.
func (k APIKey) IsActive(now time.Time) bool {
	return k.ExpiresAtUTC == nil || k.ExpiresAtUTC.After(now)
}
