// Package repository defines the persistence contracts of the service and
// their MySQL implementations. Sentinel errors let services tell expected
// conditions (a missing row, a duplicate key) apart from infrastructure
// failures, which are passed through wrapped.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	ErrHotelNotFound   = errors.New("hotel not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrCountryNotFound = errors.New("country not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrAPIKeyNotFound  = errors.New("api key not found")

	// ErrEmailExists is returned when registering an email already in use.
	ErrEmailExists = errors.New("email already exists")

	// ErrDuplicate signals a unique-key violation other than the user email.
	ErrDuplicate = errors.New("duplicate entry")

	// ErrInvalidRefresh covers unknown, expired and revoked refresh tokens.
	ErrInvalidRefresh = errors.New("invalid refresh token")
)

// isDuplicateKey reports whether err is MySQL error 1062 (ER_DUP_ENTRY).
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
