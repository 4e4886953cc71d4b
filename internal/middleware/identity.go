package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-listing-api/internal/dto"
)

// Context keys set by the authentication middleware.
const (
	KeyUserID = "user_id"
	KeyEmail  = "email"
	KeyRole   = "role"
	KeyAPIKey = "api_key"
)

// UserID returns the authenticated user id or "" for API-key and
// anonymous callers.
func UserID(c echo.Context) string {
	s, _ := c.Get(KeyUserID).(string)
	return s
}

func Role(c echo.Context) string {
	s, _ := c.Get(KeyRole).(string)
	return s
}

// currentUserID names the caller for rate-limit and cache keys.
func currentUserID(c echo.Context) string {
	if s := UserID(c); s != "" {
		return s
	}
	if s, ok := c.Get(KeyAPIKey).(string); ok && s != "" {
		return "key:" + s
	}
	return "anon"
}

func deny(c echo.Context, status int, detail string) error {
	return c.JSON(status, dto.NewProblem(status, detail))
}

func unauthorized(c echo.Context, detail string) error {
	return deny(c, http.StatusUnauthorized, detail)
}
