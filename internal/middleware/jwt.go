package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-listing-api/internal/utils"
)

// JWTAuth validates a Bearer access token and stores the caller's id,
// email and role in the context under KeyUserID, KeyEmail and KeyRole.
func JWTAuth(cfg utils.TokenConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearer(c)
			if !ok {
				return unauthorized(c, "missing bearer token")
			}
			if !authenticate(c, cfg, raw) {
				return unauthorized(c, "invalid token")
			}
			return next(c)
		}
	}
}

func bearer(c echo.Context) (string, bool) {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	return raw, raw != ""
}

func authenticate(c echo.Context, cfg utils.TokenConfig, raw string) bool {
	claims, err := utils.ParseAccessToken(cfg, raw)
	if err != nil {
		return false
	}
	c.Set(KeyUserID, claims.UserID)
	c.Set(KeyEmail, claims.Email)
	c.Set(KeyRole, claims.Role)
	return true
}

// OptionalJWT identifies the caller when a bearer token is sent and lets
// anonymous requests through. A bad token is still rejected.
func OptionalJWT(cfg utils.TokenConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw, ok := bearer(c); ok && !authenticate(c, cfg, raw) {
				return unauthorized(c, "invalid token")
			}
			return next(c)
		}
	}
}
