package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-listing-api/internal/utils"
)

// HeaderAPIKey carries client application keys.
const HeaderAPIKey = "X-Api-Key"

// KeyValidator reports whether an API key may call the API.
type KeyValidator interface {
	IsValid(ctx context.Context, key string) bool
}

// APIKey admits requests that present an active key in X-Api-Key.
func APIKey(keys KeyValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := strings.TrimSpace(c.Request().Header.Get(HeaderAPIKey))
			if key == "" {
				return unauthorized(c, "missing api key")
			}
			if !keys.IsValid(c.Request().Context(), key) {
				return unauthorized(c, "invalid api key")
			}
			c.Set(KeyAPIKey, key)
			return next(c)
		}
	}
}

// JWTOrAPIKey accepts either a valid bearer token or an active API key.
// A bearer token, when present, wins and must be valid.
func JWTOrAPIKey(cfg utils.TokenConfig, keys KeyValidator) echo.MiddlewareFunc {
	apiKey := APIKey(keys)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		viaKey := apiKey(next)
		return func(c echo.Context) error {
			if raw, ok := bearer(c); ok {
				if !authenticate(c, cfg, raw) {
					return unauthorized(c, "invalid token")
				}
				return next(c)
			}
			if c.Request().Header.Get(HeaderAPIKey) == "" {
				return unauthorized(c, "missing bearer token or api key")
			}
			return viaKey(c)
		}
	}
}
