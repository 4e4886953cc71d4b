// Package router registers the HTTP routes and their middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-listing-api/internal/config"
	"github.com/iliyamo/hotel-listing-api/internal/handler"
	"github.com/iliyamo/hotel-listing-api/internal/middleware"
	"github.com/iliyamo/hotel-listing-api/internal/utils"
)

// Deps carries what the route groups need besides their handlers.
type Deps struct {
	Token     utils.TokenConfig
	APIKeys   middleware.KeyValidator
	Admins    middleware.HotelAdminChecker
	Redis     *redis.Client // nil disables cache and rate limiting
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
	Log       *zap.Logger
}

func (d Deps) limiter() echo.MiddlewareFunc {
	return middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Log)
}

// RegisterRoutes registers the unauthenticated health check.
func RegisterRoutes(e *echo.Echo, health echo.HandlerFunc) {
	e.GET("/healthz", health)
}

// RegisterAuth registers /api/auth. Register, login and the refresh calls
// need no session; logout accepts either a session or a refresh token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, d Deps) {
	g := e.Group("/api/auth", d.limiter())
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout, middleware.OptionalJWT(d.Token))
	g.GET("/me", a.Me, middleware.JWTAuth(d.Token))
}
