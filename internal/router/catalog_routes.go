package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-listing-api/internal/handler"
	"github.com/iliyamo/hotel-listing-api/internal/middleware"
	"github.com/iliyamo/hotel-listing-api/internal/model"
)

// RegisterCatalog registers /api/countries and /api/hotels. Reads accept a
// bearer token or an API key; country reads are cached. Writes need an
// Administrator.
func RegisterCatalog(e *echo.Echo, countries *handler.CountryHandler, hotels *handler.HotelHandler, d Deps) {
	read := middleware.JWTOrAPIKey(d.Token, d.APIKeys)
	admin := []echo.MiddlewareFunc{middleware.JWTAuth(d.Token), middleware.RequireRole(model.RoleAdministrator)}
	cache := middleware.NewRedisCache(d.Cache, d.Redis, d.Log)

	c := e.Group("/api/countries")
	c.GET("", countries.List, read, d.limiter(), cache)
	c.GET("/:id", countries.Get, read, d.limiter(), cache)
	c.GET("/:countryId/hotels", countries.Hotels, read, d.limiter(), cache)
	c.POST("", countries.Create, admin...)
	c.PUT("/:id", countries.Update, admin...)
	c.PATCH("/:id", countries.Patch, admin...)
	c.DELETE("/:id", countries.Delete, admin...)

	h := e.Group("/api/hotels")
	h.GET("", hotels.List, read, d.limiter())
	h.GET("/:id", hotels.Get, read, d.limiter())
	h.POST("", hotels.Create, admin...)
	h.PUT("/:id", hotels.Update, admin...)
	h.DELETE("/:id", hotels.Delete, admin...)
}
