package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-listing-api/internal/handler"
	"github.com/iliyamo/hotel-listing-api/internal/middleware"
)

// RegisterBookings registers /api/hotels/:hotelId/bookings. Every route
// needs a session; the admin routes also need an Administrator or a
// HotelAdmin of that hotel.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, d Deps) {
	g := e.Group("/api/hotels/:hotelId/bookings", middleware.JWTAuth(d.Token), d.limiter())
	g.GET("", b.List)
	g.POST("", b.Create)
	g.PUT("/:bookingId", b.Update)
	g.PATCH("/:bookingId", b.Patch)
	g.PUT("/:bookingId/cancel", b.Cancel)

	admin := middleware.RequireHotelOrSystemAdmin(d.Admins, d.Log)
	g.GET("/admin", b.ListAdmin, admin)
	g.PUT("/:bookingId/admin/cancel", b.AdminCancel, admin)
	g.PUT("/:bookingId/admin/confirm", b.AdminConfirm, admin)
}
