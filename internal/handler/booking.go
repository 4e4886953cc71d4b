package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-listing-api/internal/dto"
	"github.com/iliyamo/hotel-listing-api/internal/middleware"
	"github.com/iliyamo/hotel-listing-api/internal/service"
)

// BookingHandler serves /api/hotels/:hotelId/bookings. Every route runs
// behind JWTAuth; the admin routes also behind RequireHotelOrSystemAdmin.
type BookingHandler struct {
	Bookings service.BookingService
}

func NewBookingHandler(bookings service.BookingService) *BookingHandler {
	return &BookingHandler{Bookings: bookings}
}

// bookingRoute parses :hotelId and :bookingId. bad names the first
// malformed parameter.
func bookingRoute(c echo.Context) (hotelID, bookingID int64, bad string) {
	hotelID, ok := pathID(c, "hotelId")
	if !ok {
		return 0, 0, "hotelId"
	}
	if bookingID, ok = pathID(c, "bookingId"); !ok {
		return 0, 0, "bookingId"
	}
	return hotelID, bookingID, ""
}

// List handles GET /bookings: the caller's bookings at the hotel.
func (h *BookingHandler) List(c echo.Context) error {
	hotelID, ok := pathID(c, "hotelId")
	if !ok {
		return badPathID(c, "hotelId")
	}
	p := newParams(c)
	page, filter := p.page(), p.bookingFilter()
	if len(p.errs) > 0 {
		return fail(c, p.errs...)
	}
	r := h.Bookings.ListUserBookingsForHotel(c.Request().Context(), middleware.UserID(c), hotelID, page, filter)
	return respond(c, r, http.StatusOK)
}

// ListAdmin handles GET /bookings/admin: every booking at the hotel.
func (h *BookingHandler) ListAdmin(c echo.Context) error {
	hotelID, ok := pathID(c, "hotelId")
	if !ok {
		return badPathID(c, "hotelId")
	}
	p := newParams(c)
	page, filter := p.page(), p.bookingFilter()
	if len(p.errs) > 0 {
		return fail(c, p.errs...)
	}
	return respond(c, h.Bookings.ListBookingsForHotel(c.Request().Context(), hotelID, page, filter), http.StatusOK)
}

// Create handles POST /bookings. The body's hotelId may be omitted but,
// when present, must equal the route value.
func (h *BookingHandler) Create(c echo.Context) error {
	hotelID, ok := pathID(c, "hotelId")
	if !ok {
		return badPathID(c, "hotelId")
	}
	var req dto.CreateBookingRequest
	if errs := bindAndValidate(c, &req); len(errs) > 0 {
		return fail(c, errs...)
	}
	if req.HotelID == 0 {
		req.HotelID = hotelID
	}
	if req.HotelID != hotelID {
		return invalid(c, "Hotel id in the route does not match the payload.")
	}
	r := h.Bookings.CreateBooking(c.Request().Context(), middleware.UserID(c), req)
	return respond(c, r, http.StatusCreated)
}

func (h *BookingHandler) Update(c echo.Context) error {
	hotelID, bookingID, bad := bookingRoute(c)
	if bad != "" {
		return badPathID(c, bad)
	}
	var req dto.UpdateBookingRequest
	if errs := bindAndValidate(c, &req); len(errs) > 0 {
		return fail(c, errs...)
	}
	r := h.Bookings.UpdateBooking(c.Request().Context(), middleware.UserID(c), hotelID, bookingID, req)
	return respond(c, r, http.StatusOK)
}

// Patch handles PATCH /bookings/:bookingId. The merged booking is
// validated by the service like a full update.
func (h *BookingHandler) Patch(c echo.Context) error {
	hotelID, bookingID, bad := bookingRoute(c)
	if bad != "" {
		return badPathID(c, bad)
	}
	var patch dto.PatchBookingRequest
	if err := c.Bind(&patch); err != nil {
		return invalid(c, "The request body is not valid JSON.")
	}
	if patch.Empty() {
		return invalid(c, "The patch document must change at least one field.")
	}
	r := h.Bookings.PatchBooking(c.Request().Context(), middleware.UserID(c), hotelID, bookingID, patch)
	return respond(c, r, http.StatusOK)
}

func (h *BookingHandler) Cancel(c echo.Context) error {
	hotelID, bookingID, bad := bookingRoute(c)
	if bad != "" {
		return badPathID(c, bad)
	}
	return respondEmpty(c, h.Bookings.CancelBooking(c.Request().Context(), middleware.UserID(c), hotelID, bookingID))
}

func (h *BookingHandler) AdminCancel(c echo.Context) error {
	hotelID, bookingID, bad := bookingRoute(c)
	if bad != "" {
		return badPathID(c, bad)
	}
	return respondEmpty(c, h.Bookings.AdminCancelBooking(c.Request().Context(), hotelID, bookingID))
}

func (h *BookingHandler) AdminConfirm(c echo.Context) error {
	hotelID, bookingID, bad := bookingRoute(c)
	if bad != "" {
		return badPathID(c, bad)
	}
	return respondEmpty(c, h.Bookings.AdminConfirmBooking(c.Request().Context(), hotelID, bookingID))
}
