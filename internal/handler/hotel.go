package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-listing-api/internal/dto"
	"github.com/iliyamo/hotel-listing-api/internal/service"
)

type HotelHandler struct {
	Hotels service.HotelService
}

func NewHotelHandler(hotels service.HotelService) *HotelHandler {
	return &HotelHandler{Hotels: hotels}
}

// List handles GET /api/hotels with paging, filters and sorting.
func (h *HotelHandler) List(c echo.Context) error {
	p := newParams(c)
	page, filter := p.page(), p.hotelFilter()
	if len(p.errs) > 0 {
		return fail(c, p.errs...)
	}
	return respond(c, h.Hotels.GetHotels(c.Request().Context(), page, filter), http.StatusOK)
}

func (h *HotelHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badPathID(c, "id")
	}
	return respond(c, h.Hotels.GetHotel(c.Request().Context(), id), http.StatusOK)
}

func (h *HotelHandler) Create(c echo.Context) error {
	var req dto.CreateHotelRequest
	if errs := bindAndValidate(c, &req); len(errs) > 0 {
		return fail(c, errs...)
	}
	r := h.Hotels.CreateHotel(c.Request().Context(), req)
	if r.IsSuccess() {
		c.Response().Header().Set(echo.HeaderLocation, "/api/hotels/"+itoa(r.Value().ID))
	}
	return respond(c, r, http.StatusCreated)
}

func (h *HotelHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badPathID(c, "id")
	}
	var req dto.UpdateHotelRequest
	if errs := bindAndValidate(c, &req); len(errs) > 0 {
		return fail(c, errs...)
	}
	return respondEmpty(c, h.Hotels.UpdateHotel(c.Request().Context(), id, req))
}

func (h *HotelHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badPathID(c, "id")
	}
	return respondEmpty(c, h.Hotels.DeleteHotel(c.Request().Context(), id))
}
