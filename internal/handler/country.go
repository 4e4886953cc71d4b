package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-listing-api/internal/dto"
	"github.com/iliyamo/hotel-listing-api/internal/service"
)

type CountryHandler struct {
	Countries service.CountryService
}

func NewCountryHandler(countries service.CountryService) *CountryHandler {
	return &CountryHandler{Countries: countries}
}

func (h *CountryHandler) List(c echo.Context) error {
	p := newParams(c)
	filter := p.countryFilter()
	if len(p.errs) > 0 {
		return fail(c, p.errs...)
	}
	return respond(c, h.Countries.GetCountries(c.Request().Context(), filter), http.StatusOK)
}

// Get returns the country with all of its hotels.
func (h *CountryHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badPathID(c, "id")
	}
	return respond(c, h.Countries.GetCountry(c.Request().Context(), id), http.StatusOK)
}

// Hotels handles GET /api/countries/:countryId/hotels, one page at a time.
func (h *CountryHandler) Hotels(c echo.Context) error {
	id, ok := pathID(c, "countryId")
	if !ok {
		return badPathID(c, "countryId")
	}
	p := newParams(c)
	page, filter := p.page(), p.countryFilter()
	if len(p.errs) > 0 {
		return fail(c, p.errs...)
	}
	return respond(c, h.Countries.GetCountryHotels(c.Request().Context(), id, page, filter), http.StatusOK)
}

func (h *CountryHandler) Create(c echo.Context) error {
	var req dto.CreateCountryRequest
	if errs := bindAndValidate(c, &req); len(errs) > 0 {
		return fail(c, errs...)
	}
	r := h.Countries.CreateCountry(c.Request().Context(), req)
	if r.IsSuccess() {
		c.Response().Header().Set(echo.HeaderLocation, "/api/countries/"+itoa(r.Value().ID))
	}
	return respond(c, r, http.StatusCreated)
}

func (h *CountryHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badPathID(c, "id")
	}
	var req dto.UpdateCountryRequest
	if errs := bindAndValidate(c, &req); len(errs) > 0 {
		return fail(c, errs...)
	}
	return respondEmpty(c, h.Countries.UpdateCountry(c.Request().Context(), id, req))
}

func (h *CountryHandler) Patch(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badPathID(c, "id")
	}
	var patch dto.PatchCountryRequest
	if err := c.Bind(&patch); err != nil {
		return invalid(c, "The request body is not valid JSON.")
	}
	return respondEmpty(c, h.Countries.PatchCountry(c.Request().Context(), id, patch))
}

func (h *CountryHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badPathID(c, "id")
	}
	return respondEmpty(c, h.Countries.DeleteCountry(c.Request().Context(), id))
}
