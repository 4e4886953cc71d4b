package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-listing-api/internal/dto"
	"github.com/iliyamo/hotel-listing-api/internal/model"
	"github.com/iliyamo/hotel-listing-api/internal/query"
	"github.com/iliyamo/hotel-listing-api/internal/result"
)

// params reads query-string values case-insensitively and collects every
// malformed value as a Validation error.
type params struct {
	values map[string]string
	errs   []result.Error
}

func newParams(c echo.Context) *params {
	p := &params{values: map[string]string{}}
	for k, vs := range c.QueryParams() {
		if len(vs) > 0 {
			p.values[strings.ToLower(k)] = strings.TrimSpace(vs[0])
		}
	}
	return p
}

func (p *params) bad(name, want string) {
	p.errs = append(p.errs, result.NewError(result.Validation, fmt.Sprintf("Query parameter '%s' must be %s.", name, want)))
}

func (p *params) str(name string) string { return p.values[strings.ToLower(name)] }

func (p *params) integer(name string) *int {
	s := p.str(name)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		p.bad(name, "an integer")
		return nil
	}
	return &n
}

func (p *params) id(name string) *int64 {
	s := p.str(name)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 1 {
		p.bad(name, "a positive integer")
		return nil
	}
	return &n
}

func (p *params) float(name string) *float64 {
	s := p.str(name)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.bad(name, "a number")
		return nil
	}
	return &f
}

func (p *params) boolean(name string) bool {
	s := p.str(name)
	if s == "" {
		return false
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		p.bad(name, "true or false")
	}
	return b
}

func (p *params) money(name string) *model.Money {
	s := p.str(name)
	if s == "" {
		return nil
	}
	m, err := model.ParseMoney(s)
	if err != nil {
		p.bad(name, "an amount with at most two decimals")
		return nil
	}
	return &m
}

func (p *params) date(name string) *model.Date {
	s := p.str(name)
	if s == "" {
		return nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		p.bad(name, "a date (YYYY-MM-DD)")
		return nil
	}
	return &d
}

func (p *params) timestamp(name string) *time.Time {
	s := p.str(name)
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.UTC()
		return &t
	}
	if d, err := model.ParseDate(s); err == nil {
		t := d.Time()
		return &t
	}
	p.bad(name, "an RFC 3339 timestamp or a date")
	return nil
}

// page reads pageNumber/pageSize. Bounds are clamped by the services.
func (p *params) page() query.PageParams {
	var out query.PageParams
	if n := p.integer("pageNumber"); n != nil {
		out.PageNumber = *n
	}
	if n := p.integer("pageSize"); n != nil {
		out.PageSize = *n
	}
	return out
}

func (p *params) bookingFilter() dto.BookingFilter {
	f := dto.BookingFilter{
		CheckInFrom:    p.date("checkInFrom"),
		CheckInTo:      p.date("checkInTo"),
		CheckOutFrom:   p.date("checkOutFrom"),
		CheckOutTo:     p.date("checkOutTo"),
		MinPrice:       p.money("minPrice"),
		MaxPrice:       p.money("maxPrice"),
		MinGuests:      p.integer("minGuests"),
		MaxGuests:      p.integer("maxGuests"),
		CreatedAfter:   p.timestamp("createdAfter"),
		CreatedBefore:  p.timestamp("createdBefore"),
		Search:         p.str("search"),
		SortBy:         p.str("sortBy"),
		SortDescending: p.boolean("sortDescending"),
	}
	if s := p.str("status"); s != "" {
		st, ok := model.ParseBookingStatus(s)
		if !ok {
			p.bad("status", "one of Pending, Confirmed, Cancelled")
		} else {
			f.Status = &st
		}
	}
	return f
}

func (p *params) hotelFilter() dto.HotelFilter {
	return dto.HotelFilter{
		CountryID:      p.id("countryId"),
		MinRating:      p.float("minRating"),
		MaxRating:      p.float("maxRating"),
		MinPrice:       p.money("minPrice"),
		MaxPrice:       p.money("maxPrice"),
		Location:       p.str("location"),
		Search:         p.str("search"),
		SortBy:         p.str("sortBy"),
		SortDescending: p.boolean("sortDescending"),
	}
}

func (p *params) countryFilter() dto.CountryFilter {
	return dto.CountryFilter{
		Search:         p.str("search"),
		SortBy:         p.str("sortBy"),
		SortDescending: p.boolean("sortDescending"),
	}
}

// pathID parses a positive integer route parameter.
func pathID(c echo.Context, name string) (int64, bool) {
	n, err := strconv.ParseInt(c.Param(name), 10, 64)
	return n, err == nil && n > 0
}

func badPathID(c echo.Context, name string) error {
	return invalid(c, fmt.Sprintf("Route value '%s' must be a positive integer.", name))
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
