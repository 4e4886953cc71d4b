package repository

import (
	"strings"

	"github.com/iliyamo/hotel-listing-api/internal/dto"
	"github.com/iliyamo/hotel-listing-api/internal/model"
	"github.com/iliyamo/hotel-listing-api/internal/query"
)

// Column names below assume the aliases b (bookings), h (hotels) and
// c (countries) used by every listing query in this package.

var bookingSorts = query.Sorts[model.Booking]{
	Keys: map[string]query.SortKey[model.Booking]{
		"checkin":  {Column: "b.check_in", Compare: func(a, b model.Booking) int { return a.CheckIn.Compare(b.CheckIn) }},
		"checkout": {Column: "b.check_out", Compare: func(a, b model.Booking) int { return a.CheckOut.Compare(b.CheckOut) }},
		"price":    query.By("b.total_price_cents", func(b model.Booking) int64 { return b.TotalPrice.Cents() }),
		"created":  {Column: "b.created_at_utc", Compare: func(a, b model.Booking) int { return a.CreatedAtUTC.Compare(b.CreatedAtUTC) }},
	},
	Default:  "checkin",
	TieBreak: query.By("b.id", func(b model.Booking) int64 { return b.ID }),
}

// BookingSpec builds the filter and order for a booking listing.
func BookingSpec(q BookingQuery) *query.Spec[model.Booking] {
	f := q.Filter
	s := &query.Spec[model.Booking]{}
	s.Where("b.hotel_id = ?", func(b model.Booking) bool { return b.HotelID == q.HotelID }, q.HotelID)
	s.WhereIf(q.UserID != "", "b.user_id = ?", func(b model.Booking) bool { return b.UserID == q.UserID }, q.UserID)

	if f.Status != nil {
		st := *f.Status
		s.Where("b.status = ?", func(b model.Booking) bool { return b.Status == st }, string(st))
	}
	if f.CheckInFrom != nil {
		d := *f.CheckInFrom
		s.Where("b.check_in >= ?", func(b model.Booking) bool { return !b.CheckIn.Before(d) }, d)
	}
	if f.CheckInTo != nil {
		d := *f.CheckInTo
		s.Where("b.check_in <= ?", func(b model.Booking) bool { return !b.CheckIn.After(d) }, d)
	}
	if f.CheckOutFrom != nil {
		d := *f.CheckOutFrom
		s.Where("b.check_out >= ?", func(b model.Booking) bool { return !b.CheckOut.Before(d) }, d)
	}
	if f.CheckOutTo != nil {
		d := *f.CheckOutTo
		s.Where("b.check_out <= ?", func(b model.Booking) bool { return !b.CheckOut.After(d) }, d)
	}
	if f.MinPrice != nil {
		m := *f.MinPrice
		s.Where("b.total_price_cents >= ?", func(b model.Booking) bool { return b.TotalPrice >= m }, m.Cents())
	}
	if f.MaxPrice != nil {
		m := *f.MaxPrice
		s.Where("b.total_price_cents <= ?", func(b model.Booking) bool { return b.TotalPrice <= m }, m.Cents())
	}
	if f.MinGuests != nil {
		n := *f.MinGuests
		s.Where("b.guests >= ?", func(b model.Booking) bool { return b.Guests >= n }, n)
	}
	if f.MaxGuests != nil {
		n := *f.MaxGuests
		s.Where("b.guests <= ?", func(b model.Booking) bool { return b.Guests <= n }, n)
	}
	if f.CreatedAfter != nil {
		t := f.CreatedAfter.UTC()
		s.Where("b.created_at_utc >= ?", func(b model.Booking) bool { return !b.CreatedAtUTC.Before(t) }, t)
	}
	if f.CreatedBefore != nil {
		t := f.CreatedBefore.UTC()
		s.Where("b.created_at_utc <= ?", func(b model.Booking) bool { return !b.CreatedAtUTC.After(t) }, t)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		s.Where("LOWER(h.name) LIKE ?", func(b model.Booking) bool { return query.Contains(b.HotelName, term) }, query.Like(term))
	}

	s.OrderBy(bookingSorts, f.SortBy, f.SortDescending)
	return s
}

var hotelSorts = query.Sorts[model.Hotel]{
	Keys: map[string]query.SortKey[model.Hotel]{
		"name":   query.By("h.name", func(h model.Hotel) string { return strings.ToLower(h.Name) }),
		"rating": query.By("h.rating", func(h model.Hotel) float64 { return h.Rating }),
		"price":  query.By("h.per_night_rate_cents", func(h model.Hotel) int64 { return h.PerNightRate.Cents() }),
	},
	Default:  "name",
	TieBreak: query.By("h.id", func(h model.Hotel) int64 { return h.ID }),
}

// HotelSpec builds the filter and order for the hotel listing.
func HotelSpec(f dto.HotelFilter) *query.Spec[model.Hotel] {
	s := &query.Spec[model.Hotel]{}
	if f.CountryID != nil {
		id := *f.CountryID
		s.Where("h.country_id = ?", func(h model.Hotel) bool { return h.CountryID == id }, id)
	}
	if f.MinRating != nil {
		r := *f.MinRating
		s.Where("h.rating >= ?", func(h model.Hotel) bool { return h.Rating >= r }, r)
	}
	if f.MaxRating != nil {
		r := *f.MaxRating
		s.Where("h.rating <= ?", func(h model.Hotel) bool { return h.Rating <= r }, r)
	}
	if f.MinPrice != nil {
		m := *f.MinPrice
		s.Where("h.per_night_rate_cents >= ?", func(h model.Hotel) bool { return h.PerNightRate >= m }, m.Cents())
	}
	if f.MaxPrice != nil {
		m := *f.MaxPrice
		s.Where("h.per_night_rate_cents <= ?", func(h model.Hotel) bool { return h.PerNightRate <= m }, m.Cents())
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		s.Where("LOWER(h.address) LIKE ?", func(h model.Hotel) bool { return query.Contains(h.Address, loc) }, query.Like(loc))
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		like := query.Like(term)
		s.Where("(LOWER(h.name) LIKE ? OR LOWER(h.address) LIKE ?)", func(h model.Hotel) bool {
			return query.Contains(h.Name, term) || query.Contains(h.Address, term)
		}, like, like)
	}
	s.OrderBy(hotelSorts, f.SortBy, f.SortDescending)
	return s
}

var countryHotelSorts = query.Sorts[model.Hotel]{
	Keys: map[string]query.SortKey[model.Hotel]{
		"name":   hotelSorts.Keys["name"],
		"rating": hotelSorts.Keys["rating"],
	},
	Default:  "name",
	TieBreak: hotelSorts.TieBreak,
}

// CountryHotelsSpec builds the filter and order for one country's hotels.
func CountryHotelsSpec(countryID int64, f dto.CountryFilter) *query.Spec[model.Hotel] {
	s := &query.Spec[model.Hotel]{}
	s.Where("h.country_id = ?", func(h model.Hotel) bool { return h.CountryID == countryID }, countryID)
	if term := strings.TrimSpace(f.Search); term != "" {
		s.Where("LOWER(h.name) LIKE ?", func(h model.Hotel) bool { return query.Contains(h.Name, term) }, query.Like(term))
	}
	s.OrderBy(countryHotelSorts, f.SortBy, f.SortDescending)
	return s
}

var countrySorts = query.Sorts[model.Country]{
	Keys: map[string]query.SortKey[model.Country]{
		"name":      query.By("c.name", func(c model.Country) string { return strings.ToLower(c.Name) }),
		"shortname": query.By("c.short_name", func(c model.Country) string { return strings.ToLower(c.ShortName) }),
	},
	Default:  "name",
	TieBreak: query.By("c.id", func(c model.Country) int64 { return c.ID }),
}

// CountrySpec builds the filter and order for the country list.
func CountrySpec(f dto.CountryFilter) *query.Spec[model.Country] {
	s := &query.Spec[model.Country]{}
	if term := strings.TrimSpace(f.Search); term != "" {
		like := query.Like(term)
		s.Where("(LOWER(c.name) LIKE ? OR LOWER(c.short_name) LIKE ?)", func(c model.Country) bool {
			return query.Contains(c.Name, term) || query.Contains(c.ShortName, term)
		}, like, like)
	}
	s.OrderBy(countrySorts, f.SortBy, f.SortDescending)
	return s
}
