package model

// Hotel mirrors the hotels table. CountryName is filled on reads.
type Hotel struct {
	ID           int64
	Name         string
	Address      string
	Rating       float64
	PerNightRate Money
	CountryID    int64
	CountryName  string
}

// PriceFor is the rate times the number of nights in stay.
func (h Hotel) PriceFor(stay DateRange) Money {
	return h.PerNightRate.Times(stay.Nights())
}

// Country mirrors the countries table.
type Country struct {
	ID        int64
	Name      string
	ShortName string
}

// HotelAdmin links a user to a hotel they administer.
type HotelAdmin struct {
	HotelID int64
	UserID  string
}
