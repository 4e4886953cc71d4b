package dto

import "github.com/iliyamo/hotel-listing-api/internal/model"

type CreateHotelRequest struct {
	Name         string      `json:"name" validate:"required,max=150"`
	Address      string      `json:"address" validate:"required,max=250"`
	Rating       float64     `json:"rating" validate:"gte=1,lte=5"`
	PerNightRate model.Money `json:"perNightRate" validate:"gt=0"`
	CountryID    int64       `json:"countryId" validate:"required,min=1"`
}

type UpdateHotelRequest struct {
	ID int64 `json:"id" validate:"required,min=1"`
	CreateHotelRequest
}

// ToModel builds a hotel row from the request.
func (r CreateHotelRequest) ToModel() model.Hotel {
	return model.Hotel{
		Name:         r.Name,
		Address:      r.Address,
		Rating:       r.Rating,
		PerNightRate: r.PerNightRate,
		CountryID:    r.CountryID,
	}
}

type HotelResponse struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Address      string      `json:"address"`
	Rating       float64     `json:"rating"`
	PerNightRate model.Money `json:"perNightRate"`
	CountryID    int64       `json:"countryId"`
	Country      string      `json:"country"`
}

func HotelFromModel(h model.Hotel) HotelResponse {
	return HotelResponse{
		ID:           h.ID,
		Name:         h.Name,
		Address:      h.Address,
		Rating:       h.Rating,
		PerNightRate: h.PerNightRate,
		CountryID:    h.CountryID,
		Country:      h.CountryName,
	}
}

// HotelSlim is a hotel nested under its country.
type HotelSlim struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Address      string      `json:"address"`
	Rating       float64     `json:"rating"`
	PerNightRate model.Money `json:"perNightRate"`
}

func HotelSlimFromModel(h model.Hotel) HotelSlim {
	return HotelSlim{ID: h.ID, Name: h.Name, Address: h.Address, Rating: h.Rating, PerNightRate: h.PerNightRate}
}

type HotelFilter struct {
	CountryID      *int64
	MinRating      *float64
	MaxRating      *float64
	MinPrice       *model.Money
	MaxPrice       *model.Money
	Location       string
	Search         string
	SortBy         string
	SortDescending bool
}
