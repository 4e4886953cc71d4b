package dto

import (
	"strings"

	"github.com/iliyamo/hotel-listing-api/internal/model"
	"github.com/iliyamo/hotel-listing-api/internal/query"
	"github.com/iliyamo/hotel-listing-api/internal/result"
)

type CreateCountryRequest struct {
	Name      string `json:"name" validate:"required,max=50"`
	ShortName string `json:"shortName" validate:"required,min=2,max=3"`
}

type UpdateCountryRequest struct {
	ID int64 `json:"id" validate:"required,min=1"`
	CreateCountryRequest
}

// PatchCountryRequest lists the fields a partial update may touch. ID is
// accepted so that an attempt to change it can be rejected.
type PatchCountryRequest struct {
	ID        *int64  `json:"id"`
	Name      *string `json:"name"`
	ShortName *string `json:"shortName"`
}

// ApplyTo merges the patch onto c.
func (p PatchCountryRequest) ApplyTo(c model.Country) UpdateCountryRequest {
	out := UpdateCountryRequest{ID: c.ID, CreateCountryRequest: CreateCountryRequest{Name: c.Name, ShortName: c.ShortName}}
	if p.ID != nil {
		out.ID = *p.ID
	}
	if p.Name != nil {
		out.Name = strings.TrimSpace(*p.Name)
	}
	if p.ShortName != nil {
		out.ShortName = strings.TrimSpace(*p.ShortName)
	}
	return out
}

// Check repeats the tag rules for requests assembled from a patch.
func (r UpdateCountryRequest) Check() []result.Error {
	var errs []result.Error
	if n := len(r.Name); n == 0 || n > 50 {
		errs = append(errs, result.NewError(result.Validation, "Name is required and must be at most 50 characters."))
	}
	if n := len(r.ShortName); n < 2 || n > 3 {
		errs = append(errs, result.NewError(result.Validation, "ShortName must be 2 or 3 characters."))
	}
	return errs
}

type CountryListItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

func CountryListItemFromModel(c model.Country) CountryListItem {
	return CountryListItem{ID: c.ID, Name: c.Name, ShortName: c.ShortName}
}

type CountryResponse struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	ShortName string      `json:"shortName"`
	Hotels    []HotelSlim `json:"hotels"`
}

func CountryFromModel(c model.Country, hotels []model.Hotel) CountryResponse {
	out := CountryResponse{ID: c.ID, Name: c.Name, ShortName: c.ShortName, Hotels: make([]HotelSlim, 0, len(hotels))}
	for _, h := range hotels {
		out.Hotels = append(out.Hotels, HotelSlimFromModel(h))
	}
	return out
}

type CountryHotelsResponse struct {
	ID     int64                  `json:"id"`
	Name   string                 `json:"name"`
	Hotels query.Paged[HotelSlim] `json:"hotels"`
}

type CountryFilter struct {
	Search         string
	SortBy         string
	SortDescending bool
}
