package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/hotel-listing-api/internal/dto"
	"github.com/iliyamo/hotel-listing-api/internal/model"
	"github.com/iliyamo/hotel-listing-api/internal/query"
	"github.com/iliyamo/hotel-listing-api/internal/repository"
	"github.com/iliyamo/hotel-listing-api/internal/result"
)

type CountryService interface {
	GetCountries(ctx context.Context, filter dto.CountryFilter) result.Result[[]dto.CountryListItem]
	GetCountry(ctx context.Context, id int64) result.Result[dto.CountryResponse]
	GetCountryHotels(ctx context.Context, countryID int64, page query.PageParams, filter dto.CountryFilter) result.Result[dto.CountryHotelsResponse]
	CreateCountry(ctx context.Context, req dto.CreateCountryRequest) result.Result[dto.CountryResponse]
	UpdateCountry(ctx context.Context, id int64, req dto.UpdateCountryRequest) result.Result[result.Unit]
	PatchCountry(ctx context.Context, id int64, patch dto.PatchCountryRequest) result.Result[result.Unit]
	DeleteCountry(ctx context.Context, id int64) result.Result[result.Unit]
}

type countryService struct {
	countries repository.CountryStore
	hotels    repository.HotelStore
	log       *zap.Logger
}

func NewCountryService(countries repository.CountryStore, hotels repository.HotelStore, log *zap.Logger) CountryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &countryService{countries: countries, hotels: hotels, log: log}
}

func countryExists(name string) abort {
	return fail(result.Conflict, fmt.Sprintf("Country with name '%s' already exists.", name))
}

func countryErr(err error, id int64) error {
	if errors.Is(err, repository.ErrCountryNotFound) {
		return countryNotFound(id)
	}
	return err
}

func (s *countryService) GetCountries(ctx context.Context, filter dto.CountryFilter) result.Result[[]dto.CountryListItem] {
	return result.Guard(s.log, "country.list", "An unexpected error occurred while retrieving countries.", func() (result.Result[[]dto.CountryListItem], error) {
		countries, err := s.countries.List(ctx, filter)
		if err != nil {
			return result.Result[[]dto.CountryListItem]{}, err
		}
		out := make([]dto.CountryListItem, 0, len(countries))
		for _, c := range countries {
			out = append(out, dto.CountryListItemFromModel(c))
		}
		return result.Success(out), nil
	})
}

func (s *countryService) GetCountry(ctx context.Context, id int64) result.Result[dto.CountryResponse] {
	return result.Guard(s.log, "country.get", "An unexpected error occurred while retrieving the country.", func() (result.Result[dto.CountryResponse], error) {
		c, err := s.countries.Get(ctx, id)
		if err != nil {
			return settle[dto.CountryResponse](countryErr(err, id), nil)
		}
		hotels, err := s.hotels.ByCountry(ctx, id)
		if err != nil {
			return result.Result[dto.CountryResponse]{}, err
		}
		return result.Success(dto.CountryFromModel(c, hotels)), nil
	})
}

func (s *countryService) GetCountryHotels(ctx context.Context, countryID int64, page query.PageParams, filter dto.CountryFilter) result.Result[dto.CountryHotelsResponse] {
	return result.Guard(s.log, "country.hotels", "An unexpected error occurred while retrieving the country's hotels.", func() (result.Result[dto.CountryHotelsResponse], error) {
		c, err := s.countries.Get(ctx, countryID)
		if err != nil {
			return settle[dto.CountryHotelsResponse](countryErr(err, countryID), nil)
		}
		page = page.Normalize()
		hotels, total, err := s.hotels.PageByCountry(ctx, countryID, filter, page)
		if err != nil {
			return result.Result[dto.CountryHotelsResponse]{}, err
		}
		return result.Success(dto.CountryHotelsResponse{
			ID:     c.ID,
			Name:   c.Name,
			Hotels: query.MapPaged(query.NewPaged(hotels, page, total), dto.HotelSlimFromModel),
		}), nil
	})
}

func (s *countryService) CreateCountry(ctx context.Context, req dto.CreateCountryRequest) result.Result[dto.CountryResponse] {
	return result.Guard(s.log, "country.create", "An unexpected error occurred while creating the country.", func() (result.Result[dto.CountryResponse], error) {
		c := model.Country{Name: req.Name, ShortName: req.ShortName}
		err := s.save(ctx, &c, 0, s.countries.Create)
		return settle(err, func() result.Result[dto.CountryResponse] {
			return result.Success(dto.CountryFromModel(c, nil))
		})
	})
}

func (s *countryService) UpdateCountry(ctx context.Context, id int64, req dto.UpdateCountryRequest) result.Result[result.Unit] {
	return result.Guard(s.log, "country.update", "An unexpected error occurred while updating the country.", func() (result.Result[result.Unit], error) {
		if id != req.ID {
			return result.Fail[result.Unit](errIDMismatch...), nil
		}
		if _, err := s.countries.Get(ctx, id); err != nil {
			return settle[result.Unit](countryErr(err, id), nil)
		}
		c := model.Country{ID: id, Name: req.Name, ShortName: req.ShortName}
		return settle(s.save(ctx, &c, id, s.countries.Update), result.Ok)
	})
}

func (s *countryService) PatchCountry(ctx context.Context, id int64, patch dto.PatchCountryRequest) result.Result[result.Unit] {
	return result.Guard(s.log, "country.patch", "An unexpected error occurred while updating the country.", func() (result.Result[result.Unit], error) {
		current, err := s.countries.Get(ctx, id)
		if err != nil {
			return settle[result.Unit](countryErr(err, id), nil)
		}
		merged := patch.ApplyTo(current)
		if merged.ID != id {
			return result.Fail[result.Unit](result.NewError(result.Validation, "Cannot modify the Id field.")), nil
		}
		if errs := merged.Check(); len(errs) > 0 {
			return result.Fail[result.Unit](errs...), nil
		}
		c := model.Country{ID: id, Name: merged.Name, ShortName: merged.ShortName}
		return settle(s.save(ctx, &c, id, s.countries.Update), result.Ok)
	})
}

// save rejects a name already used by another country, then writes c.
func (s *countryService) save(ctx context.Context, c *model.Country, excludeID int64, write func(context.Context, *model.Country) error) error {
	taken, err := s.countries.ExistsByName(ctx, c.Name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return countryExists(c.Name)
	}
	if err := write(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return countryExists(c.Name)
		}
		return err
	}
	return nil
}

func (s *countryService) DeleteCountry(ctx context.Context, id int64) result.Result[result.Unit] {
	return result.Guard(s.log, "country.delete", "An unexpected error occurred while deleting the country.", func() (result.Result[result.Unit], error) {
		deleted, err := s.countries.Delete(ctx, id)
		if err != nil {
			return result.Result[result.Unit]{}, err
		}
		if !deleted {
			return result.Fail[result.Unit](countryNotFound(id)...), nil
		}
		return result.Ok(), nil
	})
}
