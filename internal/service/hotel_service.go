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

type HotelService interface {
	GetHotels(ctx context.Context, page query.PageParams, filter dto.HotelFilter) result.Result[query.Paged[dto.HotelResponse]]
	GetHotel(ctx context.Context, id int64) result.Result[dto.HotelResponse]
	CreateHotel(ctx context.Context, req dto.CreateHotelRequest) result.Result[dto.HotelResponse]
	UpdateHotel(ctx context.Context, id int64, req dto.UpdateHotelRequest) result.Result[result.Unit]
	DeleteHotel(ctx context.Context, id int64) result.Result[result.Unit]
}

type hotelService struct {
	hotels    repository.HotelStore
	countries repository.CountryStore
	log       *zap.Logger
}

func NewHotelService(hotels repository.HotelStore, countries repository.CountryStore, log *zap.Logger) HotelService {
	if log == nil {
		log = zap.NewNop()
	}
	return &hotelService{hotels: hotels, countries: countries, log: log}
}

var errIDMismatch = fail(result.Validation, "Id route value does not match payload Id.")

func countryNotFound(id int64) abort {
	return fail(result.NotFound, fmt.Sprintf("Country '%d' was not found.", id))
}

func hotelExists(name string) abort {
	return fail(result.Conflict, fmt.Sprintf("Hotel '%s' already exists in the selected country.", name))
}

func (s *hotelService) GetHotels(ctx context.Context, page query.PageParams, filter dto.HotelFilter) result.Result[query.Paged[dto.HotelResponse]] {
	type paged = query.Paged[dto.HotelResponse]
	return result.Guard(s.log, "hotel.list", "An unexpected error occurred while retrieving hotels.", func() (result.Result[paged], error) {
		page = page.Normalize()
		items, total, err := s.hotels.List(ctx, filter, page)
		if err != nil {
			return result.Result[paged]{}, err
		}
		return result.Success(query.MapPaged(query.NewPaged(items, page, total), dto.HotelFromModel)), nil
	})
}

func (s *hotelService) GetHotel(ctx context.Context, id int64) result.Result[dto.HotelResponse] {
	return result.Guard(s.log, "hotel.get", "An unexpected error occurred while retrieving the hotel.", func() (result.Result[dto.HotelResponse], error) {
		h, err := s.hotels.Get(ctx, id)
		return settle(hotelErr(err, id), func() result.Result[dto.HotelResponse] {
			return result.Success(dto.HotelFromModel(h))
		})
	})
}

func (s *hotelService) CreateHotel(ctx context.Context, req dto.CreateHotelRequest) result.Result[dto.HotelResponse] {
	return result.Guard(s.log, "hotel.create", "An unexpected error occurred while creating the hotel.", func() (result.Result[dto.HotelResponse], error) {
		h := req.ToModel()
		err := s.save(ctx, &h, 0, s.hotels.Create)
		return settle(err, func() result.Result[dto.HotelResponse] {
			return result.Success(dto.HotelFromModel(h))
		})
	})
}

func (s *hotelService) UpdateHotel(ctx context.Context, id int64, req dto.UpdateHotelRequest) result.Result[result.Unit] {
	return result.Guard(s.log, "hotel.update", "An unexpected error occurred while updating the hotel.", func() (result.Result[result.Unit], error) {
		if id != req.ID {
			return result.Fail[result.Unit](errIDMismatch...), nil
		}
		if _, err := s.hotels.Get(ctx, id); err != nil {
			return settle[result.Unit](hotelErr(err, id), nil)
		}
		h := req.ToModel()
		h.ID = id
		err := s.save(ctx, &h, id, s.hotels.Update)
		return settle(err, result.Ok)
	})
}

// save checks the country and the per-country name uniqueness, then writes h.
func (s *hotelService) save(ctx context.Context, h *model.Hotel, excludeID int64, write func(context.Context, *model.Hotel) error) error {
	c, err := s.countries.Get(ctx, h.CountryID)
	if errors.Is(err, repository.ErrCountryNotFound) {
		return countryNotFound(h.CountryID)
	}
	if err != nil {
		return err
	}
	taken, err := s.hotels.ExistsByName(ctx, h.Name, h.CountryID, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return hotelExists(h.Name)
	}
	if err := write(ctx, h); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return hotelExists(h.Name)
		}
		return err
	}
	h.CountryName = c.Name
	return nil
}

func (s *hotelService) DeleteHotel(ctx context.Context, id int64) result.Result[result.Unit] {
	return result.Guard(s.log, "hotel.delete", "An unexpected error occurred while deleting the hotel.", func() (result.Result[result.Unit], error) {
		deleted, err := s.hotels.Delete(ctx, id)
		if err != nil {
			return result.Result[result.Unit]{}, err
		}
		if !deleted {
			return result.Fail[result.Unit](hotelNotFound(id)...), nil
		}
		return result.Ok(), nil
	})
}
