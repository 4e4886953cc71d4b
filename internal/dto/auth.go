package dto

import (
	"time"

	"github.com/iliyamo/hotel-listing-api/internal/model"
	"github.com/iliyamo/hotel-listing-api/internal/result"
)

type RegisterRequest struct {
	Email             string `json:"email" validate:"required,email"`
	Password          string `json:"password" validate:"required,min=8"`
	FirstName         string `json:"firstName" validate:"required,max=100"`
	LastName          string `json:"lastName" validate:"required,max=100"`
	Role              string `json:"role" validate:"omitempty,oneof=Administrator User HotelAdmin"`
	AssociatedHotelID *int64 `json:"associatedHotelId"`
}

// Check enforces that hotel admins name the hotel they manage.
func (r RegisterRequest) Check() []result.Error {
	if r.Role == model.RoleHotelAdmin && (r.AssociatedHotelID == nil || *r.AssociatedHotelID < 1) {
		return []result.Error{result.NewError(result.Validation, "AssociatedHotelId is required for HotelAdmin registrations.")}
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

func UserFromModel(u model.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName, Role: u.Role}
}

type TokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type AuthResponse struct {
	User    UserResponse `json:"user"`
	Access  TokenPart    `json:"access"`
	Refresh TokenPart    `json:"refresh"`
}
