package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-listing-api/internal/dto"
	"github.com/iliyamo/hotel-listing-api/internal/middleware"
	"github.com/iliyamo/hotel-listing-api/internal/result"
	"github.com/iliyamo/hotel-listing-api/internal/service"
)

// AuthHandler serves /api/auth.
type AuthHandler struct {
	Users service.UserService
}

func NewAuthHandler(users service.UserService) *AuthHandler {
	return &AuthHandler{Users: users}
}

// Register creates the user and returns tokens immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if errs := bindAndValidate(c, &req); len(errs) > 0 {
		return fail(c, errs...)
	}
	return respond(c, h.Users.Register(c.Request().Context(), req), http.StatusCreated)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if errs := bindAndValidate(c, &req); len(errs) > 0 {
		return fail(c, errs...)
	}
	return respondAuth(c, h.Users.Login(c.Request().Context(), req))
}

// Refresh rotates the refresh token and returns a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req dto.RefreshRequest
	if errs := bindAndValidate(c, &req); len(errs) > 0 {
		return fail(c, errs...)
	}
	return respondAuth(c, h.Users.Refresh(c.Request().Context(), req.RefreshToken))
}

// RefreshAccess returns a new access token; the refresh token stays valid.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
	var req dto.RefreshRequest
	if errs := bindAndValidate(c, &req); len(errs) > 0 {
		return fail(c, errs...)
	}
	return respondAuth(c, h.Users.RefreshAccess(c.Request().Context(), req.RefreshToken))
}

// Logout revokes the refresh token in the body or, without one, every
// token of the authenticated caller.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req dto.RefreshRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return invalid(c, "The request body is not valid JSON.")
		}
	}
	return respondEmpty(c, h.Users.Logout(c.Request().Context(), middleware.UserID(c), req.RefreshToken))
}

func (h *AuthHandler) Me(c echo.Context) error {
	return respond(c, h.Users.Me(c.Request().Context(), middleware.UserID(c)), http.StatusOK)
}

// respondAuth reports rejected credentials and refresh tokens as 401.
func respondAuth[T any](c echo.Context, r result.Result[T]) error {
	if r.FirstCode() == result.BadRequest {
		return c.JSON(http.StatusUnauthorized, dto.NewProblem(http.StatusUnauthorized, r.Describe()))
	}
	return respond(c, r, http.StatusOK)
}
