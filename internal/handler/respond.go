package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-listing-api/internal/dto"
	"github.com/iliyamo/hotel-listing-api/internal/result"
)

// StatusFor maps the first error code of a failed result to an HTTP status.
func StatusFor(code result.Code) int {
	switch code {
	case result.NotFound:
		return http.StatusNotFound
	case result.Validation, result.BadRequest:
		return http.StatusBadRequest
	case result.Conflict:
		return http.StatusConflict
	case result.Forbid:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// respond writes r's value with status on success, or the problem body.
func respond[T any](c echo.Context, r result.Result[T], status int) error {
	if r.IsFailure() {
		return fail(c, r.Errors()...)
	}
	return c.JSON(status, r.Value())
}

// respondEmpty writes 204 for value-less successes.
func respondEmpty(c echo.Context, r result.Result[result.Unit]) error {
	if r.IsFailure() {
		return fail(c, r.Errors()...)
	}
	return c.NoContent(http.StatusNoContent)
}

func fail(c echo.Context, errs ...result.Error) error {
	r := result.Fail[result.Unit](errs...)
	status := StatusFor(r.FirstCode())
	p := dto.NewProblem(status, r.Describe())
	if r.FirstCode() == result.Validation {
		p.Title = "One or more validation errors occurred."
	}
	return c.JSON(status, p)
}

func invalid(c echo.Context, description string) error {
	return fail(c, result.NewError(result.Validation, description))
}
