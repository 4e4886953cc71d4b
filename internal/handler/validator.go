package handler

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-listing-api/internal/result"
)

// Validator adapts go-playground/validator to echo.Validator.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

func (cv *Validator) Validate(i interface{}) error { return cv.v.Struct(i) }

// checker is implemented by requests with rules the tags cannot express.
type checker interface {
	Check() []result.Error
}

// bindAndValidate decodes the body into req and runs the tag rules, then
// Check when the tags pass. Any problem is returned as Validation errors.
func bindAndValidate(c echo.Context, req interface{}) []result.Error {
	if err := c.Bind(req); err != nil {
		return []result.Error{result.NewError(result.Validation, "The request body is not valid JSON.")}
	}
	var errs []result.Error
	if err := c.Validate(req); err != nil {
		errs = append(errs, validationErrors(err)...)
	}
	if ck, ok := req.(checker); ok && len(errs) == 0 {
		errs = append(errs, ck.Check()...)
	}
	return errs
}

func validationErrors(err error) []result.Error {
	ves, ok := err.(validator.ValidationErrors)
	if !ok {
		return []result.Error{result.NewError(result.Validation, err.Error())}
	}
	out := make([]result.Error, 0, len(ves))
	for _, fe := range ves {
		out = append(out, result.NewError(result.Validation, describeField(fe)))
	}
	return out
}

func describeField(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address.", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s.", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s.", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s.", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid (%s).", field, fe.Tag())
}
