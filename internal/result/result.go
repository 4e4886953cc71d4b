// Package result carries domain outcomes from services to handlers without
// using panics or sentinel errors for expected conditions such as a missing
// hotel or an overlapping booking.
package result

import "strings"

// Code classifies a domain error. Handlers translate codes to HTTP statuses.
type Code string

const (
	NotFound   Code = "NotFound"
	Validation Code = "Validation"
	BadRequest Code = "BadRequest"
	Conflict   Code = "Conflict"
	Failure    Code = "Failure"
	Forbid     Code = "Forbid"
)

// Error is a coded, human-readable domain error.
type Error struct {
	Code        Code   `json:"code"`
	Description string `json:"description"`
}

func (e Error) Error() string { return string(e.Code) + ": " + e.Description }

// NewError builds an Error.
func NewError(code Code, description string) Error {
	return Error{Code: code, Description: description}
}

// Unit is the value carried by results that have nothing to return.
type Unit struct{}

// Result is either a successful value or a non-empty list of errors.
type Result[T any] struct {
	value  T
	errors []Error
}

// Success wraps a value.
func Success[T any](v T) Result[T] { return Result[T]{value: v} }

// Ok is a successful result without a value.
func Ok() Result[Unit] { return Result[Unit]{} }

// Fail builds a failed result. Calling it without errors yields a generic
// Failure so a failed result never has an empty error list.
func Fail[T any](errs ...Error) Result[T] {
	if len(errs) == 0 {
		errs = []Error{NewError(Failure, "An unexpected error occurred.")}
	}
	out := make([]Error, len(errs))
	copy(out, errs)
	return Result[T]{errors: out}
}

func (r Result[T]) IsSuccess() bool { return len(r.errors) == 0 }

func (r Result[T]) IsFailure() bool { return len(r.errors) > 0 }

// Value returns the carried value; zero when the result failed.
func (r Result[T]) Value() T { return r.value }

// Errors returns a copy of the error list.
func (r Result[T]) Errors() []Error {
	if len(r.errors) == 0 {
		return nil
	}
	out := make([]Error, len(r.errors))
	copy(out, r.errors)
	return out
}

// FirstCode is the code of the first error, or "" on success.
func (r Result[T]) FirstCode() Code {
	if len(r.errors) == 0 {
		return ""
	}
	return r.errors[0].Code
}

// Describe joins all error descriptions with "; ".
func (r Result[T]) Describe() string {
	parts := make([]string, 0, len(r.errors))
	for _, e := range r.errors {
		parts = append(parts, e.Description)
	}
	return strings.Join(parts, "; ")
}

// Ensure fails with err when a successful result's value does not satisfy
// pred. Failed results pass through untouched.
func (r Result[T]) Ensure(pred func(T) bool, err Error) Result[T] {
	if r.IsFailure() {
		return r
	}
	if !pred(r.value) {
		return Fail[T](err)
	}
	return r
}

// Outcome is implemented by every Result instantiation so results of
// different value types can be combined.
type Outcome interface {
	IsSuccess() bool
	Errors() []Error
}

// Combine succeeds iff every input succeeded. Otherwise it fails with the
// errors of all failing inputs, in argument order.
func Combine(results ...Outcome) Result[Unit] {
	var errs []Error
	for _, r := range results {
		if !r.IsSuccess() {
			errs = append(errs, r.Errors()...)
		}
	}
	if len(errs) == 0 {
		return Ok()
	}
	return Fail[Unit](errs...)
}

// Map transforms the value of a successful result.
func Map[T, K any](r Result[T], f func(T) K) Result[K] {
	if r.IsFailure() {
		return Result[K]{errors: r.errors}
	}
	return Success(f(r.value))
}

// Bind chains an operation that can itself fail.
func Bind[T, K any](r Result[T], f func(T) Result[K]) Result[K] {
	if r.IsFailure() {
		return Result[K]{errors: r.errors}
	}
	return f(r.value)
}

// Discard drops the value, keeping only success or the errors.
func Discard[T any](r Result[T]) Result[Unit] {
	return Map(r, func(T) Unit { return Unit{} })
}
