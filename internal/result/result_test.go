package result

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFailWithoutErrorsIsGenericFailure(t *testing.T) {
	r := Fail[int]()
	require.True(t, r.IsFailure())
	assert.Equal(t, Failure, r.FirstCode())
}

func TestCombine(t *testing.T) {
	ok := Success(1)
	nf := Fail[string](NewError(NotFound, "hotel missing"))
	cf := Fail[Unit](NewError(Conflict, "overlap"), NewError(Validation, "guests"))

	assert.True(t, Combine(ok, Ok()).IsSuccess())
	assert.True(t, Combine().IsSuccess())

	got := Combine(ok, nf, cf)
	require.True(t, got.IsFailure())
	assert.Equal(t, []Error{
		NewError(NotFound, "hotel missing"),
		NewError(Conflict, "overlap"),
		NewError(Validation, "guests"),
	}, got.Errors())
	assert.Equal(t, "hotel missing; overlap; guests", got.Describe())
}

func TestMapBindEnsure(t *testing.T) {
	doubled := Map(Success(21), func(v int) int { return v * 2 })
	assert.Equal(t, 42, doubled.Value())

	failed := Map(Fail[int](NewError(NotFound, "x")), func(v int) string { return "never" })
	assert.Equal(t, NotFound, failed.FirstCode())
	assert.Equal(t, "", failed.Value())

	bound := Bind(Success(3), func(v int) Result[string] {
		if v > 2 {
			return Fail[string](NewError(Validation, "too big"))
		}
		return Success("fine")
	})
	assert.Equal(t, Validation, bound.FirstCode())

	positive := func(v int) bool { return v > 0 }
	assert.True(t, Success(1).Ensure(positive, NewError(Validation, "neg")).IsSuccess())
	assert.Equal(t, Validation, Success(-1).Ensure(positive, NewError(Validation, "neg")).FirstCode())
	// An earlier failure wins over the ensure error.
	assert.Equal(t, NotFound, Fail[int](NewError(NotFound, "a")).Ensure(positive, NewError(Validation, "neg")).FirstCode())
}

func TestErrorsReturnsCopy(t *testing.T) {
	r := Fail[int](NewError(Conflict, "a"))
	errs := r.Errors()
	errs[0].Code = NotFound
	assert.Equal(t, Conflict, r.FirstCode())
}

func TestGuard(t *testing.T) {
	log := zap.NewNop()

	r := Guard(log, "op", "boom", func() (Result[int], error) { return Success(7), nil })
	assert.Equal(t, 7, r.Value())

	r = Guard(log, "op", "boom", func() (Result[int], error) { return Result[int]{}, errors.New("db down") })
	require.True(t, r.IsFailure())
	assert.Equal(t, []Error{NewError(Failure, "boom")}, r.Errors())

	r = Guard(log, "op", "boom", func() (Result[int], error) { panic("nil map") })
	assert.Equal(t, Failure, r.FirstCode())
	assert.Equal(t, "boom", r.Describe())
}
