package result

import (
	"fmt"

	"go.uber.org/zap"
)

// Guard runs fn and converts an unexpected error or panic into a generic
// Failure result. The cause is logged; the caller only sees description.
func Guard[T any](log *zap.Logger, op, description string, fn func() (Result[T], error)) (out Result[T]) {
	defer func() {
		if p := recover(); p != nil {
			log.Error("operation panicked",
				zap.String("op", op),
				zap.String("panic", fmt.Sprint(p)),
				zap.Stack("stack"),
			)
			out = Fail[T](NewError(Failure, description))
		}
	}()

	r, err := fn()
	if err != nil {
		log.Error("operation failed", zap.String("op", op), zap.Error(err))
		return Fail[T](NewError(Failure, description))
	}
	return r
}
