// Package service holds the business logic behind the HTTP handlers. Every
// operation returns a result.Result; expected outcomes such as a missing
// hotel or an overlapping stay are failures with a code, never errors.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/hotel-listing-api/internal/queue"
	"github.com/iliyamo/hotel-listing-api/internal/result"
)

// EventPublisher delivers booking events after a change has been committed.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.BookingEvent) error
}

// abort carries expected failures out of a transaction callback so the
// transaction rolls back and the caller still gets a coded result.
type abort []result.Error

func (a abort) Error() string { return result.Fail[result.Unit](a...).Describe() }

func fail(code result.Code, description string) abort {
	return abort{result.NewError(code, description)}
}

// settle turns the error of a transactional step into a result: nil runs
// ok, an abort becomes a failed result, anything else stays an error for
// result.Guard to log.
func settle[T any](err error, ok func() result.Result[T]) (result.Result[T], error) {
	var a abort
	switch {
	case err == nil:
		return ok(), nil
	case errors.As(err, &a):
		return result.Fail[T](a...), nil
	default:
		return result.Result[T]{}, err
	}
}

func utcNow() time.Time { return time.Now().UTC() }
