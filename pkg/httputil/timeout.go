package httputil

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned by [WithTimeout] when the operation did not finish
// within its bound.
var ErrTimeout = errors.New("operation timed out")

// WithTimeout runs fn with a context that expires after d and returns as
// soon as either fn finishes or the deadline passes. fn keeps running in
// the background after a timeout; it must honor ctx to release resources.
// A non-positive d runs fn without a bound.
func WithTimeout[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if d <= 0 {
		return fn(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, fmt.Errorf("%w after %s", ErrTimeout, d)
		}
		return zero, ctx.Err()
	}
}
