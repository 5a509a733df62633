// Package race runs a unit of work against a deadline timer.
package race

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned when the timer fires before the work finishes.
var ErrTimeout = errors.New("race: timer elapsed before work completed")

type outcome[T any] struct {
	val T
	err error
}

// WithTimeout runs work and returns whichever settles first: the work, the
// budget timer or the parent context. The work's context is canceled as soon
// as WithTimeout returns, and the timer is always stopped.
func WithTimeout[T any](ctx context.Context, budget time.Duration, work func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan outcome[T], 1)
	go func() {
		v, err := work(workCtx)
		done <- outcome[T]{val: v, err: err}
	}()

	timer := time.NewTimer(budget)
	defer timer.Stop()

	select {
	case o := <-done:
		return o.val, o.err
	case <-timer.C:
		return zero, ErrTimeout
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
