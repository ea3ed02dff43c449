package session

import (
	"context"
	"errors"

	"github.com/sourcegraph/conc/panics"
)

// Future is the eventual result of an asynchronous session operation.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Go runs fn in its own goroutine and returns a Future for its result.
// A panic inside fn resolves the future with an error instead of
// crashing the process.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		var pc panics.Catcher
		pc.Try(func() { f.val, f.err = fn() })
		if r := pc.Recovered(); r != nil {
			f.err = r.AsError()
		}
	}()
	return f
}

// Resolved returns an already completed Future.
func Resolved[T any](val T, err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), val: val, err: err}
	close(f.done)
	return f
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Wait blocks until the result is available or ctx ends.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Settled reports whether the future has completed, and its error if so.
func (f *Future[T]) Settled() (bool, error) {
	select {
	case <-f.done:
		return true, f.err
	default:
		return false, nil
	}
}

// WaitAll waits for every future and returns their values in order. The
// error joins every failure; one failure does not stop the others from
// being awaited.
func WaitAll[T any](ctx context.Context, futures []*Future[T]) ([]T, error) {
	vals := make([]T, len(futures))
	var errs []error
	for i, f := range futures {
		v, err := f.Wait(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		vals[i] = v
	}
	return vals, errors.Join(errs...)
}
