package future

import (
	"context"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-qonto/core"
)

// Future is the pending outcome of one call. It completes exactly once.
type Future[T any] struct {
	done  chan struct{}
	once  sync.Once
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) complete(value T, err error) {
	f.once.Do(func() {
		f.value = value
		f.err = err
		close(f.done)
	})
}

// Done is closed once the outcome is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the outcome is available or ctx ends. A ctx error only
// stops the wait; the call itself keeps running.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// TryResult reports the outcome without blocking; ok is false while pending.
func (f *Future[T]) TryResult() (value T, err error, ok bool) {
	select {
	case <-f.done:
		return f.value, f.err, true
	default:
		var zero T
		return zero, nil, false
	}
}

// Cancel always fails: started calls run to completion.
func (f *Future[T]) Cancel() error {
	return core.NewError("qonto: future cancellation is not supported", goerrors.CategoryOperation, core.ErrorCancelUnsupported)
}
