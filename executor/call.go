package executor

import (
	"context"
)

// Call runs fn on the pool and hands its outcome to deliver exactly once.
// deliver always runs on a pool goroutine, or on a fresh goroutine when the
// pool refuses the task, never on the caller's goroutine.
func Call[T any](p *Pool, name string, fn func(ctx context.Context) (T, error), deliver func(T, error)) {
	CallOr(p, name, fn, deliver, nil)
}

// CallOr is Call, except that a task the pool refuses still runs on a fresh
// goroutine when runRefused reports true, and its own outcome is delivered
// instead of the executor error.
func CallOr[T any](p *Pool, name string, fn func(ctx context.Context) (T, error), deliver func(T, error), runRefused func() bool) {
	err := p.Submit(name, func(ctx context.Context) error {
		value, err := invoke(ctx, fn)
		deliverSafely(p, name, deliver, value, err)
		return err
	})
	if err == nil {
		return
	}
	if runRefused != nil && runRefused() {
		ctx := context.Background()
		if p != nil {
			ctx = p.ctx
		}
		go func() {
			value, err := invoke(ctx, fn)
			deliverSafely(p, name, deliver, value, err)
		}()
		return
	}
	var zero T
	go deliverSafely(p, name, deliver, zero, err)
}

func invoke[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) (value T, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			var zero T
			value, err = zero, PanicError(recovered)
		}
	}()
	return fn(ctx)
}

// deliverSafely shields the worker from panicking handlers.
func deliverSafely[T any](p *Pool, name string, deliver func(T, error), value T, err error) {
	defer func() {
		if recovered := recover(); recovered != nil && p != nil {
			p.logger.Error("executor result handler panicked", "task", name, "panic", recovered)
		}
	}()
	deliver(value, err)
}
