// Package executor runs facade calls on a small fixed pool of goroutines.
package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	job "github.com/goliatone/go-job"
	"github.com/goliatone/go-job/queue/worker"
	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-qonto/core"
)

const (
	DefaultWorkers   = 4
	DefaultQueueSize = 64

	jobID = "qonto.facade.call"
)

type Config struct {
	Workers   int
	QueueSize int
	Hooks     []worker.Hook
	Logger    core.Logger
	// Context is handed to every task; cancelling it does not stop the pool.
	Context context.Context
}

type task struct {
	name string
	run  func(ctx context.Context) error
}

// Pool is a fixed set of workers draining a bounded queue. When the queue is
// full a task runs on its own goroutine, so Submit never blocks. Tasks run
// to completion; there is no cancellation of queued or running tasks.
type Pool struct {
	ctx    context.Context
	tasks  chan task
	hooks  []worker.Hook
	logger core.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func New(cfg Config) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = glog.Nop()
	}

	p := &Pool{
		ctx:    ctx,
		tasks:  make(chan task, queueSize),
		hooks:  append([]worker.Hook(nil), cfg.Hooks...),
		logger: logger,
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.work()
	}
	return p
}

// FromConfig sizes the pool from the client executor settings.
func FromConfig(cfg core.ExecutorConfig, logger core.Logger, hooks ...worker.Hook) *Pool {
	return New(Config{
		Workers:   cfg.Workers,
		QueueSize: cfg.QueueSize,
		Hooks:     hooks,
		Logger:    logger,
	})
}

// Submit queues run under name and fails once the pool is closed. It never
// blocks: a task that finds the queue full runs on an overflow goroutine
// that Close also waits for.
func (p *Pool) Submit(name string, run func(ctx context.Context) error) error {
	if p == nil {
		return closedError()
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return closedError()
	}
	t := task{name: name, run: run}
	select {
	case p.tasks <- t:
	default:
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.execute(t)
		}()
	}
	return nil
}

// Close stops accepting tasks and waits for queued ones to finish.
func (p *Pool) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()
	p.wg.Wait()
	return nil
}

func (p *Pool) work() {
	defer p.wg.Done()
	for t := range p.tasks {
		p.execute(t)
	}
}

func (p *Pool) execute(t task) {
	event := worker.Event{
		Message: &job.ExecutionMessage{
			JobID:      jobID,
			ScriptPath: t.name,
		},
		Attempt:   1,
		StartedAt: time.Now(),
	}
	p.emit(func(hook worker.Hook) { hook.OnStart(p.ctx, event) })

	err := p.runProtected(t)
	event.Duration = time.Since(event.StartedAt)
	event.Err = err
	if err != nil {
		p.emit(func(hook worker.Hook) { hook.OnFailure(p.ctx, event) })
		return
	}
	p.emit(func(hook worker.Hook) { hook.OnSuccess(p.ctx, event) })
}

func (p *Pool) runProtected(t task) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			p.logger.Error("executor task panicked", "task", t.name, "panic", fmt.Sprint(recovered))
			err = PanicError(recovered)
		}
	}()
	return t.run(p.ctx)
}

func (p *Pool) emit(fn func(worker.Hook)) {
	for _, hook := range p.hooks {
		if hook != nil {
			fn(hook)
		}
	}
}

func PanicError(recovered any) error {
	return core.NewError(fmt.Sprintf("qonto: call panicked: %v", recovered), goerrors.CategoryInternal, core.ErrorInternal)
}

func closedError() error {
	return core.NewError("qonto: executor is closed", goerrors.CategoryOperation, core.ErrorExecutorClosed)
}
