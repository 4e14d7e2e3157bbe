package gojob

import (
	"context"
	"strings"
	"time"

	job "github.com/goliatone/go-job"
	"github.com/goliatone/go-job/queue/worker"
)

// CallEvent describes one facade call run by the executor pool.
type CallEvent struct {
	JobID     string
	Operation string
	Attempt   int
	Err       error
	StartedAt time.Time
	Duration  time.Duration
}

// CallObserver receives call lifecycle events without depending on go-job.
type CallObserver interface {
	OnCallStart(ctx context.Context, event CallEvent)
	OnCallSuccess(ctx context.Context, event CallEvent)
	OnCallFailure(ctx context.Context, event CallEvent)
}

// WorkerHookAdapter exposes a CallObserver as a go-job worker hook.
type WorkerHookAdapter struct {
	observer CallObserver
}

func NewWorkerHookAdapter(observer CallObserver) *WorkerHookAdapter {
	return &WorkerHookAdapter{observer: observer}
}

func (a *WorkerHookAdapter) OnStart(ctx context.Context, event worker.Event) {
	if a == nil || a.observer == nil {
		return
	}
	a.observer.OnCallStart(ctx, MapWorkerEvent(event))
}

func (a *WorkerHookAdapter) OnSuccess(ctx context.Context, event worker.Event) {
	if a == nil || a.observer == nil {
		return
	}
	a.observer.OnCallSuccess(ctx, MapWorkerEvent(event))
}

func (a *WorkerHookAdapter) OnFailure(ctx context.Context, event worker.Event) {
	if a == nil || a.observer == nil {
		return
	}
	a.observer.OnCallFailure(ctx, MapWorkerEvent(event))
}

// OnRetry is never emitted by the executor; calls are not retried.
func (a *WorkerHookAdapter) OnRetry(context.Context, worker.Event) {}

func MapWorkerEvent(event worker.Event) CallEvent {
	message := event.Message
	if message == nil && event.Delivery != nil {
		message = event.Delivery.Message()
	}
	out := CallEvent{
		Attempt:   event.Attempt,
		Err:       event.Err,
		StartedAt: event.StartedAt,
		Duration:  event.Duration,
	}
	if message != nil {
		out.JobID = strings.TrimSpace(message.JobID)
		out.Operation = strings.TrimSpace(message.ScriptPath)
	}
	return out
}

// LoggingHook writes one line per call outcome to a go-job logger.
type LoggingHook struct {
	logger job.Logger
	// LogStarts also logs when a call is picked up by a worker.
	LogStarts bool
}

func NewLoggingHook(logger job.Logger) *LoggingHook {
	return &LoggingHook{logger: logger}
}

func (h *LoggingHook) OnStart(_ context.Context, event worker.Event) {
	if h == nil || h.logger == nil || !h.LogStarts {
		return
	}
	call := MapWorkerEvent(event)
	h.logger.Info("qonto call started", "operation", call.Operation)
}

func (h *LoggingHook) OnSuccess(_ context.Context, event worker.Event) {
	if h == nil || h.logger == nil {
		return
	}
	call := MapWorkerEvent(event)
	h.logger.Info("qonto call succeeded",
		"operation", call.Operation,
		"duration_ms", call.Duration.Milliseconds(),
	)
}

func (h *LoggingHook) OnFailure(_ context.Context, event worker.Event) {
	if h == nil || h.logger == nil {
		return
	}
	call := MapWorkerEvent(event)
	errText := ""
	if call.Err != nil {
		errText = call.Err.Error()
	}
	h.logger.Info("qonto call failed",
		"operation", call.Operation,
		"duration_ms", call.Duration.Milliseconds(),
		"error", errText,
	)
}

func (h *LoggingHook) OnRetry(context.Context, worker.Event) {}

var (
	_ worker.Hook = (*WorkerHookAdapter)(nil)
	_ worker.Hook = (*LoggingHook)(nil)
)
