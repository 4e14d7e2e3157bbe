package core

import (
	"context"
	"sort"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type NopMetricsRecorder struct{}

func (NopMetricsRecorder) IncCounter(context.Context, string, int64, map[string]string) {}

func (NopMetricsRecorder) ObserveHistogram(context.Context, string, float64, map[string]string) {}

var _ MetricsRecorder = NopMetricsRecorder{}

// observeOperation logs and records the outcome of one operation call.
func (r *runtime) observeOperation(
	ctx context.Context,
	startedAt time.Time,
	operation string,
	err error,
	fields map[string]any,
) {
	if r == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	elapsed := time.Since(startedAt)

	logFields := cloneFields(fields)
	logFields["event_type"] = operation
	logFields["status"] = status
	logFields["duration_ms"] = elapsed.Milliseconds()
	if err != nil {
		logFields["error"] = err.Error()
		var rich *goerrors.Error
		if goerrors.As(err, &rich) {
			logFields["error_text_code"] = rich.TextCode
			logFields["error_category"] = rich.Category.String()
		}
	}

	tags := map[string]string{"operation": operation, "status": status}
	if r.metrics != nil {
		r.metrics.IncCounter(ctx, operation+".total", 1, tags)
		r.metrics.ObserveHistogram(ctx, operation+".duration_ms", float64(elapsed.Milliseconds()), tags)
	}

	if err != nil {
		r.logWithLevel(ctx, "error", operation+" failed", logFields)
		return
	}
	r.logWithLevel(ctx, "debug", operation+" succeeded", logFields)
}

func (r *runtime) logWithLevel(ctx context.Context, level string, message string, fields map[string]any) {
	if r == nil || r.logger == nil {
		return
	}
	logger := r.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	fields = RedactSensitiveMap(fields)
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(cloneFields(fields))
	}
	args := flattenFields(fields)
	switch level {
	case "error":
		logger.Error(message, args...)
	case "debug":
		logger.Debug(message, args...)
	default:
		logger.Info(message, args...)
	}
}

func cloneFields(fields map[string]any) map[string]any {
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}

// FlattenFields turns a field map into sorted key/value logger arguments.
func FlattenFields(fields map[string]any) []any {
	return flattenFields(fields)
}

func flattenFields(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}
