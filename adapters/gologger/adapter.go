package gologger

import (
	job "github.com/goliatone/go-job"
	"github.com/goliatone/go-job/queue/worker"
	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-qonto/adapters/gojob"
	"github.com/goliatone/go-qonto/core"
)

const (
	LoggerName         = "qonto"
	ExecutorLoggerName = "qonto.executor"
)

// Resolve uses deterministic precedence provider > logger > nop.
func Resolve(name string, provider glog.LoggerProvider, logger glog.Logger) (glog.LoggerProvider, glog.Logger) {
	return glog.Resolve(name, provider, logger)
}

func ToJobLogger(logger glog.Logger) job.Logger {
	if logger == nil {
		return nil
	}
	return job.GoLogger(logger)
}

// ClientOptions resolves the client logger once so every package that logs
// for one client shares it.
func ClientOptions(provider glog.LoggerProvider, logger glog.Logger) []core.Option {
	resolvedProvider, resolvedLogger := Resolve(LoggerName, provider, logger)
	return []core.Option{
		core.WithLoggerProvider(resolvedProvider),
		core.WithLogger(resolvedLogger),
	}
}

// ExecutorHook logs executor runs through the go-job logger bridge.
func ExecutorHook(provider glog.LoggerProvider, logger glog.Logger) worker.Hook {
	resolvedProvider, resolvedLogger := Resolve(ExecutorLoggerName, provider, logger)
	if resolvedProvider != nil {
		if named := resolvedProvider.GetLogger(ExecutorLoggerName); named != nil {
			resolvedLogger = named
		}
	}
	return gojob.NewLoggingHook(ToJobLogger(glog.Ensure(resolvedLogger)))
}
