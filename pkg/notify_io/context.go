// pkg/notify_io/context.go

package notify_io

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/cli"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/notify_err"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/telemetry"
	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RuntimeContext carries everything one invocation needs. It is built once
// per process run and passed down explicitly; nothing here is package state.
type RuntimeContext struct {
	Ctx        context.Context
	Log        *zap.Logger
	Timestamp  time.Time
	Span       trace.Span
	Command    string
	TraceID    string
	Attributes map[string]string
	Settings   cli.Settings

	logs *logger.Handle
	otel *otelzap.Logger
}

// NewContext starts the command span and scopes the logger to it.
func NewContext(parent context.Context, cmdName string, logs *logger.Handle) *RuntimeContext {
	if parent == nil {
		parent = context.Background()
	}
	ctx, span := telemetry.Start(parent, cmdName)

	traceID := logger.GenerateTraceID()
	if span.SpanContext().HasTraceID() {
		traceID = span.SpanContext().TraceID().String()
	}

	log := logs.Logger.With(zap.String("trace_id", traceID))

	return &RuntimeContext{
		Ctx:        ctx,
		Log:        log,
		Timestamp:  time.Now(),
		Span:       span,
		Command:    cmdName,
		TraceID:    traceID,
		Attributes: make(map[string]string),
		logs:       logs,
		otel:       otelzap.New(log),
	}
}

// Logger returns the span-aware logger for this invocation.
func (rc *RuntimeContext) Logger() otelzap.LoggerWithCtx {
	return rc.otel.Ctx(rc.Ctx)
}

// EnableDebug turns on trace lines in the log file for the rest of the run.
func (rc *RuntimeContext) EnableDebug() {
	rc.logs.SetDebug(true)
	rc.Attributes["debug"] = "true"
}

// Debug reports whether trace lines reach the log file.
func (rc *RuntimeContext) Debug() bool {
	return rc.logs.Debug()
}

// HandlePanic recovers panics, logs them, and converts to an error.
func (rc *RuntimeContext) HandlePanic(errPtr *error) {
	if r := recover(); r != nil {
		*errPtr = cerr.AssertionFailedf("panic: %v", r)
		rc.Log.Error("panic recovered", zap.Any("panic", r))
	}
}

// End logs the outcome, records it on the command span, and ends the span.
func (rc *RuntimeContext) End(errPtr *error) {
	defer rc.Span.End()

	duration := time.Since(rc.Timestamp)
	err := *errPtr

	if err == nil {
		rc.Log.Debug("Command completed", zap.Duration("duration", duration))
	} else {
		rc.Log.Error("Command failed",
			zap.Duration("duration", duration),
			zap.Int("exit_code", notify_err.GetExitCode(err)),
			zap.Error(err))
		rc.Span.RecordError(err)
		rc.Span.SetStatus(codes.Error, err.Error())
	}

	attrs := []attribute.KeyValue{
		attribute.Bool("success", err == nil),
		attribute.Int64("duration_ms", duration.Milliseconds()),
		attribute.Int("exit_code", notify_err.GetExitCode(err)),
		attribute.String("os", runtime.GOOS),
		attribute.String("args", telemetry.TruncateArgs(os.Args[1:])),
	}
	for k, v := range rc.Attributes {
		attrs = append(attrs, attribute.String(k, v))
	}
	rc.Span.SetAttributes(attrs...)
}
