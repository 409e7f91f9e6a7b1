// pkg/telemetry/metrics.go
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// DispatchMetrics counts webhook deliveries.
type DispatchMetrics struct {
	sent     metric.Int64Counter
	failed   metric.Int64Counter
	skipped  metric.Int64Counter
	duration metric.Float64Histogram
	breaker  metric.Int64UpDownCounter
}

// NewDispatchMetrics registers the dispatch instruments on the global meter provider.
func NewDispatchMetrics() (*DispatchMetrics, error) {
	meter := otel.Meter(ServiceName)

	sent, err := meter.Int64Counter("delphi_notify_messages_sent_total",
		metric.WithDescription("Webhook POSTs that got an HTTP response"))
	if err != nil {
		return nil, fmt.Errorf("failed to create messages_sent counter: %w", err)
	}

	failed, err := meter.Int64Counter("delphi_notify_messages_failed_total",
		metric.WithDescription("Webhook POSTs that failed before or during transport"))
	if err != nil {
		return nil, fmt.Errorf("failed to create messages_failed counter: %w", err)
	}

	skipped, err := meter.Int64Counter("delphi_notify_alerts_skipped_total",
		metric.WithDescription("Alerts not sent during replay"))
	if err != nil {
		return nil, fmt.Errorf("failed to create alerts_skipped counter: %w", err)
	}

	duration, err := meter.Float64Histogram("delphi_notify_dispatch_duration_seconds",
		metric.WithDescription("Time spent on a single webhook POST"))
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatch_duration histogram: %w", err)
	}

	breaker, err := meter.Int64UpDownCounter("delphi_notify_circuit_breaker_status",
		metric.WithDescription("Replay circuit breaker status (0=closed, 1=half-open, 2=open)"))
	if err != nil {
		return nil, fmt.Errorf("failed to create circuit_breaker_status gauge: %w", err)
	}

	return &DispatchMetrics{sent: sent, failed: failed, skipped: skipped, duration: duration, breaker: breaker}, nil
}

// RecordSent records a POST that produced a response with the given status.
func (m *DispatchMetrics) RecordSent(ctx context.Context, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Int("http.status_code", status))
	m.sent.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordFailed records a POST that never produced a response.
func (m *DispatchMetrics) RecordFailed(ctx context.Context, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.failed.Add(ctx, 1)
	m.duration.Record(ctx, elapsed.Seconds())
}

// RecordSkipped records an alert dropped during replay, tagged with why.
func (m *DispatchMetrics) RecordSkipped(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.skipped.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordBreakerTransition moves the breaker gauge from one state value to another.
func (m *DispatchMetrics) RecordBreakerTransition(ctx context.Context, from, to int64) {
	if m == nil {
		return
	}
	m.breaker.Add(ctx, to-from)
}
