// pkg/webhook/replay.go
package webhook

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/alerts"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/httpclient"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/notify_err"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/notify_io"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/slack"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/telemetry"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// DefaultMaxFailures is how many consecutive failed POSTs open the breaker.
const DefaultMaxFailures = 5

// Skip reasons recorded on the skipped counter.
const (
	SkipBelowMinLevel = "below_min_level"
	SkipMalformed     = "malformed"
)

// ReplayConfig controls one replay run.
type ReplayConfig struct {
	URL         string
	MinLevel    int
	Limit       int // 0 sends everything
	MaxFailures uint32
	Options     map[string]any
}

// ReplayStats summarises a replay run.
type ReplayStats struct {
	Read        int  `json:"read" yaml:"read"`
	Sent        int  `json:"sent" yaml:"sent"`
	Skipped     int  `json:"skipped" yaml:"skipped"`
	Malformed   int  `json:"malformed" yaml:"malformed"`
	Failed      int  `json:"failed" yaml:"failed"`
	BreakerOpen bool `json:"breaker_open" yaml:"breaker_open"`
}

// StatusError is a response the breaker counts as a failure.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook answered %s", e.Status)
}

// Replayer re-sends alerts from an alerts log, one at a time.
type Replayer struct {
	sender  *Sender
	cfg     ReplayConfig
	breaker *gobreaker.CircuitBreaker
	metrics *telemetry.DispatchMetrics
}

// NewReplayer builds a Replayer whose breaker trips after cfg.MaxFailures
// consecutive transport errors or 5xx responses.
func NewReplayer(rc *notify_io.RuntimeContext, sender *Sender, cfg ReplayConfig, metrics *telemetry.DispatchMetrics) *Replayer {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = DefaultMaxFailures
	}
	maxFailures := cfg.MaxFailures

	settings := gobreaker.Settings{
		Name:        "webhook",
		MaxRequests: 1,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			rc.Logger().Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			metrics.RecordBreakerTransition(rc.Ctx, int64(from), int64(to))
		},
	}

	return &Replayer{
		sender:  sender,
		cfg:     cfg,
		breaker: gobreaker.NewCircuitBreaker(settings),
		metrics: metrics,
	}
}

// Run drains stream. It stops at EOF, at the limit, when the context is
// cancelled, or when the breaker opens.
func (r *Replayer) Run(rc *notify_io.RuntimeContext, stream *alerts.Stream) (ReplayStats, error) {
	log := rc.Logger()
	var stats ReplayStats

	for r.cfg.Limit <= 0 || stats.Sent < r.cfg.Limit {
		if err := rc.Ctx.Err(); err != nil {
			return stats, fmt.Errorf("replay interrupted: %w", err)
		}

		alert, line, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var lineErr *alerts.LineError
		if errors.As(err, &lineErr) {
			stats.Malformed++
			r.metrics.RecordSkipped(rc.Ctx, SkipMalformed)
			log.Warn("Skipping malformed alert line", zap.Int("line", lineErr.Line), zap.Error(lineErr.Err))
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("failed to read alerts log: %w", err)
		}
		stats.Read++

		if alert.Level() < r.cfg.MinLevel {
			stats.Skipped++
			r.metrics.RecordSkipped(rc.Ctx, SkipBelowMinLevel)
			continue
		}

		body, err := slack.Encode(slack.Build(alert, r.cfg.Options))
		if err != nil {
			return stats, err
		}

		_, err = r.breaker.Execute(func() (interface{}, error) {
			resp, err := r.sender.Send(rc, r.cfg.URL, body)
			if err != nil {
				return nil, err
			}
			if resp.StatusCode >= http.StatusInternalServerError {
				return resp, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
			}
			return resp, nil
		})
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			stats.BreakerOpen = true
		case err != nil:
			stats.Failed++
			log.Warn("Failed to deliver alert", zap.Int("line", line), zap.String("alert_id", alert.ID.String()), zap.Error(err))
		default:
			stats.Sent++
		}

		if stats.BreakerOpen || r.breaker.State() == gobreaker.StateOpen {
			stats.BreakerOpen = true
			return stats, notify_err.NewNetworkError(
				fmt.Sprintf("replay stopped at line %d after %d consecutive failures", line, r.cfg.MaxFailures), err,
				"Check the webhook endpoint, then replay the remaining lines")
		}
	}

	return stats, nil
}

// NewReplayClient copies base and adds a limiter of perSecond POSTs with a
// burst of one.
func NewReplayClient(base *httpclient.Config, perSecond float64) (*httpclient.Client, error) {
	cfg := *base
	cfg.RateLimitConfig = &httpclient.RateLimitConfig{RequestsPerSecond: perSecond, BurstSize: 1}
	return httpclient.NewClient(&cfg)
}
