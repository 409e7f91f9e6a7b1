// pkg/webhook/sender.go
package webhook

import (
	"context"
	"time"

	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/httpclient"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/notify_err"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/notify_io"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Request headers sent with every message.
const (
	HeaderContentType   = "Content-Type"
	HeaderAcceptCharset = "Accept-Charset"
	ContentTypeJSON     = "application/json"
	CharsetUTF8         = "UTF-8"
)

// Poster is the part of *httpclient.Client the sender needs.
type Poster interface {
	Post(ctx context.Context, url string, body []byte, headers map[string]string) (*httpclient.Response, error)
}

// Sender POSTs serialized messages to an incoming webhook.
type Sender struct {
	poster  Poster
	metrics *telemetry.DispatchMetrics
}

// NewSender returns a Sender. metrics may be nil.
func NewSender(poster Poster, metrics *telemetry.DispatchMetrics) *Sender {
	return &Sender{poster: poster, metrics: metrics}
}

// Headers returns the exact header set used for a webhook POST.
func Headers() map[string]string {
	return map[string]string{
		HeaderContentType:   ContentTypeJSON,
		HeaderAcceptCharset: CharsetUTF8,
	}
}

// Send performs one POST of body to url. Any HTTP status counts as delivered;
// only a transport failure is returned as an error.
func (s *Sender) Send(rc *notify_io.RuntimeContext, url string, body []byte) (*httpclient.Response, error) {
	log := rc.Logger()
	ctx, span := telemetry.Start(rc.Ctx, "webhook.send", attribute.Int("body.bytes", len(body)))
	defer span.End()

	log.Debug("# In send msg")

	start := time.Now()
	resp, err := s.poster.Post(ctx, url, body, Headers())
	elapsed := time.Since(start)
	if err != nil {
		s.metrics.RecordFailed(ctx, elapsed)
		span.RecordError(err)
		return nil, notify_err.NewNetworkError("failed to send message to webhook", err,
			"Check that the hook_url in ossec.conf is reachable from the manager")
	}

	s.metrics.RecordSent(ctx, resp.StatusCode, elapsed)
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	log.Debug("# After send msg",
		zap.String("status", resp.Status),
		zap.ByteString("response", resp.Body),
		zap.Duration("elapsed", elapsed))
	return resp, nil
}
