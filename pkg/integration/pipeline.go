// pkg/integration/pipeline.go
package integration

import (
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/cli"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/httpclient"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/notify_err"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/notify_io"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/slack"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/webhook"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Run is the integratord entry point: log the invocation, then load, build
// and send. Every failure is returned; the caller maps it to an exit code.
func Run(rc *notify_io.RuntimeContext, argv []string, settings cli.Settings, sender *webhook.Sender) error {
	log := rc.Logger()

	// ASSESS
	inv, err := ParseArgs(argv, settings)
	log.Info(InvocationLine(argv))
	if err != nil {
		log.Debug("# Exiting: Bad arguments", zap.Strings("inputted", argv))
		return err
	}
	if inv.Debug {
		rc.EnableDebug()
	}

	// INTERVENE
	return Process(rc, inv, sender)
}

// Process loads the inputs named by inv, builds the message and POSTs it.
func Process(rc *notify_io.RuntimeContext, inv *Invocation, sender *webhook.Sender) error {
	log := rc.Logger()
	log.Debug("# Starting")

	log.Debug("# Options file location", zap.String("path", inv.OptionsFile))
	options, err := LoadOptions(inv.OptionsFile)
	if err != nil {
		log.Debug(err.Error())
		return err
	}
	log.Debug("# Processing options", zap.Any("options", options))

	log.Debug("# Alert file location", zap.String("path", inv.AlertFile))
	alert, raw, err := LoadAlert(inv.AlertFile)
	if err != nil {
		log.Debug(err.Error())
		return err
	}
	log.Debug("# Processing alert", zap.ByteString("alert", raw))
	rc.Span.SetAttributes(
		attribute.String("alert.id", alert.ID.String()),
		attribute.Int("alert.level", alert.Level()))

	log.Debug("# Generating message")
	body, err := slack.Encode(slack.Build(alert, options))
	if err != nil {
		if notify_err.Is(err, notify_err.CategoryEmptyMessage) {
			log.Debug("# ERR - Empty message")
		}
		return err
	}
	log.Debug(string(body))

	// EVALUATE
	log.Debug("# Sending message")
	if _, err := sender.Send(rc, inv.WebhookURL, body); err != nil {
		return err
	}
	return nil
}

// ClientConfig derives the webhook HTTP client settings from the flags.
func ClientConfig(settings cli.Settings) *httpclient.Config {
	cfg := httpclient.DefaultConfig()
	if settings.Timeout > 0 {
		cfg.Timeout = settings.Timeout
	}
	if settings.TLSCAFile != "" {
		cfg.TLSConfig.RootCAFile = settings.TLSCAFile
	}
	return cfg
}
