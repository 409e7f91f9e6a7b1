// pkg/notify_cli/wrap.go

package notify_cli

import (
	"context"
	"io"

	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/cli"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/notify_err"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/notify_io"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/telemetry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RunFunc is the body of a command.
type RunFunc func(rc *notify_io.RuntimeContext, cmd *cobra.Command, args []string) error

// Options tune the wrapper per command.
type Options struct {
	// LogToStderr echoes log lines on stderr so stdout carries only command output.
	LogToStderr bool
	// Interruptible cancels rc.Ctx on SIGINT or SIGTERM.
	Interruptible bool
}

// Wrap ensures panic recovery, telemetry, and logging
func Wrap(fn RunFunc) func(cmd *cobra.Command, args []string) error {
	return WrapWith(Options{}, fn)
}

// WrapWith is Wrap with per-command options.
func WrapWith(opts Options, fn RunFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		settings, err := cli.LoadSettings(cmd)
		if err != nil {
			return notify_err.NewValidationError("invalid flags", err)
		}

		var console io.Writer = cmd.OutOrStdout()
		if opts.LogToStderr {
			console = cmd.ErrOrStderr()
		}
		cfg := logger.DefaultConfig()
		cfg.Path = settings.LogFile
		cfg.Debug = settings.Debug
		cfg.Console = console
		logs := logger.New(cfg)
		defer func() { _ = logs.Close() }()

		shutdown, terr := telemetry.Init(telemetry.ServiceName, settings.TelemetryFile)
		if terr != nil {
			logs.Logger.Warn("Telemetry disabled", zap.Error(terr))
			shutdown = func(context.Context) error { return nil }
		}
		defer func() {
			if serr := shutdown(context.Background()); serr != nil {
				logs.Logger.Warn("Failed to flush telemetry", zap.Error(serr))
			}
		}()

		parent := cmd.Context()
		if opts.Interruptible {
			var stop context.CancelFunc
			parent, stop = interruptible(parent)
			defer stop()
		}

		rc := notify_io.NewContext(parent, cmd.Name(), logs)
		rc.Settings = settings
		if settings.Debug {
			rc.EnableDebug()
		}
		defer rc.End(&err)
		defer rc.HandlePanic(&err)

		return notify_err.WrapWithHint(fn(rc, cmd, args))
	}
}
