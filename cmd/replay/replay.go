// cmd/replay/replay.go

package replay

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/alerts"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/cli"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/integration"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/notify_cli"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/notify_err"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/notify_io"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/telemetry"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/webhook"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	flagWebhook     = "webhook"
	flagMinLevel    = "min-level"
	flagRate        = "rate"
	flagLimit       = "limit"
	flagMaxFailures = "max-failures"
)

// DefaultRate is the sustained rate Slack accepts on an incoming webhook.
const DefaultRate = 1.0

// NewReplayCmd re-sends alerts from an alerts.json log.
func NewReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <alerts log>",
		Short: "Re-send alerts from a JSON-lines alerts log",
		Long: `Replay reads /var/ossec/logs/alerts/alerts.json (or any JSON-lines file of alerts)
and POSTs each alert at or above --min-level, one at a time, no faster than --rate
per second. Undecodable lines are skipped. Replay stops early once --max-failures
consecutive POSTs fail with a transport error or a 5xx response.`,
		Args: cobra.ExactArgs(1),
		RunE: notify_cli.WrapWith(notify_cli.Options{LogToStderr: true, Interruptible: true}, runReplay),
	}
	cli.AddStringFlag(cmd, flagWebhook, "w", "", "Incoming webhook URL", true)
	cli.AddStringFlag(cmd, cli.FlagOptions, "o", "", "Options JSON merged over every message", false)
	cli.AddStringFlag(cmd, cli.FlagFormat, "f", notify_io.FormatJSON, "Summary format: json or yaml", false)
	cli.AddIntFlag(cmd, flagMinLevel, "m", 0, "Skip alerts below this rule level")
	cli.AddIntFlag(cmd, flagLimit, "n", 0, "Stop after this many messages (0 sends all)")
	cli.AddIntFlag(cmd, flagMaxFailures, "", webhook.DefaultMaxFailures, "Consecutive failed POSTs that stop the replay")
	cli.AddFloat64Flag(cmd, flagRate, "r", DefaultRate, "Messages per second")
	return cmd
}

func runReplay(rc *notify_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	log := rc.Logger()

	// ASSESS
	url, err := cli.GetRequiredString(cmd, flagWebhook)
	if err != nil {
		return notify_err.NewValidationError("missing webhook URL", err)
	}
	minLevel, _ := cmd.Flags().GetInt(flagMinLevel)
	limit, _ := cmd.Flags().GetInt(flagLimit)
	maxFailures, _ := cmd.Flags().GetInt(flagMaxFailures)
	rate, _ := cmd.Flags().GetFloat64(flagRate)
	if maxFailures < 1 {
		return notify_err.NewValidationError(fmt.Sprintf("--%s must be at least 1, got %d", flagMaxFailures, maxFailures), nil)
	}

	options, err := integration.LoadOptions(rc.Settings.OptionsFile)
	if err != nil {
		return err
	}

	path := args[0]
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return notify_err.NewInputMissingError("Alerts log", path, err)
	}
	if err != nil {
		return fmt.Errorf("failed to open alerts log %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	client, err := webhook.NewReplayClient(integration.ClientConfig(rc.Settings), rate)
	if err != nil {
		return notify_err.NewValidationError("invalid replay settings", err,
			fmt.Sprintf("--%s must be greater than 0", flagRate))
	}
	metrics, err := telemetry.NewDispatchMetrics()
	if err != nil {
		log.Warn("Dispatch metrics unavailable", zap.Error(err))
	}

	// INTERVENE
	log.Info("Replaying alerts",
		zap.String("alerts_log", path),
		zap.Int("min_level", minLevel),
		zap.Float64("rate", rate),
		zap.Int("limit", limit))

	cfg := webhook.ReplayConfig{
		URL:         url,
		MinLevel:    minLevel,
		Limit:       limit,
		MaxFailures: uint32(maxFailures),
		Options:     options,
	}
	replayer := webhook.NewReplayer(rc, webhook.NewSender(client, metrics), cfg, metrics)
	stats, runErr := replayer.Run(rc, alerts.NewStream(file))

	// EVALUATE
	log.Info("Replay finished",
		zap.Int("sent", stats.Sent),
		zap.Int("skipped", stats.Skipped),
		zap.Int("malformed", stats.Malformed),
		zap.Int("failed", stats.Failed),
		zap.Bool("breaker_open", stats.BreakerOpen))
	if err := notify_io.WriteFormatted(rc, cmd.OutOrStdout(), cli.GetStringOrEmpty(cmd, cli.FlagFormat), stats); err != nil {
		return err
	}
	return runErr
}
