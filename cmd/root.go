/* cmd/root.go */

package cmd

import (
	"fmt"
	"os"

	"github.com/CodeMonkeyCybersecurity/delphi-notify/cmd/activeresponse"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/cmd/render"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/cmd/replay"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/cli"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/httpclient"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/integration"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/notify_cli"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/notify_err"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/notify_io"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/telemetry"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/webhook"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewRootCmd builds the delphi-notify command tree. Without a subcommand the
// positional arguments are the ones integratord passes to a custom integration.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "delphi-notify <alert file> <api key> <hook url> [options file] [debug]",
		Short: "Forward Wazuh alerts to a Slack-compatible incoming webhook",
		Long: `delphi-notify is a Wazuh integratord custom integration. It reads one alert,
builds a colour-coded attachment, merges the integration options over it and POSTs
{"attachments":[...]} to the hook URL.

Install it as /var/ossec/integrations/custom-delphi-notify and reference it from
an <integration> block in ossec.conf. Every run is logged to
<install root>/logs/integrations.log.

Exit codes: 0 sent, 1 failure, 2 bad arguments, 3 missing input, 4 malformed input.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          notify_cli.Wrap(runIntegration),
	}

	cli.AddPersistentFlags(root, logger.DefaultLogPath())
	cli.AddStringFlag(root, cli.FlagOptions, "", "", "Options JSON file, instead of the argument ending in \"options\"", false)

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return notify_err.NewValidationError("invalid flags", err, "Run "+cmd.CommandPath()+" --help")
	})

	root.AddCommand(
		render.NewRenderCmd(),
		replay.NewReplayCmd(),
		activeresponse.NewActiveResponseCmd(),
	)
	return root
}

func runIntegration(rc *notify_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	argv := append([]string{cmd.Name()}, args...)

	client, err := httpclient.NewClient(integration.ClientConfig(rc.Settings))
	if err != nil {
		return notify_err.NewValidationError("invalid HTTP client settings", err)
	}

	metrics, err := telemetry.NewDispatchMetrics()
	if err != nil {
		rc.Logger().Warn("Dispatch metrics unavailable", zap.Error(err))
	}

	return integration.Run(rc, argv, rc.Settings, webhook.NewSender(client, metrics))
}

// Execute runs the command tree and exits with the code of the returned error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(notify_err.GetExitCode(err))
	}
}
