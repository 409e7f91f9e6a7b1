// cmd/render/render.go

package render

import (
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/cli"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/integration"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/notify_cli"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/notify_io"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/slack"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewRenderCmd prints the payload an alert would produce, without sending it.
func NewRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <alert file>",
		Short: "Print the webhook payload for an alert without sending it",
		Long: `Render builds the same {"attachments":[...]} body the integration would POST.
With --format json the output is the exact request body; yaml is for reading.`,
		Args: cobra.ExactArgs(1),
		RunE: notify_cli.WrapWith(notify_cli.Options{LogToStderr: true}, runRender),
	}
	cli.AddStringFlag(cmd, cli.FlagOptions, "o", "", "Options JSON merged over the message", false)
	cli.AddStringFlag(cmd, cli.FlagFormat, "f", notify_io.FormatJSON, "Output format: json or yaml", false)
	return cmd
}

func runRender(rc *notify_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	log := rc.Logger()

	// ASSESS
	options, err := integration.LoadOptions(rc.Settings.OptionsFile)
	if err != nil {
		return err
	}
	alert, _, err := integration.LoadAlert(args[0])
	if err != nil {
		return err
	}

	// INTERVENE
	msg := slack.Build(alert, options)
	body, err := slack.Encode(msg)
	if err != nil {
		return err
	}
	log.Debug("Rendered payload", zap.Int("bytes", len(body)), zap.Int("level", alert.Level()))

	// EVALUATE
	out := cmd.OutOrStdout()
	format := cli.GetStringOrEmpty(cmd, cli.FlagFormat)
	if format == notify_io.FormatJSON || format == "" {
		_, err := out.Write(append(body, '\n'))
		return err
	}
	return notify_io.WriteFormatted(rc, out, format, slack.Payload{Attachments: []slack.Message{msg}})
}
