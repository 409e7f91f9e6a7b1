// cmd/activeresponse/activeresponse.go

package activeresponse

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	armodel "github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/activeresponse"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/cli"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/notify_cli"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/notify_err"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/notify_io"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewActiveResponseCmd groups active-response tooling.
func NewActiveResponseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "active-response",
		Aliases: []string{"ar"},
		Short:   "Work with active-response request bodies",
	}
	cmd.AddCommand(newDecodeCmd())
	return cmd
}

func newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <file|->",
		Short: "Decode and check an active-response body",
		Long: `Decode reads a JSON active-response body ({"command", "custom", "arguments"}),
checks that every value has the right type and that a command is set, and prints
the normalised record. Use - to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: notify_cli.WrapWith(notify_cli.Options{LogToStderr: true}, runDecode),
	}
	cli.AddStringFlag(cmd, cli.FlagFormat, "f", notify_io.FormatJSON, "Output format: json or yaml", false)
	return cmd
}

func runDecode(rc *notify_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	path := args[0]

	// ASSESS
	data, err := readBody(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return notify_err.NewInputMalformedError("active response", path, err)
	}

	// INTERVENE
	ar, err := armodel.FromMap(m)
	if err != nil {
		return notify_err.NewInputMalformedError("active response", path, err)
	}
	if err := ar.Validate(); err != nil {
		return err
	}
	rc.Logger().Debug("Decoded active response",
		zap.String("command", ar.Command()),
		zap.Bool("custom", ar.Custom()),
		zap.Bool("script", ar.IsScript()),
		zap.Int("arguments", len(ar.Arguments())))

	// EVALUATE
	return notify_io.WriteFormatted(rc, cmd.OutOrStdout(), cli.GetStringOrEmpty(cmd, cli.FlagFormat), ar)
}

func readBody(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notify_err.NewInputMissingError("Active response", path, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
