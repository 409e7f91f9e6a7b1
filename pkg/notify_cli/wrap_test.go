// pkg/notify_cli/wrap_test.go

package notify_cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/cli"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/notify_err"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/notify_io"
	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCmd(t *testing.T) (*cobra.Command, string, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	logFile := filepath.Join(t.TempDir(), "logs", "integrations.log")
	cmd := &cobra.Command{Use: "test-cmd"}
	cli.AddPersistentFlags(cmd, logFile)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	return cmd, logFile, &stdout, &stderr
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		fn       RunFunc
		wantErr  string
		wantCode int
	}{
		{
			name: "successful execution",
			fn: func(rc *notify_io.RuntimeContext, cmd *cobra.Command, args []string) error {
				assert.NotNil(t, rc)
				assert.NotNil(t, rc.Ctx)
				assert.NotNil(t, rc.Log)
				assert.Equal(t, "test-cmd", rc.Command)
				return nil
			},
			wantCode: notify_err.ExitSuccess,
		},
		{
			name: "command returns error",
			fn: func(*notify_io.RuntimeContext, *cobra.Command, []string) error {
				return errors.New("command failed")
			},
			wantErr:  "command failed",
			wantCode: notify_err.ExitFailure,
		},
		{
			name: "classified error keeps its exit code",
			fn: func(*notify_io.RuntimeContext, *cobra.Command, []string) error {
				return notify_err.NewInputMissingError("Alert", "/nope", os.ErrNotExist)
			},
			wantErr:  "doesn't exist",
			wantCode: notify_err.ExitInputMissing,
		},
		{
			name: "panic recovery",
			fn: func(*notify_io.RuntimeContext, *cobra.Command, []string) error {
				panic("test panic")
			},
			wantErr:  "panic: test panic",
			wantCode: notify_err.ExitFailure,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _, _, _ := newCmd(t)
			err := Wrap(tt.fn)(cmd, nil)
			assert.Equal(t, tt.wantCode, notify_err.GetExitCode(err))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWrapAttachesHint(t *testing.T) {
	cmd, _, _, _ := newCmd(t)
	err := Wrap(func(*notify_io.RuntimeContext, *cobra.Command, []string) error {
		return notify_err.NewInputMalformedError("alert", "/tmp/a.json", errors.New("bad"))
	})(cmd, nil)

	require.Error(t, err)
	assert.Contains(t, cerr.FlattenHints(err), "alert_format")
}

func TestWrapDebugFlag(t *testing.T) {
	cmd, logFile, _, _ := newCmd(t)
	require.NoError(t, cmd.ParseFlags([]string{"--debug"}))

	err := Wrap(func(rc *notify_io.RuntimeContext, _ *cobra.Command, _ []string) error {
		assert.True(t, rc.Debug())
		assert.True(t, rc.Settings.Debug)
		rc.Logger().Debug("# Starting")
		return nil
	})(cmd, nil)
	require.NoError(t, err)

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Starting")
}

func TestWrapLogToStderr(t *testing.T) {
	cmd, _, stdout, stderr := newCmd(t)
	err := WrapWith(Options{LogToStderr: true}, func(rc *notify_io.RuntimeContext, cmd *cobra.Command, _ []string) error {
		rc.Logger().Info("to the console")
		_, werr := cmd.OutOrStdout().Write([]byte("payload"))
		return werr
	})(cmd, nil)
	require.NoError(t, err)

	assert.Equal(t, "payload", stdout.String())
	assert.Contains(t, stderr.String(), "to the console")
}

func TestWrapInterruptible(t *testing.T) {
	cmd, _, _, _ := newCmd(t)
	err := WrapWith(Options{Interruptible: true}, func(rc *notify_io.RuntimeContext, _ *cobra.Command, _ []string) error {
		return rc.Ctx.Err()
	})(cmd, nil)
	assert.NoError(t, err)
}

func TestWrapTelemetryFile(t *testing.T) {
	cmd, _, _, _ := newCmd(t)
	traceFile := filepath.Join(t.TempDir(), "spans.jsonl")
	require.NoError(t, cmd.ParseFlags([]string{"--telemetry-file", traceFile}))

	err := Wrap(func(*notify_io.RuntimeContext, *cobra.Command, []string) error { return nil })(cmd, nil)
	require.NoError(t, err)

	content, err := os.ReadFile(traceFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "test-cmd")
}
