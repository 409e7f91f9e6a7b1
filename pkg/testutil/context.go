package testutil

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/notify_io"
	"go.uber.org/zap/zapcore"
)

// TestContext bundles a RuntimeContext with where its output went.
type TestContext struct {
	RC      *notify_io.RuntimeContext
	Console *bytes.Buffer
	LogPath string
}

// NewTestContext builds a RuntimeContext logging to a temp integrations.log
// and an in-memory console. The log file is closed on cleanup.
func NewTestContext(t *testing.T, command string) *TestContext {
	t.Helper()
	console := &bytes.Buffer{}
	logPath := filepath.Join(t.TempDir(), "logs", logger.LogFileName)
	h := logger.New(logger.Config{Path: logPath, Console: console, ConsoleLevel: zapcore.DebugLevel})
	t.Cleanup(func() { _ = h.Close() })

	return &TestContext{
		RC:      notify_io.NewContext(context.Background(), command, h),
		Console: console,
		LogPath: logPath,
	}
}
