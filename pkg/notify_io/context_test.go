package notify_io

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func newTestContext(t *testing.T) (*RuntimeContext, *bytes.Buffer) {
	t.Helper()
	var console bytes.Buffer
	h := logger.New(logger.Config{
		Path:         filepath.Join(t.TempDir(), logger.LogFileName),
		Console:      &console,
		ConsoleLevel: zapcore.DebugLevel,
	})
	t.Cleanup(func() { _ = h.Close() })
	return NewContext(context.Background(), "test", h), &console
}

func TestNewContext(t *testing.T) {
	rc, _ := newTestContext(t)

	assert.Equal(t, "test", rc.Command)
	assert.NotEmpty(t, rc.TraceID)
	assert.NotNil(t, rc.Ctx)
	assert.NotNil(t, rc.Log)
	assert.False(t, rc.Timestamp.IsZero())
	assert.False(t, rc.Debug())
}

func TestNewContextNilParent(t *testing.T) {
	h := logger.New(logger.Config{Console: &bytes.Buffer{}})
	//nolint:staticcheck // nil parent is handled on purpose
	rc := NewContext(nil, "nil-parent", h)
	assert.NotNil(t, rc.Ctx)
}

func TestEnableDebug(t *testing.T) {
	rc, _ := newTestContext(t)

	rc.EnableDebug()
	assert.True(t, rc.Debug())
	assert.Equal(t, "true", rc.Attributes["debug"])
}

func TestHandlePanic(t *testing.T) {
	rc, console := newTestContext(t)

	run := func() (err error) {
		defer rc.HandlePanic(&err)
		panic("boom")
	}

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, console.String(), "panic recovered")
}

func TestEndLogsFailure(t *testing.T) {
	rc, console := newTestContext(t)

	err := errors.New("webhook unreachable")
	rc.End(&err)
	assert.Contains(t, console.String(), "Command failed")
	assert.Contains(t, console.String(), "webhook unreachable")
}

func TestEndLogsSuccess(t *testing.T) {
	rc, console := newTestContext(t)

	var err error
	rc.End(&err)
	assert.Contains(t, console.String(), "Command completed")
}
