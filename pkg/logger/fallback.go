/* pkg/logger/fallback.go */

package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewFallbackLogger logs to the console only.
func NewFallbackLogger(console io.Writer, level zapcore.Level) *zap.Logger {
	if console == nil {
		console = os.Stdout
	}
	core := newConsoleCore(console, level)
	return zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel))
}

func newConsoleCore(console io.Writer, level zapcore.Level) zapcore.Core {
	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(DefaultConsoleEncoderConfig()),
		zapcore.Lock(zapcore.AddSync(console)),
		level,
	)
}
