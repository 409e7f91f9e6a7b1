/* pkg/logger/config.go */

package logger

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
)

// TimeLayout is the timestamp written at the start of every integrations.log line.
const TimeLayout = "Mon Jan 02 15:04:05 MST 2006"

// Config describes the logger for a single invocation.
type Config struct {
	// Path of the append-only log file. Empty means console only.
	Path string
	// Debug lowers the file level so step-by-step trace lines are kept.
	Debug bool
	// Console receives the always-on echo. Defaults to stdout.
	Console io.Writer
	// ConsoleLevel is the minimum level echoed to Console.
	ConsoleLevel zapcore.Level
}

// DefaultConfig returns the config used by the integration binary.
func DefaultConfig() Config {
	return Config{
		Path:         DefaultLogPath(),
		Console:      os.Stdout,
		ConsoleLevel: ParseLogLevel(os.Getenv("LOG_LEVEL")),
	}
}

// fileLevel is Info unless debug mode asks for the trace lines too.
func (c Config) fileLevel() zapcore.Level {
	if c.Debug {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

// ParseLogLevel maps LOG_LEVEL to a zap level. Unset means debug: every line is echoed.
func ParseLogLevel(level string) zapcore.Level {
	switch strings.ToUpper(level) {
	case "INFO":
		return zapcore.InfoLevel
	case "WARN":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.DebugLevel
	}
}

// FileEncoderConfig renders "<timestamp> <message>" with no level or caller.
func FileEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "T",
		MessageKey:       "M",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.TimeEncoderOfLayout(TimeLayout),
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
}

// DefaultConsoleEncoderConfig is the human-facing echo format.
func DefaultConsoleEncoderConfig() zapcore.EncoderConfig {
	cfg := FileEncoderConfig()
	cfg.LevelKey = "L"
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.ConsoleSeparator = "\t"
	return cfg
}
