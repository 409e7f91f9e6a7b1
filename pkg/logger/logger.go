package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// Handle owns the per-invocation logger and the log file behind it.
type Handle struct {
	Logger    *zap.Logger
	fileLevel zap.AtomicLevel
	file      *os.File
}

// New builds the per-invocation logger: a tee of the console echo and the
// append-only log file. When the file cannot be opened it falls back to the
// console and says so.
func New(cfg Config) *Handle {
	if cfg.Console == nil {
		cfg.Console = os.Stdout
	}
	console := newConsoleCore(cfg.Console, cfg.ConsoleLevel)
	h := &Handle{fileLevel: zap.NewAtomicLevelAt(cfg.fileLevel())}

	if cfg.Path == "" {
		h.Logger = zap.New(console, zap.AddStacktrace(zapcore.ErrorLevel))
		return h
	}

	writer, file, err := GetLogFileWriter(cfg.Path)
	if err != nil {
		h.Logger = NewFallbackLogger(cfg.Console, cfg.ConsoleLevel)
		h.Logger.Warn("No writable log file, logging to console only",
			zap.String("log_path", cfg.Path),
			zap.Error(err))
		return h
	}
	h.file = file

	fileCore := zapcore.NewCore(
		newEntryOnlyEncoder(zapcore.NewConsoleEncoder(FileEncoderConfig())),
		writer,
		h.fileLevel,
	)
	h.Logger = zap.New(zapcore.NewTee(console, fileCore), zap.AddStacktrace(zapcore.ErrorLevel))
	return h
}

// SetDebug switches the file between invocation-only and full trace logging.
func (h *Handle) SetDebug(on bool) {
	if on {
		h.fileLevel.SetLevel(zapcore.DebugLevel)
		return
	}
	h.fileLevel.SetLevel(zapcore.InfoLevel)
}

// Debug reports whether trace lines currently reach the file.
func (h *Handle) Debug() bool {
	return h.fileLevel.Enabled(zapcore.DebugLevel)
}

// Close flushes the logger and releases the log file.
func (h *Handle) Close() error {
	_ = h.Logger.Sync()
	if h.file == nil {
		return nil
	}
	if err := h.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	h.file = nil
	return nil
}

// entryOnlyEncoder writes an entry with the fields passed to that call and
// drops fields attached through With, such as the run's trace_id. The log
// file is shared with other integrations and keeps one line per message.
type entryOnlyEncoder struct {
	zapcore.ObjectEncoder
	enc zapcore.Encoder
}

func newEntryOnlyEncoder(enc zapcore.Encoder) zapcore.Encoder {
	return &entryOnlyEncoder{ObjectEncoder: zapcore.NewMapObjectEncoder(), enc: enc}
}

func (e *entryOnlyEncoder) Clone() zapcore.Encoder {
	return newEntryOnlyEncoder(e.enc)
}

func (e *entryOnlyEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	return e.enc.EncodeEntry(ent, fields)
}
