/* pkg/logger/paths.go */

package logger

import (
	"os"
	"path/filepath"
)

const (
	// LogFileName is the file integratord and every integration append to.
	LogFileName = "integrations.log"
	// FallbackInstallRoot is used when the executable path cannot be resolved.
	FallbackInstallRoot = "/var/ossec"
)

// InstallRoot returns the directory two levels above the real path of exe,
// e.g. /var/ossec for /var/ossec/integrations/delphi-notify.
func InstallRoot(exe string) string {
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	if abs, err := filepath.Abs(exe); err == nil {
		exe = abs
	}
	return filepath.Dir(filepath.Dir(exe))
}

// LogPathFor returns <root>/logs/integrations.log.
func LogPathFor(root string) string {
	return filepath.Join(root, "logs", LogFileName)
}

// DefaultLogPath resolves the log file relative to the running executable.
func DefaultLogPath() string {
	exe, err := os.Executable()
	if err != nil {
		return LogPathFor(FallbackInstallRoot)
	}
	return LogPathFor(InstallRoot(exe))
}
