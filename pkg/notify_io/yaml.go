/* pkg/notify_io/yaml.go */

package notify_io

import (
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by the render and decode commands.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// WriteYAML encodes in as YAML to w with structured logging.
func WriteYAML(rc *RuntimeContext, w io.Writer, in interface{}) error {
	logger := rc.Logger()

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(in); err != nil {
		logger.Error("Failed to marshal YAML", zap.Error(err))
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to flush YAML: %w", err)
	}
	return nil
}

// WriteJSON encodes in as indented JSON to w.
func WriteJSON(w io.Writer, in interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(in); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// WriteFormatted writes in as JSON or YAML depending on format.
func WriteFormatted(rc *RuntimeContext, w io.Writer, format string, in interface{}) error {
	switch format {
	case "", FormatJSON:
		return WriteJSON(w, in)
	case FormatYAML:
		return WriteYAML(rc, w, in)
	default:
		return fmt.Errorf("unsupported output format %q (want %s or %s)", format, FormatJSON, FormatYAML)
	}
}
