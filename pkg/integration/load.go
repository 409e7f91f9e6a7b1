// pkg/integration/load.go
package integration

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/alerts"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/notify_err"
)

// readInput reads path, mapping a missing file to the exit-3 error.
func readInput(kind, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notify_err.NewInputMissingError(kind, path, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file %s: %w", kind, path, err)
	}
	return data, nil
}

// LoadOptions reads the options object. No path means no options.
func LoadOptions(path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}
	data, err := readInput("Option", path)
	if err != nil {
		return nil, err
	}

	var options map[string]any
	if err := json.Unmarshal(data, &options); err != nil {
		return nil, notify_err.NewInputMalformedError("options", path, err)
	}
	if options == nil {
		options = map[string]any{}
	}
	return options, nil
}

// LoadAlert reads and decodes the alert document. It returns the raw bytes
// too, for the debug trace.
func LoadAlert(path string) (*alerts.Alert, []byte, error) {
	data, err := readInput("Alert", path)
	if err != nil {
		return nil, nil, err
	}

	alert, err := alerts.Decode(data)
	if err != nil {
		return nil, nil, notify_err.NewInputMalformedError("alert", path, err)
	}
	return alert, data, nil
}
