// Package activeresponse holds the body of an active-response request: the
// command to run on an agent, whether it is custom, and its arguments.
package activeresponse

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/notify_err"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

// ScriptPrefix marks a command that names a script rather than a command.
const ScriptPrefix = "!"

// Mapping keys.
const (
	KeyCommand   = "command"
	KeyCustom    = "custom"
	KeyArguments = "arguments"
)

// ActiveResponse is a request to run a command on an agent. Construction does
// not validate; call Validate before dispatching.
type ActiveResponse struct {
	command   string
	custom    bool
	arguments []string
}

// record is the wire and mapping shape of ActiveResponse.
type record struct {
	Command   string   `json:"command" yaml:"command" mapstructure:"command" validate:"required"`
	Custom    bool     `json:"custom" yaml:"custom" mapstructure:"custom"`
	Arguments []string `json:"arguments" yaml:"arguments" mapstructure:"arguments"`
}

// New builds a record from explicit values.
func New(command string, custom bool, arguments ...string) *ActiveResponse {
	return &ActiveResponse{command: command, custom: custom, arguments: arguments}
}

// DeserializationError reports a mapping whose values have the wrong shape.
type DeserializationError struct {
	Cause error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("cannot deserialize active response: %v", e.Cause)
}

func (e *DeserializationError) Unwrap() error {
	return e.Cause
}

// FromMap populates a record from a generic mapping. Missing keys keep their
// defaults; unknown keys are ignored; a value of the wrong type fails.
func FromMap(m map[string]any) (*ActiveResponse, error) {
	var r record
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &r,
		TagName: "mapstructure",
	})
	if err != nil {
		return nil, &DeserializationError{Cause: err}
	}
	if err := dec.Decode(m); err != nil {
		return nil, &DeserializationError{Cause: err}
	}
	return r.model(), nil
}

func (r record) model() *ActiveResponse {
	return &ActiveResponse{command: r.Command, custom: r.Custom, arguments: r.Arguments}
}

func (a *ActiveResponse) record() record {
	return record{Command: a.command, Custom: a.custom, Arguments: a.arguments}
}

func (a *ActiveResponse) Command() string { return a.command }

func (a *ActiveResponse) SetCommand(command string) { a.command = command }

func (a *ActiveResponse) Custom() bool { return a.custom }

func (a *ActiveResponse) SetCustom(custom bool) { a.custom = custom }

// Arguments returns the command arguments.
func (a *ActiveResponse) Arguments() []string { return a.arguments }

func (a *ActiveResponse) SetArguments(arguments []string) { a.arguments = arguments }

// IsScript reports whether the command names a script ("!name").
func (a *ActiveResponse) IsScript() bool {
	return strings.HasPrefix(a.command, ScriptPrefix)
}

// ScriptName is the command without its "!" prefix, or "" for a plain command.
func (a *ActiveResponse) ScriptName() string {
	if !a.IsScript() {
		return ""
	}
	return strings.TrimPrefix(a.command, ScriptPrefix)
}

// ToMap is the inverse of FromMap.
func (a *ActiveResponse) ToMap() map[string]any {
	return map[string]any{
		KeyCommand:   a.command,
		KeyCustom:    a.custom,
		KeyArguments: a.arguments,
	}
}

func (a *ActiveResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.record())
}

func (a *ActiveResponse) UnmarshalJSON(data []byte) error {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return &DeserializationError{Cause: err}
	}
	*a = *r.model()
	return nil
}

// MarshalYAML renders the record with its public field names.
func (a *ActiveResponse) MarshalYAML() (interface{}, error) {
	return a.record(), nil
}

var validate = validator.New()

// Validate checks that a command is set.
func (a *ActiveResponse) Validate() error {
	if err := validate.Struct(a.record()); err != nil {
		return notify_err.NewValidationError("active response has no command", err,
			"Set \"command\" to a command name or to \"!<script>\"")
	}
	return nil
}
