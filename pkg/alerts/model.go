// pkg/alerts/model.go
package alerts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrMissingLevel is returned for an alert document without rule.level.
	ErrMissingLevel = errors.New("alert has no rule.level")
	// ErrLevelNotNumber is returned when rule.level is present but not a JSON number.
	ErrLevelNotNumber = errors.New("alert rule.level is not a number")
)

// Alert is the subset of a Wazuh alert document the notifier reads.
// Anything else in the document is ignored. Scalars are kept as written so
// a numeric id stays numeric in the generated message.
type Alert struct {
	ID        Value      `json:"id"`
	FullLog   Value      `json:"full_log"`
	Location  Value      `json:"location"`
	Rule      Rule       `json:"rule"`
	Agent     *Agent     `json:"agent,omitempty"`
	Agentless *Agentless `json:"agentless,omitempty"`
}

type Rule struct {
	ID          Value `json:"id"`
	Level       Value `json:"level"`
	Description Value `json:"description"`
}

type Agent struct {
	ID   Value `json:"id"`
	Name Value `json:"name"`
}

type Agentless struct {
	Host Value `json:"host"`
}

// Value is one JSON scalar from the alert document. The zero Value means the
// key was absent; a present null is kept apart from that.
type Value struct {
	raw json.RawMessage
}

func (v *Value) UnmarshalJSON(data []byte) error {
	v.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	if len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

// Present reports whether the key appeared in the document, null included.
func (v Value) Present() bool {
	return len(v.raw) > 0
}

// Interface decodes the value with numbers kept as json.Number, so re-encoding
// it writes the number exactly as it was read. Absent and null give nil.
func (v Value) Interface() any {
	if len(v.raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(v.raw))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil
	}
	return out
}

// String renders the value for message text: strings unquoted, numbers as
// written, absent and null as "".
func (v Value) String() string {
	switch x := v.Interface().(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return string(v.raw)
	}
}

// Decode parses one alert document and checks that it carries a numeric level.
func Decode(data []byte) (*Alert, error) {
	var a Alert
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	switch level := a.Rule.Level.Interface().(type) {
	case nil:
		return nil, ErrMissingLevel
	case json.Number:
		if _, err := level.Float64(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLevelNotNumber, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrLevelNotNumber, a.Rule.Level.raw)
	}
	return &a, nil
}

// Level returns rule.level truncated to an integer, or 0 for an alert built
// without one.
func (a *Alert) Level() int {
	n, ok := a.Rule.Level.Interface().(json.Number)
	if !ok {
		return 0
	}
	f, err := n.Float64()
	if err != nil {
		return 0
	}
	return int(math.Trunc(f))
}

// Title is the rule description as written, null included, or "N/A" when the
// rule has no description key.
func (a *Alert) Title() any {
	if !a.Rule.Description.Present() {
		return "N/A"
	}
	return a.Rule.Description.Interface()
}

// Label renders the agent as "(<id>) - <name>".
func (a *Agent) Label() string {
	return fmt.Sprintf("(%s) - %s", a.ID, a.Name)
}
