// pkg/slack/message.go
package slack

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/alerts"
	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/notify_err"
)

// Pretext heads every attachment.
const Pretext = "WAZUH Alert"

// Attachment colors by severity band.
const (
	ColorGood    = "good"
	ColorWarning = "warning"
	ColorDanger  = "danger"
)

// Attachment keys the generated message always sets.
const (
	KeyColor   = "color"
	KeyPretext = "pretext"
	KeyTitle   = "title"
	KeyText    = "text"
	KeyFields  = "fields"
	KeyTS      = "ts"
)

// Field is one title/value row of an attachment. Values copied straight from
// the alert keep their JSON type.
type Field struct {
	Title string `json:"title"`
	Value any    `json:"value"`
}

// Message is a single attachment. Options are merged into it key by key, so it
// stays a map rather than a struct.
type Message map[string]any

// Payload is the body POSTed to the webhook.
type Payload struct {
	Attachments []Message `json:"attachments"`
}

// Color maps a rule level to the attachment color: <=4 good, 5-7 warning, >=8 danger.
func Color(level int) string {
	switch {
	case level <= 4:
		return ColorGood
	case level <= 7:
		return ColorWarning
	default:
		return ColorDanger
	}
}

// Fields lists Agent and Agentless Host when present, then Location and Rule ID.
func Fields(a *alerts.Alert) []Field {
	fields := make([]Field, 0, 4)
	if a.Agent != nil {
		fields = append(fields, Field{Title: "Agent", Value: a.Agent.Label()})
	}
	if a.Agentless != nil {
		fields = append(fields, Field{Title: "Agentless Host", Value: a.Agentless.Host.Interface()})
	}
	fields = append(fields,
		Field{Title: "Location", Value: a.Location.Interface()},
		Field{Title: "Rule ID", Value: fmt.Sprintf("%s _(Level %s)_", a.Rule.ID, a.Rule.Level)},
	)
	return fields
}

// NewMessage builds the attachment for a, without options.
func NewMessage(a *alerts.Alert) Message {
	return Message{
		KeyColor:   Color(a.Level()),
		KeyPretext: Pretext,
		KeyTitle:   a.Title(),
		KeyText:    a.FullLog.Interface(),
		KeyFields:  Fields(a),
		KeyTS:      a.ID.Interface(),
	}
}

// Merge copies every top-level key of options over m. Last write wins.
func (m Message) Merge(options map[string]any) Message {
	for k, v := range options {
		m[k] = v
	}
	return m
}

// Build is NewMessage followed by Merge when options is non-empty.
func Build(a *alerts.Alert, options map[string]any) Message {
	msg := NewMessage(a)
	if len(options) > 0 {
		msg.Merge(options)
	}
	return msg
}

// Encode serializes {"attachments":[m]}. HTML characters are left unescaped so
// log excerpts stay readable in the channel.
func Encode(m Message) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(Payload{Attachments: []Message{m}}); err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}

	return nonEmpty(bytes.TrimRight(buf.Bytes(), "\n"))
}

func nonEmpty(body []byte) ([]byte, error) {
	if len(body) == 0 {
		return nil, notify_err.NewEmptyMessageError()
	}
	return body, nil
}
