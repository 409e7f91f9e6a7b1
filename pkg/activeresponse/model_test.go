package activeresponse

import (
	"encoding/json"
	"testing"

	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/notify_err"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNewDefaults(t *testing.T) {
	ar := New("restart-wazuh", false)
	assert.Equal(t, "restart-wazuh", ar.Command())
	assert.False(t, ar.Custom())
	assert.Empty(t, ar.Arguments())

	// construction does not validate
	empty := New("", false)
	assert.Equal(t, "", empty.Command())
}

// Arguments must return the arguments, never the command.
func TestArgumentsGetterReturnsArguments(t *testing.T) {
	ar := New("!firewall-drop", true, "-", "null", "10.0.0.1")

	assert.Equal(t, []string{"-", "null", "10.0.0.1"}, ar.Arguments())
	assert.NotContains(t, ar.Arguments(), ar.Command())

	ar.SetArguments([]string{"x"})
	assert.Equal(t, []string{"x"}, ar.Arguments())
	assert.Equal(t, "!firewall-drop", ar.Command())
}

func TestSetters(t *testing.T) {
	ar := New("a", false)
	ar.SetCommand("b")
	ar.SetCustom(true)
	ar.SetArguments([]string{"1", "2"})

	assert.Equal(t, "b", ar.Command())
	assert.True(t, ar.Custom())
	assert.Equal(t, []string{"1", "2"}, ar.Arguments())
}

func TestFromMap(t *testing.T) {
	tests := []struct {
		name    string
		in      map[string]any
		want    *ActiveResponse
		wantErr bool
	}{
		{
			name: "all keys",
			in:   map[string]any{"command": "!block", "custom": true, "arguments": []any{"a", "b"}},
			want: New("!block", true, "a", "b"),
		},
		{
			name: "string slice arguments",
			in:   map[string]any{"command": "c", "arguments": []string{"x"}},
			want: New("c", false, "x"),
		},
		{
			name: "missing keys keep defaults",
			in:   map[string]any{"command": "c"},
			want: New("c", false),
		},
		{
			name: "empty mapping",
			in:   map[string]any{},
			want: New("", false),
		},
		{
			name: "unknown keys ignored",
			in:   map[string]any{"command": "c", "agents_list": []any{"001"}},
			want: New("c", false),
		},
		{name: "custom wrong type", in: map[string]any{"custom": "yes"}, wantErr: true},
		{name: "arguments wrong shape", in: map[string]any{"arguments": 5}, wantErr: true},
		{name: "command wrong type", in: map[string]any{"command": 5}, wantErr: true},
		{name: "argument element wrong type", in: map[string]any{"arguments": []any{map[string]any{}}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromMap(tt.in)
			if tt.wantErr {
				var derr *DeserializationError
				require.ErrorAs(t, err, &derr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapRoundTrip(t *testing.T) {
	orig := New("!script.sh", true, "one", "two")

	back, err := FromMap(orig.ToMap())
	require.NoError(t, err)
	assert.Equal(t, orig.Command(), back.Command())
	assert.Equal(t, orig.Custom(), back.Custom())
	assert.Equal(t, orig.Arguments(), back.Arguments())
}

func TestJSONRoundTrip(t *testing.T) {
	orig := New("restart", false, "now")

	data, err := json.Marshal(orig)
	require.NoError(t, err)
	assert.JSONEq(t, `{"command":"restart","custom":false,"arguments":["now"]}`, string(data))

	var back ActiveResponse
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, orig, &back)

	var bad ActiveResponse
	var derr *DeserializationError
	assert.ErrorAs(t, json.Unmarshal([]byte(`{"custom":"yes"}`), &bad), &derr)
}

func TestMarshalYAML(t *testing.T) {
	data, err := yaml.Marshal(New("!drop", true, "ip"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "command:")
	assert.Contains(t, string(data), "!drop")
	assert.Contains(t, string(data), "custom: true")
}

func TestScript(t *testing.T) {
	tests := []struct {
		command  string
		isScript bool
		name     string
	}{
		{command: "!firewall-drop", isScript: true, name: "firewall-drop"},
		{command: "restart-wazuh", isScript: false, name: ""},
		{command: "!", isScript: true, name: ""},
		{command: "", isScript: false, name: ""},
	}
	for _, tt := range tests {
		ar := New(tt.command, false)
		assert.Equal(t, tt.isScript, ar.IsScript(), tt.command)
		assert.Equal(t, tt.name, ar.ScriptName(), tt.command)
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, New("restart", false).Validate())

	err := New("", true, "x").Validate()
	require.Error(t, err)
	assert.True(t, notify_err.Is(err, notify_err.CategoryValidation))
}
