// pkg/alerts/model_test.go

package alerts

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleAlert = `{"rule":{"level":3,"description":"Test","id":"5501"},"full_log":"x","id":"1","location":"loc","agent":{"id":"001","name":"a1"}}`

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, a *Alert, err error)
	}{
		{
			name:  "full alert",
			input: sampleAlert,
			check: func(t *testing.T, a *Alert, err error) {
				require.NoError(t, err)
				assert.Equal(t, 3, a.Level())
				assert.Equal(t, "Test", a.Title())
				assert.Equal(t, "5501", a.Rule.ID.Interface())
				assert.Equal(t, "1", a.ID.Interface())
				assert.Equal(t, "loc", a.Location.String())
				assert.Equal(t, "x", a.FullLog.Interface())
				require.NotNil(t, a.Agent)
				assert.Equal(t, "(001) - a1", a.Agent.Label())
				assert.Nil(t, a.Agentless)
			},
		},
		{
			name:  "no description",
			input: `{"rule":{"level":9},"id":"2","location":"l"}`,
			check: func(t *testing.T, a *Alert, err error) {
				require.NoError(t, err)
				assert.Equal(t, "N/A", a.Title())
				assert.False(t, a.FullLog.Present())
				assert.Nil(t, a.FullLog.Interface())
			},
		},
		{
			name:  "empty description is kept",
			input: `{"rule":{"level":1,"description":""}}`,
			check: func(t *testing.T, a *Alert, err error) {
				require.NoError(t, err)
				assert.Equal(t, "", a.Title())
			},
		},
		{
			name:  "null description is sent as null",
			input: `{"rule":{"level":1,"description":null}}`,
			check: func(t *testing.T, a *Alert, err error) {
				require.NoError(t, err)
				assert.True(t, a.Rule.Description.Present())
				assert.Nil(t, a.Title())
			},
		},
		{
			name:  "numeric ids keep their type",
			input: `{"rule":{"level":3,"id":5501},"id":1700000000.1,"agent":{"id":1,"name":"a1"}}`,
			check: func(t *testing.T, a *Alert, err error) {
				require.NoError(t, err)
				assert.Equal(t, json.Number("1700000000.1"), a.ID.Interface())
				assert.Equal(t, json.Number("5501"), a.Rule.ID.Interface())
				assert.Equal(t, "5501", a.Rule.ID.String())
				assert.Equal(t, "(1) - a1", a.Agent.Label())
			},
		},
		{
			name:  "float level",
			input: `{"rule":{"level":5.0}}`,
			check: func(t *testing.T, a *Alert, err error) {
				require.NoError(t, err)
				assert.Equal(t, 5, a.Level())
				assert.Equal(t, "5.0", a.Rule.Level.String())
			},
		},
		{
			name:  "null level",
			input: `{"rule":{"level":null}}`,
			check: func(t *testing.T, a *Alert, err error) {
				assert.ErrorIs(t, err, ErrMissingLevel)
			},
		},
		{
			name:  "agentless",
			input: `{"rule":{"level":5},"agentless":{"host":"root@10.0.0.1"}}`,
			check: func(t *testing.T, a *Alert, err error) {
				require.NoError(t, err)
				require.NotNil(t, a.Agentless)
				assert.Equal(t, "root@10.0.0.1", a.Agentless.Host.String())
			},
		},
		{
			name:  "missing level",
			input: `{"rule":{"description":"x"}}`,
			check: func(t *testing.T, a *Alert, err error) {
				assert.ErrorIs(t, err, ErrMissingLevel)
				assert.Nil(t, a)
			},
		},
		{
			name:  "non integer level",
			input: `{"rule":{"level":"high"}}`,
			check: func(t *testing.T, a *Alert, err error) {
				assert.ErrorIs(t, err, ErrLevelNotNumber)
				assert.Nil(t, a)
			},
		},
		{
			name:  "invalid json",
			input: `{"rule":`,
			check: func(t *testing.T, a *Alert, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Decode([]byte(tt.input))
			tt.check(t, a, err)
		})
	}
}

func TestValue(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		doc     string
		str     string
		encoded string
	}{
		{name: "string", doc: `"abc"`, str: "abc", encoded: `"abc"`},
		{name: "integer", doc: `42`, str: "42", encoded: `42`},
		{name: "float", doc: `1700000000.1`, str: "1700000000.1", encoded: `1700000000.1`},
		{name: "bool", doc: `true`, str: "true", encoded: `true`},
		{name: "null", doc: `null`, str: "", encoded: `null`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var v Value
			require.NoError(t, json.Unmarshal([]byte(tt.doc), &v))
			assert.True(t, v.Present())
			assert.Equal(t, tt.str, v.String())

			out, err := json.Marshal(map[string]any{"v": v.Interface()})
			require.NoError(t, err)
			assert.JSONEq(t, `{"v":`+tt.encoded+`}`, string(out))
		})
	}
}

func TestLevelWithoutRule(t *testing.T) {
	var a Alert
	assert.Equal(t, 0, a.Level())
	assert.Equal(t, "N/A", a.Title())
}

func TestStream(t *testing.T) {
	input := strings.Join([]string{
		sampleAlert,
		"",
		`not json`,
		`{"rule":{"level":12},"id":"3"}`,
	}, "\n")

	s := NewStream(strings.NewReader(input))

	a, line, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, line)
	assert.Equal(t, "1", a.ID.String())

	_, line, err = s.Next()
	var lineErr *LineError
	require.True(t, errors.As(err, &lineErr))
	assert.Equal(t, 3, line)
	assert.Equal(t, 3, lineErr.Line)
	assert.Contains(t, lineErr.Error(), "line 3")

	a, line, err = s.Next()
	require.NoError(t, err)
	assert.Equal(t, 4, line)
	assert.Equal(t, 12, a.Level())

	_, _, err = s.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestStreamLineTooLong(t *testing.T) {
	long := `{"rule":{"level":1},"full_log":"` + strings.Repeat("a", MaxLineSize) + `"}`
	s := NewStream(strings.NewReader(long))

	_, _, err := s.Next()
	require.Error(t, err)
	var lineErr *LineError
	assert.False(t, errors.As(err, &lineErr), "oversized lines are read failures, not decode failures")
	assert.NotErrorIs(t, err, io.EOF)
}
