// pkg/alerts/stream.go
package alerts

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// MaxLineSize bounds a single alerts.json line.
const MaxLineSize = 4 * 1024 * 1024

// Stream reads newline-delimited alert documents, as written to alerts.json.
type Stream struct {
	scanner *bufio.Scanner
	line    int
}

// NewStream wraps r. Blank lines are skipped.
func NewStream(r io.Reader) *Stream {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return &Stream{scanner: s}
}

// LineError reports a line that could not be decoded. Reading can continue.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Next returns the next alert and its 1-based line number. Undecodable lines
// come back as *LineError and reading can continue; io.EOF marks the end of
// the input; any other error is a read failure.
func (s *Stream) Next() (*Alert, int, error) {
	for s.scanner.Scan() {
		s.line++
		raw := bytes.TrimSpace(s.scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		a, err := Decode(raw)
		if err != nil {
			return nil, s.line, &LineError{Line: s.line, Err: err}
		}
		return a, s.line, nil
	}
	if err := s.scanner.Err(); err != nil {
		return nil, s.line, err
	}
	return nil, s.line, io.EOF
}
