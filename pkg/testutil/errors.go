package testutil

import (
	"context"

	"github.com/CodeMonkeyCybersecurity/delphi-notify/pkg/httpclient"
)

// TestError implements error interface for testing purposes
type TestError struct {
	message string
}

func (e *TestError) Error() string {
	return e.message
}

// NewTestError creates a new test error with the given message
func NewTestError(message string) error {
	return &TestError{message: message}
}

// FailingPoster fails every POST with Err, as a dead webhook endpoint would.
type FailingPoster struct {
	Err   error
	Calls int
}

func (p *FailingPoster) Post(_ context.Context, _ string, _ []byte, _ map[string]string) (*httpclient.Response, error) {
	p.Calls++
	return nil, p.Err
}
