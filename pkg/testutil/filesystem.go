package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// =====================================
// File System Testing Utilities
// =====================================

// CreateTestFile creates a test file with specified content and permissions
func CreateTestFile(t *testing.T, dir, filename, content string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, filename)
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	return path
}

// WriteJSONFile writes content to a fresh file under t.TempDir() and returns its path
func WriteJSONFile(t *testing.T, filename, content string) string {
	t.Helper()
	return CreateTestFile(t, t.TempDir(), filename, content, 0o600)
}

// MissingFile returns a path under t.TempDir() that does not exist
func MissingFile(t *testing.T, filename string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "absent", filename)
}

// AssertFileContains verifies that the file at path contains every substring
func AssertFileContains(t *testing.T, path string, substrings ...string) {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, s := range substrings {
		require.Contains(t, string(content), s)
	}
}

// ReadLines returns the non-empty lines of the file at path
func ReadLines(t *testing.T, path string) []string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	var lines []string
	for _, l := range strings.Split(string(content), "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
