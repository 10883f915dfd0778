package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TempConfigPath returns a config file path inside a per-test temp dir
func TempConfigPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.yaml")
}

// TempDBPath returns a database file path inside a per-test temp dir
func TempDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "history.db")
}

// WriteFile writes a file for a test, creating parent directories
func WriteFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}
