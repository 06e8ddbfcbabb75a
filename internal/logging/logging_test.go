package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "fourd.log")
	l, err := New(path, "debug")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	l.Info("created list")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file missing: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"created list"`) {
		t.Errorf("unexpected log content: %s", data)
	}
}

func TestNewDisabledAndBadLevel(t *testing.T) {
	if l, err := New(Disabled, "nonsense"); err != nil || l == nil {
		t.Errorf("disabled logger should ignore the level, got %v", err)
	}
	if _, err := New(filepath.Join(t.TempDir(), "x.log"), "loud"); err == nil {
		t.Errorf("expected an error for an unknown level")
	}
}
