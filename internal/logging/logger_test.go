package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWritesDatedFile(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir, "info"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	Debug("hidden at info level")
	Info("poll ok", "feed", "flings")
	Close()
	defer func() { Logger = nil }()

	matches, _ := filepath.Glob(filepath.Join(dir, "logs", "flingwatch-*.log"))
	if len(matches) != 1 {
		t.Fatalf("log files = %v", matches)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "feed=flings") {
		t.Errorf("missing structured field in %q", out)
	}
	if strings.Contains(out, "hidden at info level") {
		t.Error("debug line written at info level")
	}
}

func TestInitRejectsBadLevel(t *testing.T) {
	if err := Init(t.TempDir(), "loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestWithPrefixBeforeInit(t *testing.T) {
	Logger = nil
	if WithPrefix("poll") == nil {
		t.Fatal("WithPrefix returned nil")
	}
	WithPrefix("poll").Info("dropped")
}
