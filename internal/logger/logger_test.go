package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for name, want := range tests {
		if got := ParseLevel(name); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestInitWriterFiltersByLevel(t *testing.T) {
	prev, prevDefault := Logger, slog.Default()
	t.Cleanup(func() {
		Logger = prev
		slog.SetDefault(prevDefault)
	})

	var buf bytes.Buffer
	InitWriter(&buf, "warn")
	buf.Reset()

	Info("hidden")
	Warn("Skipping match", "match", "m1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if rec["msg"] != "Skipping match" || rec["match"] != "m1" || rec["level"] != "WARN" {
		t.Fatalf("record = %v", rec)
	}
}
