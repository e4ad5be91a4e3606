package logging

import (
	"log/slog"
	"path/filepath"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewWithoutFile(t *testing.T) {
	logger, closer := New(Config{Level: "info", Format: "text"})
	if logger == nil {
		t.Fatal("nil logger")
	}
	if closer == nil {
		t.Fatal("closer must never be nil")
	}
	if err := closer.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, closer := New(Config{Level: "debug", Format: "json", FilePath: path})
	defer closer.Close() //nolint:errcheck

	logger.Info("hello")
	if !logger.Enabled(nil, slog.LevelDebug) {
		t.Error("debug level not enabled")
	}
}
