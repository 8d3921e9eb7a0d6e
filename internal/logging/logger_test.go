package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
		wantErr  bool
	}{
		{"", LogLevelOff, false},
		{"off", LogLevelOff, false},
		{"error", LogLevelError, false},
		{"WARN", LogLevelWarn, false},
		{"info", LogLevelInfo, false},
		{" debug ", LogLevelDebug, false},
		{"verbose", LogLevelOff, true},
	}

	for _, test := range tests {
		got, err := ParseLevel(test.input)
		if (err != nil) != test.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", test.input, err, test.wantErr)
		}
		if got != test.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", test.input, got, test.expected)
		}
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "findexec.log")

	logger, err := New(LogLevelInfo, path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("visible")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	if !strings.Contains(string(data), "visible") {
		t.Errorf("Expected info message in log, got %q", data)
	}
	if strings.Contains(string(data), "hidden") {
		t.Errorf("Expected debug message to be filtered, got %q", data)
	}
}

func TestNewOffIsNop(t *testing.T) {
	logger, err := New(LogLevelOff, "")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if logger.Core().Enabled(-1) {
		t.Errorf("Expected a disabled logger")
	}
}
