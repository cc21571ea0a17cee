package logger

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"DEBUG", zapcore.DebugLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"WARNING", zapcore.WarnLevel, false},
		{"Error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func readEntries(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var entries []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("log line is not JSON: %s", scanner.Text())
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestNew_ProductionJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log, err := New(Production, "INFO", path)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	log.Debug("debug message")
	log.Info("Event added", zap.String("id", "evt-1"))
	log.Error("Write failed", zap.Error(errors.New("read-only file system")))
	_ = log.Sync()

	entries := readEntries(t, path)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (debug filtered)", len(entries))
	}

	first := entries[0]
	if first["msg"] != "Event added" || first["id"] != "evt-1" || first["level"] != "info" {
		t.Errorf("unexpected entry: %v", first)
	}
	if _, ok := first["timestamp"]; !ok {
		t.Error("entry missing timestamp")
	}
	if _, ok := first["caller"]; !ok {
		t.Error("entry missing caller")
	}
	if entries[1]["error"] != "read-only file system" {
		t.Errorf("error field = %v", entries[1]["error"])
	}
}

func TestNew_Development(t *testing.T) {
	log, err := New("development", "debug", filepath.Join(t.TempDir(), "dev.log"))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if !log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level should be enabled")
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := New(Production, "loud"); err == nil {
		t.Error("New() expected error for unknown level")
	}
}
