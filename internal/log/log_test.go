package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if ValidLevel("bogus") {
		t.Error("ValidLevel(bogus) = true")
	}
	if !ValidLevel("Debug") {
		t.Error("ValidLevel(Debug) = false")
	}
}

func TestComponentLoggers(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "debug")

	WithWallet(Session, "w-1").Info().Msg("loaded")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["component"] != "session" {
		t.Errorf("component = %v, want session", entry["component"])
	}
	if entry["wallet_id"] != "w-1" {
		t.Errorf("wallet_id = %v, want w-1", entry["wallet_id"])
	}
	if entry["message"] != "loaded" {
		t.Errorf("message = %v, want loaded", entry["message"])
	}
}

func TestWithWallet_Chained(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "debug")

	l := WithWallet(Wallet, "w-2")
	l.Debug().Uint32("index", 1).Msg("derived")
	WithWallet(Storage, "w-2").Error().Msg("save failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d log lines, want 2: %q", len(lines), buf.String())
	}
	for _, line := range lines {
		if !strings.Contains(line, `"wallet_id":"w-2"`) {
			t.Errorf("line missing wallet_id: %s", line)
		}
	}
	// The parent logger is not modified.
	buf.Reset()
	Wallet.Info().Msg("plain")
	if strings.Contains(buf.String(), "wallet_id") {
		t.Errorf("component logger picked up wallet_id: %s", buf.String())
	}
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "warn")

	Wallet.Info().Msg("hidden")
	Wallet.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message written at warn level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("warn message missing")
	}
}

func TestBenchmark(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "debug")

	done := Benchmark(Storage, "save")
	done()

	if !strings.Contains(buf.String(), `"operation":"save"`) {
		t.Errorf("benchmark line missing operation: %q", buf.String())
	}
}

func TestInitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.log")
	if err := Init("info", true, path); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	defer SetOutput(os.Stderr, "warn")

	CLI.Info().Msg("to file")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file missing entry: %q", data)
	}
}
