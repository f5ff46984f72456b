package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedactsSecretKeys(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.Info("configured", "provider", "gemini", "api_key", "sk-123", "max_tokens", 4096)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["api_key"] != "[REDACTED]" {
		t.Errorf("api_key not redacted: %v", fields["api_key"])
	}
	if fields["provider"] != "gemini" {
		t.Errorf("provider altered: %v", fields["provider"])
	}
	if fields["max_tokens"] != int64(4096) {
		t.Errorf("max_tokens: %v", fields["max_tokens"])
	}
}

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := (&Logger{SugaredLogger: zap.New(core).Sugar()}).With("session_id", "s1")

	l.Warn("refill skipped")

	if got := logs.All()[0].ContextMap()["session_id"]; got != "s1" {
		t.Errorf("session_id = %v, want s1", got)
	}
}

func TestWithRedactsSecretKeys(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := (&Logger{SugaredLogger: zap.New(core).Sugar()}).With("openai_api_key", "sk-456")

	l.Debug("client ready")

	if got := logs.All()[0].ContextMap()["openai_api_key"]; got != "[REDACTED]" {
		t.Errorf("openai_api_key not redacted: %v", got)
	}
}

func TestLevels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")

	want := []zapcore.Level{zap.DebugLevel, zap.InfoLevel, zap.WarnLevel, zap.ErrorLevel}
	entries := logs.All()
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, e := range entries {
		if e.Level != want[i] {
			t.Errorf("%s logged at %s, want %s", e.Message, e.Level, want[i])
		}
	}
}

func TestNopDoesNotPanic(t *testing.T) {
	l := Nop()
	l.Debug("x")
	l.Error("y", "k", "v")
	l.Sync()
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"dev", "prod"} {
		l, err := New(mode)
		if err != nil {
			t.Fatalf("New(%q): %v", mode, err)
		}
		l.Sync()
	}
}

func TestNewWithOutputWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "play.log")
	l, err := NewWithOutput("prod", path)
	if err != nil {
		t.Fatalf("NewWithOutput: %v", err)
	}
	l.Info("session started", "session_id", "s1")
	l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"session_id":"s1"`) {
		t.Errorf("log file missing entry: %s", data)
	}
}
