package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// captureLogOutput reinitializes the logger to write to a buffer, runs f and
// restores the default logger.
func captureLogOutput(level Level, format Format, f func()) string {
	var buf bytes.Buffer
	InitLoggerTo(&buf, level, format)
	f()
	InitLogger(LevelInfo, FormatJSON)
	return buf.String()
}

// decode parses the single JSON record in out.
func decode(t *testing.T, out string) map[string]any {
	t.Helper()
	var rec map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &rec); err != nil {
		t.Fatalf("log output %q is not a single JSON record: %v", out, err)
	}
	return rec
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name   string
		level  Level
		format Format
	}{
		{"Debug level JSON format", LevelDebug, FormatJSON},
		{"Warn level JSON format", LevelWarn, FormatJSON},
		{"Info level Text format", LevelInfo, FormatText},
		{"Default level (invalid value)", Level(999), FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			InitLogger(tt.level, tt.format)
			if GetLogger() == nil {
				t.Error("Expected logger to be initialized, got nil")
			}
		})
	}
	InitLogger(LevelInfo, FormatJSON)
}

func TestLevelFiltering(t *testing.T) {
	out := captureLogOutput(LevelWarn, FormatJSON, func() {
		Info("hidden")
		Warn("shown")
	})

	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn message missing: %s", out)
	}
}

func TestTimestampFormat(t *testing.T) {
	out := captureLogOutput(LevelInfo, FormatJSON, func() {
		Info("tick")
	})

	rec := decode(t, out)
	ts, ok := rec["time"].(string)
	if !ok {
		t.Fatalf("time field missing: %v", rec)
	}
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("time %q is not RFC3339: %v", ts, err)
	}
}

func TestTextFormat(t *testing.T) {
	out := captureLogOutput(LevelDebug, FormatText, func() {
		Debug("plain", "key", "value")
	})
	if !strings.Contains(out, "msg=plain") || !strings.Contains(out, "key=value") {
		t.Errorf("unexpected text output: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warn":    LevelWarn,
		"warning": LevelWarn,
		" error ": LevelError,
		"bogus":   LevelInfo,
		"":        LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("TEXT") != FormatText {
		t.Error("ParseFormat(TEXT) should be FormatText")
	}
	if ParseFormat("json") != FormatJSON || ParseFormat("") != FormatJSON {
		t.Error("ParseFormat should default to FormatJSON")
	}
}

func TestRequestID(t *testing.T) {
	id := NewRequestID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("NewRequestID() = %q is not a UUID: %v", id, err)
	}
	if NewRequestID() == id {
		t.Error("NewRequestID() returned the same ID twice")
	}

	ctx := WithRequestID(context.Background(), id)
	if got := GetRequestID(ctx); got != id {
		t.Errorf("GetRequestID() = %q, want %q", got, id)
	}
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		expected string
	}{
		{"Context with request ID", context.WithValue(context.Background(), RequestIDKey, "test-id"), "test-id"},
		{"Context without request ID", context.Background(), ""},
		{"Context with wrong type value", context.WithValue(context.Background(), RequestIDKey, 12345), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := GetRequestID(tt.ctx); result != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestContextHelpersCarryRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-42")
	out := captureLogOutput(LevelDebug, FormatJSON, func() {
		InfoContext(ctx, "with id")
	})

	rec := decode(t, out)
	if rec["request_id"] != "req-42" {
		t.Errorf("request_id = %v, want req-42", rec["request_id"])
	}
}

func TestEventHelpers(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")

	tests := []struct {
		name  string
		log   func()
		msg   string
		level string
		attrs map[string]any
	}{
		{
			name:  "MessageProcessed",
			log:   func() { MessageProcessed(ctx, "full", 3, 2, 1500*time.Millisecond) },
			msg:   "message_processed",
			level: "INFO",
			attrs: map[string]any{"outcome": "full", "citations": float64(3), "verses": float64(2), "duration_ms": float64(1500), "request_id": "req-1"},
		},
		{
			name:  "FetchFailed",
			log:   func() { FetchFailed(ctx, "John 3:16", "ESV", errors.New("timeout")) },
			msg:   "fetch_failed",
			level: "WARN",
			attrs: map[string]any{"reference": "John 3:16", "translation": "ESV", "error": "timeout"},
		},
		{
			name:  "DefaultsUpdated",
			log:   func() { DefaultsUpdated(ctx, "user", "alice", "JPS", "ESV", "NRSV") },
			msg:   "defaults_updated",
			level: "INFO",
			attrs: map[string]any{"kind": "user", "subject": "alice", "ot": "JPS", "nt": "ESV", "deut": "NRSV"},
		},
		{
			name:  "ConfigLoaded",
			log:   func() { ConfigLoaded("/etc/versebot.yaml", "translations", 14) },
			msg:   "config_loaded",
			level: "INFO",
			attrs: map[string]any{"path": "/etc/versebot.yaml", "translations": float64(14)},
		},
		{
			name:  "CorpusLoaded",
			log:   func() { CorpusLoaded("JPS", "jps.xml", 39, 23145) },
			msg:   "corpus_loaded",
			level: "INFO",
			attrs: map[string]any{"translation": "JPS", "books": float64(39), "verses": float64(23145)},
		},
		{
			name:  "SecurityEvent",
			log:   func() { SecurityEvent("permission_denied", "defaults", "user", "mallory") },
			msg:   "security_event",
			level: "WARN",
			attrs: map[string]any{"event": "permission_denied", "component": "defaults", "user": "mallory"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := decode(t, captureLogOutput(LevelDebug, FormatJSON, tt.log))
			if rec["msg"] != tt.msg {
				t.Errorf("msg = %v, want %s", rec["msg"], tt.msg)
			}
			if rec["level"] != tt.level {
				t.Errorf("level = %v, want %s", rec["level"], tt.level)
			}
			for k, want := range tt.attrs {
				if rec[k] != want {
					t.Errorf("%s = %v (%T), want %v", k, rec[k], rec[k], want)
				}
			}
		})
	}
}
