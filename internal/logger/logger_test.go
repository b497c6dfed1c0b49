package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// resetLogger restores the default logger state after a test.
func resetLogger(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		InitWithWriter(bytes.NewBuffer(nil), "INFO", "text", false)
	})
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(42), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestTextOutputContainsMessageAndFields(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "text", false)

	Info("material saved", KeyMaterialID, "m-1", KeyUsername, "alice")

	out := buf.String()
	if !strings.Contains(out, "material saved") {
		t.Errorf("output missing message: %q", out)
	}
	if !strings.Contains(out, "m-1") || !strings.Contains(out, "alice") {
		t.Errorf("output missing fields: %q", out)
	}
}

func TestJSONOutput(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "json", false)

	Info("login succeeded", KeyUsername, "bob", KeyStatus, 200)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %q", err, buf.String())
	}
	if entry["msg"] != "login succeeded" {
		t.Errorf("unexpected msg: %v", entry["msg"])
	}
	if entry[KeyUsername] != "bob" {
		t.Errorf("unexpected username field: %v", entry[KeyUsername])
	}
}

func TestLevelFiltering(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	InitWithWriter(&buf, "WARN", "text", false)

	Debug("debug message")
	Info("info message")
	Warn("warn message")
	Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("low-severity messages not filtered: %q", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("high-severity messages missing: %q", out)
	}
}

func TestSetLevelAtRuntime(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	InitWithWriter(&buf, "ERROR", "text", false)

	Info("hidden")
	SetLevel("DEBUG")
	Debug("now visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("message logged below threshold: %q", out)
	}
	if !strings.Contains(out, "now visible") {
		t.Errorf("debug message missing after SetLevel: %q", out)
	}
}

func TestSetLevelIgnoresInvalid(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	InitWithWriter(&buf, "WARN", "text", false)

	SetLevel("VERBOSE")
	Info("still filtered")

	if strings.Contains(buf.String(), "still filtered") {
		t.Errorf("invalid level changed filtering: %q", buf.String())
	}
}

func TestSetFormatAtRuntime(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "text", false)

	SetFormat("json")
	Info("structured")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON after SetFormat: %v\noutput: %q", err, buf.String())
	}

	// Invalid formats are ignored
	SetFormat("xml")
	buf.Reset()
	Info("still json")
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Errorf("invalid format changed output: %q", buf.String())
	}
}

func TestCtxVariantsInjectLogContext(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	InitWithWriter(&buf, "DEBUG", "json", false)

	lc := &LogContext{
		TraceID:   "trace-123",
		RequestID: "req-456",
		Method:    "POST",
		Path:      "/api/v1/auth/login",
		Username:  "carol",
	}
	ctx := WithContext(context.Background(), lc)

	InfoCtx(ctx, "request handled", KeyStatus, 200)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if entry[KeyTraceID] != "trace-123" {
		t.Errorf("trace id not injected: %v", entry)
	}
	if entry[KeyRequestID] != "req-456" {
		t.Errorf("request id not injected: %v", entry)
	}
	if entry[KeyUsername] != "carol" {
		t.Errorf("username not injected: %v", entry)
	}
}

func TestCtxVariantsWithoutLogContext(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	InitWithWriter(&buf, "DEBUG", "text", false)

	// Must not panic and must still log
	DebugCtx(context.Background(), "no context fields")
	if !strings.Contains(buf.String(), "no context fields") {
		t.Errorf("message missing: %q", buf.String())
	}
}

func TestWithAttachesAttributes(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "json", false)

	l := With(KeyUpstream, "ollama")
	l.Info("generation complete")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if entry[KeyUpstream] != "ollama" {
		t.Errorf("With attribute missing: %v", entry)
	}
}

func TestErrHelper(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "json", false)

	Error("operation failed", Err(errors.New("boom")))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if entry[KeyError] != "boom" {
		t.Errorf("error field missing: %v", entry)
	}
}

func TestDuration(t *testing.T) {
	start := time.Now().Add(-50 * time.Millisecond)
	ms := Duration(start)
	if ms < 45 || ms > 5000 {
		t.Errorf("Duration out of expected range: %v ms", ms)
	}
}

func TestConcurrentLogging(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "text", false)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				Info("concurrent", KeyCount, j)
			}
		}()
	}
	// Level/format flips while logging must not race or panic
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 10; j++ {
			SetLevel("DEBUG")
			SetFormat("json")
			SetLevel("INFO")
			SetFormat("text")
		}
	}()
	wg.Wait()
}
