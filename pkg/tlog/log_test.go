package tlog

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

// captureStderr redirects os.Stderr for the duration of fn and returns
// everything written to it.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	orig := os.Stderr
	os.Stderr = w
	defer func() { os.Stderr = orig }()

	fn()

	w.Close()
	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestPrintfSuppressedAboveLevel(t *testing.T) {
	orig := Level
	Level = Error
	defer func() { Level = orig }()

	out := captureStderr(t, func() {
		Printf(Debug, "unreachable %d", 1)
	})
	if out != "" {
		t.Fatalf("expected no output at Level=Error for a Debug message, got %q", out)
	}
}

func TestPrintfEmittedAtOrBelowLevel(t *testing.T) {
	orig := Level
	Level = Debug
	defer func() { Level = orig }()

	out := captureStderr(t, func() {
		Printf(Warn, "disk at %d%%", 90)
	})
	if !strings.Contains(out, "WARN") || !strings.Contains(out, "disk at 90%") {
		t.Fatalf("expected a WARN line mentioning the formatted message, got %q", out)
	}
}

func TestDebugLogfRespectsLevel(t *testing.T) {
	orig := Level
	defer func() { Level = orig }()

	Level = Info
	out := captureStderr(t, func() { DebugLogf("x=%d", 1) })
	if out != "" {
		t.Fatalf("expected DebugLogf to be suppressed at Level=Info, got %q", out)
	}

	Level = Debug
	out = captureStderr(t, func() { DebugLogf("x=%d", 1) })
	if !strings.Contains(out, "DEBUG") || !strings.Contains(out, "x=1") {
		t.Fatalf("expected a DEBUG line at Level=Debug, got %q", out)
	}
}
