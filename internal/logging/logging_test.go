package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func newTestLogger(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := New(Config{Level: level, Output: &buf, Prefix: "test"})
	l.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return l, &buf
}

func TestLoggerFormat(t *testing.T) {
	l, buf := newTestLogger(LevelDebug)

	l.Info("hello %s", "world")

	want := "2026-01-02T03:04:05.000 [INFO] test: hello world\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	l, buf := newTestLogger(LevelWarn)

	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")

	out := buf.String()
	if strings.Contains(out, "debug") || strings.Contains(out, "info") {
		t.Errorf("messages below level should be dropped: %q", out)
	}
	if !strings.Contains(out, "[WARN]") || !strings.Contains(out, "[ERROR]") {
		t.Errorf("expected warn and error lines: %q", out)
	}
}

func TestLoggerFieldsSorted(t *testing.T) {
	l, buf := newTestLogger(LevelInfo)

	l.WithComponent("snippet").WithField("session", "abc").Info("msg")

	if !strings.HasSuffix(buf.String(), "msg {component=snippet, session=abc}\n") {
		t.Errorf("unexpected field rendering: %q", buf.String())
	}
}

func TestLoggerWithFieldDoesNotMutateParent(t *testing.T) {
	l, buf := newTestLogger(LevelInfo)

	_ = l.WithField("k", "v")
	l.Info("plain")

	if strings.Contains(buf.String(), "k=v") {
		t.Errorf("parent logger gained child field: %q", buf.String())
	}
}

func TestNullLogger(t *testing.T) {
	l := Null()
	l.Error("nothing")
	l.WithField("a", 1).Error("still nothing")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if ValidLevel("bogus") {
		t.Error("bogus should not be a valid level")
	}
	if !ValidLevel("Debug") {
		t.Error("Debug should be a valid level")
	}
}

func TestDefaultLogger(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l, _ := newTestLogger(LevelError)
	SetDefault(l)
	if Default() != l {
		t.Error("SetDefault did not replace the default logger")
	}
}
