package logx

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
)

func newBufferLogger(lvl Level) (*bytes.Buffer, Logger) {
	var buf bytes.Buffer
	return &buf, NewWithOptions(&buf, lvl, FormatJSON)
}

func TestNew(t *testing.T) {
	logger := New()
	if logger == nil {
		t.Fatal("New() should return a logger, got nil")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"dbg", LevelDebug},
		{"  debug  ", LevelDebug},
		{"info", LevelInfo},
		{"", LevelInfo},
		{"warn", LevelWarn},
		{"Warning", LevelWarn},
		{"err", LevelError},
		{"ERROR", LevelError},
		{"invalid", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeKV(t *testing.T) {
	got := normalizeKV("key")
	if len(got) != 2 || got[1] != "(missing)" {
		t.Errorf("odd kv should be padded, got %v", got)
	}

	got = normalizeKV("a", 1, "b", true)
	if len(got) != 4 {
		t.Errorf("even kv should be untouched, got %v", got)
	}
}

func TestLogger_With(t *testing.T) {
	buf, logger := newBufferLogger(LevelDebug)

	scoped := logger.With("service", "discovery", "version", "2.0.0")
	scoped.Info("test message")

	output := buf.String()
	for _, want := range []string{"service", "discovery", "2.0.0", "test message"} {
		if !strings.Contains(output, want) {
			t.Errorf("output should contain %q, got: %s", want, output)
		}
	}
}

func TestLogger_With_Immutable(t *testing.T) {
	buf, logger := newBufferLogger(LevelDebug)

	scoped := logger.With("component", "orchestrator")

	if len(logger.(*ptermLogger).scope) != 0 {
		t.Errorf("original logger should not have scope, got: %v", logger.(*ptermLogger).scope)
	}
	if len(scoped.(*ptermLogger).scope) != 2 {
		t.Errorf("scoped logger should have one pair, got: %v", scoped.(*ptermLogger).scope)
	}

	logger.Info("original")
	if strings.Contains(buf.String(), "orchestrator") {
		t.Errorf("original logger output should not contain scope: %s", buf.String())
	}
}

func TestLogger_Levels(t *testing.T) {
	buf, logger := newBufferLogger(LevelDebug)

	logger.Debug("debug message", "key", "value")
	logger.Info("info message", "count", 42)
	logger.Warn("warning message", "enabled", true)

	output := buf.String()
	for _, want := range []string{"debug message", "info message", "warning message", "value", "42"} {
		if !strings.Contains(output, want) {
			t.Errorf("output should contain %q, got: %s", want, output)
		}
	}
}

func TestLogger_Err(t *testing.T) {
	buf, logger := newBufferLogger(LevelError)

	logger.Err(errors.New("upstream exploded"), "method", "crt")

	output := buf.String()
	if !strings.Contains(output, "upstream exploded") {
		t.Errorf("output should contain error, got: %s", output)
	}
	if !strings.Contains(output, "crt") {
		t.Errorf("output should contain kv pair, got: %s", output)
	}
}

func TestLogger_Err_Nil(t *testing.T) {
	buf, logger := newBufferLogger(LevelError)

	logger.Err(nil, "method", "crt")

	if buf.String() != "" {
		t.Errorf("nil error should not log anything, got: %s", buf.String())
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name    string
		level   Level
		logFunc func(Logger)
		visible bool
	}{
		{"debug hidden at info", LevelInfo, func(l Logger) { l.Debug("msg") }, false},
		{"info visible at info", LevelInfo, func(l Logger) { l.Info("msg") }, true},
		{"info hidden at warn", LevelWarn, func(l Logger) { l.Info("msg") }, false},
		{"warn hidden at error", LevelError, func(l Logger) { l.Warn("msg") }, false},
		{"error visible at error", LevelError, func(l Logger) { l.Err(errors.New("boom")) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, logger := newBufferLogger(tt.level)
			tt.logFunc(logger)

			if got := buf.Len() > 0; got != tt.visible {
				t.Errorf("visible = %v, want %v (output: %s)", got, tt.visible, buf.String())
			}
		})
	}
}

func TestLogger_SetLevel(t *testing.T) {
	buf, logger := newBufferLogger(LevelInfo)

	logger.SetLevel(LevelError)
	logger.Info("hidden")

	if buf.Len() != 0 {
		t.Errorf("info should be filtered after SetLevel, got: %s", buf.String())
	}
}

func TestLogger_ThreadSafety(t *testing.T) {
	buf, logger := newBufferLogger(LevelInfo)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger.With("worker", n).Info("probe done")
		}(i)
	}
	wg.Wait()

	if got := strings.Count(buf.String(), "probe done"); got != 20 {
		t.Errorf("expected 20 lines, got %d", got)
	}
}
