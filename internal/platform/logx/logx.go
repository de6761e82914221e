// internal/platform/logx/logx.go
package logx

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pterm/pterm"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Format selects the pterm formatter used for each line.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Err(err error, kv ...any)
	With(kv ...any) Logger
	SetLevel(lvl Level)
}

type ptermLogger struct {
	mu    *sync.Mutex
	lvl   Level
	scope []any // pares key/value fijos
	pl    *pterm.Logger
}

// New creates a text logger on stderr. The level comes from SUBHOUND_LOG_LEVEL.
func New() Logger {
	return NewWithOptions(os.Stderr, parseLevel(os.Getenv("SUBHOUND_LOG_LEVEL")), FormatText)
}

// NewWithLevel creates a logger with a specific log level
func NewWithLevel(lvl Level) Logger {
	return NewWithOptions(os.Stderr, lvl, FormatText)
}

// NewSilent creates a logger that only outputs errors.
func NewSilent() Logger {
	return NewWithLevel(LevelError)
}

// NewWithOptions builds a logger writing to w with the given level and format.
func NewWithOptions(w io.Writer, lvl Level, format Format) Logger {
	pl := pterm.DefaultLogger.
		WithWriter(w).
		WithLevel(pterm.LogLevelTrace).
		WithTime(true)

	if format == FormatJSON {
		pl = pl.WithFormatter(pterm.LogFormatterJSON)
	}

	return &ptermLogger{
		mu:  &sync.Mutex{},
		lvl: lvl,
		pl:  pl,
	}
}

func (s *ptermLogger) With(kv ...any) Logger {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *s
	clone.scope = append(append([]any{}, s.scope...), normalizeKV(kv...)...)
	return &clone
}

func (s *ptermLogger) SetLevel(lvl Level) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lvl = lvl
}

func (s *ptermLogger) Debug(msg string, kv ...any) { s.log(LevelDebug, msg, kv...) }
func (s *ptermLogger) Info(msg string, kv ...any)  { s.log(LevelInfo, msg, kv...) }
func (s *ptermLogger) Warn(msg string, kv ...any)  { s.log(LevelWarn, msg, kv...) }
func (s *ptermLogger) Err(err error, kv ...any) {
	if err == nil {
		return
	}
	kv = append([]any{"error", err.Error()}, kv...)
	s.log(LevelError, "", kv...)
}

func (s *ptermLogger) log(l Level, msg string, kv ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l < s.lvl {
		return
	}

	fields := append(append([]any{}, s.scope...), normalizeKV(kv...)...)
	args := s.pl.Args(fields...)

	switch l {
	case LevelDebug:
		s.pl.Debug(msg, args)
	case LevelInfo:
		s.pl.Info(msg, args)
	case LevelWarn:
		s.pl.Warn(msg, args)
	default:
		s.pl.Error(msg, args)
	}
}

// normalizeKV pads an odd list so every key has a value.
func normalizeKV(kv ...any) []any {
	out := make([]any, 0, len(kv)+1)
	out = append(out, kv...)
	if len(out)%2 != 0 {
		out = append(out, "(missing)")
	}
	return out
}

// ParseLevel converts a textual level; unknown values map to info.
func ParseLevel(s string) Level {
	return parseLevel(s)
}

func parseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "dbg":
		return LevelDebug
	case "info", "inf", "":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "err", "error":
		return LevelError
	default:
		return LevelInfo
	}
}
