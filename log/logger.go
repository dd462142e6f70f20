package log

import (
	"context"
	"io"
	"log/slog"
	"math"
	"runtime"
	"time"

	gethlog "github.com/ethereum/go-ethereum/log"
)

const (
	levelMaxVerbosity slog.Level = math.MinInt
	LevelTrace        slog.Level = -8
	LevelDebug                   = slog.LevelDebug
	LevelInfo                    = slog.LevelInfo
	LevelWarn                    = slog.LevelWarn
	LevelError                   = slog.LevelError
)

// Logger writes module-tagged key/value records to a slog.Handler.
type Logger interface {
	// With returns a Logger that adds ctx to every record.
	With(ctx ...any) Logger

	Trace(module string, msg string, ctx ...any)
	Debug(module string, msg string, ctx ...any)
	Info(module string, msg string, ctx ...any)
	Warn(module string, msg string, ctx ...any)
	Error(module string, msg string, ctx ...any)

	// Write logs msg at level, attributing it to the caller of the
	// function that called Write.
	Write(level slog.Level, module string, msg string, attrs ...any)

	Enabled(ctx context.Context, level slog.Level) bool
	Handler() slog.Handler
}

type logger struct {
	inner *slog.Logger
}

// NewLogger returns a logger with the specified handler set
func NewLogger(h slog.Handler) Logger {
	return &logger{inner: slog.New(h)}
}

// NewTerminalHandlerWithLevel returns a human readable handler that drops records below lvl.
func NewTerminalHandlerWithLevel(w io.Writer, lvl slog.Level, useColor bool) slog.Handler {
	return gethlog.NewTerminalHandlerWithLevel(w, lvl, useColor)
}

// JSONHandlerWithLevel returns a handler that writes one JSON object per record.
func JSONHandlerWithLevel(w io.Writer, lvl slog.Level) slog.Handler {
	return gethlog.JSONHandlerWithLevel(w, lvl)
}

func DiscardHandler() slog.Handler {
	return gethlog.DiscardHandler()
}

func (l *logger) Handler() slog.Handler { return l.inner.Handler() }

func (l *logger) Enabled(ctx context.Context, level slog.Level) bool {
	return l.inner.Enabled(ctx, level)
}

func (l *logger) With(ctx ...any) Logger {
	return &logger{l.inner.With(ctx...)}
}

func (l *logger) Write(level slog.Level, module string, msg string, attrs ...any) {
	if !l.inner.Enabled(context.Background(), level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	if module != "" {
		r.Add("module", module)
	}
	r.Add(attrs...)
	_ = l.inner.Handler().Handle(context.Background(), r)
}

func (l *logger) Trace(module string, msg string, ctx ...any) { l.Write(LevelTrace, module, msg, ctx...) }
func (l *logger) Debug(module string, msg string, ctx ...any) { l.Write(LevelDebug, module, msg, ctx...) }
func (l *logger) Info(module string, msg string, ctx ...any) { l.Write(LevelInfo, module, msg, ctx...) }
func (l *logger) Warn(module string, msg string, ctx ...any) { l.Write(LevelWarn, module, msg, ctx...) }
func (l *logger) Error(module string, msg string, ctx ...any) { l.Write(LevelError, module, msg, ctx...) }
