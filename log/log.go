// Copyright (c) 2026 The Mare Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides structured leveled logging on top of log/slog.
package log

import (
	"log/slog"
	"os"
	"sync/atomic"
)

// Logger writes key/value pairs to a handler.
type Logger interface {
	// With returns a new Logger that has this logger's attributes plus ctx.
	With(ctx ...interface{}) Logger

	// Enabled reports whether l emits log records at the given level.
	Enabled(level slog.Level) bool

	Trace(msg string, ctx ...interface{})
	Debug(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Error(msg string, ctx ...interface{})
}

// LevelTrace is more verbose than slog's lowest standard level.
const LevelTrace = slog.Level(-8)

type logger struct {
	inner *slog.Logger
}

// NewLogger returns a logger with the specified handler set.
func NewLogger(h slog.Handler) Logger {
	return &logger{slog.New(h)}
}

func (l *logger) With(ctx ...interface{}) Logger {
	return &logger{l.inner.With(ctx...)}
}

func (l *logger) Enabled(level slog.Level) bool {
	return l.inner.Enabled(nil, level)
}

func (l *logger) Trace(msg string, ctx ...interface{}) { l.inner.Log(nil, LevelTrace, msg, ctx...) }
func (l *logger) Debug(msg string, ctx ...interface{}) { l.inner.Debug(msg, ctx...) }
func (l *logger) Info(msg string, ctx ...interface{})  { l.inner.Info(msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...interface{})  { l.inner.Warn(msg, ctx...) }
func (l *logger) Error(msg string, ctx ...interface{}) { l.inner.Error(msg, ctx...) }

var root atomic.Value

func init() {
	root.Store(&logger{slog.New(DiscardHandler())})
}

// SetDefault sets the default global logger.
func SetDefault(l Logger) {
	root.Store(l)
	if lg, ok := l.(*logger); ok {
		slog.SetDefault(lg.inner)
	}
}

// Root returns the root logger.
func Root() Logger {
	return root.Load().(Logger)
}

// WithContext returns a logger derived from the root logger with the given
// context attached.
func WithContext(ctx ...interface{}) Logger {
	return Root().With(ctx...)
}

// The following functions bypass the exported logger methods (logger.Debug,
// etc.) to keep the call depth the same for all paths to logger.write so
// runtime.Caller(2) always refers to the call site in client code.

// Trace is a convenient alias for Root().Trace.
func Trace(msg string, ctx ...interface{}) { Root().Trace(msg, ctx...) }

// Debug is a convenient alias for Root().Debug.
func Debug(msg string, ctx ...interface{}) { Root().Debug(msg, ctx...) }

// Info is a convenient alias for Root().Info.
func Info(msg string, ctx ...interface{}) { Root().Info(msg, ctx...) }

// Warn is a convenient alias for Root().Warn.
func Warn(msg string, ctx ...interface{}) { Root().Warn(msg, ctx...) }

// Error is a convenient alias for Root().Error.
func Error(msg string, ctx ...interface{}) { Root().Error(msg, ctx...) }

// NewTerminalHandlerWithLevel returns a handler writing human-readable logs
// at or above the given level to wr.
func NewTerminalHandlerWithLevel(wr *os.File, level slog.Level, useColor bool) slog.Handler {
	return newTerminalHandler(wr, level, useColor)
}

// NewJSONHandler returns a handler writing JSON logs at or above the given
// level.
func NewJSONHandler(wr *os.File, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(wr, &slog.HandlerOptions{Level: level})
}
