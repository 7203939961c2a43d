// Copyright (c) 2026 The Mare Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

type discardHandler struct{}

// DiscardHandler returns a no-op handler.
func DiscardHandler() slog.Handler {
	return &discardHandler{}
}

func (h *discardHandler) Handle(_ context.Context, _ slog.Record) error {
	return nil
}

func (h *discardHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return false
}

func (h *discardHandler) WithGroup(_ string) slog.Handler {
	return &discardHandler{}
}

func (h *discardHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return &discardHandler{}
}

const termTimeFormat = "01-02|15:04:05.000"

type terminalHandler struct {
	mu       sync.Mutex
	wr       io.Writer
	level    slog.Level
	useColor bool
	attrs    []slog.Attr
}

func newTerminalHandler(wr io.Writer, level slog.Level, useColor bool) *terminalHandler {
	return &terminalHandler{
		wr:       wr,
		level:    level,
		useColor: useColor,
	}
}

func (h *terminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *terminalHandler) WithGroup(_ string) slog.Handler {
	panic("not implemented")
}

func (h *terminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &terminalHandler{
		wr:       h.wr,
		level:    h.level,
		useColor: h.useColor,
		attrs:    append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...),
	}
}

func (h *terminalHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	b.WriteString(levelTag(r.Level, h.useColor))
	b.WriteByte('[')
	b.WriteString(r.Time.Format(termTimeFormat))
	b.WriteString("] ")
	b.WriteString(r.Message)

	writeAttr := func(a slog.Attr) bool {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteByte('=')
		b.WriteString(formatValue(a.Value))
		return true
	}
	for _, a := range h.attrs {
		writeAttr(a)
	}
	r.Attrs(writeAttr)
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.wr, b.String())
	return err
}

func levelTag(level slog.Level, useColor bool) string {
	var tag, color string
	switch {
	case level <= LevelTrace:
		tag, color = "TRACE", "\x1b[35m"
	case level <= slog.LevelDebug:
		tag, color = "DEBUG", "\x1b[36m"
	case level <= slog.LevelInfo:
		tag, color = "INFO ", "\x1b[32m"
	case level <= slog.LevelWarn:
		tag, color = "WARN ", "\x1b[33m"
	default:
		tag, color = "ERROR", "\x1b[31m"
	}
	if useColor {
		return color + tag + "\x1b[0m"
	}
	return tag
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().Format(termTimeFormat)
	case slog.KindDuration:
		return v.Duration().Round(time.Millisecond).String()
	default:
		s := v.String()
		if strings.ContainsAny(s, " \t") {
			return fmt.Sprintf("%q", s)
		}
		return s
	}
}
