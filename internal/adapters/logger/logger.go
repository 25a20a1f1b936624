// Package logger implements a logging adapter using log/slog, together with
// the sinks sessions route their log lines through.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/rpmd/internal/core/ports"
)

// messager describes an error that can report its own message without the chain.
// This matches the Message() method provided by zerr.Error.
type messager interface {
	Message() string
}

// metadataer matches the Metadata() method provided by zerr.Error.
type metadataer interface {
	Metadata() map[string]any
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
	level    *slog.LevelVar
}

var (
	_ ports.Logger      = (*Logger)(nil)
	_ ports.LeveledSink = (*Logger)(nil)
)

// New creates a new Logger instance.
func New() ports.Logger {
	return NewLogger(os.Stderr)
}

// NewLogger creates a pretty Logger writing to w.
func NewLogger(w io.Writer) *Logger {
	l := &Logger{output: w, level: &slog.LevelVar{}}
	l.rebuild()
	return l
}

// rebuild replaces the handler. l.mu must be held or l unshared.
func (l *Logger) rebuild() {
	w := l.output
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: l.level}
	var handler slog.Handler
	if l.jsonMode {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = NewPrettyHandler(w, opts)
	}
	l.logger = slog.New(handler)
}

// SetOutput updates the logger's output destination.
// It preserves the current JSON mode setting.
// If w is nil, os.Stderr is used as the default.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
	l.rebuild()
}

// SetJSON switches between JSON and pretty logging.
// The output destination is preserved from SetOutput calls.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.jsonMode = enable
	l.rebuild()
}

// SetLevel sets the minimum level that is written.
func (l *Logger) SetLevel(level slog.Level) {
	l.level.Set(level)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.Log(slog.LevelInfo, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.Log(slog.LevelWarn, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string) {
	l.Log(slog.LevelDebug, msg)
}

// Write logs a preformatted line. It makes the logger usable as a sink.
func (l *Logger) Write(level slog.Level, msg string) {
	l.Log(level, msg)
}

// Log logs a message with structured attributes.
func (l *Logger) Log(level slog.Level, msg string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Log(context.Background(), level, msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.jsonMode {
		l.logger.Error("operation failed", "error", err)
		return
	}
	l.logger.Error(formatErrorEntries(collectErrorEntries(err)))
}

// ErrorEntry is one level of an error chain.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries walks err's chain. zerr levels contribute their own
// message and metadata; the first foreign error ends the walk with its full text.
// Levels with an empty message only carry metadata, which goes to the next entry.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	var pending map[string]any
	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, ErrorEntry{Message: current.Error(), Metadata: pending})
			break
		}
		var meta map[string]any
		if md, ok := current.(metadataer); ok {
			meta = md.Metadata()
		}
		if m.Message() == "" {
			if pending == nil {
				pending = make(map[string]any)
			}
			maps.Copy(pending, meta)
		} else {
			if pending != nil {
				maps.Copy(meta, pending)
				pending = nil
			}
			entries = append(entries, ErrorEntry{Message: m.Message(), Metadata: meta})
		}
		current = errors.Unwrap(current)
	}
	return entries
}

// formatErrorEntries renders entries as "Error: ..." followed by a
// "Caused by:" list. Metadata keys are printed in sorted order.
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string
	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")
		first, rest, metaIndent := "    → ", "      ", "      "
		if i == 0 {
			first, rest, metaIndent = "Error: ", "       ", "       "
		} else if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}
		lines = append(lines, first+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, rest+line)
		}
		for _, key := range slices.Sorted(maps.Keys(entry.Metadata)) {
			lines = append(lines, fmt.Sprintf("%s%s: %v", metaIndent, key, entry.Metadata[key]))
		}
	}
	return strings.Join(lines, "\n")
}
