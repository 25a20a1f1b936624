package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"go.trai.ch/rpmd/internal/core/ports"
	"go.trai.ch/zerr"
)

// Levels beyond the four slog provides.
const (
	LevelTrace    = slog.LevelDebug - 4
	LevelNotice   = slog.LevelInfo + 2
	LevelCritical = slog.LevelError + 4
)

// LevelName returns the upper-case name written by stream sinks.
func LevelName(level slog.Level) string {
	switch {
	case level >= LevelCritical:
		return "CRITICAL"
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARNING"
	case level >= LevelNotice:
		return "NOTICE"
	case level >= slog.LevelInfo:
		return "INFO"
	case level >= slog.LevelDebug:
		return "DEBUG"
	default:
		return "TRACE"
	}
}

// Emit hands a structured record to sink. Sinks that only implement Write
// receive the message with its attributes appended as key=value pairs.
func Emit(sink ports.LogSink, level slog.Level, msg string, args ...any) {
	if leveled, ok := sink.(ports.LeveledSink); ok {
		leveled.Log(level, msg, args...)
		return
	}
	sink.Write(level, FormatRecord(msg, args...))
}

// FormatRecord renders msg and slog-style args as a single line.
func FormatRecord(msg string, args ...any) string {
	if len(args) == 0 {
		return msg
	}
	r := slog.NewRecord(time.Time{}, slog.LevelInfo, msg, 0)
	r.Add(args...)
	parts := make([]string, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		parts = appendAttr(parts, "", a)
		return true
	})
	return msg + " " + strings.Join(parts, " ")
}

// timedSink accepts records with their original timestamp.
type timedSink interface {
	WriteAt(t time.Time, level slog.Level, msg string)
}

// Router fans every record out to its sinks. It is itself a sink and a
// ports.Logger, so components log through it without knowing the destinations.
type Router struct {
	mu    sync.RWMutex
	sinks []ports.LogSink
	args  []any
}

var (
	_ ports.Logger      = (*Router)(nil)
	_ ports.LeveledSink = (*Router)(nil)
)

// NewRouter creates a router that adds args to every structured record.
func NewRouter(args ...any) *Router {
	return &Router{args: args}
}

// Add attaches sink.
func (r *Router) Add(sink ports.LogSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks = append(r.sinks, sink)
}

// Release detaches and returns the sink at index.
func (r *Router) Release(index int) (ports.LogSink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index < 0 || index >= len(r.sinks) {
		return nil, zerr.With(zerr.New("sink index out of range"), "index", index)
	}
	sink := r.sinks[index]
	r.sinks = append(r.sinks[:index:index], r.sinks[index+1:]...)
	return sink, nil
}

// Len returns the number of attached sinks.
func (r *Router) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sinks)
}

// Write forwards a preformatted line to every sink.
func (r *Router) Write(level slog.Level, msg string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, sink := range r.sinks {
		sink.Write(level, msg)
	}
}

// Log forwards a structured record to every sink.
func (r *Router) Log(level slog.Level, msg string, args ...any) {
	if len(r.args) > 0 {
		args = append(append([]any{}, r.args...), args...)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, sink := range r.sinks {
		Emit(sink, level, msg, args...)
	}
}

// Info logs an informational message.
func (r *Router) Info(msg string) { r.Log(slog.LevelInfo, msg) }

// Warn logs a warning message.
func (r *Router) Warn(msg string) { r.Log(slog.LevelWarn, msg) }

// Debug logs a debug message.
func (r *Router) Debug(msg string) { r.Log(slog.LevelDebug, msg) }

// Error logs err with its cause chain.
func (r *Router) Error(err error) {
	if err == nil {
		return
	}
	r.Log(slog.LevelError, formatErrorEntries(collectErrorEntries(err)))
}

// Record is a buffered log record.
type Record struct {
	Time    time.Time
	Level   slog.Level
	Message string
}

// MemoryBuffer keeps the most recent records in a ring. A capacity of zero
// keeps everything.
type MemoryBuffer struct {
	mu       sync.Mutex
	capacity int
	records  []Record
	first    int
	now      func() time.Time
}

// NewMemoryBuffer creates a buffer holding at most capacity records.
func NewMemoryBuffer(capacity int) *MemoryBuffer {
	return &MemoryBuffer{capacity: capacity, now: time.Now}
}

// Write stores a record, overwriting the oldest one when full.
func (b *MemoryBuffer) Write(level slog.Level, msg string) {
	b.WriteAt(b.now(), level, msg)
}

// WriteAt stores a record with its original timestamp.
func (b *MemoryBuffer) WriteAt(t time.Time, level slog.Level, msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rec := Record{Time: t, Level: level, Message: msg}
	if b.capacity == 0 || len(b.records) < b.capacity {
		b.records = append(b.records, rec)
		return
	}
	b.records[b.first] = rec
	b.first = (b.first + 1) % b.capacity
}

// Len returns the number of buffered records.
func (b *MemoryBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.records)
}

// Records returns the buffered records, oldest first.
func (b *MemoryBuffer) Records() []Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Record, 0, len(b.records))
	out = append(out, b.records[b.first:]...)
	return append(out, b.records[:b.first]...)
}

// ReplayTo writes the buffered records into sink, oldest first.
// Sinks that accept timestamps get the original ones.
func (b *MemoryBuffer) ReplayTo(sink ports.LogSink) {
	for _, rec := range b.Records() {
		if ts, ok := sink.(timedSink); ok {
			ts.WriteAt(rec.Time, rec.Level, rec.Message)
			continue
		}
		sink.Write(rec.Level, rec.Message)
	}
}

// Clear drops every record.
func (b *MemoryBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = nil
	b.first = 0
}

// StreamSink writes "TIME [PID] LEVEL message" lines to a writer.
type StreamSink struct {
	mu  sync.Mutex
	w   io.Writer
	pid int
	now func() time.Time
}

// NewStreamSink creates a sink writing to w.
func NewStreamSink(w io.Writer) *StreamSink {
	return &StreamSink{w: w, pid: os.Getpid(), now: time.Now}
}

// Write writes one line stamped with the current time.
func (s *StreamSink) Write(level slog.Level, msg string) {
	s.WriteAt(s.now(), level, msg)
}

// WriteAt writes one line stamped with t.
func (s *StreamSink) WriteAt(t time.Time, level slog.Level, msg string) {
	line := fmt.Sprintf("%s [%d] %s %s\n", t.UTC().Format("2006-01-02T15:04:05Z"), s.pid, LevelName(level), msg)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = io.WriteString(s.w, line)
}

// SlogSink adapts an slog.Handler into a leveled sink.
type SlogSink struct {
	handler slog.Handler
}

// NewSlogSink wraps handler.
func NewSlogSink(handler slog.Handler) *SlogSink {
	return &SlogSink{handler: handler}
}

// Write logs a preformatted line.
func (s *SlogSink) Write(level slog.Level, msg string) {
	s.Log(level, msg)
}

// Log logs a structured record.
func (s *SlogSink) Log(level slog.Level, msg string, args ...any) {
	ctx := context.Background()
	if !s.handler.Enabled(ctx, level) {
		return
	}
	r := slog.NewRecord(time.Now(), level, msg, 0)
	r.Add(args...)
	_ = s.handler.Handle(ctx, r)
}
