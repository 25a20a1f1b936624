package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/rpmd/internal/core/ports"
)

var _ sdktrace.SpanProcessor = (*LogProcessor)(nil)

// LogProcessor writes a debug line for every finished span.
type LogProcessor struct {
	logger ports.Logger
}

// NewLogProcessor creates a span processor logging to logger.
func NewLogProcessor(logger ports.Logger) *LogProcessor {
	return &LogProcessor{logger: logger}
}

// OnStart does nothing.
func (p *LogProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

// OnEnd logs the span name, duration and, for failed spans, the status.
func (p *LogProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	msg := fmt.Sprintf("span %s took %s", s.Name(), s.EndTime().Sub(s.StartTime()))
	if st := s.Status(); st.Code == codes.Error {
		msg += ": " + st.Description
	}
	p.logger.Debug(msg)
}

// Shutdown does nothing.
func (p *LogProcessor) Shutdown(context.Context) error { return nil }

// ForceFlush does nothing.
func (p *LogProcessor) ForceFlush(context.Context) error { return nil }
