// export_test.go exports private functions for white-box testing.
package logger

import "time"

// ExportErrorFormatting exports the private error formatting functions for testing.
var (
	CollectErrorEntriesExported = collectErrorEntries
	FormatErrorEntriesExported  = formatErrorEntries
)

// SetStreamClock fixes the time and pid a StreamSink stamps lines with.
func SetStreamClock(s *StreamSink, pid int, now func() time.Time) {
	s.pid = pid
	s.now = now
}

// SetBufferClock fixes the time a MemoryBuffer stamps records with.
func SetBufferClock(b *MemoryBuffer, now func() time.Time) {
	b.now = now
}
