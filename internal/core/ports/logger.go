package ports

import "log/slog"

// Logger defines the interface for logging.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Info(msg string)
	Warn(msg string)
	Debug(msg string)
	Error(err error)
}

// LogSink receives formatted log lines. Write is the only method a sink has to provide.
type LogSink interface {
	Write(level slog.Level, msg string)
}

// LeveledSink is a LogSink that also accepts structured records.
// Sinks that do not implement it receive records formatted into a single line.
type LeveledSink interface {
	LogSink
	Log(level slog.Level, msg string, args ...any)
}
