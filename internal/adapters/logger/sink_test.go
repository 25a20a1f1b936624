package logger_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rpmd/internal/adapters/logger"
	"go.trai.ch/rpmd/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// lineSink only implements Write.
type lineSink struct {
	lines []string
}

func (s *lineSink) Write(level slog.Level, msg string) {
	s.lines = append(s.lines, logger.LevelName(level)+" "+msg)
}

// structSink overrides both Write and Log.
type structSink struct {
	lineSink
	records []string
}

func (s *structSink) Log(level slog.Level, msg string, args ...any) {
	s.records = append(s.records, fmt.Sprint(logger.LevelName(level), " ", msg, " ", args))
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "CRITICAL", logger.LevelName(logger.LevelCritical))
	assert.Equal(t, "ERROR", logger.LevelName(slog.LevelError))
	assert.Equal(t, "WARNING", logger.LevelName(slog.LevelWarn))
	assert.Equal(t, "NOTICE", logger.LevelName(logger.LevelNotice))
	assert.Equal(t, "INFO", logger.LevelName(slog.LevelInfo))
	assert.Equal(t, "DEBUG", logger.LevelName(slog.LevelDebug))
	assert.Equal(t, "TRACE", logger.LevelName(logger.LevelTrace))
}

func TestEmit(t *testing.T) {
	t.Run("write only sink gets formatted line", func(t *testing.T) {
		s := &lineSink{}
		logger.Emit(s, slog.LevelInfo, "loaded", "repo", "rpm-repo1", slog.Group("pkgs", slog.Int("count", 3)))
		assert.Equal(t, []string{"INFO loaded repo=rpm-repo1 pkgs.count=3"}, s.lines)
	})

	t.Run("leveled sink gets structured record", func(t *testing.T) {
		s := &structSink{}
		logger.Emit(s, slog.LevelWarn, "skipped", "repo", "rpm-repo2")
		assert.Empty(t, s.lines)
		assert.Equal(t, []string{"WARNING skipped [repo rpm-repo2]"}, s.records)
	})
}

func TestRouter_SinkKinds(t *testing.T) {
	ctrl := gomock.NewController(t)
	plain := mocks.NewMockLogSink(ctrl)
	leveled := mocks.NewMockLeveledSink(ctrl)

	r := logger.NewRouter("session", "/org/rpm/rpmd/v0/02")
	r.Add(plain)
	r.Add(leveled)

	gomock.InOrder(
		plain.EXPECT().Write(slog.LevelWarn, "stale metadata session=/org/rpm/rpmd/v0/02"),
		leveled.EXPECT().Log(slog.LevelWarn, "stale metadata", "session", "/org/rpm/rpmd/v0/02"),
	)
	r.Warn("stale metadata")

	plain.EXPECT().Write(slog.LevelInfo, "raw line")
	leveled.EXPECT().Write(slog.LevelInfo, "raw line")
	r.Write(slog.LevelInfo, "raw line")

	buf := logger.NewMemoryBuffer(4)
	buf.Write(slog.LevelDebug, "buffered")
	plain.EXPECT().Write(slog.LevelDebug, "buffered")
	buf.ReplayTo(plain)
}

func TestRouter(t *testing.T) {
	first, second := &lineSink{}, &structSink{}
	r := logger.NewRouter("session", "/org/rpm/rpmd/v0/01")
	r.Add(first)
	r.Add(second)
	require.Equal(t, 2, r.Len())

	r.Info("opened")
	r.Write(slog.LevelDebug, "raw")

	assert.Equal(t, []string{"INFO opened session=/org/rpm/rpmd/v0/01", "DEBUG raw"}, first.lines)
	assert.Equal(t, []string{"INFO opened [session /org/rpm/rpmd/v0/01]"}, second.records)
	assert.Equal(t, []string{"DEBUG raw"}, second.lines)

	released, err := r.Release(0)
	require.NoError(t, err)
	assert.Same(t, first, released)
	assert.Equal(t, 1, r.Len())

	r.Warn("after release")
	assert.Len(t, first.lines, 2)

	_, err = r.Release(5)
	require.Error(t, err)
}

func TestRouter_Error(t *testing.T) {
	s := &lineSink{}
	r := logger.NewRouter()
	r.Add(s)

	r.Error(nil)
	r.Error(fmt.Errorf("disk full"))

	assert.Equal(t, []string{"ERROR Error: disk full"}, s.lines)
}

func TestMemoryBuffer_Ring(t *testing.T) {
	b := logger.NewMemoryBuffer(3)
	for i := range 5 {
		b.Write(slog.LevelInfo, fmt.Sprintf("line %d", i))
	}

	require.Equal(t, 3, b.Len())
	var got []string
	for _, rec := range b.Records() {
		got = append(got, rec.Message)
	}
	assert.Equal(t, []string{"line 2", "line 3", "line 4"}, got)

	b.Clear()
	assert.Equal(t, 0, b.Len())
	assert.Empty(t, b.Records())
}

func TestMemoryBuffer_Unbounded(t *testing.T) {
	b := logger.NewMemoryBuffer(0)
	for i := range 10 {
		b.Write(slog.LevelDebug, fmt.Sprint(i))
	}
	assert.Equal(t, 10, b.Len())
}

func TestMemoryBuffer_ReplayKeepsTimestamps(t *testing.T) {
	stamp := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	b := logger.NewMemoryBuffer(10)
	logger.SetBufferClock(b, func() time.Time { return stamp })
	b.Write(slog.LevelInfo, "buffered before the log file was opened")
	b.Write(slog.LevelError, "second")

	out := &bytes.Buffer{}
	stream := logger.NewStreamSink(out)
	logger.SetStreamClock(stream, 77, func() time.Time { return stamp.Add(time.Hour) })
	b.ReplayTo(stream)

	assert.Equal(t,
		"2024-03-01T12:30:00Z [77] INFO buffered before the log file was opened\n"+
			"2024-03-01T12:30:00Z [77] ERROR second\n",
		out.String())

	plain := &lineSink{}
	b.ReplayTo(plain)
	assert.Equal(t, []string{"INFO buffered before the log file was opened", "ERROR second"}, plain.lines)
}

func TestStreamSink(t *testing.T) {
	out := &bytes.Buffer{}
	s := logger.NewStreamSink(out)
	logger.SetStreamClock(s, 1234, func() time.Time {
		return time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("CET", 3600))
	})

	s.Write(slog.LevelWarn, "watch failed")
	assert.Equal(t, "2024-01-02T02:04:05Z [1234] WARNING watch failed\n", out.String())
}

func TestSlogSink(t *testing.T) {
	out := &bytes.Buffer{}
	s := logger.NewSlogSink(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))

	s.Write(slog.LevelDebug, "dropped")
	s.Log(slog.LevelInfo, "kept", "repo", "rpm-repo1")

	assert.Equal(t, "level=INFO msg=kept repo=rpm-repo1\n", out.String())
}
