package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rpmd/internal/adapters/logger"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger writing into a buffer without color.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	return logger.NewLogger(buf), buf
}

func TestLogger_Levels(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Info("session opened")
	lg.Warn("repository rpm-repo2 skipped")
	lg.Debug("not shown")

	g := goldie.New(t)
	g.Assert(t, "logger_levels", buf.Bytes())
}

func TestLogger_SetLevel(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.SetLevel(slog.LevelDebug)
	lg.Debug("resolving goal")

	assert.Equal(t, "~ resolving goal\n", buf.String())
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{
			name:       "simple error",
			err:        os.ErrPermission,
			goldenName: "error_simple",
		},
		{
			name:       "multiline error",
			err:        errors.New("ini: unclosed section\n  line 3: [rpm-repo1"),
			goldenName: "error_multiline",
		},
		{
			name: "zerr chain with metadata",
			err: zerr.With(
				zerr.Wrap(zerr.Wrap(errors.New("connection refused"), "metadata download failed"), "failed to load repository"),
				"repo", "rpm-repo1",
			),
			goldenName: "error_chain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_ErrorNil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Log(slog.LevelInfo, "session opened", "path", "/org/rpm/rpmd/v0/ab")
	lg.Error(zerr.New("boom"))

	dec := json.NewDecoder(buf)
	var first, second map[string]any
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))

	assert.Equal(t, "session opened", first["msg"])
	assert.Equal(t, "/org/rpm/rpmd/v0/ab", first["path"])
	assert.Equal(t, "ERROR", second["level"])
	assert.Equal(t, "operation failed", second["msg"])
}

func TestLogger_SetOutputKeepsJSON(t *testing.T) {
	lg, _ := newTestLogger(t)
	lg.SetJSON(true)

	other := &bytes.Buffer{}
	lg.SetOutput(other)
	lg.Info("moved")

	assert.Contains(t, other.String(), `"msg":"moved"`)
}
