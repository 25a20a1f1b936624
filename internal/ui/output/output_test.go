package output_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/rpmd/internal/ui/output"
)

func TestColorProfile_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, output.ColorProfile())
	assert.Equal(t, termenv.Ascii, output.ColorProfileANSI())
}

func TestColorProfileANSI(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	assert.Equal(t, termenv.ANSI, output.ColorProfileANSI())
}

func TestNew_PlainWhenNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	buf := &bytes.Buffer{}
	out := output.New(buf)

	_, err := out.WriteString(out.String("plain").Foreground(termenv.RGBColor("#FF0000")).String())
	assert.NoError(t, err)
	assert.Equal(t, "plain", buf.String())
}

func TestNewWithProfile_ANSI(t *testing.T) {
	buf := &bytes.Buffer{}
	out := output.NewWithProfile(buf, func() termenv.Profile { return termenv.ANSI })

	styled := out.String("red").Foreground(out.Color("1")).String()
	assert.NotEqual(t, "red", styled)
	assert.Contains(t, styled, "red")
}

func TestNew_NilWriterDefaultsToStderr(t *testing.T) {
	assert.NotNil(t, output.New(nil))
}
