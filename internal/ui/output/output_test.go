package output_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/stale/internal/ui/output"
)

func TestProfiles_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	assert.Equal(t, termenv.Ascii, output.ColorProfile())
}

func TestNew_PlainWithNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	out := output.New(&buf)

	_, _ = out.WriteString(out.String("up to date").Foreground(termenv.ANSIGreen).String())

	assert.Equal(t, "up to date", buf.String())
}

func TestNewWithProfile_ColorsWithANSI(t *testing.T) {
	var buf bytes.Buffer
	out := output.NewWithProfile(&buf, func() termenv.Profile { return termenv.ANSI })

	_, _ = out.WriteString(out.String("stale").Foreground(termenv.ANSIRed).String())

	assert.Contains(t, buf.String(), "stale")
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestNew_NilWriter(t *testing.T) {
	assert.NotNil(t, output.New(nil))
	assert.NotNil(t, output.NewWithProfile(nil, output.ColorProfile))
}

func TestNewForWriter_PlainWhenNotATerminal(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("CLICOLOR_FORCE", "")
	var buf bytes.Buffer
	out := output.NewForWriter(&buf)

	_, _ = out.WriteString(out.String("stale").Foreground(termenv.ANSIRed).String())

	assert.Equal(t, termenv.Ascii, out.Profile)
	assert.Equal(t, "stale", buf.String())
}

func TestNewForWriter_Forced(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("CLICOLOR_FORCE", "1")
	var buf bytes.Buffer
	out := output.NewForWriter(&buf)

	assert.NotEqual(t, termenv.Ascii, out.Profile)
}

func TestNewForWriter_NoColorWins(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	t.Setenv("CLICOLOR_FORCE", "1")

	assert.Equal(t, termenv.Ascii, output.NewForWriter(&bytes.Buffer{}).Profile)
}
