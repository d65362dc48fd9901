package style_test

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/stale/internal/ui/style"
)

func TestColorsAreHex(t *testing.T) {
	for _, c := range []lipgloss.Color{style.Iris, style.Slate, style.Green, style.Red, style.Yellow} {
		assert.Regexp(t, `^#[0-9A-F]{6}$`, string(c))
	}
}

func TestIconsAreDistinct(t *testing.T) {
	icons := []string{style.Check, style.Cross, style.Warning}
	seen := map[string]bool{}
	for _, icon := range icons {
		assert.False(t, seen[icon], "duplicate icon %q", icon)
		seen[icon] = true
	}
}
