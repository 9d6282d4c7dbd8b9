package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/penwyp/go-breathfree/internal/presentation/layout"
	"github.com/penwyp/go-breathfree/internal/util"
)

func TestAlternateScreenTogglesFocusReporting(t *testing.T) {
	var buf bytes.Buffer
	td := NewTerminalDisplay(&buf)

	td.EnterAlternateScreen()
	td.EnterAlternateScreen()
	assert.Equal(t, 1, strings.Count(buf.String(), enterAltScreen))
	assert.Contains(t, buf.String(), util.EnableFocusReporting)

	buf.Reset()
	td.ExitAlternateScreen()
	assert.Contains(t, buf.String(), util.DisableFocusReporting)
	assert.Contains(t, buf.String(), exitAltScreen)

	buf.Reset()
	td.ExitAlternateScreen()
	assert.Empty(t, buf.String())
}

func TestRenderClearsOnlyOnTransitions(t *testing.T) {
	var buf bytes.Buffer
	td := NewTerminalDisplay(&buf)
	d := layout.Dashboard{Width: 60}

	td.Render(d, State{})
	assert.Contains(t, buf.String(), util.ClearScreen, "first frame clears")

	buf.Reset()
	td.Render(d, State{})
	assert.NotContains(t, buf.String(), util.ClearScreen)
	assert.True(t, strings.HasPrefix(buf.String(), util.MoveCursorHome))

	buf.Reset()
	td.Render(d, State{LayoutStyle: layout.StyleMinimal})
	assert.Contains(t, buf.String(), util.ClearScreen, "layout change clears")
	assert.Contains(t, buf.String(), "BreathFree:")

	buf.Reset()
	td.Render(d, State{LayoutStyle: layout.StyleMinimal, ShowHelp: true})
	assert.Contains(t, buf.String(), util.ClearScreen)
	assert.Contains(t, buf.String(), "Keyboard Shortcuts")
}

func TestRenderPausedAndStatus(t *testing.T) {
	var buf bytes.Buffer
	td := NewTerminalDisplay(&buf)
	td.Render(layout.Dashboard{Width: 60}, State{Paused: true, StatusMessage: "refreshed"})

	assert.Contains(t, buf.String(), "paused")
	assert.Contains(t, buf.String(), "Status: refreshed")
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"empty", "", 10, []string{}},
		{"fits", "short", 10, []string{"short"}},
		{"wraps on words", "one two three four", 9, []string{"one two", "three", "four"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapText(tt.text, tt.width))
		})
	}
}

func TestBoxed(t *testing.T) {
	var buf bytes.Buffer
	Boxed(&buf, "Done", "You finished three cycles and earned 50 credits.", 30)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	for _, l := range lines {
		assert.Equal(t, 30, util.GetDisplayWidth(l), "line %q", l)
	}
	assert.Contains(t, buf.String(), "Done")
}
