package layout

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/penwyp/go-breathfree/internal/util"
)

// Package-level singleton Sizer instance
var sharedSizer = &Sizer{}

const (
	defaultWidth = 74
	minWidth     = 40
	maxWidth     = 100
)

type Sizer struct {
}

// displayWidth calculates the display width of a string containing emojis
// and wide runes.
func (i Sizer) displayWidth(s string) int {
	return runewidth.StringWidth(s)
}

// PadString pads a string to a specific display width, handling emojis correctly
func (i Sizer) PadString(s string, width int, leftAlign bool) string {
	actualWidth := i.displayWidth(s)
	if actualWidth >= width {
		return s
	}

	padding := strings.Repeat(" ", width-actualWidth)
	if leftAlign {
		return s + padding
	}
	return padding + s
}

// Truncate cuts s to width display cells, marking the cut with an ellipsis.
func (i Sizer) Truncate(s string, width int) string {
	if i.displayWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// Fit truncates then pads s to exactly width cells.
func (i Sizer) Fit(s string, width int) string {
	return i.PadString(i.Truncate(s, width), width, true)
}

// GetMaxWidth returns the dashboard width for the terminal on stdout.
func (i Sizer) GetMaxWidth() int {
	termWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		termWidth = 0
	}
	w := i.clampWidth(termWidth)
	util.LogDebugf("GetMaxWidth %d", w)
	return w
}

// clampWidth leaves a margin inside the terminal and keeps the box
// within [minWidth, maxWidth]. An unknown terminal gets the default.
func (i Sizer) clampWidth(termWidth int) int {
	if termWidth <= 0 {
		return defaultWidth
	}
	w := termWidth - 4
	if w < minWidth {
		return minWidth
	}
	if w > maxWidth {
		return maxWidth
	}
	return w
}
