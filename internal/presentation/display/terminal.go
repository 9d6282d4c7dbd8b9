package display

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/penwyp/go-breathfree/internal/presentation/layout"
	"github.com/penwyp/go-breathfree/internal/util"
)

const (
	enterAltScreen  = "\033[?1049h"
	exitAltScreen   = "\033[?1049l"
	clearScrollback = "\033[3J"
	clearToEnd      = "\033[J"
	clearToEOL      = "\033[K"
)

// Mode is what the live screen is showing.
type Mode int

const (
	ModeNormal Mode = iota
	ModeHelp
)

// State is the interactive state the live command keeps between frames.
type State struct {
	LayoutStyle   int
	ShowHelp      bool
	Paused        bool
	StatusMessage string
}

func (s State) mode() Mode {
	if s.ShowHelp {
		return ModeHelp
	}
	return ModeNormal
}

// TerminalDisplay draws full frames onto an alternate screen.
type TerminalDisplay struct {
	out               io.Writer
	inAlternateScreen bool
	lastLayoutStyle   int
	isFirstRender     bool
	currentMode       Mode
}

func NewTerminalDisplay(out io.Writer) *TerminalDisplay {
	if out == nil {
		out = os.Stdout
	}
	return &TerminalDisplay{
		out:           out,
		isFirstRender: true,
		currentMode:   ModeNormal,
	}
}

// EnterAlternateScreen switches to the alternate buffer and turns on
// focus reporting so a refocused terminal can trigger a refresh.
func (td *TerminalDisplay) EnterAlternateScreen() {
	if td.inAlternateScreen {
		return
	}
	fmt.Fprint(td.out, enterAltScreen+util.ClearScreen+clearScrollback+util.MoveCursorHome+
		util.HideCursor+util.EnableFocusReporting)
	td.inAlternateScreen = true
	td.isFirstRender = true
}

// ExitAlternateScreen returns to normal screen buffer
func (td *TerminalDisplay) ExitAlternateScreen() {
	if !td.inAlternateScreen {
		return
	}
	fmt.Fprint(td.out, util.DisableFocusReporting+util.ClearScreen+util.MoveCursorHome+
		util.ShowCursor+exitAltScreen)
	td.inAlternateScreen = false
}

func (td *TerminalDisplay) clearForTransition() {
	fmt.Fprint(td.out, util.ClearScreen+clearScrollback+util.MoveCursorHome)
}

// Render draws one frame. The first frame, a mode change and a layout
// change clear the screen; other frames overwrite in place so a text
// selection survives the refresh.
func (td *TerminalDisplay) Render(d layout.Dashboard, state State) {
	newMode := state.mode()
	if td.isFirstRender || newMode != td.currentMode || td.lastLayoutStyle != state.LayoutStyle {
		td.clearForTransition()
		td.isFirstRender = false
		td.currentMode = newMode
		td.lastLayoutStyle = state.LayoutStyle
	} else {
		fmt.Fprint(td.out, util.MoveCursorHome)
	}

	if state.ShowHelp {
		td.renderHelp()
		return
	}

	if state.Paused && d.Status == "" {
		d.Status = "paused (p to resume)"
	}
	td.smartRender(layout.GetLayoutStrategy(state.LayoutStyle), d)

	if state.StatusMessage != "" {
		td.renderStatusMessage(state.StatusMessage)
	}
}

// smartRender writes the frame line by line, clearing each line's tail
// and anything below, instead of blanking the whole screen.
func (td *TerminalDisplay) smartRender(strategy layout.LayoutStrategy, d layout.Dashboard) {
	var buf bytes.Buffer
	strategy.Render(&buf, d)
	var b strings.Builder
	for _, line := range strings.SplitAfter(buf.String(), "\n") {
		if line == "" {
			continue
		}
		b.WriteString(strings.TrimSuffix(line, "\n"))
		b.WriteString(clearToEOL)
		if strings.HasSuffix(line, "\n") {
			b.WriteString("\r\n")
		}
	}
	b.WriteString(clearToEnd)
	fmt.Fprint(td.out, b.String())
}

func (td *TerminalDisplay) renderHelp() {
	lines := []string{
		util.FormatHeaderTitle("BreathFree Live - Help"),
		strings.Repeat("═", 60),
		"",
		"Keyboard Shortcuts:",
		"",
		"  q/Esc/Ctrl+C - Quit",
		"  r            - Refresh now",
		"  t            - Toggle layout (Full → Minimal)",
		"  p            - Pause/unpause the clock",
		"  h            - Show this help",
		"",
		"The dashboard also refreshes when the terminal regains focus,",
		"when the process resumes, and when another command changes the data.",
		"",
		strings.Repeat("═", 60),
		"Press 'h' to return...",
	}
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l + clearToEOL + "\r\n")
	}
	b.WriteString(clearToEnd)
	fmt.Fprint(td.out, b.String())
}

func (td *TerminalDisplay) renderStatusMessage(message string) {
	fmt.Fprintf(td.out, "\r\n  Status: %s%s", message, clearToEOL)
}

// wrapText wraps text to fit within the specified width
func wrapText(text string, width int) []string {
	if text == "" {
		return []string{}
	}

	if util.GetDisplayWidth(text) <= width {
		return []string{text}
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""

	for _, word := range words {
		if currentLine == "" {
			currentLine = word
		} else if util.GetDisplayWidth(currentLine)+1+util.GetDisplayWidth(word) <= width {
			currentLine += " " + word
		} else {
			lines = append(lines, currentLine)
			currentLine = word
		}
	}

	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return lines
}

// Boxed draws text in a rounded box wrapped to width, for one-off panels
// such as the coach reply.
func Boxed(w io.Writer, title, text string, width int) {
	inner := width - 4
	fmt.Fprintln(w, "╭"+strings.Repeat("─", width-2)+"╮")
	if title != "" {
		fmt.Fprintln(w, "│ "+util.CenterText(title, inner)+" │")
		fmt.Fprintln(w, "├"+strings.Repeat("─", width-2)+"┤")
	}
	for _, para := range strings.Split(text, "\n") {
		for _, l := range wrapText(para, inner) {
			fmt.Fprintln(w, "│ "+padRight(l, inner)+" │")
		}
	}
	fmt.Fprintln(w, "╰"+strings.Repeat("─", width-2)+"╯")
}

func padRight(s string, width int) string {
	gap := width - util.GetDisplayWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
