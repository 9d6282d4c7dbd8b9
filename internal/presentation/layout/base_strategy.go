package layout

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-breathfree/internal/core/progression"
	"github.com/penwyp/go-breathfree/internal/util"
)

// BaseStrategy provides common functionality for all layout strategies
type BaseStrategy struct {
}

// GetSizer returns the shared sizer instance
func (b *BaseStrategy) GetSizer() *Sizer {
	return sharedSizer
}

func (b *BaseStrategy) width(d Dashboard) int {
	if d.Width > 0 {
		return d.Width
	}
	return b.GetSizer().GetMaxWidth()
}

func (b *BaseStrategy) clock(d Dashboard) string {
	layout := "15:04:05"
	if d.TimeFormat == "12h" {
		layout = "3:04:05 PM"
	}
	return util.GetTimeProvider().FormatMillis(d.Report.Now, layout)
}

func (b *BaseStrategy) topBorder(w io.Writer, width int) {
	fmt.Fprintln(w, "╭"+strings.Repeat("─", width-2)+"╮")
}

func (b *BaseStrategy) separator(w io.Writer, width int) {
	fmt.Fprintln(w, "├"+strings.Repeat("─", width-2)+"┤")
}

func (b *BaseStrategy) bottomBorder(w io.Writer, width int) {
	fmt.Fprintln(w, "╰"+strings.Repeat("─", width-2)+"╯")
}

// line prints content inside the box, fitted to the inner width. color,
// when set, wraps the fitted text so escape codes never affect padding.
func (b *BaseStrategy) line(w io.Writer, width int, content, color string) {
	fitted := b.GetSizer().Fit(content, width-4)
	if color != "" {
		fitted = util.Colorize(color, fitted)
	}
	fmt.Fprintln(w, "│ "+fitted+" │")
}

// columns prints two halves split by a divider.
// Format: "│ " + left + " │ " + right + " │", 7 fixed cells.
func (b *BaseStrategy) columns(w io.Writer, width int, left, right string) {
	available := width - 7
	leftWidth := available / 2
	rightWidth := available - leftWidth
	s := b.GetSizer()
	fmt.Fprintf(w, "│ %s │ %s │\n", s.Fit(left, leftWidth), s.Fit(right, rightWidth))
}

func (b *BaseStrategy) title(w io.Writer, width int, title string) {
	b.line(w, width, strings.ToUpper(title), util.ColorBold)
}

// trackText is one skill track with its bar, sized to the box.
func (b *BaseStrategy) trackText(t progression.Track, width int) string {
	barWidth := width - 48
	if barWidth < 10 {
		barWidth = 10
	}
	if barWidth > 30 {
		barWidth = 30
	}
	return fmt.Sprintf("%-16s Lv %-3d %s %5.1f%%  %s",
		t.Name, t.Level, util.CreateProgressBar(t.Progress, barWidth), t.Progress, t.Current)
}
