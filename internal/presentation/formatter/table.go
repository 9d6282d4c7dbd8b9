package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/penwyp/go-breathfree/internal/util"
)

// TableFormatter draws box tables and summaries for a terminal.
type TableFormatter struct {
	w io.Writer
}

func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{w: w}
}

func (f *TableFormatter) Format(v any) error {
	switch view := v.(type) {
	case Notice:
		_, err := fmt.Fprintln(f.w, view.Message)
		return err
	case Tabular:
		f.table(view.Table())
		return nil
	case Summarizable:
		f.summary(view.Summary())
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedView, v)
	}
}

func (f *TableFormatter) table(t Table) {
	if t.Title != "" {
		fmt.Fprintln(f.w, util.FormatDataTitle(t.Title))
	}
	if len(t.Rows) == 0 && t.Empty != "" {
		fmt.Fprintln(f.w, t.Empty)
		return
	}

	widths := f.calculateColumnWidths(t)

	f.printBorder(widths, "top")
	f.printRow(t.Headers, widths, t.Numeric)
	f.printBorder(widths, "middle")
	for _, row := range t.Rows {
		f.printRow(row, widths, t.Numeric)
	}
	if len(t.Total) > 0 {
		f.printBorder(widths, "middle")
		f.printRow(t.Total, widths, t.Numeric)
	}
	f.printBorder(widths, "bottom")
}

// calculateColumnWidths sizes each column to its widest cell in display
// cells, so emoji and CJK text line up.
func (f *TableFormatter) calculateColumnWidths(t Table) []int {
	widths := make([]int, len(t.Headers))
	measure := func(row []string) {
		for i, v := range row {
			if i < len(widths) {
				if w := runewidth.StringWidth(v); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	measure(t.Headers)
	for _, row := range t.Rows {
		measure(row)
	}
	measure(t.Total)

	for i := range widths {
		if widths[i] < 4 {
			widths[i] = 4
		}
	}
	return widths
}

func (f *TableFormatter) printBorder(widths []int, borderType string) {
	var left, middle, right string
	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	var b strings.Builder
	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	fmt.Fprintln(f.w, b.String())
}

func (f *TableFormatter) printRow(values []string, widths []int, numeric []bool) {
	var b strings.Builder
	b.WriteString("│")
	for i, width := range widths {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		right := i < len(numeric) && numeric[i]
		b.WriteString(" ")
		b.WriteString(pad(v, width, right))
		b.WriteString(" │")
	}
	fmt.Fprintln(f.w, b.String())
}

func pad(s string, width int, right bool) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}
