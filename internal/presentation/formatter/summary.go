package formatter

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/penwyp/go-breathfree/internal/util"
)

// summary prints sections as aligned "Key: value" lines.
func (f *TableFormatter) summary(sections []Section) {
	keyWidth := 0
	for _, s := range sections {
		for _, p := range s.Pairs {
			if w := runewidth.StringWidth(p.Key); w > keyWidth {
				keyWidth = w
			}
		}
	}

	for i, s := range sections {
		if i > 0 {
			fmt.Fprintln(f.w)
		}
		if s.Title != "" {
			fmt.Fprintln(f.w, util.FormatOverviewTitle(s.Title))
			fmt.Fprintln(f.w, strings.Repeat("─", 40))
		}
		for _, p := range s.Pairs {
			fmt.Fprintf(f.w, "  %s  %s\n", pad(p.Key+":", keyWidth+1, false), p.Value)
		}
	}
}
