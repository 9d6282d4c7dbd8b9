package layout

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-breathfree/internal/util"
)

// MinimalLayoutStrategy renders the dashboard as one status line.
type MinimalLayoutStrategy struct {
	BaseStrategy
}

func (s *MinimalLayoutStrategy) GetName() string {
	return "Minimal Dashboard"
}

func (s *MinimalLayoutStrategy) Render(w io.Writer, d Dashboard) {
	r := d.Report

	streak := "--"
	if r.HasEpoch {
		streak = util.FormatClock(r.Streak)
	}
	parts := []string{
		"⏱ " + streak,
		"🛡 " + util.FormatGrouped(int64(r.ResistCount)),
	}
	if r.DailyCost > 0 {
		parts = append(parts, "💰 "+util.FormatMoney(r.MoneySaved, r.CurrencySymbol))
	}
	if d.Gamified {
		parts = append(parts,
			"🪙 "+util.FormatCredits(d.Balance.Available),
			fmt.Sprintf("Lv %d", r.TotalLevel))
	}
	parts = append(parts, s.clock(d))

	line := "BreathFree: " + strings.Join(parts, " | ")
	if d.Width > 0 {
		line = s.GetSizer().Truncate(line, d.Width)
	}
	fmt.Fprintln(w, line)
}
