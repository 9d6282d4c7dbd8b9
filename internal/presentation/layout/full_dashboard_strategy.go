package layout

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-breathfree/internal/core/constants"
	"github.com/penwyp/go-breathfree/internal/util"
)

// FullLayoutStrategy implements the full dashboard layout
type FullLayoutStrategy struct {
	BaseStrategy
}

func (s *FullLayoutStrategy) GetName() string {
	return "Full Dashboard"
}

func (s *FullLayoutStrategy) Render(w io.Writer, d Dashboard) {
	width := s.width(d)

	s.topBorder(w, width)
	s.header(w, d, width)
	for _, card := range d.Cards {
		render := s.card(card, d)
		if render == nil {
			continue
		}
		s.separator(w, width)
		render(w, width)
	}
	s.bottomBorder(w, width)

	if d.Status != "" {
		fmt.Fprintln(w, "  "+util.Colorize(util.ColorDim, d.Status))
	}
}

// card returns the renderer for one section, or nil when the section has
// nothing to show.
func (s *FullLayoutStrategy) card(id string, d Dashboard) func(io.Writer, int) {
	switch id {
	case "stats":
		return func(w io.Writer, width int) { s.stats(w, d, width) }
	case "financial":
		return func(w io.Writer, width int) { s.financial(w, d, width) }
	case "history":
		if len(d.History) == 0 {
			return nil
		}
		return func(w io.Writer, width int) { s.history(w, d, width) }
	case "remind":
		if d.RemindMe == "" {
			return nil
		}
		return func(w io.Writer, width int) {
			s.title(w, width, "Remind me")
			s.line(w, width, d.RemindMe, "")
		}
	case "gamification":
		if !d.Gamified {
			return nil
		}
		return func(w io.Writer, width int) { s.gamification(w, d, width) }
	default:
		// "why" and "civic" are static copy with no terminal rendition.
		return nil
	}
}

func (s *FullLayoutStrategy) header(w io.Writer, d Dashboard, width int) {
	left := "🌬  BREATHFREE"
	if d.Gamified {
		left = fmt.Sprintf("%s  │  Level %d", left, d.Report.TotalLevel)
	}
	right := fmt.Sprintf("%s  │  %s", util.GetTimeProvider().Location().String(), s.clock(d))
	s.columns(w, width, left, right)
}

func (s *FullLayoutStrategy) stats(w io.Writer, d Dashboard, width int) {
	r := d.Report
	streak := "timer not started"
	if r.HasEpoch {
		streak = util.FormatClock(r.Streak)
	}
	s.line(w, width, "⏱  Smoke-free  "+streak, util.ColorGreen)
	s.columns(w, width,
		fmt.Sprintf("🛡  Resisted: %s", util.FormatGrouped(int64(r.ResistCount))),
		fmt.Sprintf("🚬 Consumed: %s", util.FormatGrouped(int64(r.ConsumeTotal))))
}

func (s *FullLayoutStrategy) financial(w io.Writer, d Dashboard, width int) {
	r := d.Report
	if r.DailyCost <= 0 {
		s.line(w, width, "💰 Set a cost model with `financial set` to track savings", util.ColorDim)
		return
	}
	perYear := r.DailyCost * constants.DaysPerYear
	s.columns(w, width,
		"💰 Saved: "+util.FormatMoney(r.MoneySaved, r.CurrencySymbol),
		"📅 Per year: "+util.FormatMoney(perYear, r.CurrencySymbol))
}

func (s *FullLayoutStrategy) history(w io.Writer, d Dashboard, width int) {
	s.title(w, width, fmt.Sprintf("Last %d days", len(d.History)))
	for _, day := range d.History {
		marks := strings.Repeat("+", day.Resists) + strings.Repeat("x", day.Consumed)
		s.line(w, width, fmt.Sprintf("%s  %2d resisted %2d consumed  %s",
			day.Day.Format("Mon 01/02"), day.Resists, day.Consumed, marks), "")
	}
}

func (s *FullLayoutStrategy) gamification(w io.Writer, d Dashboard, width int) {
	b := d.Balance
	s.columns(w, width,
		"🪙 Credits: "+util.FormatCredits(b.Available),
		"✨ XP: "+util.FormatGrouped(d.Report.TotalXP))
	for _, t := range d.Report.Tracks {
		s.line(w, width, s.trackText(t, width), util.ProgressColor(t.Progress, t.Mastered))
	}
	if next := nextMilestone(d); next != "" {
		s.line(w, width, next, util.ColorDim)
	}
}

// nextMilestone names the track closest to levelling up.
func nextMilestone(d Dashboard) string {
	best := -1.0
	out := ""
	for _, t := range d.Report.Tracks {
		if t.Mastered || t.Progress <= best {
			continue
		}
		best = t.Progress
		out = fmt.Sprintf("Next up: %s level %d (%s / %s)", t.Name, t.Level+1, t.Current, t.Goal)
	}
	return out
}
