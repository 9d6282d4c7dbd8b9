package layout

import (
	"io"

	"github.com/penwyp/go-breathfree/internal/application/app"
	"github.com/penwyp/go-breathfree/internal/core/journal"
	"github.com/penwyp/go-breathfree/internal/core/progression"
)

const (
	StyleFull = iota
	StyleMinimal
	styleCount
)

// Dashboard is everything one live frame shows.
type Dashboard struct {
	Report  progression.Report
	Balance app.Balance
	// Cards is the section order; unknown sections are skipped.
	Cards    []string
	Gamified bool
	History  []journal.DayCount
	RemindMe string
	Status   string
	// TimeFormat is "24h" (default) or "12h".
	TimeFormat string
	// Width overrides the terminal width when positive.
	Width int
}

// LayoutStrategy renders a dashboard in one style.
type LayoutStrategy interface {
	Render(w io.Writer, d Dashboard)
	GetName() string
}

// NextStyle cycles through the available styles.
func NextStyle(style int) int {
	return (style + 1) % styleCount
}

// GetLayoutStrategy returns the appropriate layout strategy based on the style
func GetLayoutStrategy(layoutStyle int) LayoutStrategy {
	strategies := map[int]LayoutStrategy{
		StyleFull:    &FullLayoutStrategy{},
		StyleMinimal: &MinimalLayoutStrategy{},
	}

	if strategy, exists := strategies[layoutStyle]; exists {
		return strategy
	}

	// Default to full dashboard if invalid style
	return &FullLayoutStrategy{}
}
