package progression

import (
	"fmt"
	"math"

	"github.com/penwyp/go-breathfree/internal/core/model"
)

// TrackID identifies one of the five skill tracks.
type TrackID string

const (
	TrackNeuroplasticity TrackID = "dopamine"
	TrackRegeneration    TrackID = "lungs"
	TrackResilience      TrackID = "will"
	TrackAlchemy         TrackID = "finance"
	TrackConservation    TrackID = "env"
)

// Unbounded ladder step sizes.
const (
	ResistsPerLevel = 5
	SavingsPerLevel = 50.0
)

// MaxLevelLabel replaces the goal once a bounded ladder is exhausted.
const MaxLevelLabel = "Max Level"

// MasteredLabel names the milestone after the last rung.
const MasteredLabel = "Mastered"

// Track is a derived skill view.
type Track struct {
	ID          TrackID `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Level       int     `json:"level"`
	Progress    float64 `json:"progress"`
	Current     string  `json:"current"`
	Goal        string  `json:"goal"`
	Milestone   string  `json:"milestone,omitempty"`
	Mastered    bool    `json:"mastered"`
}

// cyclic splits an unbounded metric into a 1-based level and the percent
// travelled through the current step.
func cyclic(value, step float64) (int, float64) {
	if value < 0 || math.IsNaN(value) {
		value = 0
	}
	q := math.Floor(value / step)
	return int(q) + 1, clampPercent((value - q*step) / step * 100)
}

func neuroplasticityTrack(hours float64) Track {
	pos := Neuroplasticity.Locate(hours)
	t := Track{
		ID:          TrackNeuroplasticity,
		Name:        "Neuroplasticity",
		Description: "Brain rewiring progress",
		Level:       pos.Level,
		Progress:    pos.Progress,
		Current:     fmt.Sprintf("Current: %dh", int64(math.Floor(hours))),
		Mastered:    pos.Mastered,
	}
	if pos.Mastered {
		t.Goal, t.Milestone = MaxLevelLabel, MasteredLabel
	} else {
		t.Goal = fmt.Sprintf("Goal: %gh • %s", pos.Next.At, pos.Next.Label)
		t.Milestone = pos.Next.Label
	}
	return t
}

func regenerationTrack(days float64) Track {
	pos := Regeneration.Locate(days)
	t := Track{
		ID:          TrackRegeneration,
		Name:        "Regeneration",
		Description: "Physical tissue repair",
		Level:       pos.Level,
		Progress:    pos.Progress,
		Current:     fmt.Sprintf("Current: %.1fd", days),
		Mastered:    pos.Mastered,
	}
	if pos.Mastered {
		t.Goal, t.Milestone = MaxLevelLabel, MasteredLabel
	} else {
		t.Goal = fmt.Sprintf("Goal: %gd • %s", pos.Next.At, pos.Next.Label)
		t.Milestone = pos.Next.Label
	}
	return t
}

func resilienceTrack(resists int) Track {
	if resists < 0 {
		resists = 0
	}
	level := resists/ResistsPerLevel + 1
	return Track{
		ID:          TrackResilience,
		Name:        "Resilience",
		Description: "Prefrontal cortex strength",
		Level:       level,
		Progress:    float64(resists%ResistsPerLevel) * (100.0 / ResistsPerLevel),
		Current:     fmt.Sprintf("Resisted: %d", resists),
		Goal:        fmt.Sprintf("Goal: %d", level*ResistsPerLevel),
	}
}

func alchemyTrack(days float64, fm *model.FinancialModel) Track {
	t := Track{
		ID:          TrackAlchemy,
		Name:        "Alchemy",
		Description: "Resource accumulation",
		Level:       1,
	}
	saved := 0.0
	if fm != nil {
		saved = days * fm.DailyCost()
		t.Level, t.Progress = cyclic(saved, SavingsPerLevel)
	}
	sym := fm.Symbol()
	t.Current = fmt.Sprintf("Saved: %s%.0f", sym, saved)
	t.Goal = fmt.Sprintf("Goal: %s%.0f", sym, float64(t.Level)*SavingsPerLevel)
	return t
}

func conservationTrack(days float64, fm *model.FinancialModel) Track {
	t := Track{
		ID:          TrackConservation,
		Name:        "Conservation",
		Description: "Toxic waste diverted",
		Level:       1,
	}
	units := 0.0
	if fm != nil {
		units = days / math.Max(fm.UnitLifetimeDays, model.MinUnitLifetimeDays)
		t.Level, t.Progress = cyclic(units, 1)
	}
	t.Current = fmt.Sprintf("Diverted: %.1f", units)
	t.Goal = fmt.Sprintf("Goal: %d", t.Level)
	return t
}
