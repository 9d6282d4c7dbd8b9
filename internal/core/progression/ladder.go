package progression

// Rung is one milestone on a bounded ladder.
type Rung struct {
	At    float64
	Label string
}

// Ladder is an ascending list of milestones measured in a single unit.
type Ladder struct {
	Unit  string
	Rungs []Rung
}

// Position is where a value sits on a ladder.
type Position struct {
	Level    int
	Progress float64
	Next     Rung
	Mastered bool
}

// Locate returns level = rungs passed + 1 and the percentage travelled
// through the current interval. The first interval starts at zero. Past the
// last rung, progress is pinned to 100.
func (l Ladder) Locate(value float64) Position {
	if value < 0 {
		value = 0
	}

	prev := 0.0
	for i, r := range l.Rungs {
		if value < r.At {
			return Position{
				Level:    i + 1,
				Progress: clampPercent((value - prev) / (r.At - prev) * 100),
				Next:     r,
			}
		}
		prev = r.At
	}

	return Position{
		Level:    len(l.Rungs) + 1,
		Progress: 100,
		Mastered: true,
	}
}

// Reached returns the label of the highest rung passed, or "" if none.
func (l Ladder) Reached(value float64) string {
	label := ""
	for _, r := range l.Rungs {
		if value < r.At {
			break
		}
		label = r.Label
	}
	return label
}

// Neuroplasticity measures hours since the quit epoch.
var Neuroplasticity = Ladder{
	Unit: "h",
	Rungs: []Rung{
		{At: 24, Label: "Nicotine Flush"},
		{At: 72, Label: "Peak Withdrawal"},
		{At: 168, Label: "Craving Drop"},
		{At: 504, Label: "Receptor Reset"},
		{At: 2160, Label: "Dopamine Restoration"},
	},
}

// Regeneration measures days since the quit epoch.
var Regeneration = Ladder{
	Unit: "d",
	Rungs: []Rung{
		{At: 1, Label: "CO Normalization"},
		{At: 3, Label: "Breathing Ease"},
		{At: 14, Label: "Circulation Boost"},
		{At: 30, Label: "Lung Cleaning"},
		{At: 90, Label: "Infection Immunity"},
		{At: 270, Label: "Cilia Regrowth"},
	},
}

func clampPercent(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}
