package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/penwyp/go-breathfree/internal/application/app"
	"github.com/penwyp/go-breathfree/internal/coach"
	"github.com/penwyp/go-breathfree/internal/core/inventory"
	"github.com/penwyp/go-breathfree/internal/core/journal"
	"github.com/penwyp/go-breathfree/internal/core/model"
	"github.com/penwyp/go-breathfree/internal/core/progression"
	"github.com/penwyp/go-breathfree/internal/games"
	"github.com/penwyp/go-breathfree/internal/util"
)

const timeLayout = "2006-01-02 15:04"

func formatMillis(ms int64) string {
	return util.GetTimeProvider().FormatMillis(ms, timeLayout)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Notice is a one-line result with optional structured data for JSON.
type Notice struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (n Notice) String() string { return n.Message }

func (n Notice) Summary() []Section {
	return []Section{{Pairs: []Pair{{Key: "Result", Value: n.Message}}}}
}

// EntriesView lists journal entries newest first.
type EntriesView struct {
	Entries []model.Entry `json:"entries"`
}

func (v EntriesView) Table() Table {
	t := Table{
		Title:   "Journal",
		Headers: []string{"ID", "When", "Type", "Count", "Note"},
		Numeric: []bool{false, false, false, true, false},
		Empty:   "No entries yet. Log one with `resist` or `consume`.",
	}
	for _, e := range v.Entries {
		count := ""
		if e.IsConsume() {
			count = fmt.Sprintf("%d", e.Quantity)
		}
		t.Rows = append(t.Rows, []string{shortID(e.ID), formatMillis(e.Timestamp), e.Kind.Label(), count, e.Note})
	}
	return t
}

// ProgressView is the full progression report with the wallet.
type ProgressView struct {
	Report  progression.Report `json:"report"`
	Balance app.Balance        `json:"balance"`
}

func trackLine(t progression.Track) string {
	bar := util.Colorize(util.ProgressColor(t.Progress, t.Mastered), util.CreateProgressBar(t.Progress, 20))
	line := fmt.Sprintf("Lv %-3d %s %5.1f%%  %s / %s", t.Level, bar, t.Progress, t.Current, t.Goal)
	if t.Milestone != "" {
		line += "  · " + t.Milestone
	}
	return line
}

func (v ProgressView) Summary() []Section {
	r := v.Report
	quit := "not set"
	if r.HasEpoch {
		quit = formatMillis(r.EffectiveStart)
	}

	journey := Section{Title: "Journey", Pairs: []Pair{
		{"Quit date", quit},
		{"Streak", util.FormatClock(r.Streak)},
		{"Time tracked", util.FormatDuration(time.Duration(r.ElapsedHours * float64(time.Hour)))},
		{"Cravings resisted", util.FormatGrouped(int64(r.ResistCount))},
		{"Units consumed", util.FormatGrouped(int64(r.ConsumeTotal))},
	}}
	savings := Section{Title: "Savings", Pairs: []Pair{
		{"Daily cost", util.FormatMoney(r.DailyCost, r.CurrencySymbol)},
		{"Money saved", util.FormatMoney(r.MoneySaved, r.CurrencySymbol)},
	}}
	rewards := Section{Title: "Rewards", Pairs: []Pair{
		{"Credits available", util.FormatCredits(v.Balance.Available)},
		{"Credits earned", fmt.Sprintf("%s derived + %s bonus", util.FormatGrouped(v.Balance.Derived), util.FormatGrouped(v.Balance.Bonus))},
		{"Credits spent", util.FormatCredits(v.Balance.Spent)},
		{"Total XP", util.FormatGrouped(r.TotalXP)},
		{"Total level", fmt.Sprintf("%d", r.TotalLevel)},
	}}
	skills := Section{Title: "Skills"}
	for _, t := range r.Tracks {
		skills.Pairs = append(skills.Pairs, Pair{t.Name, trackLine(t)})
	}
	return []Section{journey, savings, rewards, skills}
}

// ShopView lists the items for sale.
type ShopView struct {
	Items   []app.ShopItem `json:"items"`
	Balance app.Balance    `json:"balance"`
}

func (v ShopView) Table() Table {
	t := Table{
		Title:   fmt.Sprintf("Shop (balance %s)", util.FormatCredits(v.Balance.Available)),
		Headers: []string{"Item", "ID", "Category", "Cost", "Status"},
		Numeric: []bool{false, false, false, true, false},
	}
	for _, it := range v.Items {
		status := "available"
		switch {
		case it.Owned:
			status = "owned"
		case !it.Affordable:
			status = fmt.Sprintf("need %s more", util.FormatGrouped(it.Cost-v.Balance.Available))
		}
		t.Rows = append(t.Rows, []string{
			it.Icon + " " + it.Name, it.ID, strings.ToLower(string(it.Category)),
			util.FormatGrouped(it.Cost), status,
		})
	}
	return t
}

// InventoryView lists owned items.
type InventoryView struct {
	Items []inventory.Owned `json:"items"`
}

func (v InventoryView) Table() Table {
	t := Table{
		Title:   "Inventory",
		Headers: []string{"Item", "Category", "Bought", "Days", "Status"},
		Numeric: []bool{false, false, false, true, false},
		Empty:   "Your inventory is empty. Visit the shop.",
	}
	for _, it := range v.Items {
		status := it.Description
		switch {
		case it.Evolved:
			status = "hatched!"
		case it.ID == inventory.MysteryEgg:
			status = "incubating " + util.CreateProgressBar(it.Incubation*100, 10)
		}
		t.Rows = append(t.Rows, []string{
			it.Icon + " " + it.Name, strings.ToLower(string(it.Category)),
			formatMillis(it.PurchasedAt), fmt.Sprintf("%d", it.DaysOwned), status,
		})
	}
	return t
}

// DayRow is one day of activity.
type DayRow struct {
	Day      string `json:"day"`
	Resists  int    `json:"resists"`
	Consumed int    `json:"consumed"`
}

// StatsView is per-day activity, oldest first.
type StatsView struct {
	Days []DayRow `json:"days"`
}

func NewStatsView(days []journal.DayCount) StatsView {
	v := StatsView{Days: make([]DayRow, 0, len(days))}
	for _, d := range days {
		v.Days = append(v.Days, DayRow{Day: d.Day.Format("2006-01-02"), Resists: d.Resists, Consumed: d.Consumed})
	}
	return v
}

func (v StatsView) Table() Table {
	t := Table{
		Title:   "Daily activity",
		Headers: []string{"Day", "Resisted", "Consumed", ""},
		Numeric: []bool{false, true, true, false},
	}
	var resists, consumed int
	for _, d := range v.Days {
		t.Rows = append(t.Rows, []string{
			d.Day, fmt.Sprintf("%d", d.Resists), fmt.Sprintf("%d", d.Consumed),
			strings.Repeat("+", d.Resists) + strings.Repeat("x", d.Consumed),
		})
		resists += d.Resists
		consumed += d.Consumed
	}
	t.Total = []string{"Total", fmt.Sprintf("%d", resists), fmt.Sprintf("%d", consumed), ""}
	return t
}

// PuzzleRow is a puzzle with its solved flag.
type PuzzleRow struct {
	games.Puzzle
	Solved bool `json:"solved"`
}

// PuzzlesView lists the puzzle levels.
type PuzzlesView struct {
	Puzzles []PuzzleRow `json:"puzzles"`
}

func NewPuzzlesView(puzzles []games.Puzzle, solved []string) PuzzlesView {
	done := make(map[string]bool, len(solved))
	for _, id := range solved {
		done[id] = true
	}
	v := PuzzlesView{Puzzles: make([]PuzzleRow, 0, len(puzzles))}
	for _, p := range puzzles {
		v.Puzzles = append(v.Puzzles, PuzzleRow{Puzzle: p, Solved: done[p.ID]})
	}
	return v
}

func (v PuzzlesView) Table() Table {
	t := Table{
		Title:   "Puzzles",
		Headers: []string{"Level", "Category", "Difficulty", "Reward", "Solved", "Prompt"},
		Numeric: []bool{false, false, false, true, false, false},
	}
	for _, p := range v.Puzzles {
		solved := ""
		if p.Solved {
			solved = "✓"
		}
		prompt := p.Prompt
		if len(p.Options) > 0 {
			prompt += " [" + strings.Join(p.Options, " / ") + "]"
		}
		t.Rows = append(t.Rows, []string{
			p.ID, strings.ToLower(string(p.Category)), p.Difficulty,
			util.FormatGrouped(p.Reward), solved, prompt,
		})
	}
	return t
}

// FinancialView shows the cost model and optional projections.
type FinancialView struct {
	Model      *model.FinancialModel `json:"model"`
	DailyCost  float64               `json:"dailyCost"`
	Projection *Projection           `json:"projection,omitempty"`
	Goal       *GoalEstimate         `json:"goal,omitempty"`
}

// Projection is the savings over a number of periods.
type Projection struct {
	Amount  float64      `json:"amount"`
	Period  model.Period `json:"period"`
	Savings float64      `json:"savings"`
}

// GoalEstimate is the number of days to save Target.
type GoalEstimate struct {
	Target    float64 `json:"target"`
	Days      int     `json:"days"`
	Reachable bool    `json:"reachable"`
}

func (v FinancialView) Summary() []Section {
	if v.Model == nil {
		return []Section{{Title: "Financial", Pairs: []Pair{{"Model", "not configured (financial set --cost --days)"}}}}
	}
	sym := v.Model.Symbol()
	s := Section{Title: "Financial", Pairs: []Pair{
		{"Cost per unit", util.FormatMoney(v.Model.UnitCost, sym)},
		{"Days per unit", fmt.Sprintf("%g", v.Model.UnitLifetimeDays)},
		{"Daily cost", util.FormatMoney(v.DailyCost, sym)},
	}}
	out := []Section{s}
	if p := v.Projection; p != nil {
		out = append(out, Section{Title: "Projection", Pairs: []Pair{
			{fmt.Sprintf("Savings over %g %s", p.Amount, p.Period), util.FormatMoney(p.Savings, sym)},
		}})
	}
	if g := v.Goal; g != nil {
		days := "unreachable with the current model"
		if g.Reachable {
			days = fmt.Sprintf("%d days", g.Days)
		}
		out = append(out, Section{Title: "Goal", Pairs: []Pair{
			{"Target " + util.FormatMoney(g.Target, sym), days},
		}})
	}
	return out
}

// EpochView shows the quit epoch and the streak it implies.
type EpochView struct {
	Epoch    *int64        `json:"epoch"`
	Streak   time.Duration `json:"-"`
	StreakMs int64         `json:"streakMs"`
}

func (v EpochView) Summary() []Section {
	if v.Epoch == nil {
		return []Section{{Title: "Quit date", Pairs: []Pair{{"Epoch", "not set"}}}}
	}
	return []Section{{Title: "Quit date", Pairs: []Pair{
		{"Epoch", formatMillis(*v.Epoch)},
		{"Streak", util.FormatClock(v.Streak)},
	}}}
}

// AdviceView shows a coaching reply.
type AdviceView struct {
	coach.Advice
}

func (v AdviceView) Summary() []Section {
	return []Section{{Title: "Coach", Pairs: []Pair{
		{"Insight", v.Message},
		{"Tip", v.Tip},
	}}}
}

// ImportView reports a finished import.
type ImportView struct {
	app.ImportSummary
}

func (v ImportView) Summary() []Section {
	replaced := "none"
	if len(v.Replaced) > 0 {
		replaced = strings.Join(v.Replaced, ", ")
	}
	epoch := "unchanged"
	if v.EpochSet {
		epoch = "updated"
	}
	return []Section{{Title: "Import", Pairs: []Pair{
		{"Entries added", fmt.Sprintf("%d", v.EntriesAdded)},
		{"Entries skipped", fmt.Sprintf("%d", v.EntriesSkipped)},
		{"Replaced", replaced},
		{"Quit date", epoch},
	}}}
}

// SettingsView shows the user toggles and dashboard order.
type SettingsView struct {
	Gamification bool     `json:"enableGamification"`
	CardOrder    []string `json:"cardOrder"`
}

func (v SettingsView) Summary() []Section {
	state := "off"
	if v.Gamification {
		state = "on"
	}
	return []Section{{Title: "Settings", Pairs: []Pair{
		{"Gamification", state},
		{"Dashboard cards", strings.Join(v.CardOrder, ", ")},
	}}}
}

// RemindView shows the personal note.
type RemindView struct {
	model.RemindMe
}

func (v RemindView) Summary() []Section {
	orDash := func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "-"
		}
		return s
	}
	return []Section{{Title: "Remind me", Pairs: []Pair{
		{"Motivation", orDash(v.Motivation)},
		{"Strategies", orDash(v.Strategies)},
		{"Benefits", orDash(v.Benefits)},
		{"Journal", orDash(v.Journal)},
	}}}
}
