// Package progression derives skill tracks, XP and credits from the event
// log. Everything here is a pure function of its inputs and the clock
// reading passed in; nothing is cached.
package progression

import (
	"math"
	"time"

	"github.com/penwyp/go-breathfree/internal/core/constants"
	"github.com/penwyp/go-breathfree/internal/core/journal"
	"github.com/penwyp/go-breathfree/internal/core/model"
)

// Derived reward weights.
const (
	CreditsPerCleanDay = 10
	CreditsPerResist   = 5
	XPPerResist        = 50
	XPPerCleanDay      = 100
)

// Snapshot is the input to Evaluate.
type Snapshot struct {
	Journal   *journal.Journal
	Epoch     journal.Epoch
	Financial *model.FinancialModel
	BonusXP   int64
}

// Report is the full derived view at one instant.
type Report struct {
	Now            int64   `json:"now"`
	EffectiveStart int64   `json:"effectiveStart"`
	HasEpoch       bool    `json:"hasEpoch"`
	ElapsedHours   float64 `json:"elapsedHours"`
	ElapsedDays    float64 `json:"elapsedDays"`
	// Streak is the time since the quit epoch; zero when no epoch is set.
	// JSON carries it as StreakMs.
	Streak         time.Duration `json:"-"`
	StreakMs       int64         `json:"streakMs"`
	ResistCount    int           `json:"resistCount"`
	ConsumeTotal   int           `json:"consumeTotal"`
	DailyCost      float64       `json:"dailyCost"`
	MoneySaved     float64       `json:"moneySaved"`
	CurrencySymbol string        `json:"currencySymbol"`
	DerivedCredits int64         `json:"derivedCredits"`
	ActivityXP     int64         `json:"activityXP"`
	TotalXP        int64         `json:"totalXP"`
	Tracks         []Track       `json:"tracks"`
	TotalLevel     int           `json:"totalLevel"`
}

// EffectiveStart is the epoch when set, else the oldest entry, else now.
func EffectiveStart(j *journal.Journal, epoch journal.Epoch, now int64) int64 {
	if ts, ok := epoch.Value(); ok {
		return ts
	}
	if j != nil {
		if ts, ok := j.Oldest(); ok {
			return ts
		}
	}
	return now
}

// Evaluate computes the report for now (Unix milliseconds).
func Evaluate(s Snapshot, now int64) Report {
	j := s.Journal
	if j == nil {
		j = journal.New(nil)
	}

	start := EffectiveStart(j, s.Epoch, now)
	elapsedMs := now - start
	if elapsedMs < 0 {
		elapsedMs = 0
	}
	hours := float64(elapsedMs) / float64(time.Hour/time.Millisecond)
	days := hours / 24

	resists := j.ResistCount()
	daily := s.Financial.DailyCost()
	saved := days * daily

	r := Report{
		Now:            now,
		EffectiveStart: start,
		ElapsedHours:   hours,
		ElapsedDays:    days,
		ResistCount:    resists,
		ConsumeTotal:   j.ConsumeTotal(),
		DailyCost:      daily,
		MoneySaved:     saved,
		CurrencySymbol: s.Financial.Symbol(),
	}

	if epoch, ok := s.Epoch.Value(); ok {
		r.HasEpoch = true
		if now > epoch {
			r.StreakMs = now - epoch
			r.Streak = time.Duration(r.StreakMs) * time.Millisecond
		}
	}

	// Credits need a financial model; without one there is nothing to earn.
	if s.Financial != nil {
		r.DerivedCredits = DerivedCredits(saved, days, resists)
	}
	r.ActivityXP = ActivityXP(resists, r.Streak)
	r.TotalXP = r.ActivityXP + s.BonusXP

	r.Tracks = []Track{
		neuroplasticityTrack(hours),
		regenerationTrack(days),
		resilienceTrack(resists),
		alchemyTrack(days, s.Financial),
		conservationTrack(days, s.Financial),
	}
	for _, t := range r.Tracks {
		r.TotalLevel += t.Level
	}
	return r
}

// DerivedCredits is floor(saved + floor(days)*10 + resists*5).
func DerivedCredits(saved, days float64, resists int) int64 {
	if saved < 0 {
		saved = 0
	}
	if days < 0 {
		days = 0
	}
	total := saved + math.Floor(days)*CreditsPerCleanDay + float64(resists*CreditsPerResist)
	return int64(math.Floor(total))
}

// ActivityXP is resists*50 plus 100 per whole day of streak.
func ActivityXP(resists int, streak time.Duration) int64 {
	wholeDays := int64(streak / constants.Day)
	if wholeDays < 0 {
		wholeDays = 0
	}
	return int64(resists)*XPPerResist + wholeDays*XPPerCleanDay
}

// Track returns the track with id from the report.
func (r Report) Track(id TrackID) (Track, bool) {
	for _, t := range r.Tracks {
		if t.ID == id {
			return t, true
		}
	}
	return Track{}, false
}
