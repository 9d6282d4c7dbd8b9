// Package fixtures writes ready-made data directories for tests that run
// the binary.
package fixtures

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-breathfree/internal/core/journal"
	"github.com/penwyp/go-breathfree/internal/core/model"
	"github.com/penwyp/go-breathfree/internal/data/store"
)

// Journal builds a data directory the way a user with some history would
// have left it.
type Journal struct {
	entries   []model.Entry
	epoch     *int64
	financial *model.FinancialModel
	settings  *model.Settings
}

// NewJournal starts an empty history.
func NewJournal() *Journal {
	return &Journal{}
}

// QuitAt sets the quit epoch.
func (j *Journal) QuitAt(t time.Time) *Journal {
	ms := t.UnixMilli()
	j.epoch = &ms
	return j
}

// Resists adds n resisted cravings spaced by every, starting at from.
func (j *Journal) Resists(n int, from time.Time, every time.Duration) *Journal {
	for i := 0; i < n; i++ {
		at := from.Add(time.Duration(i) * every)
		j.entries = append(j.entries, journal.NewEntry(model.KindResist, 0, at.UnixMilli(), ""))
	}
	return j
}

// Consumed adds one consume entry.
func (j *Journal) Consumed(at time.Time, quantity int, note string) *Journal {
	j.entries = append(j.entries, journal.NewEntry(model.KindConsume, quantity, at.UnixMilli(), note))
	return j
}

// Costing sets the financial model.
func (j *Journal) Costing(unitCost, unitDays float64, symbol string) *Journal {
	j.financial = &model.FinancialModel{UnitCost: unitCost, UnitLifetimeDays: unitDays, CurrencySymbol: symbol}
	return j
}

// Gamified sets the gamification toggle.
func (j *Journal) Gamified(on bool) *Journal {
	j.settings = &model.Settings{EnableGamification: on}
	return j
}

// Entries returns a copy of the built entries.
func (j *Journal) Entries() []model.Entry {
	return append([]model.Entry(nil), j.entries...)
}

// Write stores the history in dir using the given backend.
func (j *Journal) Write(backend, dir string) error {
	st, err := store.Open(backend, dir)
	if err != nil {
		return err
	}
	defer st.Close()

	values := map[string]any{store.KeyEntries: j.entries}
	if j.epoch != nil {
		values[store.KeyQuitEpoch] = *j.epoch
	}
	if j.financial != nil {
		values[store.KeyFinancial] = j.financial
	}
	if j.settings != nil {
		values[store.KeySettings] = j.settings
	}
	for key, v := range values {
		data, err := sonic.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		if err := st.Save(key, data); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return nil
}
