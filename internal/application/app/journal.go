package app

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-breathfree/internal/core/journal"
	"github.com/penwyp/go-breathfree/internal/core/model"
	"github.com/penwyp/go-breathfree/internal/data/store"
	"github.com/penwyp/go-breathfree/internal/util"
)

// EntryInput describes a new log entry. A zero At means now.
type EntryInput struct {
	Kind     model.EntryKind
	Quantity int
	At       int64
	Note     string
}

// AddedEntry reports what AddEntry stored.
type AddedEntry struct {
	Entry       model.Entry `json:"entry"`
	EpochMoved  bool        `json:"epochMoved"`
	Retroactive bool        `json:"retroactive"`
}

// AddEntry logs a resist or consume event. Future times are clamped to
// now. A consume entry applies the relapse rule to the quit epoch.
func (a *App) AddEntry(in EntryInput) (AddedEntry, error) {
	if in.Kind == model.KindConsume && in.Quantity < 1 {
		return AddedEntry{}, fmt.Errorf("add entry: %w: count must be at least 1", model.ErrInvalidEntry)
	}
	if in.Kind != model.KindConsume && in.Kind != model.KindResist {
		return AddedEntry{}, fmt.Errorf("add entry: %w: unknown kind %q", model.ErrInvalidEntry, in.Kind)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.nowMillis()
	e := journal.NewEntry(in.Kind, in.Quantity, in.At, in.Note)
	stored := a.st.journal.Add(e, now)
	res := AddedEntry{Entry: stored, Retroactive: in.At != 0 && in.At < now}

	a.saveLocked(store.KeyEntries, a.st.journal.Entries())
	if stored.IsConsume() && a.st.epoch.ObserveConsume(stored.Timestamp) {
		res.EpochMoved = true
		a.saveEpochLocked()
	}

	util.LogDebug("entry added", util.F("kind", stored.Kind), util.F("id", stored.ID), util.F("epoch_moved", res.EpochMoved))
	return res, nil
}

// Entries returns the log newest first.
func (a *App) Entries() []model.Entry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.st.journal.Entries()
}

// Entry finds one entry by id.
func (a *App) Entry(id string) (model.Entry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, ok := a.st.journal.Get(id)
	if !ok {
		return model.Entry{}, fmt.Errorf("%w: %s", journal.ErrEntryNotFound, id)
	}
	return e, nil
}

// UpdateEntry replaces the entry with the same id. The quit epoch is not
// touched by edits.
func (a *App) UpdateEntry(e model.Entry) (model.Entry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.nowMillis()
	if e.Timestamp > now {
		e.Timestamp = now
	}
	e = e.Normalized()
	if err := a.st.journal.Update(e); err != nil {
		return model.Entry{}, fmt.Errorf("update entry: %w", err)
	}
	a.saveLocked(store.KeyEntries, a.st.journal.Entries())
	return e, nil
}

// DeleteEntry removes an entry. The quit epoch is not touched.
func (a *App) DeleteEntry(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.st.journal.Delete(id) {
		return fmt.Errorf("delete entry: %w: %s", journal.ErrEntryNotFound, id)
	}
	a.saveLocked(store.KeyEntries, a.st.journal.Entries())
	return nil
}

// DailyCounts tallies the last days calendar days in the configured zone.
func (a *App) DailyCounts(days int) []journal.DayCount {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.st.journal.DailyCounts(days, a.clock())
}

// Epoch returns the quit epoch.
func (a *App) Epoch() journal.Epoch {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.st.epoch
}

// SetEpoch overrides the quit epoch. Future times are clamped to now.
func (a *App) SetEpoch(ts int64) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if now := a.nowMillis(); ts > now {
		ts = now
	}
	a.st.epoch.Set(ts)
	a.saveEpochLocked()
	return ts
}

// StartNow sets the quit epoch to the current time.
func (a *App) StartNow() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.nowMillis()
	a.st.epoch.Set(now)
	a.saveEpochLocked()
	return now
}

// ClearEpoch unsets the quit epoch.
func (a *App) ClearEpoch() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.st.epoch.Clear()
	a.saveEpochLocked()
}

// Financial returns a copy of the financial model, or nil.
func (a *App) Financial() *model.FinancialModel {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.st.financial == nil {
		return nil
	}
	f := *a.st.financial
	return &f
}

// SetFinancial stores f; nil removes the model.
func (a *App) SetFinancial(f *model.FinancialModel) error {
	if f != nil && (f.UnitCost < 0 || f.UnitLifetimeDays <= 0) {
		return fmt.Errorf("set financial: %w", model.ErrInvalidFinancial)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if f == nil {
		a.st.financial = nil
		if err := a.store.Delete(store.KeyFinancial); err != nil {
			util.LogError("delete failed", util.F("key", store.KeyFinancial), util.F("error", err))
		}
		return nil
	}
	cp := *f
	a.st.financial = &cp
	a.saveLocked(store.KeyFinancial, cp)
	return nil
}

// Settings returns the user toggles.
func (a *App) Settings() model.Settings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.st.settings
}

// SetGamification turns the reward layer on or off.
func (a *App) SetGamification(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.st.settings.EnableGamification = enabled
	a.saveLocked(store.KeySettings, a.st.settings)
}

// CardOrder returns the dashboard section order.
func (a *App) CardOrder() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.st.cardOrder...)
}

// SetCardOrder stores a new section order, completed with any missing
// sections.
func (a *App) SetCardOrder(order []string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.st.cardOrder = model.MergeCardOrder(order)
	a.saveLocked(store.KeyCardOrder, a.st.cardOrder)
	return append([]string(nil), a.st.cardOrder...)
}

var ErrInvalidRemindMe = errors.New("remind-me note must be valid JSON")

// RemindMe returns the stored note document, or nil.
func (a *App) RemindMe() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]byte(nil), a.st.remindMe...)
}

// SetRemindMe stores an opaque JSON document.
func (a *App) SetRemindMe(raw []byte) error {
	if !sonic.Valid(raw) {
		return ErrInvalidRemindMe
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.st.remindMe = append([]byte(nil), raw...)
	if err := a.store.Save(store.KeyRemindMe, a.st.remindMe); err != nil {
		util.LogError("save failed", util.F("key", store.KeyRemindMe), util.F("error", err))
	}
	return nil
}
