package app

import (
	"fmt"

	"github.com/penwyp/go-breathfree/internal/core/journal"
	"github.com/penwyp/go-breathfree/internal/core/model"
	"github.com/penwyp/go-breathfree/internal/data/backup"
	"github.com/penwyp/go-breathfree/internal/data/store"
	"github.com/penwyp/go-breathfree/internal/util"
)

// Export encodes the whole state as a backup document.
func (a *App) Export() ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	settings := a.st.settings
	wallet := a.st.wallet
	inv := append(model.Inventory{}, a.st.inventory...)
	p := backup.Payload{
		Entries:         a.st.journal.Entries(),
		FinancialConfig: a.st.financial,
		RemindMe:        a.st.remindMe,
		CardOrder:       a.st.cardOrder,
		Inventory:       &inv,
		WalletState:     &wallet,
		Settings:        &settings,
		QuitTimestamp:   a.st.epoch.Ptr(),
		SolvedGames:     a.st.solved,
	}
	return backup.Encode(p, a.clock())
}

// ImportSummary reports what an import changed.
type ImportSummary struct {
	EntriesAdded   int      `json:"entriesAdded"`
	EntriesSkipped int      `json:"entriesSkipped"`
	Replaced       []string `json:"replaced"`
	EpochSet       bool     `json:"epochSet"`
}

// Import merges a backup document. Entries merge by id with existing
// entries winning; every other key present in the payload replaces the
// stored value. Nothing is written unless the whole document is valid.
func (a *App) Import(data []byte) (ImportSummary, error) {
	doc, err := backup.Decode(data)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("import: %w", err)
	}
	p := doc.Payload

	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.nowMillis()
	sum := ImportSummary{}
	entries := journal.ClampFuture(p.Entries, now)

	if entries != nil {
		sum.EntriesAdded = a.st.journal.Merge(entries)
		sum.EntriesSkipped = len(entries) - sum.EntriesAdded
		a.saveLocked(store.KeyEntries, a.st.journal.Entries())
	}
	if p.FinancialConfig != nil {
		f := *p.FinancialConfig
		a.st.financial = &f
		a.saveLocked(store.KeyFinancial, f)
		sum.Replaced = append(sum.Replaced, store.KeyFinancial)
	}
	if p.RemindMe != nil {
		a.st.remindMe = append([]byte(nil), p.RemindMe...)
		if err := a.store.Save(store.KeyRemindMe, a.st.remindMe); err != nil {
			util.LogError("save failed", util.F("key", store.KeyRemindMe), util.F("error", err))
		}
		sum.Replaced = append(sum.Replaced, store.KeyRemindMe)
	}
	if p.CardOrder != nil {
		a.st.cardOrder = model.MergeCardOrder(p.CardOrder)
		a.saveLocked(store.KeyCardOrder, a.st.cardOrder)
		sum.Replaced = append(sum.Replaced, store.KeyCardOrder)
	}
	if p.Inventory != nil {
		a.st.inventory, _ = p.Inventory.StampMigrated(now)
		a.saveLocked(store.KeyInventory, a.st.inventory)
		sum.Replaced = append(sum.Replaced, store.KeyInventory)
	}
	if p.WalletState != nil {
		a.st.wallet = *p.WalletState
		a.saveLocked(store.KeyWallet, a.st.wallet)
		sum.Replaced = append(sum.Replaced, store.KeyWallet)
	}
	if p.Settings != nil {
		a.st.settings = *p.Settings
		a.saveLocked(store.KeySettings, a.st.settings)
		sum.Replaced = append(sum.Replaced, store.KeySettings)
	}
	if p.SolvedGames != nil {
		a.st.solved = append([]string(nil), p.SolvedGames...)
		a.saveLocked(store.KeyGames, a.st.solved)
		sum.Replaced = append(sum.Replaced, store.KeyGames)
	}

	if p.QuitTimestamp != nil {
		a.st.epoch.Set(min(*p.QuitTimestamp, now))
		sum.EpochSet = true
	} else if ts, ok := journal.LatestConsume(entries); ok {
		a.st.epoch.Set(ts)
		sum.EpochSet = true
	}
	if sum.EpochSet {
		a.saveEpochLocked()
	}

	util.LogInfo("backup imported",
		util.F("entries_added", sum.EntriesAdded),
		util.F("entries_skipped", sum.EntriesSkipped),
		util.F("replaced", sum.Replaced))
	return sum, nil
}

// Reset deletes every stored key and returns to the default state.
func (a *App) Reset() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.store.Delete(store.AllKeys...); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	a.st = defaultState()
	util.LogInfo("all data cleared")
	return nil
}
