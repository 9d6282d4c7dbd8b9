// Package app is the controller that owns the tracker state. Every
// mutation goes through an App method, which updates memory and then
// persists the keys it touched.
package app

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-breathfree/internal/core/economy"
	"github.com/penwyp/go-breathfree/internal/core/inventory"
	"github.com/penwyp/go-breathfree/internal/core/journal"
	"github.com/penwyp/go-breathfree/internal/core/model"
	"github.com/penwyp/go-breathfree/internal/core/progression"
	"github.com/penwyp/go-breathfree/internal/data/store"
	"github.com/penwyp/go-breathfree/internal/util"
)

// state is everything persisted, decoded.
type state struct {
	journal   *journal.Journal
	epoch     journal.Epoch
	financial *model.FinancialModel
	inventory model.Inventory
	wallet    economy.Ledger
	settings  model.Settings
	solved    []string
	cardOrder []string
	remindMe  []byte
}

func defaultState() state {
	return state{
		journal:   journal.New(nil),
		inventory: model.Inventory{},
		wallet:    economy.Ledger{Discovered: []string{}},
		settings:  model.DefaultSettings(),
		cardOrder: model.MergeCardOrder(nil),
	}
}

// App is the tracker controller. It is safe for concurrent use.
type App struct {
	mu      sync.Mutex
	store   store.Store
	catalog *inventory.Catalog
	clock   func() time.Time
	st      state
}

// Option configures an App.
type Option func(*App)

// WithClock replaces the time source.
func WithClock(clock func() time.Time) Option {
	return func(a *App) { a.clock = clock }
}

// WithCatalog replaces the shop catalog.
func WithCatalog(c *inventory.Catalog) Option {
	return func(a *App) { a.catalog = c }
}

// New creates an App over s holding default state. Call Load to read the
// stored state.
func New(s store.Store, opts ...Option) *App {
	a := &App{
		store:   s,
		catalog: inventory.DefaultCatalog,
		clock:   func() time.Time { return util.GetTimeProvider().Now() },
		st:      defaultState(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Open creates an App and loads it.
func Open(s store.Store, opts ...Option) (*App, error) {
	a := New(s, opts...)
	if err := a.Load(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) nowMillis() int64 { return a.clock().UnixMilli() }

// Catalog returns the shop catalog.
func (a *App) Catalog() *inventory.Catalog { return a.catalog }

// Location is where the store keeps its data.
func (a *App) Location() string { return a.store.Location() }

// Load replaces memory with the stored state. Malformed values are logged
// and treated as absent. A missing epoch is recovered from the newest
// consume entry, and legacy inventory gets purchase times; both repairs
// are written back.
func (a *App) Load() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loadLocked()
}

// Reload is Load under another name, used when the data changed on disk.
func (a *App) Reload() error { return a.Load() }

func (a *App) loadLocked() error {
	st := defaultState()
	now := a.nowMillis()

	var entries []model.Entry
	if ok, err := a.decode(store.KeyEntries, &entries); err != nil {
		return err
	} else if ok {
		st.journal = journal.New(validEntries(entries))
	}

	var epoch int64
	if ok, err := a.decode(store.KeyQuitEpoch, &epoch); err != nil {
		return err
	} else if ok && epoch > 0 {
		st.epoch = journal.EpochAt(epoch)
	} else {
		st.epoch = journal.DeriveEpoch(st.journal)
		if ts, set := st.epoch.Value(); set {
			util.LogInfo("quit epoch recovered from latest consume entry", util.F("epoch", ts))
			a.saveLocked(store.KeyQuitEpoch, ts)
		}
	}

	var fin model.FinancialModel
	if ok, err := a.decode(store.KeyFinancial, &fin); err != nil {
		return err
	} else if ok && fin.UnitCost >= 0 && fin.UnitLifetimeDays > 0 {
		st.financial = &fin
	}

	var inv model.Inventory
	if ok, err := a.decode(store.KeyInventory, &inv); err != nil {
		return err
	} else if ok {
		stamped, changed := inv.StampMigrated(now)
		st.inventory = stamped
		if changed {
			util.LogInfo("migrated legacy inventory", util.F("items", len(stamped)))
			a.saveLocked(store.KeyInventory, stamped)
		}
	}

	var wallet economy.Ledger
	if ok, err := a.decode(store.KeyWallet, &wallet); err != nil {
		return err
	} else if ok {
		wallet.Normalize()
		st.wallet = wallet
	}

	var settings model.Settings
	if ok, err := a.decode(store.KeySettings, &settings); err != nil {
		return err
	} else if ok {
		st.settings = settings
	}

	var solved []string
	if ok, err := a.decode(store.KeyGames, &solved); err != nil {
		return err
	} else if ok {
		st.solved = solved
	}

	var order []string
	if ok, err := a.decode(store.KeyCardOrder, &order); err != nil {
		return err
	} else if ok {
		st.cardOrder = model.MergeCardOrder(order)
	}

	if raw, ok, err := a.store.Load(store.KeyRemindMe); err != nil {
		util.LogDebugf("load %s: %v", store.KeyRemindMe, err)
	} else if ok && string(raw) != "null" {
		st.remindMe = raw
	}

	a.st = st
	return nil
}

// decode loads key into v. A missing or malformed value reports false; a
// closed store is the only error returned.
func (a *App) decode(key string, v any) (bool, error) {
	raw, ok, err := a.store.Load(key)
	if errors.Is(err, store.ErrClosed) {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err != nil {
		util.LogDebugf("load %s: %v", key, err)
		return false, nil
	}
	if !ok {
		return false, nil
	}
	if err := sonic.Unmarshal(raw, v); err != nil {
		util.LogDebug("ignoring malformed stored value", util.F("key", key), util.F("error", err))
		return false, nil
	}
	return true, nil
}

// validEntries drops entries that cannot be repaired.
func validEntries(entries []model.Entry) []model.Entry {
	out := make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		if err := e.Normalized().Validate(); err != nil {
			util.LogDebugf("dropping stored entry: %v", err)
			continue
		}
		out = append(out, e)
	}
	return out
}

// saveLocked encodes and writes one key. Failures are logged, not
// returned: memory stays authoritative for this session.
func (a *App) saveLocked(key string, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		util.LogError("encode failed", util.F("key", key), util.F("error", err))
		return
	}
	if err := a.store.Save(key, data); err != nil {
		util.LogError("save failed", util.F("key", key), util.F("error", err))
	}
}

func (a *App) saveEpochLocked() {
	if ts, ok := a.st.epoch.Value(); ok {
		a.saveLocked(store.KeyQuitEpoch, ts)
		return
	}
	if err := a.store.Delete(store.KeyQuitEpoch); err != nil {
		util.LogError("delete failed", util.F("key", store.KeyQuitEpoch), util.F("error", err))
	}
}

// Snapshot is a read-only copy of the state.
type Snapshot struct {
	Entries   []model.Entry
	Epoch     journal.Epoch
	Financial *model.FinancialModel
	Inventory model.Inventory
	Wallet    economy.Ledger
	Settings  model.Settings
	Solved    []string
	CardOrder []string
	RemindMe  []byte
}

// Snapshot copies the current state.
func (a *App) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	var fin *model.FinancialModel
	if a.st.financial != nil {
		f := *a.st.financial
		fin = &f
	}
	wallet := a.st.wallet
	wallet.Discovered = append([]string(nil), a.st.wallet.Discovered...)

	return Snapshot{
		Entries:   a.st.journal.Entries(),
		Epoch:     a.st.epoch,
		Financial: fin,
		Inventory: append(model.Inventory(nil), a.st.inventory...),
		Wallet:    wallet,
		Settings:  a.st.settings,
		Solved:    append([]string(nil), a.st.solved...),
		CardOrder: append([]string(nil), a.st.cardOrder...),
		RemindMe:  append([]byte(nil), a.st.remindMe...),
	}
}

// Report evaluates progression at the current time.
func (a *App) Report() progression.Report {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reportLocked(a.nowMillis())
}

func (a *App) reportLocked(now int64) progression.Report {
	return progression.Evaluate(progression.Snapshot{
		Journal:   a.st.journal,
		Epoch:     a.st.epoch,
		Financial: a.st.financial,
		BonusXP:   a.st.wallet.BonusXP,
	}, now)
}

// Balance is derived credits plus bonus minus spent. Available is
// floored at zero: a relapse can shrink the derived part below what was
// already spent.
type Balance struct {
	Derived   int64 `json:"derived"`
	Bonus     int64 `json:"bonus"`
	Spent     int64 `json:"spent"`
	Available int64 `json:"available"`
}

// Balance reports the spendable credit balance now.
func (a *App) Balance() Balance {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balanceLocked(a.nowMillis())
}

func (a *App) balanceLocked(now int64) Balance {
	derived := a.reportLocked(now).DerivedCredits
	available := a.st.wallet.Available(derived)
	if available < 0 {
		available = 0
	}
	return Balance{
		Derived:   derived,
		Bonus:     a.st.wallet.BonusEarned,
		Spent:     a.st.wallet.Spent,
		Available: available,
	}
}
