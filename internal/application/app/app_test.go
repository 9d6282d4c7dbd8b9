package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-breathfree/internal/core/economy"
	"github.com/penwyp/go-breathfree/internal/core/inventory"
	"github.com/penwyp/go-breathfree/internal/core/model"
	"github.com/penwyp/go-breathfree/internal/data/store"
	"github.com/penwyp/go-breathfree/internal/games"
)

const (
	hourMs = int64(time.Hour / time.Millisecond)
	dayMs  = 24 * hourMs
	base   = int64(1_700_000_000_000)
)

type fakeClock struct{ now int64 }

func (c *fakeClock) Now() time.Time   { return time.UnixMilli(c.now) }
func (c *fakeClock) advance(ms int64) { c.now += ms }
func (c *fakeClock) set(ms int64)     { c.now = ms }

func newClock(ms int64) *fakeClock { return &fakeClock{now: ms} }

func openApp(t *testing.T, dir string, clock *fakeClock) *App {
	t.Helper()
	s, err := store.NewFileStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	a, err := Open(s, WithClock(clock.Now))
	require.NoError(t, err)
	return a
}

func writeKey(t *testing.T, dir, key, value string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, key+".json"), []byte(value), 0644))
}

func TestRelapseRuleMovesEpochForward(t *testing.T) {
	clock := newClock(base)
	a := openApp(t, t.TempDir(), clock)

	res, err := a.AddEntry(EntryInput{Kind: model.KindConsume, Quantity: 2})
	require.NoError(t, err)
	assert.True(t, res.EpochMoved)
	ts, ok := a.Epoch().Value()
	require.True(t, ok)
	assert.Equal(t, base, ts)

	clock.advance(dayMs)
	res, err = a.AddEntry(EntryInput{Kind: model.KindConsume, Quantity: 1, At: base - hourMs})
	require.NoError(t, err)
	assert.False(t, res.EpochMoved, "older consume must not move the epoch back")
	assert.True(t, res.Retroactive)

	res, err = a.AddEntry(EntryInput{Kind: model.KindConsume, Quantity: 1})
	require.NoError(t, err)
	assert.True(t, res.EpochMoved)
	ts, _ = a.Epoch().Value()
	assert.Equal(t, base+dayMs, ts)

	_, err = a.AddEntry(EntryInput{Kind: model.KindResist})
	require.NoError(t, err)
	ts, _ = a.Epoch().Value()
	assert.Equal(t, base+dayMs, ts, "resist entries leave the epoch alone")
}

func TestAddEntryValidation(t *testing.T) {
	a := openApp(t, t.TempDir(), newClock(base))

	_, err := a.AddEntry(EntryInput{Kind: model.KindConsume, Quantity: 0})
	assert.ErrorIs(t, err, model.ErrInvalidEntry)

	_, err = a.AddEntry(EntryInput{Kind: "SMOKE"})
	assert.ErrorIs(t, err, model.ErrInvalidEntry)

	res, err := a.AddEntry(EntryInput{Kind: model.KindResist, At: base + dayMs})
	require.NoError(t, err)
	assert.Equal(t, base, res.Entry.Timestamp, "future time clamps to now")
}

func TestEditAndDeleteLeaveEpoch(t *testing.T) {
	clock := newClock(base)
	a := openApp(t, t.TempDir(), clock)

	res, err := a.AddEntry(EntryInput{Kind: model.KindConsume, Quantity: 1})
	require.NoError(t, err)

	clock.advance(hourMs)
	e := res.Entry
	e.Timestamp = base + 10*dayMs
	e.Note = "after dinner"
	updated, err := a.UpdateEntry(e)
	require.NoError(t, err)
	assert.Equal(t, base+hourMs, updated.Timestamp)

	require.NoError(t, a.DeleteEntry(e.ID))
	ts, ok := a.Epoch().Value()
	require.True(t, ok)
	assert.Equal(t, base, ts)
	assert.Empty(t, a.Entries())

	assert.Error(t, a.DeleteEntry(e.ID))
}

func TestSetEpochClampsFuture(t *testing.T) {
	a := openApp(t, t.TempDir(), newClock(base))

	assert.Equal(t, base, a.SetEpoch(base+dayMs))
	assert.Equal(t, base-dayMs, a.SetEpoch(base-dayMs))

	a.ClearEpoch()
	_, ok := a.Epoch().Value()
	assert.False(t, ok)
}

func TestLoadRecoversEpochFromEntries(t *testing.T) {
	dir := t.TempDir()
	writeKey(t, dir, store.KeyEntries, `[
		{"id":"a","type":"PUFF","timestamp":1700000000000,"count":1},
		{"id":"b","type":"CONSUME","timestamp":1700000500000,"count":3},
		{"id":"c","type":"RESIST","timestamp":1700000900000}
	]`)

	a := openApp(t, dir, newClock(base+dayMs))
	ts, ok := a.Epoch().Value()
	require.True(t, ok)
	assert.Equal(t, int64(1700000500000), ts)

	raw, err := os.ReadFile(filepath.Join(dir, store.KeyQuitEpoch+".json"))
	require.NoError(t, err)
	assert.Equal(t, "1700000500000", string(raw))
}

func TestLoadMigratesLegacyInventory(t *testing.T) {
	dir := t.TempDir()
	writeKey(t, dir, store.KeyInventory, `["clever_fox", "torch"]`)

	now := base + dayMs
	a := openApp(t, dir, newClock(now))

	inv := a.Snapshot().Inventory
	require.Len(t, inv, 2)
	assert.Equal(t, model.InventoryItem{ID: "clever_fox", PurchasedAt: now}, inv[0])
	assert.Equal(t, model.InventoryItem{ID: "torch", PurchasedAt: now}, inv[1])

	// A second load keeps the stamped time.
	b := openApp(t, dir, newClock(now+dayMs))
	assert.Equal(t, now, b.Snapshot().Inventory[0].PurchasedAt)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	dir := t.TempDir()
	writeKey(t, dir, store.KeyWallet, `{"spent":"lots"}`)
	writeKey(t, dir, store.KeySettings, `not json`)

	a := openApp(t, dir, newClock(base))
	snap := a.Snapshot()
	assert.Equal(t, int64(0), snap.Wallet.Spent)
	assert.True(t, snap.Settings.EnableGamification)
}

func TestCreditsAndPurchase(t *testing.T) {
	dir := t.TempDir()
	clock := newClock(base)
	a := openApp(t, dir, clock)

	a.SetEpoch(base)
	require.NoError(t, a.SetFinancial(&model.FinancialModel{UnitCost: 20, UnitLifetimeDays: 4, CurrencySymbol: "$"}))
	for i := 0; i < 3; i++ {
		_, err := a.AddEntry(EntryInput{Kind: model.KindResist, At: base + hourMs})
		require.NoError(t, err)
	}
	clock.set(base + 10*dayMs + 12*hourMs)

	bal := a.Balance()
	assert.Equal(t, int64(167), bal.Derived)
	assert.Equal(t, int64(167), bal.Available)

	ok, err := a.Purchase("clever_fox")
	assert.False(t, ok)
	assert.ErrorIs(t, err, economy.ErrInsufficientCredits)

	ok, err = a.Purchase(inventory.MysteryEgg)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(162), a.Balance().Available)

	ok, err = a.Purchase(inventory.MysteryEgg)
	assert.False(t, ok)
	assert.ErrorIs(t, err, economy.ErrAlreadyOwned)

	_, err = a.Purchase(inventory.FreedomEagle)
	assert.ErrorIs(t, err, inventory.ErrUnknownItem)

	// Reopening reads the same wallet and inventory back.
	b := openApp(t, dir, clock)
	assert.Equal(t, int64(162), b.Balance().Available)
	assert.True(t, b.Snapshot().Inventory.Owns(inventory.MysteryEgg))
}

func TestBalanceNeverNegativeAfterRelapse(t *testing.T) {
	clock := newClock(base)
	a := openApp(t, t.TempDir(), clock)

	a.SetEpoch(base)
	require.NoError(t, a.SetFinancial(&model.FinancialModel{UnitCost: 20, UnitLifetimeDays: 4, CurrencySymbol: "$"}))
	clock.set(base + 31*dayMs)
	ok, err := a.Purchase("torch")
	require.NoError(t, err)
	require.True(t, ok)

	_, err = a.AddEntry(EntryInput{Kind: model.KindConsume, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(0), a.Balance().Available)

	ok, err = a.Purchase(inventory.MysteryEgg)
	assert.False(t, ok)
	assert.ErrorIs(t, err, economy.ErrInsufficientCredits)
}

func TestDiscoverHonoursToggle(t *testing.T) {
	a := openApp(t, t.TempDir(), newClock(base))

	r, paid, err := a.Discover("tab_shop")
	require.NoError(t, err)
	assert.True(t, paid)
	assert.Equal(t, economy.DefaultDiscovery.Credits, r.Credits)

	_, paid, err = a.Discover("tab_shop")
	require.NoError(t, err)
	assert.False(t, paid)

	_, _, err = a.Discover(economy.ActionCTALink)
	assert.ErrorIs(t, err, ErrNotDiscoverable)

	a.SetGamification(false)
	_, paid, err = a.Discover("tab_games")
	assert.ErrorIs(t, err, ErrGamificationDisabled)
	assert.False(t, paid)
	assert.False(t, a.Snapshot().Wallet.HasDiscovered("tab_games"))
}

func TestClaimIgnoresToggle(t *testing.T) {
	a := openApp(t, t.TempDir(), newClock(base))
	a.SetGamification(false)

	r, paid, err := a.Claim(economy.ActionCTACheckbox)
	require.NoError(t, err)
	assert.True(t, paid)
	assert.Equal(t, int64(300), r.Credits)

	_, paid, err = a.Claim(economy.ActionCTACheckbox)
	require.NoError(t, err)
	assert.False(t, paid)

	snap := a.Snapshot()
	assert.Equal(t, int64(300), snap.Wallet.BonusEarned)
	assert.Equal(t, int64(200), snap.Wallet.BonusXP)

	_, _, err = a.Claim("tab_shop")
	assert.ErrorIs(t, err, ErrNotClaimable)
}

func TestPuzzlePaysOnce(t *testing.T) {
	dir := t.TempDir()
	a := openApp(t, dir, newClock(base))

	res, err := a.SubmitAnswer("riddle_1", " clock ")
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, int64(20), res.Awarded)

	res, err = a.SubmitAnswer("riddle_1", "Clock")
	require.NoError(t, err)
	assert.True(t, res.AlreadySolved)
	assert.Equal(t, int64(0), res.Awarded)

	res, err = a.SubmitAnswer("riddle_2", "guitar")
	require.NoError(t, err)
	assert.False(t, res.Correct)

	assert.Equal(t, int64(20), a.Balance().Bonus)

	b := openApp(t, dir, newClock(base))
	assert.Equal(t, []string{"riddle_1"}, b.SolvedLevels())
}

func TestSettleMatchPaysOnce(t *testing.T) {
	a := openApp(t, t.TempDir(), newClock(base))
	m := games.NewMatch(games.Easy, lowestSquare{})
	for _, cell := range []int{4, 2, 6} {
		_, err := m.Play(cell)
		require.NoError(t, err)
	}
	require.Equal(t, games.PlayerWon, m.Outcome())

	first, err := a.SettleMatch(m)
	require.NoError(t, err)
	second, err := a.SettleMatch(m)
	require.NoError(t, err)

	assert.Equal(t, int64(10), first)
	assert.Equal(t, int64(0), second)
	assert.Equal(t, int64(10), a.Balance().Bonus)
}

// lowestSquare makes the opponent play randomly and pick the lowest free
// square.
type lowestSquare struct{}

func (lowestSquare) Float64() float64 { return 0 }
func (lowestSquare) Intn(int) int     { return 0 }

func TestImportMergesAndReplaces(t *testing.T) {
	dir := t.TempDir()
	a := openApp(t, dir, newClock(base+dayMs))

	_, err := a.AddEntry(EntryInput{Kind: model.KindResist})
	require.NoError(t, err)
	existing := a.Entries()[0]

	doc := `{
		"meta": {"version": 1, "createdAt": "2024-01-01T00:00:00.000Z", "appName": "BreathFree"},
		"payload": {
			"entries": [
				{"id": "` + existing.ID + `", "type": "RESIST", "timestamp": 1, "note": "imported copy"},
				{"id": "x1", "type": "PUFF", "timestamp": 1700000100000, "count": 2},
				{"id": "x2", "type": "RESIST", "timestamp": 1700000200000}
			],
			"financialConfig": {"costPerUnit": 12.5, "daysPerUnit": 3, "currencySymbol": "€"},
			"inventory": ["torch"],
			"walletState": {"spent": 10, "debug": 999, "earned": 40, "xp": 5, "discovered": ["tab_shop"]}
		}
	}`

	sum, err := a.Import([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, sum.EntriesAdded)
	assert.Equal(t, 1, sum.EntriesSkipped)
	assert.True(t, sum.EpochSet)
	assert.ElementsMatch(t, []string{store.KeyFinancial, store.KeyInventory, store.KeyWallet}, sum.Replaced)

	kept, err := a.Entry(existing.ID)
	require.NoError(t, err)
	assert.Equal(t, existing, kept, "existing entry wins on id collision")

	ts, ok := a.Epoch().Value()
	require.True(t, ok)
	assert.Equal(t, int64(1700000100000), ts, "epoch derived from latest imported consume")

	snap := a.Snapshot()
	assert.Equal(t, "€", snap.Financial.CurrencySymbol)
	assert.Equal(t, base+dayMs, snap.Inventory[0].PurchasedAt)
	assert.Equal(t, int64(40), snap.Wallet.BonusEarned)
	assert.True(t, snap.Settings.EnableGamification, "absent keys are left alone")
}

func TestImportQuitTimestampWins(t *testing.T) {
	a := openApp(t, t.TempDir(), newClock(base+dayMs))

	doc := `{"meta":{"version":1},"payload":{
		"entries":[{"id":"p","type":"PUFF","timestamp":1700000100000,"count":1}],
		"quitTimestamp": 1690000000000
	}}`
	sum, err := a.Import([]byte(doc))
	require.NoError(t, err)
	assert.True(t, sum.EpochSet)
	ts, _ := a.Epoch().Value()
	assert.Equal(t, int64(1690000000000), ts)
}

func TestImportClampsFutureTimes(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"future consume entry", `"entries":[{"id":"f","type":"PUFF","timestamp":1700432000000,"count":1}]`},
		{"future quit timestamp", `"entries":[],"quitTimestamp":1700432000000`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := openApp(t, t.TempDir(), newClock(base))
			_, err := a.Import([]byte(`{"meta":{"version":1},"payload":{` + tt.payload + `}}`))
			require.NoError(t, err)

			ts, ok := a.Epoch().Value()
			require.True(t, ok)
			assert.Equal(t, base, ts)
			for _, e := range a.Entries() {
				assert.LessOrEqual(t, e.Timestamp, base)
			}
			r := a.Report()
			assert.LessOrEqual(t, r.EffectiveStart, r.Now)
		})
	}
}

func TestInvalidImportWritesNothing(t *testing.T) {
	dir := t.TempDir()
	a := openApp(t, dir, newClock(base))
	_, err := a.AddEntry(EntryInput{Kind: model.KindResist})
	require.NoError(t, err)
	before := a.Snapshot()

	bad := []string{
		`not json`,
		`{"meta":{"version":1}}`,
		`{"payload":{"entries":[{"id":"e","type":"PUFF","timestamp":1,"count":1}],"financialConfig":{"costPerUnit":-1,"daysPerUnit":1}}}`,
	}
	for _, doc := range bad {
		_, err := a.Import([]byte(doc))
		assert.Error(t, err, doc)
	}
	assert.Equal(t, before, a.Snapshot())
}

func TestExportRoundTrip(t *testing.T) {
	clock := newClock(base)
	a := openApp(t, t.TempDir(), clock)
	_, err := a.AddEntry(EntryInput{Kind: model.KindConsume, Quantity: 2, Note: "stress"})
	require.NoError(t, err)
	require.NoError(t, a.SetFinancial(&model.FinancialModel{UnitCost: 8, UnitLifetimeDays: 2, CurrencySymbol: "£"}))
	_, _, err = a.Claim(economy.ActionCTALink)
	require.NoError(t, err)

	data, err := a.Export()
	require.NoError(t, err)

	b := openApp(t, t.TempDir(), clock)
	_, err = b.Import(data)
	require.NoError(t, err)

	sa, sb := a.Snapshot(), b.Snapshot()
	assert.Equal(t, sa.Entries, sb.Entries)
	assert.Equal(t, sa.Epoch, sb.Epoch)
	assert.Equal(t, sa.Financial, sb.Financial)
	assert.Equal(t, sa.Wallet, sb.Wallet)
	assert.Equal(t, sa.CardOrder, sb.CardOrder)
}

func TestResetClearsEverything(t *testing.T) {
	dir := t.TempDir()
	a := openApp(t, dir, newClock(base))
	_, err := a.AddEntry(EntryInput{Kind: model.KindConsume, Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, a.SetRemindMe([]byte(`{"text":"for my lungs"}`)))

	require.NoError(t, a.Reset())
	assert.Empty(t, a.Entries())
	_, ok := a.Epoch().Value()
	assert.False(t, ok)
	assert.Nil(t, a.RemindMe())

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestRemindMeMustBeJSON(t *testing.T) {
	a := openApp(t, t.TempDir(), newClock(base))
	assert.ErrorIs(t, a.SetRemindMe([]byte("plain text")), ErrInvalidRemindMe)
}

func TestCardOrderCompletesMissing(t *testing.T) {
	a := openApp(t, t.TempDir(), newClock(base))
	got := a.SetCardOrder([]string{"civic", "stats"})
	assert.Equal(t, "civic", got[0])
	assert.Equal(t, "stats", got[1])
	assert.Len(t, got, len(model.DefaultCardOrder))
}
