package app

import (
	"errors"
	"fmt"

	"github.com/penwyp/go-breathfree/internal/core/economy"
	"github.com/penwyp/go-breathfree/internal/core/inventory"
	"github.com/penwyp/go-breathfree/internal/core/model"
	"github.com/penwyp/go-breathfree/internal/data/store"
	"github.com/penwyp/go-breathfree/internal/games"
	"github.com/penwyp/go-breathfree/internal/util"
)

var (
	ErrGamificationDisabled = errors.New("gamification is turned off")
	ErrNotDiscoverable      = errors.New("id is not a discovery")
	ErrNotClaimable         = errors.New("id is not a claimable action")
)

// Purchase buys a catalog item. It returns false without changing
// anything when the item is owned or the balance is short; the error then
// says which.
func (a *App) Purchase(itemID string) (bool, error) {
	it, ok := a.catalog.Get(itemID)
	if !ok || it.Hidden {
		return false, fmt.Errorf("purchase: %w: %s", inventory.ErrUnknownItem, itemID)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.st.inventory.Owns(it.ID) {
		return false, economy.ErrAlreadyOwned
	}
	now := a.nowMillis()
	derived := a.reportLocked(now).DerivedCredits
	if err := a.st.wallet.Spend(it.Cost, derived); err != nil {
		return false, err
	}

	a.st.inventory = append(a.st.inventory, model.InventoryItem{ID: it.ID, PurchasedAt: now})
	a.saveLocked(store.KeyInventory, a.st.inventory)
	a.saveLocked(store.KeyWallet, a.st.wallet)
	util.LogInfo("item purchased", util.F("item", it.ID), util.F("cost", it.Cost))
	return true, nil
}

// Inventory presents owned items at the current time.
func (a *App) Inventory() []inventory.Owned {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.catalog.Present(a.st.inventory, a.nowMillis())
}

// ShopItem is a catalog item with the viewer's standing.
type ShopItem struct {
	inventory.Item
	Owned      bool `json:"owned"`
	Affordable bool `json:"affordable"`
}

// Shop lists items for sale in the given order.
func (a *App) Shop(order inventory.SortOrder) ([]ShopItem, Balance) {
	a.mu.Lock()
	defer a.mu.Unlock()

	bal := a.balanceLocked(a.nowMillis())
	items := inventory.Sorted(a.catalog.ForSale(), order)
	out := make([]ShopItem, 0, len(items))
	for _, it := range items {
		out = append(out, ShopItem{
			Item:       it,
			Owned:      a.st.inventory.Owns(it.ID),
			Affordable: bal.Available >= it.Cost,
		})
	}
	return out, bal
}

// Earn adds bonus credits. Non-positive amounts are ignored.
func (a *App) Earn(amount int64) error {
	if amount <= 0 {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.earnLocked(amount)
}

func (a *App) earnLocked(amount int64) error {
	if err := a.st.wallet.Earn(amount); err != nil {
		return err
	}
	a.saveLocked(store.KeyWallet, a.st.wallet)
	return nil
}

// Discover pays a first-visit reward once. It does nothing while
// gamification is off.
func (a *App) Discover(id string) (economy.Reward, bool, error) {
	if economy.IsClaim(id) {
		return economy.Reward{}, false, fmt.Errorf("%w: %s (use claim)", ErrNotDiscoverable, id)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.st.settings.EnableGamification {
		return economy.Reward{}, false, ErrGamificationDisabled
	}
	r, paid := a.st.wallet.Discover(id)
	if paid {
		a.saveLocked(store.KeyWallet, a.st.wallet)
	}
	return r, paid, nil
}

// Claim pays a one-off civic action reward. Claims are honoured even
// while gamification is off.
func (a *App) Claim(id string) (economy.Reward, bool, error) {
	if !economy.IsClaim(id) {
		return economy.Reward{}, false, fmt.Errorf("%w: %s", ErrNotClaimable, id)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	r, paid := a.st.wallet.Discover(id)
	if paid {
		a.saveLocked(store.KeyWallet, a.st.wallet)
		util.LogInfo("action claimed", util.F("id", id), util.F("credits", r.Credits))
	}
	return r, paid, nil
}

// SubmitAnswer checks a puzzle answer and pays the level once.
func (a *App) SubmitAnswer(level, answer string) (games.Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	arcade := games.NewArcade(games.Puzzles, a.st.solved, games.EarnerFunc(a.earnLocked))
	res, err := arcade.Submit(level, answer)
	if err != nil {
		return res, err
	}
	if res.Awarded > 0 {
		a.st.solved = arcade.Solved()
		a.saveLocked(store.KeyGames, a.st.solved)
	}
	return res, nil
}

// SolvedLevels lists solved puzzle ids.
func (a *App) SolvedLevels() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.st.solved...)
}

// SettleMatch pays the reward for a finished tic-tac-toe match. Settling
// the same match again pays nothing until it is reset.
func (a *App) SettleMatch(m *games.Match) (int64, error) {
	return m.Settle(a.Earner())
}

// Earner exposes Earn to the mini-games.
func (a *App) Earner() games.Earner {
	return games.EarnerFunc(a.Earn)
}
