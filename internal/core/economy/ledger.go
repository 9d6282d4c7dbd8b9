// Package economy tracks the wallet: credits spent on the shop, bonus
// credits and XP earned outside the derived totals, and which one-time
// discoveries have already paid out.
package economy

import (
	"errors"
	"strings"
)

var (
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrAlreadyOwned        = errors.New("item already owned")
	ErrInvalidAmount       = errors.New("amount must be positive")
)

// Ledger is the persisted wallet. Its wire form matches the original
// backup format; the legacy debug accumulator is read and discarded.
type Ledger struct {
	Spent       int64    `json:"spent"`
	BonusEarned int64    `json:"earned"`
	BonusXP     int64    `json:"xp"`
	Discovered  []string `json:"discovered"`
}

// Normalize clamps negative accumulators and removes empty and duplicate
// discovery ids.
func (l *Ledger) Normalize() {
	if l.Spent < 0 {
		l.Spent = 0
	}
	if l.BonusEarned < 0 {
		l.BonusEarned = 0
	}
	if l.BonusXP < 0 {
		l.BonusXP = 0
	}

	seen := make(map[string]bool, len(l.Discovered))
	clean := make([]string, 0, len(l.Discovered))
	for _, id := range l.Discovered {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		clean = append(clean, id)
	}
	l.Discovered = clean
}

// Available is derived + bonusEarned - spent.
func (l Ledger) Available(derived int64) int64 {
	return derived + l.BonusEarned - l.Spent
}

// HasDiscovered reports whether id already paid out.
func (l Ledger) HasDiscovered(id string) bool {
	for _, d := range l.Discovered {
		if d == id {
			return true
		}
	}
	return false
}

// Earn adds bonus credits. Non-positive amounts are rejected.
func (l *Ledger) Earn(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	l.BonusEarned += amount
	return nil
}

// Spend debits cost if the balance covers it.
func (l *Ledger) Spend(cost, derived int64) error {
	if cost < 0 {
		return ErrInvalidAmount
	}
	if l.Available(derived) < cost {
		return ErrInsufficientCredits
	}
	l.Spent += cost
	return nil
}

// Discover pays the reward for id once. It returns the reward and whether
// anything was paid. Game payouts are not discoverable.
func (l *Ledger) Discover(id string) (Reward, bool) {
	id = strings.TrimSpace(id)
	if id == "" || l.HasDiscovered(id) {
		return Reward{}, false
	}
	r := RewardFor(id)
	if r.Kind == KindGame {
		return Reward{}, false
	}
	l.BonusEarned += r.Credits
	l.BonusXP += r.XP
	l.Discovered = append(l.Discovered, id)
	return r, true
}
