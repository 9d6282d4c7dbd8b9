package model

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// InventoryItem records when an item was bought.
type InventoryItem struct {
	ID          string `json:"id"`
	PurchasedAt int64  `json:"purchasedAt"`
}

// Inventory decodes both the current object list and the legacy list of
// bare ids. Legacy ids decode with a zero purchase time; see StampMigrated.
type Inventory []InventoryItem

func (inv *Inventory) UnmarshalJSON(data []byte) error {
	var items []InventoryItem
	if err := sonic.Unmarshal(data, &items); err == nil {
		*inv = items
		return nil
	}

	var ids []string
	if err := sonic.Unmarshal(data, &ids); err == nil {
		migrated := make([]InventoryItem, 0, len(ids))
		for _, id := range ids {
			migrated = append(migrated, InventoryItem{ID: id})
		}
		*inv = migrated
		return nil
	}

	return fmt.Errorf("inventory must be a list of items or ids")
}

// StampMigrated sets a zero purchase time to now. It reports whether any
// item changed so the caller can persist the migrated form.
func (inv Inventory) StampMigrated(now int64) (Inventory, bool) {
	changed := false
	out := make(Inventory, len(inv))
	for i, item := range inv {
		if item.PurchasedAt == 0 {
			item.PurchasedAt = now
			changed = true
		}
		out[i] = item
	}
	return out, changed
}

// Owns reports whether id is present.
func (inv Inventory) Owns(id string) bool {
	for _, item := range inv {
		if item.ID == id {
			return true
		}
	}
	return false
}

// Settings holds user toggles.
type Settings struct {
	EnableGamification bool `json:"enableGamification"`
}

// DefaultSettings has gamification enabled.
func DefaultSettings() Settings {
	return Settings{EnableGamification: true}
}

// DefaultCardOrder lists the dashboard sections in their stock order.
var DefaultCardOrder = []string{"financial", "stats", "history", "remind", "why", "gamification", "civic"}

// MergeCardOrder keeps the saved order of known sections, drops unknown
// and duplicate ones, and appends any missing defaults.
func MergeCardOrder(saved []string) []string {
	known := make(map[string]bool, len(DefaultCardOrder))
	for _, id := range DefaultCardOrder {
		known[id] = true
	}

	seen := make(map[string]bool, len(DefaultCardOrder))
	out := make([]string, 0, len(DefaultCardOrder))
	for _, id := range saved {
		if known[id] && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, id := range DefaultCardOrder {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out
}

// RemindMe is the personal note shown on the "remind" card. It is stored
// as an opaque document, so fields unknown here survive a round trip only
// through backups, not through edits.
type RemindMe struct {
	Motivation string `json:"motivation"`
	Strategies string `json:"strategies"`
	Benefits   string `json:"benefits"`
	Journal    string `json:"journal"`
	IsSetup    bool   `json:"isSetup"`
}

// ParseRemindMe decodes a stored note. Nil or malformed input yields the
// empty note.
func ParseRemindMe(raw []byte) RemindMe {
	var r RemindMe
	if len(raw) == 0 {
		return r
	}
	if err := sonic.Unmarshal(raw, &r); err != nil {
		return RemindMe{}
	}
	return r
}

// Headline is the one line the dashboard shows.
func (r RemindMe) Headline() string {
	if r.Motivation == "" {
		return ""
	}
	return "Why I quit: " + r.Motivation
}
