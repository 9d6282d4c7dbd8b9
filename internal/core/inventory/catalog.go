package inventory

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Category groups shop items.
type Category string

const (
	CategoryAnimals Category = "ANIMALS"
	CategoryItems   Category = "ITEMS"
)

// Item ids that take part in evolution.
const (
	MysteryEgg   = "mystery_egg"
	FreedomEagle = "freedom_eagle"
)

var (
	ErrUnknownItem   = errors.New("unknown item")
	ErrAmbiguousItem = errors.New("ambiguous item")
)

// Item is a catalog entry.
type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Cost        int64    `json:"cost"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	// Hidden items are never sold; they only appear through evolution.
	Hidden bool `json:"hidden,omitempty"`
}

// Catalog is an ordered, id-indexed list of items.
type Catalog struct {
	items []Item
	byID  map[string]Item
}

// NewCatalog indexes items, keeping their order.
func NewCatalog(items []Item) *Catalog {
	c := &Catalog{items: items, byID: make(map[string]Item, len(items))}
	for _, it := range items {
		c.byID[it.ID] = it
	}
	return c
}

// DefaultCatalog is the stock shop.
var DefaultCatalog = NewCatalog([]Item{
	{ID: "clever_fox", Name: "Clever Fox", Category: CategoryAnimals, Cost: 450, Icon: "🦊", Description: "Always finds the hidden loot."},
	{ID: "patient_turtle", Name: "Patient Turtle", Category: CategoryAnimals, Cost: 800, Icon: "🐢", Description: "Ancient wisdom wrapped in a shell."},
	{ID: "brave_cat", Name: "Brave Cat", Category: CategoryAnimals, Cost: 1200, Icon: "🐱", Description: "Walks where it pleases. Fearless."},
	{ID: "wise_panda", Name: "Wise Panda", Category: CategoryAnimals, Cost: 2000, Icon: "🐼", Description: "Master of inner peace and snacks."},
	{ID: "mystical_snail", Name: "Mystical Snail", Category: CategoryAnimals, Cost: 600, Icon: "🐌", Description: "Leaves a trail of stardust."},
	{ID: MysteryEgg, Name: "Mystery Egg", Category: CategoryAnimals, Cost: 5, Icon: "🥚", Description: "A mysterious glow pulses from within."},
	{ID: "torch", Name: "Torch", Category: CategoryItems, Cost: 300, Icon: "🔦", Description: "Illuminates even the darkest dungeons."},
	{ID: "shield_item", Name: "Shield", Category: CategoryItems, Cost: 650, Icon: "🛡️", Description: "Deflects incoming damage."},
	{ID: "sword", Name: "Sword", Category: CategoryItems, Cost: 1100, Icon: "🗡️", Description: "A legendary blade for epic battles."},
	{ID: "armor", Name: "Armor", Category: CategoryItems, Cost: 2500, Icon: "🦺", Description: "Grants +50 Defense to the wearer."},
	{ID: FreedomEagle, Name: "Freedom Eagle", Category: CategoryAnimals, Cost: 0, Icon: "🦅", Description: "Soars above all obstacles with ease.", Hidden: true},
})

// Get returns the item with id.
func (c *Catalog) Get(id string) (Item, bool) {
	it, ok := c.byID[id]
	return it, ok
}

// ForSale lists items that can be bought, in catalog order.
func (c *Catalog) ForSale() []Item {
	out := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		if !it.Hidden {
			out = append(out, it)
		}
	}
	return out
}

// SortOrder orders the shop listing.
type SortOrder string

const (
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
	SortName      SortOrder = "name"
)

// ParseSortOrder validates a sort flag. Empty means price ascending.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortPriceAsc:
		return SortPriceAsc, nil
	case SortPriceDesc:
		return SortPriceDesc, nil
	case SortName:
		return SortName, nil
	default:
		return "", fmt.Errorf("unknown sort %q (use price_asc, price_desc or name)", s)
	}
}

// Sorted returns a sorted copy of items. Ties fall back to name.
func Sorted(items []Item, order SortOrder) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch order {
		case SortPriceDesc:
			if a.Cost != b.Cost {
				return a.Cost > b.Cost
			}
		case SortName:
		default:
			if a.Cost != b.Cost {
				return a.Cost < b.Cost
			}
		}
		return a.Name < b.Name
	})
	return out
}

// itemNames adapts a slice of items to fuzzy.Source.
type itemNames []Item

func (s itemNames) String(i int) string { return s[i].Name + " " + s[i].ID }
func (s itemNames) Len() int            { return len(s) }

// Find resolves user input to a purchasable item: an exact id or name
// first, then the single best fuzzy match.
func (c *Catalog) Find(query string) (Item, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Item{}, fmt.Errorf("%w: empty name", ErrUnknownItem)
	}

	forSale := c.ForSale()
	for _, it := range forSale {
		if strings.EqualFold(it.ID, q) || strings.EqualFold(it.Name, q) {
			return it, nil
		}
	}

	matches := fuzzy.FindFrom(q, itemNames(forSale))
	switch {
	case len(matches) == 0:
		return Item{}, fmt.Errorf("%w: %q", ErrUnknownItem, query)
	case len(matches) > 1 && matches[0].Score == matches[1].Score:
		return Item{}, fmt.Errorf("%w: %q matches %s and %s", ErrAmbiguousItem, query,
			forSale[matches[0].Index].Name, forSale[matches[1].Index].Name)
	default:
		return forSale[matches[0].Index], nil
	}
}
