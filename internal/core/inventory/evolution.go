package inventory

import (
	"math"

	"github.com/penwyp/go-breathfree/internal/core/constants"
	"github.com/penwyp/go-breathfree/internal/core/model"
)

// Owned is an inventory item as shown to the user after evolution.
type Owned struct {
	Item
	PurchasedAt int64 `json:"purchasedAt"`
	DaysOwned   int   `json:"daysOwned"`
	// Incubation is the hatch progress in [0,1] for an unhatched egg.
	Incubation float64 `json:"incubation,omitempty"`
	Evolved    bool    `json:"evolved,omitempty"`
}

// Present maps stored inventory to its display form at now. The mystery
// egg turns into the freedom eagle once it has been owned for 30 days.
// Unknown ids are skipped.
func (c *Catalog) Present(inv model.Inventory, now int64) []Owned {
	out := make([]Owned, 0, len(inv))
	for _, rec := range inv {
		it, ok := c.Get(rec.ID)
		if !ok {
			continue
		}

		age := now - rec.PurchasedAt
		if age < 0 {
			age = 0
		}
		days := float64(age) / float64(constants.MillisPerDay)

		o := Owned{Item: it, PurchasedAt: rec.PurchasedAt, DaysOwned: int(math.Floor(days))}
		if rec.ID == MysteryEgg {
			if days >= constants.EggIncubationDays {
				if eagle, ok := c.Get(FreedomEagle); ok {
					o.Item = eagle
					o.Evolved = true
				}
			} else {
				o.Incubation = math.Min(1, days/constants.EggIncubationDays)
			}
		}
		out = append(out, o)
	}
	return out
}
