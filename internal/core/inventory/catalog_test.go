package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-breathfree/internal/core/constants"
	"github.com/penwyp/go-breathfree/internal/core/model"
)

func TestDefaultCatalog(t *testing.T) {
	forSale := DefaultCatalog.ForSale()
	assert.Len(t, forSale, 10)
	for _, it := range forSale {
		assert.NotEqual(t, FreedomEagle, it.ID)
	}

	egg, ok := DefaultCatalog.Get(MysteryEgg)
	require.True(t, ok)
	assert.Equal(t, int64(5), egg.Cost)

	fox, _ := DefaultCatalog.Get("clever_fox")
	assert.Equal(t, "Always finds the hidden loot.", fox.Description)
	assert.Equal(t, int64(450), fox.Cost)
}

func TestSorted(t *testing.T) {
	items := []Item{
		{ID: "b", Name: "Bee", Cost: 20},
		{ID: "a", Name: "Ant", Cost: 20},
		{ID: "c", Name: "Cat", Cost: 5},
	}

	names := func(in []Item) []string {
		out := make([]string, len(in))
		for i, it := range in {
			out[i] = it.Name
		}
		return out
	}

	assert.Equal(t, []string{"Cat", "Ant", "Bee"}, names(Sorted(items, SortPriceAsc)))
	assert.Equal(t, []string{"Ant", "Bee", "Cat"}, names(Sorted(items, SortPriceDesc)))
	assert.Equal(t, []string{"Ant", "Bee", "Cat"}, names(Sorted(items, SortName)))
	assert.Equal(t, "Bee", items[0].Name, "input must not be reordered")
}

func TestParseSortOrder(t *testing.T) {
	got, err := ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, SortPriceAsc, got)

	got, err = ParseSortOrder("NAME")
	require.NoError(t, err)
	assert.Equal(t, SortName, got)

	_, err = ParseSortOrder("rarity")
	assert.Error(t, err)
}

func TestFind(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantID  string
		wantErr error
	}{
		{name: "exact id", query: "brave_cat", wantID: "brave_cat"},
		{name: "exact name any case", query: "wise panda", wantID: "wise_panda"},
		{name: "fuzzy", query: "turtl", wantID: "patient_turtle"},
		{name: "no match", query: "zzzz", wantErr: ErrUnknownItem},
		{name: "empty", query: "  ", wantErr: ErrUnknownItem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DefaultCatalog.Find(tt.query)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestFindSkipsHiddenItems(t *testing.T) {
	got, err := DefaultCatalog.Find("freedom_eagle")
	if err == nil {
		assert.NotEqual(t, FreedomEagle, got.ID)
	}
}

func TestPresentEvolution(t *testing.T) {
	day := constants.MillisPerDay
	bought := int64(1_000_000)

	tests := []struct {
		name       string
		now        int64
		wantID     string
		evolved    bool
		daysOwned  int
		incubation float64
	}{
		{name: "fresh egg", now: bought, wantID: MysteryEgg, incubation: 0},
		{name: "half incubated", now: bought + 15*day, wantID: MysteryEgg, daysOwned: 15, incubation: 0.5},
		{name: "one ms before hatch", now: bought + 30*day - 1, wantID: MysteryEgg, daysOwned: 29, incubation: float64(30*day-1) / float64(30*day)},
		{name: "hatched", now: bought + 30*day, wantID: FreedomEagle, evolved: true, daysOwned: 30},
		{name: "clock before purchase", now: bought - day, wantID: MysteryEgg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owned := DefaultCatalog.Present(model.Inventory{{ID: MysteryEgg, PurchasedAt: bought}}, tt.now)
			require.Len(t, owned, 1)
			assert.Equal(t, tt.wantID, owned[0].ID)
			assert.Equal(t, tt.evolved, owned[0].Evolved)
			assert.Equal(t, tt.daysOwned, owned[0].DaysOwned)
			assert.InDelta(t, tt.incubation, owned[0].Incubation, 1e-9)
		})
	}
}

func TestPresentSkipsUnknown(t *testing.T) {
	owned := DefaultCatalog.Present(model.Inventory{{ID: "gone"}, {ID: "torch", PurchasedAt: 1}}, 10)
	require.Len(t, owned, 1)
	assert.Equal(t, "torch", owned[0].ID)
	assert.False(t, owned[0].Evolved)
}
