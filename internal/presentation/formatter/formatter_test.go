package formatter

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-breathfree/internal/application/app"
	"github.com/penwyp/go-breathfree/internal/core/inventory"
	"github.com/penwyp/go-breathfree/internal/core/journal"
	"github.com/penwyp/go-breathfree/internal/core/model"
	"github.com/penwyp/go-breathfree/internal/util"
)

func init() {
	_ = util.InitializeTimeProvider("UTC")
}

func sampleEntries() EntriesView {
	return EntriesView{Entries: []model.Entry{
		{ID: "0f8a1b2c-aaaa-bbbb", Kind: model.KindConsume, Timestamp: 1700000000000, Quantity: 3, Note: "coffee"},
		{ID: "r1", Kind: model.KindResist, Timestamp: 1699990000000},
	}}
}

func TestNew(t *testing.T) {
	tests := []struct {
		format  string
		want    any
		wantErr bool
	}{
		{"", &TableFormatter{}, false},
		{"table", &TableFormatter{}, false},
		{" JSON ", &JSONFormatter{}, false},
		{"csv", &CSVFormatter{}, false},
		{"xml", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			f, err := New(tt.format, &bytes.Buffer{})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, f)
		})
	}
}

func TestTableFormatterEntries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(&buf).Format(sampleEntries()))

	out := buf.String()
	for _, want := range []string{"Journal", "┌", "└", "0f8a1b2c", "2023-11-14 22:13", "coffee", "consume", "resist"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "0f8a1b2c-aaaa", "ids are shortened")
}

func TestTableFormatterEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(&buf).Format(EntriesView{}))
	assert.Contains(t, buf.String(), "No entries yet")
	assert.NotContains(t, buf.String(), "┌")
}

func TestTableFormatterAlignsWideRunes(t *testing.T) {
	var buf bytes.Buffer
	view := InventoryView{Items: []inventory.Owned{{
		Item:        inventory.Item{ID: "clever_fox", Name: "Clever Fox", Icon: "🦊", Category: inventory.CategoryAnimals},
		PurchasedAt: 1700000000000,
		DaysOwned:   2,
	}}}
	require.NoError(t, NewTableFormatter(&buf).Format(view))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")[1:]
	width := util.GetDisplayWidth(lines[0])
	for _, l := range lines {
		assert.Equal(t, width, util.GetDisplayWidth(l), "line %q", l)
	}
}

func TestTableFormatterNotice(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(&buf).Format(Notice{Message: "Craving resisted."}))
	assert.Equal(t, "Craving resisted.\n", buf.String())
}

func TestTableFormatterSummary(t *testing.T) {
	var buf bytes.Buffer
	epoch := int64(1700000000000)
	view := EpochView{Epoch: &epoch, Streak: 26*time.Hour + 3*time.Minute}
	require.NoError(t, NewTableFormatter(&buf).Format(view))

	out := buf.String()
	assert.Contains(t, out, "Quit date")
	assert.Contains(t, out, "Epoch:")
	assert.Contains(t, out, "2023-11-14 22:13")
}

func TestTableFormatterRejectsPlainValues(t *testing.T) {
	err := NewTableFormatter(&bytes.Buffer{}).Format(42)
	assert.ErrorIs(t, err, ErrUnsupportedView)
}

func TestStatsViewTotals(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	view := NewStatsView([]journal.DayCount{
		{Day: day, Resists: 2, Consumed: 1},
		{Day: day.AddDate(0, 0, 1), Resists: 3},
	})
	tbl := view.Table()
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "2024-01-15", tbl.Rows[0][0])
	assert.Equal(t, "++x", tbl.Rows[0][3])
	assert.Equal(t, []string{"Total", "5", "1", ""}, tbl.Total)
}

func TestShopViewStatus(t *testing.T) {
	view := ShopView{
		Balance: app.Balance{Available: 30},
		Items: []app.ShopItem{
			{Item: inventory.Item{ID: "a", Name: "A", Cost: 10}, Owned: true, Affordable: true},
			{Item: inventory.Item{ID: "b", Name: "B", Cost: 20}, Affordable: true},
			{Item: inventory.Item{ID: "c", Name: "C", Cost: 1200}},
		},
	}
	tbl := view.Table()
	assert.Equal(t, "owned", tbl.Rows[0][4])
	assert.Equal(t, "available", tbl.Rows[1][4])
	assert.Equal(t, "need 1,170 more", tbl.Rows[2][4])
	assert.Contains(t, tbl.Title, "30 cr")
}

func TestFinancialViewSummary(t *testing.T) {
	t.Run("unset", func(t *testing.T) {
		sections := FinancialView{}.Summary()
		require.Len(t, sections, 1)
		assert.Contains(t, sections[0].Pairs[0].Value, "not configured")
	})

	t.Run("goal and projection", func(t *testing.T) {
		fm := &model.FinancialModel{UnitCost: 10, UnitLifetimeDays: 2, CurrencySymbol: "€"}
		view := FinancialView{
			Model:      fm,
			DailyCost:  fm.DailyCost(),
			Projection: &Projection{Amount: 1, Period: model.PeriodWeeks, Savings: 35},
			Goal:       &GoalEstimate{Target: 100, Days: 20, Reachable: true},
		}
		sections := view.Summary()
		require.Len(t, sections, 3)
		assert.Equal(t, "€5.00", sections[0].Pairs[2].Value)
		assert.Equal(t, "€35.00", sections[1].Pairs[0].Value)
		assert.Equal(t, "20 days", sections[2].Pairs[0].Value)
	})
}

func TestJSONFormatterEncodesViewFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf).Format(sampleEntries()))

	var decoded struct {
		Entries []struct {
			ID    string `json:"id"`
			Type  string `json:"type"`
			Count int    `json:"count"`
		} `json:"entries"`
	}
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Entries, 2)
	assert.Equal(t, "0f8a1b2c-aaaa-bbbb", decoded.Entries[0].ID)
	assert.Equal(t, "PUFF", decoded.Entries[0].Type)
	assert.Equal(t, 3, decoded.Entries[0].Count)
}

func TestJSONFormatterStreakInMilliseconds(t *testing.T) {
	var buf bytes.Buffer
	epoch := int64(1700000000000)
	streak := 26 * time.Hour
	view := EpochView{Epoch: &epoch, Streak: streak, StreakMs: streak.Milliseconds()}
	require.NoError(t, NewJSONFormatter(&buf).Format(view))

	out := buf.String()
	assert.Contains(t, out, `"streakMs": 93600000`)
	assert.NotContains(t, out, `"streak":`)
}

func TestCSVFormatter(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewCSVFormatter(&buf).Format(sampleEntries()))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, []string{"ID", "When", "Type", "Count", "Note"}, records[0])
		assert.Equal(t, "coffee", records[1][4])
	})

	t.Run("summary", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewCSVFormatter(&buf).Format(Notice{Message: "done"}))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"section", "key", "value"}, {"", "Result", "done"}}, records)
	})

	t.Run("unsupported", func(t *testing.T) {
		assert.ErrorIs(t, NewCSVFormatter(&bytes.Buffer{}).Format("x"), ErrUnsupportedView)
	})
}
