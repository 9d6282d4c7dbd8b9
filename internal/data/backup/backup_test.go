package backup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-breathfree/internal/core/economy"
	"github.com/penwyp/go-breathfree/internal/core/model"
)

// A backup as written by the original app, including the legacy debug
// counter and an inventory of bare ids.
const legacyBackup = `{
  "meta": {"version": 1, "createdAt": "2025-01-02T03:04:05.000Z", "appName": "BreathFree"},
  "payload": {
    "entries": [
      {"id": "a", "type": "PUFF", "timestamp": 1700000000000, "count": 3},
      {"id": "b", "type": "RESIST", "timestamp": 1700000100000, "note": "walked it off"},
      {"id": "c", "type": "PUFF", "timestamp": 1700000200000}
    ],
    "financialConfig": {"costPerUnit": 12.5, "daysPerUnit": 4, "currencySymbol": "€"},
    "remindMe": {"text": "for my kids"},
    "cardOrder": ["stats", "financial"],
    "inventory": ["fox", "mystery_egg"],
    "walletState": {"spent": 40, "debug": 9999, "earned": 20, "xp": 50, "discovered": ["tab_shop", "tab_shop"]},
    "settings": {"enableGamification": false},
    "quitTimestamp": null
  }
}`

func TestDecodeLegacyBackup(t *testing.T) {
	doc, err := Decode([]byte(legacyBackup))
	require.NoError(t, err)

	assert.Equal(t, 1, doc.Meta.Version)
	assert.Equal(t, AppName, doc.Meta.AppName)

	p := doc.Payload
	require.Len(t, p.Entries, 3)
	assert.Equal(t, model.KindConsume, p.Entries[0].Kind)
	assert.Equal(t, 3, p.Entries[0].Quantity)
	assert.Equal(t, "walked it off", p.Entries[1].Note)
	assert.Equal(t, 1, p.Entries[2].Quantity, "missing count defaults to one")

	require.NotNil(t, p.FinancialConfig)
	assert.Equal(t, "€", p.FinancialConfig.Symbol())
	assert.JSONEq(t, `{"text":"for my kids"}`, string(p.RemindMe))
	assert.Equal(t, []string{"stats", "financial"}, p.CardOrder)

	require.NotNil(t, p.Inventory)
	assert.Equal(t, model.Inventory{{ID: "fox"}, {ID: "mystery_egg"}}, *p.Inventory)

	require.NotNil(t, p.WalletState)
	assert.Equal(t, economy.Ledger{Spent: 40, BonusEarned: 20, BonusXP: 50, Discovered: []string{"tab_shop"}}, *p.WalletState)

	require.NotNil(t, p.Settings)
	assert.False(t, p.Settings.EnableGamification)
	assert.Nil(t, p.QuitTimestamp)
	assert.Nil(t, p.SolvedGames)
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: `hello`},
		{name: "no payload", doc: `{"meta": {"version": 1}}`},
		{name: "null payload", doc: `{"payload": null}`},
		{name: "entry without id", doc: `{"payload": {"entries": [{"type": "RESIST", "timestamp": 1}]}}`},
		{name: "unknown kind", doc: `{"payload": {"entries": [{"id": "x", "type": "VAPE", "timestamp": 1}]}}`},
		{name: "negative cost", doc: `{"payload": {"financialConfig": {"costPerUnit": -1, "daysPerUnit": 2}}}`},
		{name: "zero lifetime", doc: `{"payload": {"financialConfig": {"costPerUnit": 1, "daysPerUnit": 0}}}`},
		{name: "inventory item without id", doc: `{"payload": {"inventory": [{"purchasedAt": 5}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidBackup)
		})
	}
}

func TestDecodeAbsentKeysStayNil(t *testing.T) {
	doc, err := Decode([]byte(`{"payload": {}}`))
	require.NoError(t, err)
	p := doc.Payload
	assert.Nil(t, p.Entries)
	assert.Nil(t, p.FinancialConfig)
	assert.Nil(t, p.RemindMe)
	assert.Nil(t, p.CardOrder)
	assert.Nil(t, p.Inventory)
	assert.Nil(t, p.WalletState)
	assert.Nil(t, p.Settings)
	assert.Nil(t, p.QuitTimestamp)
}

func TestEncodeThenDecode(t *testing.T) {
	quit := int64(1700000000000)
	inv := model.Inventory{{ID: "fox", PurchasedAt: 1700000000001}}
	p := Payload{
		Entries: []model.Entry{
			{ID: "a", Kind: model.KindResist, Timestamp: 1700000000002},
		},
		FinancialConfig: &model.FinancialModel{UnitCost: 10, UnitLifetimeDays: 5, CurrencySymbol: "$"},
		Inventory:       &inv,
		WalletState:     &economy.Ledger{Spent: 15, Discovered: []string{}},
		Settings:        &model.Settings{EnableGamification: true},
		QuitTimestamp:   &quit,
		SolvedGames:     []string{"math_1"},
	}
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	data, err := Encode(p, created)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"createdAt": "2025-06-01T12:00:00.000Z"`)
	assert.Contains(t, string(data), `"type": "RESIST"`)
	assert.Contains(t, string(data), `"remindMe": null`)

	doc, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, p.Entries, doc.Payload.Entries)
	assert.Equal(t, *p.FinancialConfig, *doc.Payload.FinancialConfig)
	assert.Equal(t, inv, *doc.Payload.Inventory)
	assert.Equal(t, quit, *doc.Payload.QuitTimestamp)
	assert.Equal(t, []string{"math_1"}, doc.Payload.SolvedGames)
}

func TestEncodeEmptyEntriesIsList(t *testing.T) {
	data, err := Encode(Payload{}, time.Unix(0, 0))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"entries": []`)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "breathfree-backup-2025-03-09.json",
		FileName(time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC)))
}
