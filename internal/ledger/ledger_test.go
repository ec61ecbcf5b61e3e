package ledger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SpotScout/internal/model"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	store := NewCSVStore(filepath.Join(t.TempDir(), "trades.csv"))
	led := New(store, 10)
	require.NoError(t, led.EnsureStore())
	return led
}

func TestAppend_AutoDedupWithinWindow(t *testing.T) {
	led := newTestLedger(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	led.now = func() time.Time { return now }

	logged, err := led.Append(model.TradeRecord{
		AssetID: "bitcoin", Name: "Bitcoin", Symbol: "BTC",
		BuyPrice: 100, Quantity: 0.1, Type: model.TradeAuto,
	})
	require.NoError(t, err)
	assert.True(t, logged)

	// Second auto append for the same asset within 24h is a silent no-op.
	logged, err = led.Append(model.TradeRecord{
		AssetID: "bitcoin", BuyPrice: 101, Quantity: 0.099, Type: model.TradeAuto,
	})
	require.NoError(t, err)
	assert.False(t, logged)

	records, err := led.LoadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestAppend_ManualNeverDeduplicated(t *testing.T) {
	led := newTestLedger(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	led.now = func() time.Time { return now }

	logged, err := led.Append(model.TradeRecord{AssetID: "bitcoin", BuyPrice: 100, Quantity: 0.1, Type: model.TradeAuto})
	require.NoError(t, err)
	assert.True(t, logged)

	logged, err = led.Append(model.TradeRecord{AssetID: "bitcoin", BuyPrice: 100, Quantity: 0.1, Type: model.TradeManual})
	require.NoError(t, err)
	assert.True(t, logged)

	records, err := led.LoadAll()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestAppend_AutoAllowedAfterWindow(t *testing.T) {
	led := newTestLedger(t)
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	led.now = func() time.Time { return start }

	logged, err := led.Append(model.TradeRecord{AssetID: "bitcoin", BuyPrice: 100, Quantity: 0.1, Type: model.TradeAuto})
	require.NoError(t, err)
	assert.True(t, logged)

	led.now = func() time.Time { return start.Add(25 * time.Hour) }
	logged, err = led.Append(model.TradeRecord{AssetID: "bitcoin", BuyPrice: 90, Quantity: 0.111, Type: model.TradeAuto})
	require.NoError(t, err)
	assert.True(t, logged)

	records, err := led.LoadAll()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestAppend_DifferentAssetsNotDeduplicated(t *testing.T) {
	led := newTestLedger(t)

	logged, err := led.Append(model.TradeRecord{AssetID: "bitcoin", BuyPrice: 100, Quantity: 0.1, Type: model.TradeAuto})
	require.NoError(t, err)
	assert.True(t, logged)

	logged, err = led.Append(model.TradeRecord{AssetID: "ethereum", BuyPrice: 10, Quantity: 1, Type: model.TradeAuto})
	require.NoError(t, err)
	assert.True(t, logged)
}

func TestValue_RoundTrip(t *testing.T) {
	led := newTestLedger(t)
	rec := model.TradeRecord{BuyPrice: 100, Quantity: 0.1}

	v := led.Value(rec, 150)
	assert.InDelta(t, 15.0, v.CurrentValue, 1e-9)
	assert.InDelta(t, 5.0, v.PnL, 1e-9)
	assert.InDelta(t, 50.0, v.PnLPercent, 1e-9)
}

func TestValue_ZeroPriceGuarded(t *testing.T) {
	led := newTestLedger(t)
	rec := model.TradeRecord{BuyPrice: 100, Quantity: 0.1}

	v := led.Value(rec, 0)
	assert.Zero(t, v.CurrentValue)
	assert.InDelta(t, -10.0, v.PnL, 1e-9)
	assert.InDelta(t, -100.0, v.PnLPercent, 1e-9)
}

func TestEnsureStore_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")
	led := New(NewCSVStore(path), 10)

	for i := 0; i < 3; i++ {
		require.NoError(t, led.EnsureStore())
	}
	_, err := led.Append(model.TradeRecord{AssetID: "bitcoin", BuyPrice: 100, Quantity: 0.1, Type: model.TradeManual})
	require.NoError(t, err)
	require.NoError(t, led.EnsureStore())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// one header line, one record line
	assert.Equal(t, 2, countLines(string(data)))

	records, err := led.LoadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func countLines(s string) int {
	n := 0
	for _, c := range s {
		if c == '\n' {
			n++
		}
	}
	return n
}
