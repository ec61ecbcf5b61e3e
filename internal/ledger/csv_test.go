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

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trades.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVLoadAll_LegacyRowsDefaultToAuto(t *testing.T) {
	// Older files have no trade_type column.
	path := writeFile(t, "timestamp,coin_id,name,symbol,buy_price,quantity\n"+
		"2025-05-01T10:00:00Z,bitcoin,Bitcoin,BTC,50000,0.0002\n")

	records, err := NewCSVStore(path).LoadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.TradeAuto, records[0].Type)
	assert.Equal(t, "bitcoin", records[0].AssetID)
	assert.InDelta(t, 50000.0, records[0].BuyPrice, 1e-9)
}

func TestCSVLoadAll_MalformedRowsDropped(t *testing.T) {
	path := writeFile(t, "timestamp,coin_id,name,symbol,buy_price,quantity,trade_type\n"+
		"not-a-timestamp,bitcoin,Bitcoin,BTC,50000,0.0002,auto\n"+
		"2025-05-01T10:00:00Z,ethereum,Ethereum,ETH,oops,0.005,manual\n"+
		"2025-05-01T11:00:00Z,ethereum,Ethereum,ETH,2000,0.005,manual\n")

	records, err := NewCSVStore(path).LoadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ethereum", records[0].AssetID)
	assert.Equal(t, model.TradeManual, records[0].Type)
}

func TestCSVLoadAll_MissingFileIsEmpty(t *testing.T) {
	records, err := NewCSVStore(filepath.Join(t.TempDir(), "missing.csv")).LoadAll()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCSVAppendRoundTrip(t *testing.T) {
	store := NewCSVStore(filepath.Join(t.TempDir(), "trades.csv"))
	require.NoError(t, store.Init())

	rec := model.TradeRecord{
		Timestamp: time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
		AssetID:   "solana", Name: "Solana", Symbol: "SOL",
		BuyPrice: 142.25, Quantity: 0.0703, Type: model.TradeManual,
	}
	require.NoError(t, store.Append(rec))

	records, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rec.AssetID, records[0].AssetID)
	assert.Equal(t, rec.Symbol, records[0].Symbol)
	assert.InDelta(t, rec.BuyPrice, records[0].BuyPrice, 1e-9)
	assert.InDelta(t, rec.Quantity, records[0].Quantity, 1e-9)
	assert.Equal(t, rec.Type, records[0].Type)
}
