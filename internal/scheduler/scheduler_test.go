package scheduler

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SpotScout/internal/ledger"
	"SpotScout/internal/model"
	"SpotScout/internal/pipeline"
	"SpotScout/internal/provider"
)

func newTestScheduler(t *testing.T) (*Scheduler, *provider.Mock) {
	t.Helper()
	prov := &provider.Mock{
		Assets: []model.AssetSnapshot{
			{ID: "bitcoin", Name: "Bitcoin", Symbol: "BTC", CurrentPrice: 50000, AllTimeHigh: 69000, AllTimeLow: 68, MarketCapRank: 1},
		},
		Histories: map[string][]model.PricePoint{
			"bitcoin": provider.GenerateSeries(50000, 60),
		},
		Prices: map[string]float64{"bitcoin": 52000},
	}
	led := ledger.New(ledger.NewCSVStore(filepath.Join(t.TempDir(), "trades.csv")), 10)
	require.NoError(t, led.EnsureStore())

	orch := pipeline.New(prov, led)
	return New(context.Background(), orch, prov, led, nil), prov
}

func TestHandleCommand_Help(t *testing.T) {
	s, _ := newTestScheduler(t)
	reply := s.HandleCommand("/what")
	assert.Contains(t, reply, "/scan")
	assert.Contains(t, reply, "/portfolio")
	assert.Contains(t, reply, "/buy")
}

func TestHandleCommand_Scan(t *testing.T) {
	s, _ := newTestScheduler(t)
	reply := s.HandleCommand("/scan")
	assert.Contains(t, reply, "Market scan")
	assert.Contains(t, reply, "BTC")
}

func TestHandleCommand_BuyLogsManualTrade(t *testing.T) {
	s, _ := newTestScheduler(t)

	reply := s.HandleCommand("/buy bitcoin")
	assert.Contains(t, reply, "BTC")
	require.True(t, strings.HasPrefix(reply, "✅"), reply)

	records, err := s.Ledger.LoadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.TradeManual, records[0].Type)
	assert.InDelta(t, 10.0/50000.0, records[0].Quantity, 1e-12)
}

func TestHandleCommand_BuyBySymbolCaseInsensitive(t *testing.T) {
	s, _ := newTestScheduler(t)
	reply := s.HandleCommand("/buy btc")
	assert.True(t, strings.HasPrefix(reply, "✅"), reply)
}

func TestHandleCommand_BuyUnknownAsset(t *testing.T) {
	s, _ := newTestScheduler(t)
	reply := s.HandleCommand("/buy dogecoin")
	assert.Contains(t, reply, "Unknown asset")
}

func TestHandleCommand_BuyMissingArg(t *testing.T) {
	s, _ := newTestScheduler(t)
	assert.Equal(t, "Usage: /buy <asset-id>", s.HandleCommand("/buy"))
}

func TestHandleCommand_Portfolio(t *testing.T) {
	s, _ := newTestScheduler(t)

	reply := s.HandleCommand("/portfolio")
	assert.Contains(t, reply, "No paper trades")

	s.HandleCommand("/buy bitcoin")
	reply = s.HandleCommand("/portfolio")
	assert.Contains(t, reply, "BTC")
	assert.Contains(t, reply, "Invested")
}
