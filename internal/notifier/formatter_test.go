package notifier

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SpotScout/internal/ledger"
	"SpotScout/internal/model"
)

func TestFormatTradeAlert(t *testing.T) {
	rec := model.TradeRecord{
		Name: "Bitcoin", Symbol: "BTC", BuyPrice: 50000, Quantity: 0.0002, Type: model.TradeAuto,
	}
	res := &model.ScoreResult{
		Score: 72, RSI: 28,
		Breakdown: map[string]float64{
			model.ComponentPotential: 22.5,
			model.ComponentRSI:       18.0,
			model.ComponentMACD:      9.5,
			model.ComponentBollinger: 15.0,
			model.ComponentTrend:     10.0,
		},
	}

	msg := FormatTradeAlert(rec, res)
	assert.Contains(t, msg, "Bitcoin")
	assert.Contains(t, msg, "Spot score: 72")
	assert.Contains(t, msg, "potential: +22.5")
}

func TestFormatScanReport(t *testing.T) {
	rows := []model.SummaryRow{
		{Rank: 1, Name: "Bitcoin", Symbol: "BTC", Price: 50000, Change24h: -1.2, Score: 58, RSI: 44},
		{Rank: 2, Name: "Ethereum", Symbol: "ETH", Price: 2000, Change24h: 3.4, Score: 67, RSI: 31},
	}
	msg := FormatScanReport(rows)
	assert.Contains(t, msg, "BTC")
	assert.Contains(t, msg, "ETH")

	assert.Contains(t, FormatScanReport(nil), "No assets scored")
}

func TestFormatPortfolio(t *testing.T) {
	led := ledger.New(ledger.NewCSVStore(filepath.Join(t.TempDir(), "trades.csv")), 10)
	require.NoError(t, led.EnsureStore())

	records := []model.TradeRecord{
		{
			Timestamp: time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
			AssetID:   "bitcoin", Name: "Bitcoin", Symbol: "BTC",
			BuyPrice: 100, Quantity: 0.1, Type: model.TradeAuto,
		},
	}
	prices := map[string]float64{"bitcoin": 150}

	msg := FormatPortfolio(records, prices, led)
	assert.Contains(t, msg, "BTC")
	assert.Contains(t, msg, "Invested: $10")
	assert.Contains(t, msg, "Current value: $15")

	assert.Contains(t, FormatPortfolio(nil, nil, led), "No paper trades")
}
