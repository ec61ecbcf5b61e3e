package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SpotScout/internal/model"
)

func series(n int, start, step float64) *model.PriceSeries {
	points := make([]model.PricePoint, n)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range points {
		points[i] = model.PricePoint{
			Time:  base.AddDate(0, 0, i),
			Price: start + float64(i)*step,
		}
	}
	return &model.PriceSeries{AssetID: "test", Points: points}
}

func TestCompute_FullSeries(t *testing.T) {
	ind, err := Compute(series(60, 100, 1))
	require.NoError(t, err)

	assert.GreaterOrEqual(t, ind.RSI14, 0.0)
	assert.LessOrEqual(t, ind.RSI14, 100.0)
	assert.LessOrEqual(t, ind.BollLower, ind.BollMid)
	assert.False(t, math.IsNaN(ind.SMA50))
	// mean of points 11..60, i.e. prices 110..159
	assert.InDelta(t, 134.5, ind.SMA50, 1e-9)
}

func TestCompute_ShortSeriesDegradesTrendOnly(t *testing.T) {
	// 30 points: enough for RSI/MACD/Bollinger, not for SMA50.
	ind, err := Compute(series(30, 100, 1))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(ind.SMA50))
}

func TestCompute_InsufficientData(t *testing.T) {
	_, err := Compute(series(10, 100, 1))
	assert.ErrorIs(t, err, ErrInsufficientData)

	// 20 points clears RSI and Bollinger but not MACD.
	_, err = Compute(series(20, 100, 1))
	assert.ErrorIs(t, err, ErrInsufficientData)
}
