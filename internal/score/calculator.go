package score

import (
	"math"

	"SpotScout/internal/model"
)

// Component weights, summing to 1.0.
const (
	WeightPotential = 0.30
	WeightRSI       = 0.25
	WeightMACD      = 0.20
	WeightBollinger = 0.15
	WeightTrend     = 0.10
)

// Calculate combines a market snapshot and the latest indicator values into
// the composite spot score. It is a pure function: identical inputs produce
// identical results.
//
// The potential sub-score is capped at 100 but deliberately has no lower
// bound, so the composite can leave [0,100] when price trades above its
// all-time high. The final score is truncated, not rounded.
func Calculate(snap *model.AssetSnapshot, ind *model.IndicatorSet) *model.ScoreResult {
	breakdown := make(map[string]float64, 5)
	total := 0.0

	add := func(name string, sub, weight float64) {
		weighted := sub * weight
		breakdown[name] = weighted
		total += weighted
	}

	add(model.ComponentPotential, scorePotential(snap), WeightPotential)
	add(model.ComponentRSI, scoreRSI(ind), WeightRSI)
	add(model.ComponentMACD, scoreMACD(ind), WeightMACD)
	add(model.ComponentBollinger, scoreBollinger(snap, ind), WeightBollinger)
	add(model.ComponentTrend, scoreTrend(snap, ind), WeightTrend)

	return &model.ScoreResult{
		Score:        int(total),
		Raw:          total,
		Breakdown:    breakdown,
		CurrentPrice: snap.CurrentPrice,
		RSI:          ind.RSI14,
	}
}

// scorePotential rates the upside-to-downside ratio between the all-time
// high and all-time low. The +1 in the denominator guards against a downside
// of zero when price sits at its all-time low.
func scorePotential(snap *model.AssetSnapshot) float64 {
	upside := (snap.AllTimeHigh - snap.CurrentPrice) / snap.CurrentPrice * 100
	downside := (snap.CurrentPrice - snap.AllTimeLow) / snap.CurrentPrice * 100
	ratio := upside / (downside + 1)
	return math.Min(ratio*25, 100)
}

// scoreRSI inverts RSI(14): oversold reads as a buy signal.
func scoreRSI(ind *model.IndicatorSet) float64 {
	return 100 - ind.RSI14
}

// scoreMACD rates the line-signal spread, centred at 50 and clamped to [0,100].
func scoreMACD(ind *model.IndicatorSet) float64 {
	return math.Min(100, math.Max(0, 50+(ind.MACDLine-ind.MACDSignal)*15))
}

// scoreBollinger is a discrete three-tier signal: strong below the lower
// band, moderate below the middle band, otherwise nothing.
func scoreBollinger(snap *model.AssetSnapshot, ind *model.IndicatorSet) float64 {
	switch {
	case snap.CurrentPrice < ind.BollLower:
		return 100
	case snap.CurrentPrice < ind.BollMid:
		return 60
	default:
		return 0
	}
}

// scoreTrend is a binary signal on the 50-day average. A NaN SMA50
// (series shorter than the lookback) compares false and contributes nothing.
func scoreTrend(snap *model.AssetSnapshot, ind *model.IndicatorSet) float64 {
	if snap.CurrentPrice > ind.SMA50 {
		return 100
	}
	return 0
}
