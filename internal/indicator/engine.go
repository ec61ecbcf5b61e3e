package indicator

import (
	"fmt"
	"math"

	"SpotScout/internal/model"
)

// Standard lookbacks for the scoring pipeline.
const (
	RSIPeriod        = 14
	MACDFast         = 12
	MACDSlow         = 26
	MACDSignalPeriod = 9
	BollingerPeriod  = 20
	BollingerWidth   = 2.0
	TrendPeriod      = 50
)

// Compute derives the latest-row indicator set from a daily price series.
// RSI, MACD and Bollinger are required and return ErrInsufficientData when
// the series is too short; SMA50 degrades to NaN so the trend component can
// be treated as indeterminate instead of failing the asset.
func Compute(series *model.PriceSeries) (*model.IndicatorSet, error) {
	prices := series.Prices()

	rsi, err := CalculateRSI(prices, RSIPeriod)
	if err != nil {
		return nil, fmt.Errorf("asset %s: %w", series.AssetID, err)
	}
	line, signal, err := CalculateMACD(prices, MACDFast, MACDSlow, MACDSignalPeriod)
	if err != nil {
		return nil, fmt.Errorf("asset %s: %w", series.AssetID, err)
	}
	lower, mid, err := CalculateBollinger(prices, BollingerPeriod, BollingerWidth)
	if err != nil {
		return nil, fmt.Errorf("asset %s: %w", series.AssetID, err)
	}

	sma50, err := CalculateSMA(prices, TrendPeriod)
	if err != nil {
		sma50 = math.NaN()
	}

	return &model.IndicatorSet{
		RSI14:      rsi,
		MACDLine:   line,
		MACDSignal: signal,
		BollLower:  lower,
		BollMid:    mid,
		SMA50:      sma50,
	}, nil
}
