package model

// IndicatorSet holds the latest-row values of all computed indicators.
// It lives for one orchestration pass and is never persisted.
// SMA50 is NaN when the series is too short for the 50-period lookback;
// the trend sub-score treats that as indeterminate.
type IndicatorSet struct {
	RSI14      float64
	MACDLine   float64
	MACDSignal float64
	BollLower  float64
	BollMid    float64
	SMA50      float64
}
