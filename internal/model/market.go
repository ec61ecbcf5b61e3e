package model

import "time"

// AssetSnapshot is one asset's current market state as reported by the
// provider. Snapshots are fetched fresh each refresh cycle and never persisted.
type AssetSnapshot struct {
	ID            string
	Name          string
	Symbol        string
	CurrentPrice  float64
	AllTimeHigh   float64
	AllTimeLow    float64
	Change24h     float64 // percent over the last 24 hours
	MarketCapRank int
}

// PricePoint is a single daily price observation.
type PricePoint struct {
	Time  time.Time
	Price float64
}

// PriceSeries holds a trailing daily price history for one asset,
// ordered oldest first with strictly increasing timestamps.
type PriceSeries struct {
	AssetID   string
	Points    []PricePoint
	FetchedAt time.Time
}

// Prices returns the price column of the series.
func (s *PriceSeries) Prices() []float64 {
	prices := make([]float64, len(s.Points))
	for i, p := range s.Points {
		prices[i] = p.Price
	}
	return prices
}

// Empty reports whether the series has no observations.
func (s *PriceSeries) Empty() bool { return len(s.Points) == 0 }
