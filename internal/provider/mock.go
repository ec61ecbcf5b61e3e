package provider

import (
	"context"
	"time"

	"SpotScout/internal/model"
)

// Mock returns controllable fixed data for development and testing.
type Mock struct {
	Assets    []model.AssetSnapshot
	Histories map[string][]model.PricePoint
	Prices    map[string]float64
	Err       error

	// Calls counts invocations per method name.
	Calls map[string]int
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) count(method string) {
	if m.Calls == nil {
		m.Calls = make(map[string]int)
	}
	m.Calls[method]++
}

func (m *Mock) ListTopAssets(_ context.Context, n int) ([]model.AssetSnapshot, error) {
	m.count("ListTopAssets")
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Assets) > n {
		return m.Assets[:n], nil
	}
	return m.Assets, nil
}

func (m *Mock) GetPriceHistory(_ context.Context, assetID string, _ int) (*model.PriceSeries, error) {
	m.count("GetPriceHistory")
	if m.Err != nil {
		return nil, m.Err
	}
	return &model.PriceSeries{
		AssetID:   assetID,
		Points:    m.Histories[assetID],
		FetchedAt: time.Now(),
	}, nil
}

func (m *Mock) GetCurrentPrices(_ context.Context, assetIDs []string) (map[string]float64, error) {
	m.count("GetCurrentPrices")
	if m.Err != nil {
		return nil, m.Err
	}
	prices := make(map[string]float64, len(assetIDs))
	for _, id := range assetIDs {
		if p, ok := m.Prices[id]; ok {
			prices[id] = p
		}
	}
	return prices, nil
}

// GenerateSeries builds a smooth daily price ramp ending today, for mock
// histories long enough to satisfy every indicator lookback.
func GenerateSeries(basePrice float64, days int) []model.PricePoint {
	points := make([]model.PricePoint, days)
	for i := 0; i < days; i++ {
		p := basePrice * (1 + float64(i-days/2)*0.001)
		points[i] = model.PricePoint{
			Time:  time.Now().AddDate(0, 0, -(days - i)),
			Price: p,
		}
	}
	return points
}
