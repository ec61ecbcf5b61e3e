package provider

import (
	"context"

	"SpotScout/internal/model"
)

// Provider supplies current market snapshots and daily price histories.
// Any call may fail on network errors, non-2xx responses or malformed
// payloads; callers decide whether a failure aborts the cycle or only the
// current asset.
type Provider interface {
	// ListTopAssets returns the top n assets by market cap, descending.
	ListTopAssets(ctx context.Context, n int) ([]model.AssetSnapshot, error)
	// GetPriceHistory returns up to `days` trailing daily prices for one
	// asset. The series may be shorter or empty when data is unavailable.
	GetPriceHistory(ctx context.Context, assetID string, days int) (*model.PriceSeries, error)
	// GetCurrentPrices is a batch price lookup for ledger valuation.
	GetCurrentPrices(ctx context.Context, assetIDs []string) (map[string]float64, error)
	Name() string
}
