package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"SpotScout/internal/indicator"
	"SpotScout/internal/ledger"
	"SpotScout/internal/model"
	"SpotScout/internal/score"
)

// Defaults for a scan cycle.
const (
	DefaultTopN         = 25
	DefaultHistoryDays  = 365
	DefaultBuyThreshold = 65
)

// Orchestrator runs one scan cycle over the asset universe: fetch history,
// derive indicators, score, and log an auto trade when the score crosses
// the buy threshold. Assets are processed sequentially; a per-asset failure
// skips only that asset.
type Orchestrator struct {
	Provider     Provider
	Ledger       *ledger.Ledger
	TopN         int
	HistoryDays  int
	BuyThreshold int

	// OnTrade is invoked after every non-deduplicated auto append.
	// Presentation concern; may be nil.
	OnTrade func(rec model.TradeRecord, res *model.ScoreResult)
}

// Provider is the slice of the market-data interface the orchestrator needs.
type Provider interface {
	ListTopAssets(ctx context.Context, n int) ([]model.AssetSnapshot, error)
	GetPriceHistory(ctx context.Context, assetID string, days int) (*model.PriceSeries, error)
}

// New creates an Orchestrator with default universe size, history window and
// buy threshold.
func New(p Provider, l *ledger.Ledger) *Orchestrator {
	return &Orchestrator{
		Provider:     p,
		Ledger:       l,
		TopN:         DefaultTopN,
		HistoryDays:  DefaultHistoryDays,
		BuyThreshold: DefaultBuyThreshold,
	}
}

// Run executes one cycle and returns the summary rows for display.
// A snapshot fetch failure aborts the whole cycle; everything downstream of
// it is per-asset and skippable.
func (o *Orchestrator) Run(ctx context.Context) ([]model.SummaryRow, error) {
	cycle := uuid.NewString()[:8]
	logger := log.With().Str("cycle", cycle).Logger()

	snapshots, err := o.Provider.ListTopAssets(ctx, o.TopN)
	if err != nil {
		return nil, fmt.Errorf("fetch top assets: %w", err)
	}
	logger.Info().Int("assets", len(snapshots)).Msg("scan cycle started")

	rows := make([]model.SummaryRow, 0, len(snapshots))
	for i := range snapshots {
		snap := &snapshots[i]

		series, err := o.Provider.GetPriceHistory(ctx, snap.ID, o.HistoryDays)
		if err != nil {
			logger.Warn().Err(err).Str("asset", snap.ID).Msg("history fetch failed, skipping asset")
			continue
		}
		if series.Empty() {
			logger.Debug().Str("asset", snap.ID).Msg("empty price series, skipping asset")
			continue
		}

		ind, err := indicator.Compute(series)
		if err != nil {
			if errors.Is(err, indicator.ErrInsufficientData) {
				logger.Debug().Err(err).Str("asset", snap.ID).Msg("series too short, skipping asset")
			} else {
				logger.Warn().Err(err).Str("asset", snap.ID).Msg("indicator computation failed, skipping asset")
			}
			continue
		}

		res := score.Calculate(snap, ind)

		if res.Score > o.BuyThreshold && snap.CurrentPrice > 0 {
			o.logAutoTrade(logger.With().Str("asset", snap.ID).Logger(), snap, res)
		}

		rows = append(rows, model.SummaryRow{
			Rank:      snap.MarketCapRank,
			Name:      snap.Name,
			Symbol:    snap.Symbol,
			Price:     snap.CurrentPrice,
			Change24h: snap.Change24h,
			Score:     res.Score,
			RSI:       res.RSI,
		})
	}

	logger.Info().Int("rows", len(rows)).Msg("scan cycle finished")
	return rows, nil
}

func (o *Orchestrator) logAutoTrade(logger zerolog.Logger, snap *model.AssetSnapshot, res *model.ScoreResult) {
	rec := model.TradeRecord{
		AssetID:  snap.ID,
		Name:     snap.Name,
		Symbol:   snap.Symbol,
		BuyPrice: snap.CurrentPrice,
		Quantity: o.Ledger.Notional() / snap.CurrentPrice,
		Type:     model.TradeAuto,
	}
	logged, err := o.Ledger.Append(rec)
	if err != nil {
		logger.Error().Err(err).Msg("auto trade append failed")
		return
	}
	if !logged {
		logger.Debug().Msg("auto trade deduplicated within window")
		return
	}
	logger.Info().Int("score", res.Score).Float64("price", rec.BuyPrice).Msg("auto trade logged")
	if o.OnTrade != nil {
		o.OnTrade(rec, res)
	}
}
