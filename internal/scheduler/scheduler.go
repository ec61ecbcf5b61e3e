package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"SpotScout/internal/ledger"
	"SpotScout/internal/model"
	"SpotScout/internal/notifier"
	"SpotScout/internal/pipeline"
	"SpotScout/internal/provider"
)

// Scheduler drives recurring scan cycles and serves chat commands.
// Trade alerts fire from the orchestrator's OnTrade hook; the scheduler
// itself only notifies on cycle-level failures, so a 15-minute cadence does
// not flood the chat.
type Scheduler struct {
	Cron         *cron.Cron
	Orchestrator *pipeline.Orchestrator
	Provider     provider.Provider
	Ledger       *ledger.Ledger
	Notifier     *notifier.Telegram
	Ctx          context.Context
}

// New creates a Scheduler.
func New(ctx context.Context, orch *pipeline.Orchestrator, prov provider.Provider, led *ledger.Ledger, tn *notifier.Telegram) *Scheduler {
	return &Scheduler{
		Cron:         cron.New(cron.WithSeconds()),
		Orchestrator: orch,
		Provider:     prov,
		Ledger:       led,
		Notifier:     tn,
		Ctx:          ctx,
	}
}

// Register adds the recurring scan task.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Info().Msg("scheduler stopped")
}

// RunScanNow executes a scan cycle immediately (manual trigger, run-on-start).
func (s *Scheduler) RunScanNow() {
	s.scanTask()
}

func (s *Scheduler) scanTask() {
	if _, err := s.Orchestrator.Run(s.Ctx); err != nil {
		log.Error().Err(err).Msg("scan cycle failed")
		s.trySend(fmt.Sprintf("❌ Scan cycle failed: %v", err))
	}
}

// HandleCommand processes a chat command and returns the reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	switch fields[0] {
	case "/scan":
		rows, err := s.Orchestrator.Run(s.Ctx)
		if err != nil {
			return fmt.Sprintf("❌ Scan failed: %v", err)
		}
		return notifier.FormatScanReport(rows)
	case "/portfolio":
		return s.portfolioReport()
	case "/buy":
		if len(fields) < 2 {
			return "Usage: /buy <asset-id>"
		}
		return s.manualBuy(fields[1])
	default:
		return "Commands:\n• /scan — run a scan cycle now\n• /portfolio — show paper portfolio\n• /buy <asset-id> — log a manual paper trade"
	}
}

func (s *Scheduler) portfolioReport() string {
	records, err := s.Ledger.LoadAll()
	if err != nil {
		return fmt.Sprintf("❌ Load portfolio: %v", err)
	}

	ids := make([]string, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		if !seen[rec.AssetID] {
			seen[rec.AssetID] = true
			ids = append(ids, rec.AssetID)
		}
	}

	prices, err := s.Provider.GetCurrentPrices(s.Ctx, ids)
	if err != nil {
		return fmt.Sprintf("❌ Fetch current prices: %v", err)
	}
	return notifier.FormatPortfolio(records, prices, s.Ledger)
}

func (s *Scheduler) manualBuy(assetID string) string {
	snapshots, err := s.Provider.ListTopAssets(s.Ctx, s.Orchestrator.TopN)
	if err != nil {
		return fmt.Sprintf("❌ Fetch assets: %v", err)
	}

	var snap *model.AssetSnapshot
	for i := range snapshots {
		if strings.EqualFold(snapshots[i].ID, assetID) || strings.EqualFold(snapshots[i].Symbol, assetID) {
			snap = &snapshots[i]
			break
		}
	}
	if snap == nil {
		return fmt.Sprintf("Unknown asset %q (must be in the top %d)", assetID, s.Orchestrator.TopN)
	}
	if snap.CurrentPrice <= 0 {
		return fmt.Sprintf("No usable quote for %s", snap.Symbol)
	}

	rec := model.TradeRecord{
		AssetID:  snap.ID,
		Name:     snap.Name,
		Symbol:   snap.Symbol,
		BuyPrice: snap.CurrentPrice,
		Quantity: s.Ledger.Notional() / snap.CurrentPrice,
		Type:     model.TradeManual,
	}
	if _, err := s.Ledger.Append(rec); err != nil {
		return fmt.Sprintf("❌ Log trade: %v", err)
	}
	log.Info().Str("asset", snap.ID).Float64("price", rec.BuyPrice).Msg("manual trade logged")
	return fmt.Sprintf("✅ Logged $%.2f manual paper trade: %s at $%.4f", s.Ledger.Notional(), snap.Symbol, rec.BuyPrice)
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
