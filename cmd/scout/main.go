package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"SpotScout/internal/config"
	"SpotScout/internal/ledger"
	"SpotScout/internal/model"
	"SpotScout/internal/notifier"
	"SpotScout/internal/pipeline"
	"SpotScout/internal/provider"
	"SpotScout/internal/scheduler"
)

var cfgPath string

func main() {
	root := &cobra.Command{
		Use:           "scout",
		Short:         "SpotScout — crypto spot-buying scanner with a paper-trade ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath(), "path to config file")

	root.AddCommand(runCmd(), scanCmd(), buyCmd(), portfolioCmd())

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "configs/config.yaml"
}

// app bundles the wired components shared by all commands.
type app struct {
	cfg      *config.Config
	provider provider.Provider
	ledger   *ledger.Ledger
}

func setup() (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cg := provider.NewCoinGecko(cfg.Provider.BaseURL, cfg.Provider.APIKey, cfg.Proxy)
	prov := provider.NewCached(cg, cfg.CacheTTL())
	log.Info().Str("provider", prov.Name()).Dur("cache_ttl", cfg.CacheTTL()).Msg("provider ready")

	var store ledger.Store
	switch cfg.Ledger.Backend {
	case "sqlite":
		store, err = ledger.NewSQLiteStore(cfg.Ledger.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("init sqlite ledger: %w", err)
		}
	default:
		store = ledger.NewCSVStore(cfg.Ledger.CSVPath)
	}

	led := ledger.New(store, cfg.Trading.TradeAmountUSD)
	if err := led.EnsureStore(); err != nil {
		return nil, fmt.Errorf("init ledger store: %w", err)
	}

	return &app{cfg: cfg, provider: prov, ledger: led}, nil
}

func (a *app) orchestrator() *pipeline.Orchestrator {
	orch := pipeline.New(a.provider, a.ledger)
	orch.TopN = a.cfg.Provider.TopN
	orch.HistoryDays = a.cfg.Provider.HistoryDays
	orch.BuyThreshold = a.cfg.Trading.BuyThreshold
	return orch
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the scheduled scan daemon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.ledger.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			tn := notifier.NewTelegram(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy)

			orch := a.orchestrator()
			orch.OnTrade = func(rec model.TradeRecord, res *model.ScoreResult) {
				if err := tn.SendWithRetry(ctx, notifier.FormatTradeAlert(rec, res), 3); err != nil {
					log.Error().Err(err).Msg("send trade alert")
				}
			}

			sched := scheduler.New(ctx, orch, a.provider, a.ledger, tn)
			if err := sched.Register(a.cfg.Schedule.RefreshCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			go tn.StartPolling(ctx, sched.HandleCommand)

			if os.Getenv("RUN_ON_START") == "true" {
				log.Info().Msg("RUN_ON_START enabled, scanning now")
				go sched.RunScanNow()
			}

			log.Info().Str("cron", a.cfg.Schedule.RefreshCron).Msg("SpotScout is running, Ctrl+C to stop")

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			log.Info().Msg("shutdown signal received, stopping")
			return nil
		},
	}
}

func scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Run one scan cycle and print the scored overview",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.ledger.Close()

			rows, err := a.orchestrator().Run(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RANK\tNAME\tSYMBOL\tPRICE\t24H%\tSCORE\tRSI")
			for _, r := range rows {
				fmt.Fprintf(w, "%d\t%s\t%s\t$%.2f\t%+.2f%%\t%d\t%.0f\n",
					r.Rank, r.Name, r.Symbol, r.Price, r.Change24h, r.Score, r.RSI)
			}
			return w.Flush()
		},
	}
}

func buyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buy <asset-id>",
		Short: "Log a manual paper trade for an asset in the top universe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.ledger.Close()

			snapshots, err := a.provider.ListTopAssets(cmd.Context(), a.cfg.Provider.TopN)
			if err != nil {
				return fmt.Errorf("fetch assets: %w", err)
			}
			var snap *model.AssetSnapshot
			for i := range snapshots {
				if strings.EqualFold(snapshots[i].ID, args[0]) || strings.EqualFold(snapshots[i].Symbol, args[0]) {
					snap = &snapshots[i]
					break
				}
			}
			if snap == nil {
				return fmt.Errorf("unknown asset %q (must be in the top %d)", args[0], a.cfg.Provider.TopN)
			}
			if snap.CurrentPrice <= 0 {
				return fmt.Errorf("no usable quote for %s", snap.Symbol)
			}

			rec := model.TradeRecord{
				AssetID:  snap.ID,
				Name:     snap.Name,
				Symbol:   snap.Symbol,
				BuyPrice: snap.CurrentPrice,
				Quantity: a.ledger.Notional() / snap.CurrentPrice,
				Type:     model.TradeManual,
			}
			if _, err := a.ledger.Append(rec); err != nil {
				return fmt.Errorf("log trade: %w", err)
			}
			fmt.Printf("Logged $%.2f manual paper trade: %s at $%.4f (qty %.6f)\n",
				a.ledger.Notional(), snap.Symbol, rec.BuyPrice, rec.Quantity)
			return nil
		},
	}
}

func portfolioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "portfolio",
		Short: "Show the paper portfolio with current valuations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.ledger.Close()

			records, err := a.ledger.LoadAll()
			if err != nil {
				return fmt.Errorf("load portfolio: %w", err)
			}
			if len(records) == 0 {
				fmt.Println("No paper trades logged yet.")
				return nil
			}

			ids := make([]string, 0, len(records))
			seen := make(map[string]bool, len(records))
			for _, rec := range records {
				if !seen[rec.AssetID] {
					seen[rec.AssetID] = true
					ids = append(ids, rec.AssetID)
				}
			}
			prices, err := a.provider.GetCurrentPrices(cmd.Context(), ids)
			if err != nil {
				return fmt.Errorf("fetch current prices: %w", err)
			}

			var invested, current float64
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tSYMBOL\tTYPE\tBUY\tQTY\tVALUE\tPNL\tPNL%")
			for _, rec := range records {
				v := a.ledger.Value(rec, prices[rec.AssetID])
				invested += a.ledger.Notional()
				current += v.CurrentValue
				fmt.Fprintf(w, "%s\t%s\t%s\t$%.4f\t%.6f\t$%.2f\t$%+.2f\t%+.1f%%\n",
					rec.Timestamp.Format("2006-01-02"), rec.Symbol, rec.Type,
					rec.BuyPrice, rec.Quantity, v.CurrentValue, v.PnL, v.PnLPercent)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			pnl := current - invested
			fmt.Printf("\nInvested: $%.2f  Current: $%.2f  PnL: $%+.2f", invested, current, pnl)
			if invested > 0 {
				fmt.Printf(" (%+.1f%%)", pnl/invested*100)
			}
			fmt.Println()
			return nil
		},
	}
}
