package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"SpotScout/internal/ledger"
	"SpotScout/internal/model"
)

// FormatTradeAlert formats an auto paper-trade notification.
func FormatTradeAlert(rec model.TradeRecord, res *model.ScoreResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🤖 <b>Auto paper trade</b> | %s (%s)\n\n", rec.Name, rec.Symbol))
	b.WriteString(fmt.Sprintf("Buy price: $%s\n", humanize.CommafWithDigits(rec.BuyPrice, 4)))
	b.WriteString(fmt.Sprintf("Quantity: %.6f\n", rec.Quantity))
	b.WriteString(fmt.Sprintf("Spot score: %d (RSI %.0f)\n\n", res.Score, res.RSI))

	b.WriteString("Score breakdown:\n")
	for _, name := range []string{
		model.ComponentPotential, model.ComponentRSI, model.ComponentMACD,
		model.ComponentBollinger, model.ComponentTrend,
	} {
		b.WriteString(fmt.Sprintf("  %s: %+.1f\n", name, res.Breakdown[name]))
	}
	return b.String()
}

// FormatScanReport formats a cycle's summary rows as a compact table.
func FormatScanReport(rows []model.SummaryRow) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Market scan</b> | %s\n\n", time.Now().Format("2006-01-02 15:04")))
	if len(rows) == 0 {
		b.WriteString("No assets scored this cycle.")
		return b.String()
	}
	b.WriteString("<pre>")
	b.WriteString(fmt.Sprintf("%-4s %-8s %12s %8s %6s %5s\n", "#", "Symbol", "Price", "24h%", "Score", "RSI"))
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("%-4d %-8s %12s %7.2f%% %6d %5.0f\n",
			r.Rank, r.Symbol, "$"+humanize.CommafWithDigits(r.Price, 2), r.Change24h, r.Score, r.RSI))
	}
	b.WriteString("</pre>")
	return b.String()
}

// FormatPortfolio formats the paper portfolio with per-trade valuations and
// totals. prices maps asset id to current price; assets without a quote are
// valued at zero.
func FormatPortfolio(records []model.TradeRecord, prices map[string]float64, led *ledger.Ledger) string {
	var b strings.Builder
	b.WriteString("💰 <b>Paper portfolio</b>\n\n")
	if len(records) == 0 {
		b.WriteString("No paper trades logged yet.")
		return b.String()
	}

	var invested, current float64
	b.WriteString("<pre>")
	b.WriteString(fmt.Sprintf("%-10s %-8s %-6s %12s %12s %9s\n",
		"Date", "Symbol", "Type", "Buy", "Value", "PnL%"))
	for _, rec := range records {
		v := led.Value(rec, prices[rec.AssetID])
		invested += led.Notional()
		current += v.CurrentValue
		b.WriteString(fmt.Sprintf("%-10s %-8s %-6s %12s %12s %8.1f%%\n",
			rec.Timestamp.Format("2006-01-02"), rec.Symbol, rec.Type,
			"$"+humanize.CommafWithDigits(rec.BuyPrice, 4),
			"$"+humanize.CommafWithDigits(v.CurrentValue, 2),
			v.PnLPercent))
	}
	b.WriteString("</pre>\n")

	pnl := current - invested
	b.WriteString(fmt.Sprintf("Invested: $%s\n", humanize.CommafWithDigits(invested, 2)))
	b.WriteString(fmt.Sprintf("Current value: $%s\n", humanize.CommafWithDigits(current, 2)))
	b.WriteString(fmt.Sprintf("Total PnL: $%s", humanize.CommafWithDigits(pnl, 2)))
	if invested > 0 {
		b.WriteString(fmt.Sprintf(" (%+.1f%%)", pnl/invested*100))
	}
	return b.String()
}
