package model

// Component names used as keys in the score breakdown.
const (
	ComponentPotential = "potential"
	ComponentRSI       = "rsi"
	ComponentMACD      = "macd"
	ComponentBollinger = "bollinger"
	ComponentTrend     = "trend"
)

// ScoreResult is the composite spot score for one asset.
// Score is Raw truncated toward zero; Breakdown maps each component name to
// its weighted contribution, and the contributions sum to Raw.
type ScoreResult struct {
	Score        int
	Raw          float64
	Breakdown    map[string]float64
	CurrentPrice float64
	RSI          float64
}

// SummaryRow is one line of a scan cycle's output, consumed by the
// display layer.
type SummaryRow struct {
	Rank      int
	Name      string
	Symbol    string
	Price     float64
	Change24h float64
	Score     int
	RSI       float64
}
