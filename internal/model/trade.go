package model

import "time"

// TradeType indicates how a paper trade was opened.
type TradeType string

const (
	TradeAuto   TradeType = "auto"
	TradeManual TradeType = "manual"
)

// TradeRecord is one append-only ledger row. Once written it is immutable.
// Quantity is derived from the fixed trade notional at buy time.
type TradeRecord struct {
	Timestamp time.Time
	AssetID   string
	Name      string
	Symbol    string
	BuyPrice  float64
	Quantity  float64
	Type      TradeType
}

// Valuation is the mark-to-market view of a single trade.
type Valuation struct {
	CurrentPrice float64
	CurrentValue float64
	PnL          float64
	PnLPercent   float64
}
