package ledger

import (
	"fmt"
	"sync"
	"time"

	"SpotScout/internal/model"
)

// DedupWindow is the trailing window within which a second auto trade for
// the same asset is silently dropped.
const DedupWindow = 24 * time.Hour

// Ledger is the append-only, deduplicated record store for paper trades.
// The dedup check-then-write is atomic under the ledger's mutex.
type Ledger struct {
	mu       sync.Mutex
	store    Store
	notional float64
	window   time.Duration
	now      func() time.Time
}

// New creates a Ledger over the given store. notional is the fixed dollar
// amount every paper trade represents.
func New(store Store, notional float64) *Ledger {
	return &Ledger{
		store:    store,
		notional: notional,
		window:   DedupWindow,
		now:      time.Now,
	}
}

// EnsureStore initializes the backing store. Safe to call repeatedly.
func (l *Ledger) EnsureStore() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Init()
}

// Notional returns the fixed per-trade dollar amount.
func (l *Ledger) Notional() float64 { return l.notional }

// Append writes a trade record. Auto trades are deduplicated: when another
// auto record for the same asset exists within the trailing window the
// append is a silent no-op and Append reports logged=false with no error.
// Manual trades always append. A zero timestamp is filled with the current
// time.
func (l *Ledger) Append(rec model.TradeRecord) (logged bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rec.Timestamp.IsZero() {
		rec.Timestamp = l.now()
	}

	if rec.Type == model.TradeAuto {
		existing, err := l.store.LoadAll()
		if err != nil {
			return false, fmt.Errorf("dedup lookup: %w", err)
		}
		cutoff := l.now().Add(-l.window)
		for _, old := range existing {
			if old.AssetID == rec.AssetID && old.Type == model.TradeAuto && old.Timestamp.After(cutoff) {
				return false, nil
			}
		}
	}

	if err := l.store.Append(rec); err != nil {
		return false, fmt.Errorf("append trade: %w", err)
	}
	return true, nil
}

// LoadAll returns every readable trade record.
func (l *Ledger) LoadAll() ([]model.TradeRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.LoadAll()
}

// Value marks a trade to market against the fixed notional. A non-positive
// current price is a degenerate quote and maps to zero current value rather
// than an error.
func (l *Ledger) Value(rec model.TradeRecord, currentPrice float64) model.Valuation {
	v := model.Valuation{CurrentPrice: currentPrice}
	if currentPrice > 0 {
		v.CurrentValue = currentPrice * rec.Quantity
	}
	v.PnL = v.CurrentValue - l.notional
	if l.notional > 0 {
		v.PnLPercent = v.PnL / l.notional * 100
	}
	return v
}

// Close releases the backing store.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Close()
}
