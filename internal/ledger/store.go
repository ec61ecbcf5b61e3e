package ledger

import "SpotScout/internal/model"

// Store is the ledger's persistence backend. Implementations append rows
// and read them back; deduplication policy lives in Ledger, not here.
type Store interface {
	// Init prepares the backing store and its schema. It is idempotent:
	// calling it again on an initialized store is a no-op.
	Init() error
	Append(rec model.TradeRecord) error
	// LoadAll returns every readable record. Rows that cannot be parsed
	// are dropped, never fatal.
	LoadAll() ([]model.TradeRecord, error)
	Close() error
}
