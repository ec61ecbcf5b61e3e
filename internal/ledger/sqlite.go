package ledger

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"SpotScout/internal/model"
)

// SQLiteStore persists trades to a SQLite database. The logical schema
// matches the CSV layout; trade_type defaults to auto so rows written by
// the pre-trade_type schema read back correctly.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so portfolio reads don't block the scan cycle's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite ledger opened")
	return &SQLiteStore{db: db}, nil
}

// Init creates the trades table if it does not exist.
func (s *SQLiteStore) Init() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trades (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			coin_id    TEXT NOT NULL,
			name       TEXT,
			symbol     TEXT,
			buy_price  REAL,
			quantity   REAL,
			trade_type TEXT NOT NULL DEFAULT 'auto'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_coin_ts ON trades(coin_id, timestamp)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate trades: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Append(rec model.TradeRecord) error {
	_, err := s.db.Exec(`INSERT INTO trades
		(timestamp, coin_id, name, symbol, buy_price, quantity, trade_type)
		VALUES (?,?,?,?,?,?,?)`,
		rec.Timestamp.Unix(), rec.AssetID, rec.Name, rec.Symbol,
		rec.BuyPrice, rec.Quantity, string(rec.Type),
	)
	if err != nil {
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadAll() ([]model.TradeRecord, error) {
	rows, err := s.db.Query(`SELECT timestamp, coin_id, name, symbol, buy_price, quantity,
		COALESCE(NULLIF(trade_type, ''), 'auto')
		FROM trades ORDER BY timestamp`)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var records []model.TradeRecord
	dropped := 0
	for rows.Next() {
		var ts int64
		var rec model.TradeRecord
		var tradeType string
		if err := rows.Scan(&ts, &rec.AssetID, &rec.Name, &rec.Symbol,
			&rec.BuyPrice, &rec.Quantity, &tradeType); err != nil {
			dropped++
			continue
		}
		rec.Timestamp = time.Unix(ts, 0)
		rec.Type = model.TradeType(tradeType)
		records = append(records, rec)
	}
	if dropped > 0 {
		log.Warn().Int("rows", dropped).Msg("dropped malformed ledger rows")
	}
	return records, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
