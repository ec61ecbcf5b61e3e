package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"SpotScout/internal/model"
)

// csvHeader is the persisted column layout, one row per trade.
var csvHeader = []string{"timestamp", "coin_id", "name", "symbol", "buy_price", "quantity", "trade_type"}

// CSVStore persists trades to a flat append-only CSV file.
//
// An older layout omitted the trade_type column; such rows are read back
// with the type defaulted to auto.
type CSVStore struct {
	path string
}

// NewCSVStore creates a store backed by the given file path.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Init creates the file with its header row if it does not exist yet.
func (s *CSVStore) Init() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat ledger file: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create ledger dir: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return fmt.Errorf("create ledger file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write ledger header: %w", err)
	}
	w.Flush()
	return w.Error()
}

// Append writes one record to the end of the file.
func (s *CSVStore) Append(rec model.TradeRecord) error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	row := []string{
		rec.Timestamp.Format(time.RFC3339),
		rec.AssetID,
		rec.Name,
		rec.Symbol,
		strconv.FormatFloat(rec.BuyPrice, 'f', -1, 64),
		strconv.FormatFloat(rec.Quantity, 'f', -1, 64),
		string(rec.Type),
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write ledger row: %w", err)
	}
	w.Flush()
	return w.Error()
}

// LoadAll reads every row, skipping the header and dropping rows with
// unparseable timestamps or missing fields.
func (s *CSVStore) LoadAll() ([]model.TradeRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open ledger file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // legacy rows have one column fewer

	var records []model.TradeRecord
	dropped := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			dropped++
			continue
		}
		if len(row) > 0 && row[0] == "timestamp" {
			continue
		}
		rec, ok := parseCSVRow(row)
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}
	if dropped > 0 {
		log.Warn().Int("rows", dropped).Str("path", s.path).Msg("dropped malformed ledger rows")
	}
	return records, nil
}

func parseCSVRow(row []string) (model.TradeRecord, bool) {
	if len(row) < 6 {
		return model.TradeRecord{}, false
	}
	ts, err := time.Parse(time.RFC3339, row[0])
	if err != nil {
		return model.TradeRecord{}, false
	}
	buyPrice, err := strconv.ParseFloat(row[4], 64)
	if err != nil {
		return model.TradeRecord{}, false
	}
	quantity, err := strconv.ParseFloat(row[5], 64)
	if err != nil {
		return model.TradeRecord{}, false
	}
	tradeType := model.TradeAuto
	if len(row) >= 7 && row[6] != "" {
		tradeType = model.TradeType(row[6])
	}
	return model.TradeRecord{
		Timestamp: ts,
		AssetID:   row[1],
		Name:      row[2],
		Symbol:    row[3],
		BuyPrice:  buyPrice,
		Quantity:  quantity,
		Type:      tradeType,
	}, true
}

// Close is a no-op; the file is opened per operation.
func (s *CSVStore) Close() error { return nil }
