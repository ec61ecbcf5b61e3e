package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Provider.TopN)
	assert.Equal(t, 365, cfg.Provider.HistoryDays)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL())
	assert.Equal(t, 65, cfg.Trading.BuyThreshold)
	assert.Equal(t, 10.0, cfg.Trading.TradeAmountUSD)
	assert.Equal(t, "csv", cfg.Ledger.Backend)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider:
  top_n: 10
trading:
  buy_threshold: 70
ledger:
  backend: sqlite
`), 0o644))
	t.Setenv("TRADE_AMOUNT_USD", "25.5")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Provider.TopN)
	assert.Equal(t, 70, cfg.Trading.BuyThreshold)
	assert.Equal(t, "sqlite", cfg.Ledger.Backend)
	assert.Equal(t, 25.5, cfg.Trading.TradeAmountUSD)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	cfg.Ledger.Backend = "postgres"
	assert.Error(t, cfg.Validate())

	cfg.Ledger.Backend = "csv"
	cfg.Telegram.BotToken = "token-without-chat"
	assert.Error(t, cfg.Validate())

	cfg.Telegram.ChatID = "42"
	assert.NoError(t, cfg.Validate())
}
