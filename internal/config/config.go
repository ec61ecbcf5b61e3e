package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Provider struct {
		BaseURL         string `yaml:"base_url"`
		APIKey          string `yaml:"api_key"`
		TopN            int    `yaml:"top_n"`
		HistoryDays     int    `yaml:"history_days"`
		CacheTTLMinutes int    `yaml:"cache_ttl_minutes"`
	} `yaml:"provider"`
	Trading struct {
		BuyThreshold   int     `yaml:"buy_threshold"`
		TradeAmountUSD float64 `yaml:"trade_amount_usd"`
	} `yaml:"trading"`
	Ledger struct {
		Backend    string `yaml:"backend"` // "csv" or "sqlite"
		CSVPath    string `yaml:"csv_path"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"ledger"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	LogLevel string `yaml:"log_level"`
	Proxy    string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("COINGECKO_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("COINGECKO_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("LEDGER_BACKEND"); v != "" {
		cfg.Ledger.Backend = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TRADE_AMOUNT_USD"); v != "" {
		if amount, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Trading.TradeAmountUSD = amount
		}
	}

	// Defaults
	if cfg.Provider.TopN == 0 {
		cfg.Provider.TopN = 25
	}
	if cfg.Provider.HistoryDays == 0 {
		cfg.Provider.HistoryDays = 365
	}
	if cfg.Provider.CacheTTLMinutes == 0 {
		cfg.Provider.CacheTTLMinutes = 15
	}
	if cfg.Trading.BuyThreshold == 0 {
		cfg.Trading.BuyThreshold = 65
	}
	if cfg.Trading.TradeAmountUSD == 0 {
		cfg.Trading.TradeAmountUSD = 10
	}
	if cfg.Ledger.Backend == "" {
		cfg.Ledger.Backend = "csv"
	}
	if cfg.Ledger.CSVPath == "" {
		cfg.Ledger.CSVPath = "data/trades.csv"
	}
	if cfg.Ledger.SQLitePath == "" {
		cfg.Ledger.SQLitePath = "data/spotscout.db"
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 */15 * * * *"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// CacheTTL returns the provider cache time-to-live as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Provider.CacheTTLMinutes) * time.Minute
}

// Validate checks that the configuration is coherent.
func (c *Config) Validate() error {
	if c.Provider.TopN <= 0 {
		return fmt.Errorf("provider.top_n must be positive")
	}
	if c.Provider.HistoryDays <= 0 {
		return fmt.Errorf("provider.history_days must be positive")
	}
	if c.Trading.TradeAmountUSD <= 0 {
		return fmt.Errorf("trading.trade_amount_usd must be positive")
	}
	if c.Ledger.Backend != "csv" && c.Ledger.Backend != "sqlite" {
		return fmt.Errorf("ledger.backend must be %q or %q, got %q", "csv", "sqlite", c.Ledger.Backend)
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when telegram.bot_token is set")
	}
	return nil
}
