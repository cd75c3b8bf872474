package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the complete controller configuration, loaded once before the
// engine starts. Validation failures are fatal at startup; nothing else is.
type Config struct {
	Market  MarketConfig  `json:"market" yaml:"market"`
	Grid    GridConfig    `json:"grid" yaml:"grid"`
	Risk    RiskConfig    `json:"risk" yaml:"risk"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

// MarketConfig selects the trading pair and the price source.
type MarketConfig struct {
	TradingPair           string `json:"trading_pair" yaml:"trading_pair"`
	Source                string `json:"source" yaml:"source"` // "rest", "stream" or "replay"
	BaseURL               string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	StreamURL             string `json:"stream_url,omitempty" yaml:"stream_url,omitempty"`
	ReplayFile            string `json:"replay_file,omitempty" yaml:"replay_file,omitempty"`
	UpdateIntervalSeconds int    `json:"update_interval_seconds" yaml:"update_interval_seconds"`
}

// GridConfig shapes the ladder. Infinite is descriptive: it is logged at
// startup but does not change engine behavior.
type GridConfig struct {
	Spacing          float64 `json:"grid_spacing" yaml:"grid_spacing"`
	Count            int     `json:"grid_count" yaml:"grid_count"`
	MinOrderQuantity float64 `json:"min_order_quantity" yaml:"min_order_quantity"`
	Infinite         bool    `json:"infinite_grid" yaml:"infinite_grid"`
}

// RiskConfig holds the risk limits. MaxLossPerTradePercent is carried
// through to the risk manager but no placement check uses it.
type RiskConfig struct {
	InitialInvestment      float64 `json:"initial_investment" yaml:"initial_investment"`
	MaxPositionSize        float64 `json:"max_position_size" yaml:"max_position_size"`
	MaxDrawdownPercent     float64 `json:"max_drawdown_percent" yaml:"max_drawdown_percent"`
	MaxLossPerTradePercent float64 `json:"max_loss_per_trade_percent" yaml:"max_loss_per_trade_percent"`
}

// JournalConfig selects the persistence backend.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	FillsFile  string `json:"fills_file,omitempty" yaml:"fills_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LogConfig controls logging output. An empty File logs to stdout only.
type LogConfig struct {
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	File  string `json:"file,omitempty" yaml:"file,omitempty"`
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Market.TradingPair == "" {
		return fmt.Errorf("market.trading_pair is required")
	}
	switch c.Market.Source {
	case "rest", "stream":
	case "replay":
		if c.Market.ReplayFile == "" {
			return fmt.Errorf("market.replay_file required for replay source")
		}
	default:
		return fmt.Errorf("market.source must be 'rest', 'stream' or 'replay'")
	}
	if c.Market.UpdateIntervalSeconds < 0 {
		return fmt.Errorf("market.update_interval_seconds must not be negative")
	}
	if c.Grid.Spacing <= 0 {
		return fmt.Errorf("grid.grid_spacing must be positive")
	}
	if c.Grid.Count < 0 {
		return fmt.Errorf("grid.grid_count must not be negative")
	}
	if c.Grid.MinOrderQuantity <= 0 {
		return fmt.Errorf("grid.min_order_quantity must be positive")
	}
	if c.Risk.InitialInvestment <= 0 {
		return fmt.Errorf("risk.initial_investment must be positive")
	}
	if c.Risk.MaxPositionSize <= 0 {
		return fmt.Errorf("risk.max_position_size must be positive")
	}
	if c.Risk.MaxDrawdownPercent < 0 || c.Risk.MaxDrawdownPercent > 1 {
		return fmt.Errorf("risk.max_drawdown_percent must be between 0 and 1")
	}
	if c.Risk.MaxLossPerTradePercent < 0 || c.Risk.MaxLossPerTradePercent > 1 {
		return fmt.Errorf("risk.max_loss_per_trade_percent must be between 0 and 1")
	}
	switch c.Journal.Type {
	case "csv":
		if c.Journal.FillsFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal fills_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "", "none":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	return nil
}

// SaveToFile writes the configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Market: MarketConfig{
			TradingPair:           "ETHUSDT",
			Source:                "rest",
			UpdateIntervalSeconds: 10,
		},
		Grid: GridConfig{
			Spacing:          10,
			Count:            5,
			MinOrderQuantity: 0.01,
		},
		Risk: RiskConfig{
			InitialInvestment:      10000,
			MaxPositionSize:        1,
			MaxDrawdownPercent:     0.2,
			MaxLossPerTradePercent: 0.02,
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./gridbot.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
