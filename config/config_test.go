package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFileYAML(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "config.yaml", `
market:
  trading_pair: ETHUSDT
  source: rest
  update_interval_seconds: 5
grid:
  grid_spacing: 10
  grid_count: 5
  min_order_quantity: 0.01
risk:
  initial_investment: 10000
  max_position_size: 1
  max_drawdown_percent: 0.2
  max_loss_per_trade_percent: 0.02
journal:
  type: csv
  fills_file: fills.csv
  equity_file: equity.csv
log:
  level: debug
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ETHUSDT", cfg.Market.TradingPair)
	assert.Equal(t, "rest", cfg.Market.Source)
	assert.Equal(t, 5, cfg.Market.UpdateIntervalSeconds)
	assert.Equal(t, 10.0, cfg.Grid.Spacing)
	assert.Equal(t, 5, cfg.Grid.Count)
	assert.Equal(t, 0.2, cfg.Risk.MaxDrawdownPercent)
	assert.Equal(t, "csv", cfg.Journal.Type)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFromFileJSON(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "config.json", `{
		"market": {"trading_pair": "BTCUSDT", "source": "stream", "update_interval_seconds": 1},
		"grid": {"grid_spacing": 50, "grid_count": 3, "min_order_quantity": 0.001},
		"risk": {"initial_investment": 5000, "max_position_size": 0.5,
			"max_drawdown_percent": 0.1, "max_loss_per_trade_percent": 0.01},
		"journal": {"type": "none"}
	}`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", cfg.Market.TradingPair)
	assert.Equal(t, "stream", cfg.Market.Source)
	assert.Equal(t, 50.0, cfg.Grid.Spacing)
	assert.Equal(t, "none", cfg.Journal.Type)
}

func TestLoadFromFileMissing(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromFileGarbage(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "config.yaml", "{not yaml: [not json")
	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestSaveToFileRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, Default().SaveToFile(path))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	mutate := func(fn func(*Config)) *Config {
		cfg := Default()
		fn(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		cfg     *Config
		wantErr string
	}{
		{
			name: "defaults are valid",
			cfg:  Default(),
		},
		{
			name:    "missing trading pair",
			cfg:     mutate(func(c *Config) { c.Market.TradingPair = "" }),
			wantErr: "trading_pair",
		},
		{
			name:    "bad source",
			cfg:     mutate(func(c *Config) { c.Market.Source = "ftp" }),
			wantErr: "market.source",
		},
		{
			name:    "replay without file",
			cfg:     mutate(func(c *Config) { c.Market.Source = "replay" }),
			wantErr: "replay_file",
		},
		{
			name: "replay with file",
			cfg: mutate(func(c *Config) {
				c.Market.Source = "replay"
				c.Market.ReplayFile = "prices.csv"
			}),
		},
		{
			name:    "negative interval",
			cfg:     mutate(func(c *Config) { c.Market.UpdateIntervalSeconds = -1 }),
			wantErr: "update_interval_seconds",
		},
		{
			name:    "zero spacing",
			cfg:     mutate(func(c *Config) { c.Grid.Spacing = 0 }),
			wantErr: "grid_spacing",
		},
		{
			name:    "negative count",
			cfg:     mutate(func(c *Config) { c.Grid.Count = -1 }),
			wantErr: "grid_count",
		},
		{
			name:    "zero order quantity",
			cfg:     mutate(func(c *Config) { c.Grid.MinOrderQuantity = 0 }),
			wantErr: "min_order_quantity",
		},
		{
			name:    "zero investment",
			cfg:     mutate(func(c *Config) { c.Risk.InitialInvestment = 0 }),
			wantErr: "initial_investment",
		},
		{
			name:    "drawdown over one",
			cfg:     mutate(func(c *Config) { c.Risk.MaxDrawdownPercent = 1.5 }),
			wantErr: "max_drawdown_percent",
		},
		{
			name:    "loss per trade negative",
			cfg:     mutate(func(c *Config) { c.Risk.MaxLossPerTradePercent = -0.1 }),
			wantErr: "max_loss_per_trade_percent",
		},
		{
			name: "csv journal needs files",
			cfg: mutate(func(c *Config) {
				c.Journal = JournalConfig{Type: "csv"}
			}),
			wantErr: "fills_file",
		},
		{
			name: "sqlite journal needs db path",
			cfg: mutate(func(c *Config) {
				c.Journal = JournalConfig{Type: "sqlite"}
			}),
			wantErr: "db_path",
		},
		{
			name: "unknown journal type",
			cfg: mutate(func(c *Config) {
				c.Journal = JournalConfig{Type: "parquet"}
			}),
			wantErr: "journal.type",
		},
		{
			name: "empty journal type is none",
			cfg: mutate(func(c *Config) {
				c.Journal = JournalConfig{}
			}),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
