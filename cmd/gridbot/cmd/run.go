package cmd

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gridbot/config"
	"gridbot/engine"
	"gridbot/journal"
	"gridbot/marketdata"
	"gridbot/pkg/logx"
	"gridbot/risk"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the grid controller from a config file",
	Long: `Run the grid trading controller using settings from a configuration file.

The config file selects the trading pair, the price source (REST polling or
websocket stream), the grid geometry, risk limits and journal backend.

Example:
  gridbot run -f examples/configs/ethusdt.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var log *zap.Logger
	if cfg.Log.File != "" {
		log, err = logx.NewWithFile(cfg.Log.Level, cfg.Log.File)
	} else {
		log, err = logx.New(cfg.Log.Level)
	}
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	j, err := newJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var source engine.PriceSource
	switch cfg.Market.Source {
	case "stream":
		stream := marketdata.NewStream(cfg.Market.StreamURL, cfg.Market.TradingPair, log)
		if err := stream.Connect(ctx); err != nil {
			return fmt.Errorf("connect stream: %w", err)
		}
		defer stream.Close()
		source = stream
	case "replay":
		rp, err := marketdata.NewReplay(cfg.Market.ReplayFile)
		if err != nil {
			return fmt.Errorf("open replay: %w", err)
		}
		defer rp.Close()
		source = rp
	default:
		source = marketdata.NewClient(cfg.Market.BaseURL)
	}

	rm := risk.NewManager(risk.Limits{
		InitialEquity:          cfg.Risk.InitialInvestment,
		MaxPositionSize:        cfg.Risk.MaxPositionSize,
		MaxDrawdownPercent:     cfg.Risk.MaxDrawdownPercent,
		MaxLossPerTradePercent: cfg.Risk.MaxLossPerTradePercent,
	})

	eng, err := engine.New(engine.Params{
		Symbol:   cfg.Market.TradingPair,
		Spacing:  cfg.Grid.Spacing,
		Count:    cfg.Grid.Count,
		OrderQty: cfg.Grid.MinOrderQuantity,
	}, source, engine.SimFill{Log: log}, rm, j, consoleReporter{}, log)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}

	mode := "limited"
	if cfg.Grid.Infinite {
		mode = "infinite"
	}
	log.Info("starting grid controller",
		zap.String("pair", cfg.Market.TradingPair),
		zap.String("source", cfg.Market.Source),
		zap.Float64("spacing", cfg.Grid.Spacing),
		zap.Int("count", cfg.Grid.Count),
		zap.String("grid_mode", mode),
		zap.Float64("initial_investment", cfg.Risk.InitialInvestment))

	if cfg.Market.Source == "replay" {
		for ctx.Err() == nil {
			if err := eng.Tick(ctx); err != nil {
				if errors.Is(err, marketdata.ErrExhausted) {
					break
				}
				return fmt.Errorf("tick: %w", err)
			}
		}
		log.Info("replay finished", zap.Float64("final_equity", rm.Equity()))
		return nil
	}

	interval := time.Duration(cfg.Market.UpdateIntervalSeconds) * time.Second
	if interval == 0 {
		if err := eng.Tick(ctx); err != nil {
			return fmt.Errorf("tick: %w", err)
		}
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := eng.Tick(ctx); err != nil {
			log.Warn("tick failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			log.Info("shutting down", zap.Float64("final_equity", rm.Equity()))
			return nil
		case <-ticker.C:
		}
	}
}

func newJournal(cfg config.JournalConfig) (journal.Journal, error) {
	switch cfg.Type {
	case "csv":
		return journal.NewCSV(cfg.FillsFile, cfg.EquityFile)
	case "sqlite":
		return journal.NewSQLite(cfg.DBPath)
	default:
		return journal.Nop{}, nil
	}
}

// consoleReporter prints the per-tick state the way a trading terminal would.
type consoleReporter struct{}

func (consoleReporter) Report(s engine.Snapshot) {
	fmt.Printf("\n=== %s %s @ %.2f ===\n", s.Time.Format("15:04:05"), s.Symbol, s.Price)
	fmt.Printf("  Position: %.6f @ %.2f\n", s.PositionQty, s.AvgPrice)
	fmt.Printf("  PnL: %.2f realized, %.2f unrealized\n", s.RealizedPnL, s.UnrealizedPnL)
	fmt.Printf("  Equity: %.2f\n", s.Equity)
	if len(s.ActiveOrders) == 0 {
		fmt.Println("  No active orders")
		return
	}
	fmt.Printf("  Active orders (%d):\n", len(s.ActiveOrders))
	for _, o := range s.ActiveOrders {
		fmt.Printf("    %-4s level %.2f  %.6f @ %.2f\n", o.Side, o.LevelPrice, o.Quantity, o.Price)
	}
}
