package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"gridbot/grid"
	"gridbot/marketdata"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the grid ladder for a price",
	Long: `Plan computes the grid levels that would be placed around a given price
without running the controller.

With --volatility or --prices it also suggests a volatility-scaled spacing:
--volatility takes a ready estimate, --prices estimates one from a recorded
price CSV (same time,price format the replay source reads).

Examples:
  gridbot plan --price 3250 --spacing 10 --count 5
  gridbot plan --price 3250 --prices examples/data/ethusdt.csv`,
	RunE: runPlan,
}

var (
	planPrice      float64
	planSpacing    float64
	planCount      int
	planVolatility float64
	planPricesFile string
)

// volatilityWindow is how many trailing price samples the estimator keeps
// when reading a recorded file.
const volatilityWindow = 20

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().Float64VarP(&planPrice, "price", "p", 0, "current market price (required)")
	planCmd.Flags().Float64VarP(&planSpacing, "spacing", "s", 10, "price distance between grid levels")
	planCmd.Flags().IntVarP(&planCount, "count", "c", 5, "levels on each side of the price")
	planCmd.Flags().Float64Var(&planVolatility, "volatility", 0, "volatility estimate to scale a spacing suggestion from")
	planCmd.Flags().StringVar(&planPricesFile, "prices", "", "recorded price CSV to estimate volatility from")
	planCmd.MarkFlagRequired("price")
}

func runPlan(cmd *cobra.Command, args []string) error {
	levels, err := grid.ComputeLevels(planPrice, planSpacing, planCount)
	if err != nil {
		return fmt.Errorf("compute levels: %w", err)
	}

	fmt.Printf("Grid ladder for price %.2f (spacing %.2f, %d per side):\n", planPrice, planSpacing, planCount)
	for _, lv := range levels {
		var marker string
		switch {
		case lv.Price < planPrice:
			marker = "buy "
		case lv.Price > planPrice:
			marker = "sell"
		default:
			marker = "  --"
		}
		fmt.Printf("  %s  %10.2f  (index %d)\n", marker, lv.Price, lv.Index)
	}

	volatility := planVolatility
	if planPricesFile != "" {
		volatility, err = volatilityFromFile(planPricesFile)
		if err != nil {
			return fmt.Errorf("estimate volatility: %w", err)
		}
		fmt.Printf("\nEstimated volatility from %s: %.4f\n", planPricesFile, volatility)
	}

	if volatility > 0 {
		fmt.Printf("Suggested spacing for volatility %.2f: %.2f\n",
			volatility, grid.DynamicSpacing(volatility))
	}
	return nil
}

// volatilityFromFile runs the streaming estimator over a recorded price file
// and returns the absolute volatility of its trailing window.
func volatilityFromFile(path string) (float64, error) {
	rp, err := marketdata.NewReplay(path)
	if err != nil {
		return 0, err
	}
	defer rp.Close()

	vol := grid.NewVolatility(volatilityWindow)
	samples := 0
	for {
		price, err := rp.CurrentPrice(context.Background(), "")
		if errors.Is(err, marketdata.ErrExhausted) {
			break
		}
		if err != nil {
			return 0, err
		}
		vol.Update(price)
		samples++
	}

	if samples < 2 {
		return 0, fmt.Errorf("need at least two prices in %s, got %d", path, samples)
	}
	return vol.Value(), nil
}
