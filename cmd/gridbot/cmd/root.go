package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gridbot",
	Short: "A simulated grid trading controller",
	Long: `Gridbot runs a simulated grid trading strategy against live market prices.

It provides tools for:
  - Running the grid controller against Binance spot prices (REST or websocket)
  - Planning a grid ladder for a given price, spacing and level count
  - Journaling fills and equity history to CSV or SQLite
  - Position-size and funds checks before every simulated order`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
