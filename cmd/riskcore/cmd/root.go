package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tradekit/riskcore/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "riskcore",
	Short: "Risk and execution control core for a multi-broker trading bot",
	Long: `Riskcore keeps a trading bot's open positions safe.

It provides:
  - Per-broker risk tracking with portfolio and drawdown ceilings
  - Pre-trade assessment: broker selection and position sizing
  - Trailing stop management and stop/take-profit trigger scanning
  - Per-instrument market-hours gating`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Optional .env for local runs; missing file is fine.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "f", "", "path to settings file (YAML or JSON)")
}

func loadSettings() (*config.Settings, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(cfgPath)
}
