package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var limitsCmd = &cobra.Command{
	Use:   "limits",
	Short: "Print the effective risk limits",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}

		l := settings.Risk
		fmt.Println("Risk limits:")
		fmt.Printf("  Max portfolio risk:    %.1f%% per broker\n", l.MaxPortfolioRiskPct)
		fmt.Printf("  Max drawdown:          %.1f%%\n", l.MaxDrawdownPct)
		fmt.Printf("  Max single-trade risk: %.1f%% (reserved, not enforced)\n", l.MaxSingleTradeRiskPct)
		fmt.Printf("  Min free margin:       %.1f%% (reserved, not enforced)\n", l.MinFreeMarginPct)
		fmt.Printf("  Margin per lot:        $%.0f\n", l.MarginPerLot)
		fmt.Printf("  Lot size range:        %.2f - %.2f\n", l.MinLotSize, l.MaxLotSize)
		fmt.Printf("  Drawdown baseline:     %s\n", l.DrawdownBaseline)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(limitsCmd)
}
