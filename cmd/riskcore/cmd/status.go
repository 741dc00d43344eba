package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/tradekit/riskcore/hours"
	"github.com/tradekit/riskcore/logger"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which markets are open right now",
	Long: `Print the open/closed state of every configured instrument at the
current UTC time, after applying any market-hours overrides from the
settings file.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{Level: "warn", Pretty: settings.Log.Pretty})
	gate := hours.NewGate(settings.MarketHours, log)
	now := time.Now().UTC()

	names := make([]string, 0, len(hours.Defaults))
	for name := range hours.Defaults {
		names = append(names, name)
	}
	for name := range settings.MarketHours {
		if _, ok := hours.Defaults[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	fmt.Printf("Market status at %s\n\n", now.Format("2006-01-02 15:04 UTC"))
	for _, name := range names {
		state := "closed"
		if gate.IsOpen(name, now) {
			state = "open"
		}
		fmt.Printf("  %-12s %s\n", name, state)
	}

	return nil
}
