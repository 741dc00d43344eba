package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tradekit/riskcore/broker"
	"github.com/tradekit/riskcore/broker/sim"
	"github.com/tradekit/riskcore/hours"
	"github.com/tradekit/riskcore/logger"
	"github.com/tradekit/riskcore/loop"
	"github.com/tradekit/riskcore/risk"
	"github.com/tradekit/riskcore/store"
	"github.com/tradekit/riskcore/trailing"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the control loop against the simulated connector",
	Long: `Run the periodic control loop: refresh broker accounts, tighten
trailing stops on open trades and close trades whose stop-loss or
take-profit is hit.

Brokers come from the settings file and are served by the in-memory
simulated connector; prices random-walk from each trade's entry price so
the trailing behavior is visible.

Example:
  riskcore run -f settings.yaml`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{Level: settings.Log.Level, Pretty: settings.Log.Pretty})

	trades, err := store.NewSQLite(settings.Loop.StorePath)
	if err != nil {
		return fmt.Errorf("open trade store: %w", err)
	}
	defer trades.Close()

	conn := sim.New()
	for _, name := range settings.Loop.Brokers {
		conn.SetAccount(name, broker.AccountInfo{
			Balance:    10000,
			Equity:     10000,
			FreeMargin: 10000,
		})
	}

	manager := risk.NewManager(conn, settings.Risk, log)
	gate := hours.NewGate(settings.MarketHours, log)
	engine := trailing.NewEngine(trades, log)

	controller := loop.NewController(loop.Config{
		Gate:        gate,
		Risk:        manager,
		Engine:      engine,
		Trades:      trades,
		Prices:      driftingPrices(trades),
		Brokers:     settings.Loop.Brokers,
		Commodities: settings.Loop.Commodities,
		Trailing:    settings.Trailing,
		Log:         log,
	})

	sched := loop.NewScheduler(log)
	if err := sched.AddJob("@every "+settings.Loop.Interval, controller); err != nil {
		return fmt.Errorf("schedule control loop: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	log.Info().
		Strs("brokers", settings.Loop.Brokers).
		Str("interval", settings.Loop.Interval).
		Msg("Control loop running, Ctrl-C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	return nil
}

// driftingPrices walks each open trade's commodity price from its entry so
// trailing stops have something to follow.
func driftingPrices(trades store.Store) loop.PriceFunc {
	last := map[string]float64{}

	return func(ctx context.Context) (map[string]float64, error) {
		open, err := trades.OpenTrades(ctx)
		if err != nil {
			return nil, err
		}

		prices := map[string]float64{}
		for _, t := range open {
			base, ok := last[t.Commodity]
			if !ok {
				base = t.EntryPrice
			}
			price := base * (1 + (rand.Float64()-0.48)/100)
			last[t.Commodity] = price
			prices[t.Commodity] = price
		}
		return prices, nil
	}
}
