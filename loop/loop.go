// Package loop composes the market-hours gate, the risk manager and the
// trailing-stop engine into the periodic control loop that keeps open
// positions protected.
package loop

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tradekit/riskcore/hours"
	"github.com/tradekit/riskcore/risk"
	"github.com/tradekit/riskcore/store"
	"github.com/tradekit/riskcore/trailing"
)

// PriceFunc supplies the current price per commodity. Market-data
// acquisition lives outside this module.
type PriceFunc func(ctx context.Context) (map[string]float64, error)

type Controller struct {
	gate     *hours.Gate
	riskMgr  *risk.Manager
	engine   *trailing.Engine
	trades   store.Store
	prices   PriceFunc
	brokers  []string
	markets  []string
	trailing trailing.Settings
	log      zerolog.Logger
}

type Config struct {
	Gate        *hours.Gate
	Risk        *risk.Manager
	Engine      *trailing.Engine
	Trades      store.Store
	Prices      PriceFunc
	Brokers     []string
	Commodities []string
	Trailing    trailing.Settings
	Log         zerolog.Logger
}

func NewController(cfg Config) *Controller {
	return &Controller{
		gate:     cfg.Gate,
		riskMgr:  cfg.Risk,
		engine:   cfg.Engine,
		trades:   cfg.Trades,
		prices:   cfg.Prices,
		brokers:  cfg.Brokers,
		markets:  cfg.Commodities,
		trailing: cfg.Trailing,
		log:      cfg.Log.With().Str("component", "loop").Logger(),
	}
}

// Name implements the scheduler Job interface.
func (c *Controller) Name() string { return "control-loop" }

// Run implements the scheduler Job interface.
func (c *Controller) Run() error { return c.Tick(context.Background()) }

// Tick performs one pass: refresh broker state, tighten trailing stops on
// open trades, and close trades whose stop-loss or take-profit has been
// hit. A failing broker or trade is skipped for the tick; only a missing
// price feed aborts the pass.
func (c *Controller) Tick(ctx context.Context) error {
	for name, res := range c.riskMgr.RefreshAll(ctx, c.brokers) {
		if res.Err != nil {
			c.log.Warn().Str("broker", name).Msg("Broker skipped this tick")
		}
	}

	prices, err := c.prices(ctx)
	if err != nil {
		return fmt.Errorf("fetch prices: %w", err)
	}

	open, err := c.trades.OpenTrades(ctx)
	if err != nil {
		return fmt.Errorf("load open trades: %w", err)
	}
	if len(open) == 0 {
		return nil
	}

	c.engine.UpdateStops(ctx, open, prices, c.trailing)

	// Re-read so the trigger scan sees the stops persisted above.
	open, err = c.trades.OpenTrades(ctx)
	if err != nil {
		return fmt.Errorf("reload open trades: %w", err)
	}

	for _, closure := range c.engine.CheckTriggers(open, prices) {
		if err := c.trades.CloseTrade(ctx, closure.TradeID, closure.ExitPrice, string(closure.Reason)); err != nil {
			c.log.Error().Err(err).Str("trade", closure.TradeID).Msg("Trade close failed")
			continue
		}
		c.log.Info().
			Str("trade", closure.TradeID).
			Str("reason", string(closure.Reason)).
			Float64("exit_price", closure.ExitPrice).
			Msg("Trade closed")
	}

	return nil
}

// Tradable filters the configured commodities through the market-hours
// gate at the given instant.
func (c *Controller) Tradable(now time.Time) []string {
	var open []string
	for _, commodity := range c.markets {
		if c.gate.IsOpen(commodity, now) {
			open = append(open, commodity)
		}
	}
	return open
}

// AssessEntry is the pre-trade check for a prospective position: the gate
// decides whether the instrument is tradable right now, then the risk
// manager sizes the trade and picks a broker.
func (c *Controller) AssessEntry(ctx context.Context, commodity, side string, lotSize, price float64) risk.Assessment {
	if !c.gate.IsOpen(commodity, time.Now().UTC()) {
		return risk.Assessment{
			Reason:    fmt.Sprintf("market closed for %s", commodity),
			RiskScore: 100,
		}
	}
	return c.riskMgr.AssessTrade(ctx, commodity, side, lotSize, price, c.brokers)
}
