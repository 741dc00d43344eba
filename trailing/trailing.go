// Package trailing tightens protective stops as prices move in a trade's
// favor and flags trades whose stop-loss or take-profit has been hit.
package trailing

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"github.com/tradekit/riskcore/store"
)

// Settings controls the trailing behavior. DistancePct is the stop's
// distance from the current price, in percent.
type Settings struct {
	UseTrailingStop bool    `yaml:"use_trailing_stop" json:"use_trailing_stop"`
	DistancePct     float64 `yaml:"trailing_stop_distance" json:"trailing_stop_distance"`
}

type Reason string

const (
	ReasonStopLoss   Reason = "STOP_LOSS"
	ReasonTakeProfit Reason = "TAKE_PROFIT"
)

// Closure instructs the orchestrator to close one trade. The engine never
// closes trades itself.
type Closure struct {
	TradeID   string
	Reason    Reason
	ExitPrice float64
}

type Engine struct {
	store store.Store
	log   zerolog.Logger
}

func NewEngine(st store.Store, log zerolog.Logger) *Engine {
	return &Engine{
		store: st,
		log:   log.With().Str("component", "trailing").Logger(),
	}
}

// UpdateStops recomputes the trailing stop for every open trade with a
// known current price and persists stops that improved. A BUY stop only
// ever rises; a SELL stop only ever falls. Trades with no entry price, no
// price for their commodity, or a non-positive price (a glitched feed) are
// skipped, and a persistence failure for one trade does not stop the rest.
// Returns the number of stops persisted.
func (e *Engine) UpdateStops(ctx context.Context, trades []store.Trade, prices map[string]float64, s Settings) int {
	if !s.UseTrailingStop {
		return 0
	}

	distance := s.DistancePct / 100

	updated := 0
	for _, t := range trades {
		price, ok := prices[t.Commodity]
		if !ok || price <= 0 || t.EntryPrice == 0 {
			continue
		}

		newStop, ok := trailStop(t, price, distance)
		if !ok {
			continue
		}

		if err := e.store.UpdateStopLoss(ctx, t.ID, newStop); err != nil {
			e.log.Error().Err(err).Str("trade", t.ID).Msg("Stop-loss update failed")
			continue
		}
		updated++

		e.log.Info().
			Str("trade", t.ID).
			Str("commodity", t.Commodity).
			Str("side", string(t.Side)).
			Float64("stop_loss", newStop).
			Float64("price", price).
			Msg("Trailing stop updated")
	}

	if updated > 0 {
		e.log.Info().Int("updated", updated).Msg("Trailing stops updated")
	}
	return updated
}

// trailStop returns the improved stop for the trade at the given price,
// or ok=false when the stop must not move.
func trailStop(t store.Trade, price, distance float64) (float64, bool) {
	var candidate float64
	switch t.Side {
	case store.Buy:
		candidate = round2(price * (1 - distance))
		if t.StopLoss != nil && candidate <= *t.StopLoss {
			return 0, false
		}
	case store.Sell:
		candidate = round2(price * (1 + distance))
		if t.StopLoss != nil && candidate >= *t.StopLoss {
			return 0, false
		}
	default:
		return 0, false
	}

	if t.StopLoss != nil && candidate == *t.StopLoss {
		return 0, false
	}
	return candidate, true
}

// CheckTriggers scans open trades against current prices and returns one
// closure instruction per triggered trade. The stop-loss check runs first;
// if both thresholds are breached in the same tick the trade closes as
// STOP_LOSS. Read-only: no stops are mutated and no trades are closed.
func (e *Engine) CheckTriggers(trades []store.Trade, prices map[string]float64) []Closure {
	var closures []Closure

	for _, t := range trades {
		price, ok := prices[t.Commodity]
		if !ok || price <= 0 {
			continue
		}

		if t.StopLoss != nil && stopLossHit(t.Side, price, *t.StopLoss) {
			closures = append(closures, Closure{TradeID: t.ID, Reason: ReasonStopLoss, ExitPrice: price})
			e.log.Info().
				Str("trade", t.ID).
				Str("commodity", t.Commodity).
				Float64("price", price).
				Float64("stop_loss", *t.StopLoss).
				Msg("Stop loss triggered")
			continue
		}

		if t.TakeProfit != nil && takeProfitHit(t.Side, price, *t.TakeProfit) {
			closures = append(closures, Closure{TradeID: t.ID, Reason: ReasonTakeProfit, ExitPrice: price})
			e.log.Info().
				Str("trade", t.ID).
				Str("commodity", t.Commodity).
				Float64("price", price).
				Float64("take_profit", *t.TakeProfit).
				Msg("Take profit triggered")
		}
	}

	return closures
}

func stopLossHit(side store.Side, price, stop float64) bool {
	if side == store.Buy {
		return price <= stop
	}
	return price >= stop
}

func takeProfitHit(side store.Side, price, target float64) bool {
	if side == store.Buy {
		return price >= target
	}
	return price <= target
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
