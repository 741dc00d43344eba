package trailing

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradekit/riskcore/store"
)

// stubStore records stop-loss writes and can fail for chosen trades.
type stubStore struct {
	stops   map[string]float64
	failIDs map[string]bool
}

func newStubStore() *stubStore {
	return &stubStore{stops: map[string]float64{}, failIDs: map[string]bool{}}
}

func (s *stubStore) OpenTrades(ctx context.Context) ([]store.Trade, error) { return nil, nil }

func (s *stubStore) InsertTrade(ctx context.Context, t *store.Trade) error { return nil }

func (s *stubStore) UpdateStopLoss(ctx context.Context, tradeID string, stopLoss float64) error {
	if s.failIDs[tradeID] {
		return fmt.Errorf("stub: write failed for %s", tradeID)
	}
	s.stops[tradeID] = stopLoss
	return nil
}

func (s *stubStore) CloseTrade(ctx context.Context, tradeID string, exitPrice float64, reason string) error {
	return nil
}

func (s *stubStore) Close() error { return nil }

func ptr(v float64) *float64 { return &v }

func buyTrade(id string, stop *float64) store.Trade {
	return store.Trade{ID: id, Commodity: "GOLD", Side: store.Buy, EntryPrice: 100, StopLoss: stop}
}

func sellTrade(id string, stop *float64) store.Trade {
	return store.Trade{ID: id, Commodity: "GOLD", Side: store.Sell, EntryPrice: 100, StopLoss: stop}
}

var settings = Settings{UseTrailingStop: true, DistancePct: 1.5}

func TestUpdateStopsDisabled(t *testing.T) {
	t.Parallel()

	st := newStubStore()
	e := NewEngine(st, zerolog.Nop())

	n := e.UpdateStops(context.Background(), []store.Trade{buyTrade("t1", nil)},
		map[string]float64{"GOLD": 110}, Settings{UseTrailingStop: false, DistancePct: 1.5})

	assert.Zero(t, n)
	assert.Empty(t, st.stops)
}

func TestUpdateStopsSetsInitialBuyStop(t *testing.T) {
	t.Parallel()

	st := newStubStore()
	e := NewEngine(st, zerolog.Nop())

	n := e.UpdateStops(context.Background(), []store.Trade{buyTrade("t1", nil)},
		map[string]float64{"GOLD": 110}, settings)

	require.Equal(t, 1, n)
	assert.InDelta(t, 108.35, st.stops["t1"], 1e-9)
}

func TestUpdateStopsNeverLoosens(t *testing.T) {
	t.Parallel()

	st := newStubStore()
	e := NewEngine(st, zerolog.Nop())

	// Price fell back: the 108.35 stop must not move down.
	n := e.UpdateStops(context.Background(), []store.Trade{buyTrade("t1", ptr(108.35))},
		map[string]float64{"GOLD": 105}, settings)

	assert.Zero(t, n)
	assert.Empty(t, st.stops)
}

func TestUpdateStopsMonotonicOverTicks(t *testing.T) {
	t.Parallel()

	st := newStubStore()
	e := NewEngine(st, zerolog.Nop())

	trade := buyTrade("t1", nil)
	last := 0.0

	for _, price := range []float64{102, 108, 104, 110, 109, 115, 101} {
		e.UpdateStops(context.Background(), []store.Trade{trade},
			map[string]float64{"GOLD": price}, settings)

		if stop, ok := st.stops["t1"]; ok {
			assert.GreaterOrEqual(t, stop, last, "stop loosened at price %v", price)
			last = stop
			trade.StopLoss = ptr(stop)
		}
	}
}

func TestUpdateStopsSellSide(t *testing.T) {
	t.Parallel()

	st := newStubStore()
	e := NewEngine(st, zerolog.Nop())

	// Price dropped to 90: stop trails down to 91.35.
	n := e.UpdateStops(context.Background(), []store.Trade{sellTrade("t1", ptr(98))},
		map[string]float64{"GOLD": 90}, settings)
	require.Equal(t, 1, n)
	assert.InDelta(t, 91.35, st.stops["t1"], 1e-9)

	// Price bounced: 91.35 must hold.
	n = e.UpdateStops(context.Background(), []store.Trade{sellTrade("t1", ptr(91.35))},
		map[string]float64{"GOLD": 95}, settings)
	assert.Zero(t, n)
}

func TestUpdateStopsSkipsUnpricedAndUnentered(t *testing.T) {
	t.Parallel()

	st := newStubStore()
	e := NewEngine(st, zerolog.Nop())

	trades := []store.Trade{
		{ID: "no-price", Commodity: "SILVER", Side: store.Buy, EntryPrice: 100},
		{ID: "no-entry", Commodity: "GOLD", Side: store.Buy},
	}

	n := e.UpdateStops(context.Background(), trades, map[string]float64{"GOLD": 110}, settings)
	assert.Zero(t, n)
}

func TestUpdateStopsIgnoresGlitchedPrice(t *testing.T) {
	t.Parallel()

	st := newStubStore()
	e := NewEngine(st, zerolog.Nop())

	// A feed reporting 0 must not collapse a BUY stop to 0.
	n := e.UpdateStops(context.Background(), []store.Trade{buyTrade("t1", nil)},
		map[string]float64{"GOLD": 0}, settings)
	assert.Zero(t, n)
	assert.Empty(t, st.stops)

	n = e.UpdateStops(context.Background(), []store.Trade{buyTrade("t1", ptr(108.35))},
		map[string]float64{"GOLD": -5}, settings)
	assert.Zero(t, n)
	assert.Empty(t, st.stops)
}

func TestUpdateStopsContinuesPastStoreFailure(t *testing.T) {
	t.Parallel()

	st := newStubStore()
	st.failIDs["t1"] = true
	e := NewEngine(st, zerolog.Nop())

	trades := []store.Trade{buyTrade("t1", nil), buyTrade("t2", nil)}

	n := e.UpdateStops(context.Background(), trades, map[string]float64{"GOLD": 110}, settings)

	assert.Equal(t, 1, n)
	assert.NotContains(t, st.stops, "t1")
	assert.InDelta(t, 108.35, st.stops["t2"], 1e-9)
}

func TestCheckTriggers(t *testing.T) {
	t.Parallel()

	e := NewEngine(newStubStore(), zerolog.Nop())

	tests := []struct {
		name  string
		trade store.Trade
		price float64
		want  []Closure
	}{
		{
			name:  "buy_stop_loss",
			trade: store.Trade{ID: "t1", Commodity: "GOLD", Side: store.Buy, StopLoss: ptr(108.35)},
			price: 108,
			want:  []Closure{{TradeID: "t1", Reason: ReasonStopLoss, ExitPrice: 108}},
		},
		{
			name:  "buy_take_profit",
			trade: store.Trade{ID: "t1", Commodity: "GOLD", Side: store.Buy, TakeProfit: ptr(120)},
			price: 121,
			want:  []Closure{{TradeID: "t1", Reason: ReasonTakeProfit, ExitPrice: 121}},
		},
		{
			name:  "sell_stop_loss",
			trade: store.Trade{ID: "t1", Commodity: "GOLD", Side: store.Sell, StopLoss: ptr(50)},
			price: 51,
			want:  []Closure{{TradeID: "t1", Reason: ReasonStopLoss, ExitPrice: 51}},
		},
		{
			name:  "sell_take_profit",
			trade: store.Trade{ID: "t1", Commodity: "GOLD", Side: store.Sell, TakeProfit: ptr(45)},
			price: 44,
			want:  []Closure{{TradeID: "t1", Reason: ReasonTakeProfit, ExitPrice: 44}},
		},
		{
			name:  "no_trigger_between_levels",
			trade: store.Trade{ID: "t1", Commodity: "GOLD", Side: store.Buy, StopLoss: ptr(95), TakeProfit: ptr(120)},
			price: 100,
			want:  nil,
		},
		{
			name:  "no_levels_set",
			trade: store.Trade{ID: "t1", Commodity: "GOLD", Side: store.Buy},
			price: 100,
			want:  nil,
		},
		{
			name:  "missing_price_skipped",
			trade: store.Trade{ID: "t1", Commodity: "SILVER", Side: store.Buy, StopLoss: ptr(95)},
			price: 90,
			want:  nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := e.CheckTriggers([]store.Trade{tt.trade}, map[string]float64{"GOLD": tt.price})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckTriggersIgnoresGlitchedPrice(t *testing.T) {
	t.Parallel()

	e := NewEngine(newStubStore(), zerolog.Nop())

	// 0 is below every BUY stop; a glitched feed must not close the trade.
	trades := []store.Trade{
		{ID: "t1", Commodity: "GOLD", Side: store.Buy, StopLoss: ptr(108.35)},
		{ID: "t2", Commodity: "SILVER", Side: store.Buy, StopLoss: ptr(20)},
	}

	got := e.CheckTriggers(trades, map[string]float64{"GOLD": 0, "SILVER": -1})
	assert.Empty(t, got)
}

func TestCheckTriggersStopLossWinsDoubleBreach(t *testing.T) {
	t.Parallel()

	e := NewEngine(newStubStore(), zerolog.Nop())

	// Inverted levels so one price breaches both: the stop-loss check
	// runs first and the trade closes exactly once.
	trade := store.Trade{ID: "t1", Commodity: "GOLD", Side: store.Buy, StopLoss: ptr(110), TakeProfit: ptr(100)}

	got := e.CheckTriggers([]store.Trade{trade}, map[string]float64{"GOLD": 105})

	require.Len(t, got, 1)
	assert.Equal(t, ReasonStopLoss, got[0].Reason)
}
