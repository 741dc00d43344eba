package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradekit/riskcore/hours"
	"github.com/tradekit/riskcore/risk"
)

func writeSettings(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	s := Default()
	require.NoError(t, s.Validate())

	interval, err := s.Loop.TickInterval()
	require.NoError(t, err)
	assert.Positive(t, interval)
	assert.NotEmpty(t, s.Loop.Brokers)
	assert.InDelta(t, 20.0, s.Risk.MaxPortfolioRiskPct, 1e-9)
}

func TestLoadYAMLOverridesKeepDefaults(t *testing.T) {
	t.Parallel()

	path := writeSettings(t, "settings.yaml", `
loop:
  interval: 1m
  brokers: [MT5, Binance]
  commodities: [GOLD]
  store_path: /tmp/test-trades.db
risk:
  max_drawdown_pct: 10
`)

	s, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "1m", s.Loop.Interval)
	assert.Equal(t, []string{"MT5", "Binance"}, s.Loop.Brokers)
	assert.InDelta(t, 10.0, s.Risk.MaxDrawdownPct, 1e-9)

	// Untouched fields keep their defaults.
	assert.InDelta(t, 20.0, s.Risk.MaxPortfolioRiskPct, 1e-9)
	assert.Equal(t, risk.BaselineInitialBalance, s.Risk.DrawdownBaseline)
	assert.True(t, s.Trailing.UseTrailingStop)
	assert.Equal(t, "info", s.Log.Level)
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()

	path := writeSettings(t, "settings.json", `{
  "loop": {
    "interval": "45s",
    "brokers": ["MT5"],
    "commodities": ["GOLD"],
    "store_path": "./trades.db"
  }
}`)

	s, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "45s", s.Loop.Interval)
}

func TestLoadMarketHoursOverride(t *testing.T) {
	t.Parallel()

	path := writeSettings(t, "settings.yaml", `
loop:
  interval: 30s
  brokers: [MT5]
  store_path: ./trades.db
market_hours:
  GOLD:
    enabled: false
`)

	s, err := LoadFromFile(path)
	require.NoError(t, err)

	require.Contains(t, s.MarketHours, "GOLD")
	assert.False(t, s.MarketHours["GOLD"].Enabled)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Settings)
		want   string
	}{
		{"bad_interval", func(s *Settings) { s.Loop.Interval = "soon" }, "loop.interval"},
		{"no_brokers", func(s *Settings) { s.Loop.Brokers = nil }, "loop.brokers"},
		{"no_store_path", func(s *Settings) { s.Loop.StorePath = "" }, "loop.store_path"},
		{"zero_portfolio_risk", func(s *Settings) { s.Risk.MaxPortfolioRiskPct = 0 }, "max_portfolio_risk_pct"},
		{"drawdown_over_100", func(s *Settings) { s.Risk.MaxDrawdownPct = 101 }, "max_drawdown_pct"},
		{"zero_margin_per_lot", func(s *Settings) { s.Risk.MarginPerLot = 0 }, "margin_per_lot"},
		{"inverted_lot_sizes", func(s *Settings) { s.Risk.MaxLotSize = 0.001 }, "lot sizes"},
		{"unknown_baseline", func(s *Settings) { s.Risk.DrawdownBaseline = "yesterday" }, "drawdown_baseline"},
		{"zero_trailing_distance", func(s *Settings) { s.Trailing.DistancePct = 0 }, "trailing_stop_distance"},
		{"unknown_log_level", func(s *Settings) { s.Log.Level = "loud" }, "log.level"},
		{"typoed_hours_calendar", func(s *Settings) {
			s.MarketHours = map[string]hours.Hours{"GOLD": {Enabled: true, Calendar: "24x5"}}
		}, "unknown calendar"},
		{"enabled_override_without_calendar", func(s *Settings) {
			s.MarketHours = map[string]hours.Hours{"GOLD": {Enabled: true}}
		}, "unknown calendar"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := Default()
			tt.mutate(s)
			err := s.Validate()
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestValidateAcceptsWellFormedOverrides(t *testing.T) {
	t.Parallel()

	s := Default()
	s.MarketHours = map[string]hours.Hours{
		"GOLD":    {Enabled: true, Calendar: hours.NearContinuous, Open: "22:00", Close: "21:00"},
		"BITCOIN": {Enabled: false}, // disabled needs no calendar
	}
	assert.NoError(t, s.Validate())
}

func TestLoadGarbageFile(t *testing.T) {
	t.Parallel()

	// Not YAML, not JSON.
	path := writeSettings(t, "settings.yaml", "{{{:::")
	_, err := LoadFromFile(path)
	assert.Error(t, err)
}
