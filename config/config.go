// Package config loads the bot's settings file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tradekit/riskcore/hours"
	"github.com/tradekit/riskcore/risk"
	"github.com/tradekit/riskcore/trailing"
)

// Settings is the complete configuration for the control loop.
type Settings struct {
	Log      LogSettings       `json:"log" yaml:"log"`
	Loop     LoopSettings      `json:"loop" yaml:"loop"`
	Risk     risk.Limits       `json:"risk" yaml:"risk"`
	Trailing trailing.Settings `json:"trailing" yaml:"trailing"`

	// MarketHours overrides replace the built-in record for their
	// instrument key in full; fields are not merged.
	MarketHours map[string]hours.Hours `json:"market_hours,omitempty" yaml:"market_hours,omitempty"`
}

type LogSettings struct {
	Level  string `json:"level" yaml:"level"`
	Pretty bool   `json:"pretty" yaml:"pretty"`
}

type LoopSettings struct {
	Interval    string   `json:"interval" yaml:"interval"` // e.g. "30s", "1m"
	Brokers     []string `json:"brokers" yaml:"brokers"`
	Commodities []string `json:"commodities" yaml:"commodities"`
	StorePath   string   `json:"store_path" yaml:"store_path"`
}

// TickInterval parses the loop interval.
func (l LoopSettings) TickInterval() (time.Duration, error) {
	return time.ParseDuration(l.Interval)
}

// LoadFromFile loads settings from a YAML or JSON file.
func LoadFromFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	s := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, s); err != nil {
		if jsonErr := json.Unmarshal(data, s); jsonErr != nil {
			return nil, fmt.Errorf("parse settings (tried YAML and JSON): %w", err)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return s, nil
}

// Validate checks the settings are usable.
func (s *Settings) Validate() error {
	if _, err := s.Loop.TickInterval(); err != nil {
		return fmt.Errorf("loop.interval: %w", err)
	}
	if len(s.Loop.Brokers) == 0 {
		return fmt.Errorf("loop.brokers must name at least one broker")
	}
	if s.Loop.StorePath == "" {
		return fmt.Errorf("loop.store_path is required")
	}
	if s.Risk.MaxPortfolioRiskPct <= 0 || s.Risk.MaxPortfolioRiskPct > 100 {
		return fmt.Errorf("risk.max_portfolio_risk_pct must be in (0, 100]")
	}
	if s.Risk.MaxDrawdownPct <= 0 || s.Risk.MaxDrawdownPct > 100 {
		return fmt.Errorf("risk.max_drawdown_pct must be in (0, 100]")
	}
	if s.Risk.MarginPerLot <= 0 {
		return fmt.Errorf("risk.margin_per_lot must be positive")
	}
	if s.Risk.MinLotSize <= 0 || s.Risk.MaxLotSize < s.Risk.MinLotSize {
		return fmt.Errorf("risk lot sizes must satisfy 0 < min <= max")
	}
	switch s.Risk.DrawdownBaseline {
	case risk.BaselineInitialBalance, risk.BaselineHighWaterMark:
	default:
		return fmt.Errorf("risk.drawdown_baseline must be %q or %q",
			risk.BaselineInitialBalance, risk.BaselineHighWaterMark)
	}
	if s.Trailing.UseTrailingStop && s.Trailing.DistancePct <= 0 {
		return fmt.Errorf("trailing.trailing_stop_distance must be positive when trailing is enabled")
	}
	for name, h := range s.MarketHours {
		if !h.Enabled {
			continue
		}
		switch h.Calendar {
		case hours.Continuous, hours.NearContinuous, hours.Daily:
		default:
			// A typoed calendar would otherwise read as a daily window
			// with no weekdays, silently closing the market.
			return fmt.Errorf("market_hours.%s: unknown calendar %q", name, h.Calendar)
		}
	}
	switch strings.ToLower(s.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	return nil
}

// Default returns settings with documented defaults.
func Default() *Settings {
	return &Settings{
		Log: LogSettings{Level: "info", Pretty: true},
		Loop: LoopSettings{
			Interval:    "30s",
			Brokers:     []string{"MT5"},
			Commodities: []string{"GOLD", "WTI_CRUDE", "BITCOIN"},
			StorePath:   "./trades.db",
		},
		Risk: risk.DefaultLimits(),
		Trailing: trailing.Settings{
			UseTrailingStop: true,
			DistancePct:     1.5,
		},
	}
}
