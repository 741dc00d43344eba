// Package hours answers whether an instrument is tradable at a given
// instant, based on per-instrument trading-window configuration.
package hours

import (
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Calendar selects how an instrument's trading week is shaped.
type Calendar string

const (
	// Continuous markets (crypto) never close.
	Continuous Calendar = "24/7"
	// NearContinuous markets (forex, metals, energy) open Sunday evening
	// and close Friday evening, UTC.
	NearContinuous Calendar = "24/5"
	// Daily markets (agriculture, equities) trade a bounded window on a
	// fixed set of weekdays.
	Daily Calendar = "daily"
)

// Hours is the trading-window record for one instrument. Times are UTC
// clock strings like "08:30". An override supplied to the Gate replaces
// the whole record for that instrument key; fields are not merged.
type Hours struct {
	Enabled  bool           `yaml:"enabled" json:"enabled"`
	Calendar Calendar       `yaml:"calendar" json:"calendar"`
	Days     []time.Weekday `yaml:"days,omitempty" json:"days,omitempty"`
	Open     string         `yaml:"open,omitempty" json:"open,omitempty"`
	Close    string         `yaml:"close,omitempty" json:"close,omitempty"`
}

// Fallback is the record used for instruments with no override and no
// built-in default: enabled and always open.
func Fallback() Hours {
	return Hours{Enabled: true, Calendar: Continuous}
}

// OpenAt reports whether the window is open at the given instant. It is a
// pure function of (h, now) and safe for concurrent use.
func (h Hours) OpenAt(now time.Time) bool {
	if !h.Enabled {
		return false
	}

	now = now.UTC()
	weekday := now.Weekday()
	minute := now.Hour()*60 + now.Minute()

	switch h.Calendar {
	case Continuous:
		return true

	case NearContinuous:
		switch weekday {
		case time.Monday, time.Tuesday, time.Wednesday, time.Thursday:
			return true
		case time.Sunday:
			return minute >= clockMinutes(h.Open, 0)
		case time.Friday:
			return minute <= clockMinutes(h.Close, 23*60+59)
		default: // Saturday
			return false
		}

	default:
		if !weekdayIn(weekday, h.Days) {
			return false
		}
		open := clockMinutes(h.Open, 0)
		close := clockMinutes(h.Close, 23*60+59)
		return minute >= open && minute <= close
	}
}

// Gate resolves instrument hours and answers open/closed queries. It holds
// no mutable state and may be shared across goroutines.
type Gate struct {
	overrides map[string]Hours
	log       zerolog.Logger
}

// NewGate builds a gate with persisted per-instrument overrides layered
// over the built-in Defaults table. Overrides replace the full record for
// their instrument key.
func NewGate(overrides map[string]Hours, log zerolog.Logger) *Gate {
	return &Gate{
		overrides: overrides,
		log:       log.With().Str("component", "market_hours").Logger(),
	}
}

// IsOpen reports whether the instrument is tradable at now. A zero now
// means the current UTC time. Unknown instruments fall back to an
// always-open record with a warning.
func (g *Gate) IsOpen(commodity string, now time.Time) bool {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	return g.resolve(commodity).OpenAt(now)
}

func (g *Gate) resolve(commodity string) Hours {
	if h, ok := g.overrides[commodity]; ok {
		return h
	}
	if h, ok := Defaults[commodity]; ok {
		return h
	}
	g.log.Warn().Str("commodity", commodity).Msg("No trading hours configured, assuming always open")
	return Fallback()
}

// clockMinutes parses "HH:MM" into minutes past midnight, returning def
// for empty or malformed values.
func clockMinutes(s string, def int) int {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return def
	}
	h, err1 := strconv.Atoi(hh)
	m, err2 := strconv.Atoi(mm)
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return def
	}
	return h*60 + m
}

func weekdayIn(d time.Weekday, days []time.Weekday) bool {
	for _, w := range days {
		if w == d {
			return true
		}
	}
	return false
}
