// Package risk tracks per-broker account health and decides whether a
// proposed trade may be placed, on which broker, and at what size.
package risk

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tradekit/riskcore/broker"
)

// BrokerStatus is the last known snapshot of one broker account.
type BrokerStatus struct {
	Name          string
	Balance       float64
	Equity        float64
	MarginUsed    float64
	FreeMargin    float64
	OpenPositions int
	// RiskPercent is (balance-equity)/balance*100: how much of the
	// balance is currently exposed as floating loss.
	RiskPercent float64
	IsAvailable bool
	LastUpdated time.Time
}

// RefreshResult is the per-broker outcome of a refresh round: either an
// updated status or the error that prevented one.
type RefreshResult struct {
	Status *BrokerStatus
	Err    error
}

// Manager holds broker state for the control loop. All mutation of the
// status, initial-balance and peak-equity maps happens under one mutex, so
// concurrent refreshes and assessments cannot race on a broker's risk
// budget.
type Manager struct {
	conn   broker.Connector
	limits Limits
	log    zerolog.Logger

	mu              sync.Mutex
	statuses        map[string]BrokerStatus
	initialBalances map[string]float64
	peakEquities    map[string]float64
}

func NewManager(conn broker.Connector, limits Limits, log zerolog.Logger) *Manager {
	return &Manager{
		conn:            conn,
		limits:          limits,
		log:             log.With().Str("component", "risk").Logger(),
		statuses:        make(map[string]BrokerStatus),
		initialBalances: make(map[string]float64),
		peakEquities:    make(map[string]float64),
	}
}

// Limits returns the ceilings the manager was built with.
func (m *Manager) Limits() Limits { return m.limits }

// RefreshBroker pulls a fresh account snapshot and open-position count for
// one broker. On the first successful refresh of a name the balance is
// recorded as that broker's drawdown baseline and never updated again.
//
// On connector failure the previously stored status is left untouched:
// stale data is preferable to no data for this broker on this tick.
func (m *Manager) RefreshBroker(ctx context.Context, name string) (*BrokerStatus, error) {
	acct, err := m.conn.GetAccountInfo(ctx, name)
	if err != nil {
		m.log.Error().Err(err).Str("broker", name).Msg("Account refresh failed")
		return nil, err
	}

	positions, err := m.conn.GetOpenPositions(ctx, name)
	if err != nil {
		m.log.Error().Err(err).Str("broker", name).Msg("Position refresh failed")
		return nil, err
	}

	riskPercent := 0.0
	if acct.Balance > 0 {
		riskPercent = (acct.Balance - acct.Equity) / acct.Balance * 100
	}

	status := BrokerStatus{
		Name:          name,
		Balance:       acct.Balance,
		Equity:        acct.Equity,
		MarginUsed:    acct.Margin,
		FreeMargin:    acct.FreeMargin,
		OpenPositions: len(positions),
		RiskPercent:   riskPercent,
		IsAvailable:   riskPercent < m.limits.MaxPortfolioRiskPct,
		LastUpdated:   time.Now().UTC(),
	}

	m.mu.Lock()
	if _, seen := m.initialBalances[name]; !seen {
		m.initialBalances[name] = acct.Balance
	}
	if acct.Equity > m.peakEquities[name] {
		m.peakEquities[name] = acct.Equity
	}
	m.statuses[name] = status
	m.mu.Unlock()

	m.log.Debug().
		Str("broker", name).
		Float64("risk_pct", riskPercent).
		Int("positions", status.OpenPositions).
		Msg("Broker status refreshed")

	return &status, nil
}

// RefreshAll refreshes each named broker in turn and reports the
// per-broker outcome. A broker that fails keeps its previous status; use
// Statuses to read the full tracked mapping, including brokers refreshed
// on earlier ticks.
func (m *Manager) RefreshAll(ctx context.Context, names []string) map[string]RefreshResult {
	results := make(map[string]RefreshResult, len(names))
	for _, name := range names {
		status, err := m.RefreshBroker(ctx, name)
		results[name] = RefreshResult{Status: status, Err: err}
	}
	return results
}

// Statuses returns a copy of every tracked broker status.
func (m *Manager) Statuses() map[string]BrokerStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]BrokerStatus, len(m.statuses))
	for name, s := range m.statuses {
		out[name] = s
	}
	return out
}

// drawdownPct computes the broker's drawdown from its configured baseline,
// clamped to zero. Caller must hold m.mu.
func (m *Manager) drawdownPct(name string, currentEquity float64) float64 {
	baseline, ok := m.initialBalances[name]
	if m.limits.DrawdownBaseline == BaselineHighWaterMark {
		baseline, ok = m.peakEquities[name]
	}
	if !ok || baseline <= 0 {
		return 0
	}

	dd := (baseline - currentEquity) / baseline * 100
	if dd < 0 {
		return 0
	}
	return dd
}
