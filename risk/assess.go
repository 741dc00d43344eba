package risk

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// Assessment is the immutable verdict on one proposed trade.
type Assessment struct {
	CanTrade          bool
	Reason            string
	RecommendedBroker string
	MaxLotSize        float64
	// RiskScore is 0..100; higher means riskier. Trades scoring 80 or
	// above are denied.
	RiskScore float64
}

const denyScore = 100

// AssessTrade refreshes the named brokers and evaluates whether the
// proposed trade may be placed: which broker should take it, the maximum
// admissible lot size, and a composite risk score. The side and price
// arguments complete the trade description; the current sizing model
// depends only on account state.
func (m *Manager) AssessTrade(ctx context.Context, commodity, side string, lotSize, price float64, brokers []string) Assessment {
	m.RefreshAll(ctx, brokers)

	m.mu.Lock()
	defer m.mu.Unlock()

	available := make([]BrokerStatus, 0, len(m.statuses))
	for _, s := range m.statuses {
		if s.IsAvailable && s.FreeMargin > 0 {
			available = append(available, s)
		}
	}

	if len(available) == 0 {
		return Assessment{
			Reason:    fmt.Sprintf("all brokers at the %.0f%% risk ceiling", m.limits.MaxPortfolioRiskPct),
			RiskScore: denyScore,
		}
	}

	best := selectBestBroker(available)
	maxLot := m.maxLotSize(best)

	drawdown := m.drawdownPct(best.Name, best.Equity)
	if drawdown > m.limits.MaxDrawdownPct {
		return Assessment{
			Reason:            fmt.Sprintf("drawdown %.1f%% exceeds limit %.1f%%", drawdown, m.limits.MaxDrawdownPct),
			RecommendedBroker: best.Name,
			MaxLotSize:        0,
			RiskScore:         denyScore,
		}
	}

	score := m.riskScore(best, lotSize, maxLot)

	canTrade := lotSize <= maxLot &&
		best.RiskPercent < m.limits.MaxPortfolioRiskPct &&
		score < 80

	reason := "trade approved"
	switch {
	case canTrade:
	case lotSize > maxLot:
		reason = fmt.Sprintf("requested lot size %.2f exceeds max %.2f", lotSize, maxLot)
	case best.RiskPercent >= m.limits.MaxPortfolioRiskPct:
		reason = fmt.Sprintf("broker risk %.1f%% at the %.0f%% ceiling", best.RiskPercent, m.limits.MaxPortfolioRiskPct)
	default:
		reason = fmt.Sprintf("risk score %.0f too high", score)
	}

	m.log.Info().
		Str("commodity", commodity).
		Str("side", side).
		Str("broker", best.Name).
		Bool("can_trade", canTrade).
		Float64("max_lot", maxLot).
		Float64("risk_score", score).
		Msg("Trade assessed")

	return Assessment{
		CanTrade:          canTrade,
		Reason:            reason,
		RecommendedBroker: best.Name,
		MaxLotSize:        maxLot,
		RiskScore:         score,
	}
}

// selectBestBroker scores the candidates and returns the winner. Lower
// current risk, fewer open positions and more free margin all score
// higher. Ties are broken by ascending broker name so selection is
// deterministic.
func selectBestBroker(candidates []BrokerStatus) BrokerStatus {
	score := func(s BrokerStatus) float64 {
		riskScore := 100 - s.RiskPercent
		positionScore := math.Max(0, 50-float64(s.OpenPositions)*5)
		marginScore := math.Min(50, s.FreeMargin/1000)
		return riskScore + positionScore + marginScore
	}

	sort.Slice(candidates, func(i, j int) bool {
		si, sj := score(candidates[i]), score(candidates[j])
		if si != sj {
			return si > sj
		}
		return candidates[i].Name < candidates[j].Name
	})

	return candidates[0]
}

// maxLotSize returns the largest lot the broker can absorb within the
// remaining risk budget and its free margin, capped at the configured lot
// limit. The result is floored to 2 decimal places, never below the
// minimum lot.
func (m *Manager) maxLotSize(s BrokerStatus) float64 {
	remainingRiskPct := math.Max(0, m.limits.MaxPortfolioRiskPct-s.RiskPercent)
	riskBudget := s.Balance * remainingRiskPct / 100

	maxLot := math.Min(riskBudget/m.limits.MarginPerLot, s.FreeMargin/m.limits.MarginPerLot)
	maxLot = math.Min(maxLot, m.limits.MaxLotSize)
	maxLot = math.Floor(maxLot*100) / 100

	return math.Max(m.limits.MinLotSize, maxLot)
}

// riskScore combines portfolio risk (0-40), requested vs max lot (0-30),
// open position count (0-20) and margin level (0-10) into a 0-100 score.
func (m *Manager) riskScore(s BrokerStatus, requestedLot, maxLot float64) float64 {
	score := s.RiskPercent / m.limits.MaxPortfolioRiskPct * 40

	if maxLot > 0 {
		score += math.Min(1, requestedLot/maxLot) * 30
	}

	score += math.Min(20, float64(s.OpenPositions)*2)

	if s.Balance > 0 {
		marginLevel := s.FreeMargin / s.Balance * 100
		switch {
		case marginLevel < 50:
			score += 10
		case marginLevel < 70:
			score += 5
		}
	}

	return math.Max(0, math.Min(100, score))
}
