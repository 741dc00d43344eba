package risk

// BrokerSummary is one broker's row in the distribution report.
type BrokerSummary struct {
	Balance       float64
	Equity        float64
	RiskPercent   float64
	OpenPositions int
	IsAvailable   bool
	FreeMargin    float64
}

// Distribution aggregates the tracked brokers for display.
type Distribution struct {
	Brokers        map[string]BrokerSummary
	TotalBalance   float64
	TotalEquity    float64
	TotalPositions int
	BrokerCount    int
	AvgRiskPercent float64
}

// Distribution reports the current spread across all tracked brokers. It
// reads the stored statuses only; no refresh is triggered.
func (m *Manager) Distribution() Distribution {
	m.mu.Lock()
	defer m.mu.Unlock()

	dist := Distribution{
		Brokers:     make(map[string]BrokerSummary, len(m.statuses)),
		BrokerCount: len(m.statuses),
	}

	var riskSum float64
	for name, s := range m.statuses {
		dist.Brokers[name] = BrokerSummary{
			Balance:       s.Balance,
			Equity:        s.Equity,
			RiskPercent:   s.RiskPercent,
			OpenPositions: s.OpenPositions,
			IsAvailable:   s.IsAvailable,
			FreeMargin:    s.FreeMargin,
		}
		dist.TotalBalance += s.Balance
		dist.TotalEquity += s.Equity
		dist.TotalPositions += s.OpenPositions
		riskSum += s.RiskPercent
	}

	if dist.BrokerCount > 0 {
		dist.AvgRiskPercent = riskSum / float64(dist.BrokerCount)
	}

	return dist
}
