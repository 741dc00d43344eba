package risk

// DrawdownBaseline selects the reference value drawdown is measured from.
type DrawdownBaseline string

const (
	// BaselineInitialBalance measures drawdown from the balance observed
	// on the broker's first refresh. This is the default: drawdown is
	// relative to where the bot started, not to the best equity since.
	BaselineInitialBalance DrawdownBaseline = "initial_balance"
	// BaselineHighWaterMark measures drawdown from the highest equity
	// observed for the broker.
	BaselineHighWaterMark DrawdownBaseline = "high_water_mark"
)

// Limits are the tunable risk ceilings. MaxSingleTradeRiskPct and
// MinFreeMarginPct are reserved: they are carried in configuration but not
// yet consulted by AssessTrade.
type Limits struct {
	MaxPortfolioRiskPct   float64 `yaml:"max_portfolio_risk_pct" json:"max_portfolio_risk_pct"`
	MaxSingleTradeRiskPct float64 `yaml:"max_single_trade_risk_pct" json:"max_single_trade_risk_pct"`
	MinFreeMarginPct      float64 `yaml:"min_free_margin_pct" json:"min_free_margin_pct"`
	MaxDrawdownPct        float64 `yaml:"max_drawdown_pct" json:"max_drawdown_pct"`

	// MarginPerLot is a flat margin requirement per lot. A simplification,
	// not a real margin calculation.
	MarginPerLot float64 `yaml:"margin_per_lot" json:"margin_per_lot"`
	MaxLotSize   float64 `yaml:"max_lot_size" json:"max_lot_size"`
	MinLotSize   float64 `yaml:"min_lot_size" json:"min_lot_size"`

	DrawdownBaseline DrawdownBaseline `yaml:"drawdown_baseline" json:"drawdown_baseline"`
}

// DefaultLimits returns the documented default ceilings: 20% portfolio
// risk per broker, 15% drawdown, 10 lot hard cap.
func DefaultLimits() Limits {
	return Limits{
		MaxPortfolioRiskPct:   20.0,
		MaxSingleTradeRiskPct: 2.0,
		MinFreeMarginPct:      30.0,
		MaxDrawdownPct:        15.0,
		MarginPerLot:          100.0,
		MaxLotSize:            10.0,
		MinLotSize:            0.01,
		DrawdownBaseline:      BaselineInitialBalance,
	}
}
