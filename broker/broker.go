package broker

import (
	"context"
	"time"
)

// Connector is the slice of a broker platform this core needs: an account
// snapshot and the list of currently open positions. Implementations may
// block on network round-trips; both calls honor ctx cancellation.
//
// A failed call means "no data for this broker this tick"; callers keep
// whatever state they already hold.
type Connector interface {
	GetAccountInfo(ctx context.Context, broker string) (AccountInfo, error)
	GetOpenPositions(ctx context.Context, broker string) ([]Position, error)
}

type AccountInfo struct {
	Balance    float64
	Equity     float64
	Margin     float64
	FreeMargin float64
}

type Position struct {
	ID         string
	Commodity  string
	Side       string // BUY or SELL
	LotSize    float64
	EntryPrice float64
	OpenTime   time.Time
}
