// Package store persists trades for the control loop. The risk core only
// reads open trades and writes stop-loss updates and closes; everything
// else about a trade belongs to the orchestrator.
package store

import (
	"context"
	"time"
)

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

const (
	StatusOpen   = "OPEN"
	StatusClosed = "CLOSED"
)

type Trade struct {
	ID         string
	Commodity  string
	Side       Side
	Broker     string
	LotSize    float64
	EntryPrice float64
	StopLoss   *float64
	TakeProfit *float64
	Status     string
	OpenTime   time.Time

	// Set when the trade is closed.
	CloseTime   *time.Time
	ExitPrice   *float64
	CloseReason string
}

type Store interface {
	OpenTrades(ctx context.Context) ([]Trade, error)
	// InsertTrade stores a new trade; an empty ID is filled in.
	InsertTrade(ctx context.Context, t *Trade) error
	UpdateStopLoss(ctx context.Context, tradeID string, stopLoss float64) error
	CloseTrade(ctx context.Context, tradeID string, exitPrice float64, reason string) error
	Close() error
}
