// Package sim provides an in-memory broker.Connector for demos and tests.
package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/tradekit/riskcore/broker"
)

type Connector struct {
	mu        sync.Mutex
	accounts  map[string]broker.AccountInfo
	positions map[string][]broker.Position
	failing   map[string]bool
}

func New() *Connector {
	return &Connector{
		accounts:  make(map[string]broker.AccountInfo),
		positions: make(map[string][]broker.Position),
		failing:   make(map[string]bool),
	}
}

// SetAccount installs or replaces the account snapshot for a broker.
func (c *Connector) SetAccount(name string, acct broker.AccountInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accounts[name] = acct
}

// SetPositions replaces the open positions reported for a broker.
func (c *Connector) SetPositions(name string, positions []broker.Position) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.positions[name] = positions
}

// SetFailing makes subsequent calls for the broker return an error,
// simulating an unreachable platform.
func (c *Connector) SetFailing(name string, failing bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failing[name] = failing
}

func (c *Connector) GetAccountInfo(ctx context.Context, name string) (broker.AccountInfo, error) {
	if err := ctx.Err(); err != nil {
		return broker.AccountInfo{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failing[name] {
		return broker.AccountInfo{}, fmt.Errorf("sim: broker %q unreachable", name)
	}
	acct, ok := c.accounts[name]
	if !ok {
		return broker.AccountInfo{}, fmt.Errorf("sim: unknown broker %q", name)
	}
	return acct, nil
}

func (c *Connector) GetOpenPositions(ctx context.Context, name string) ([]broker.Position, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failing[name] {
		return nil, fmt.Errorf("sim: broker %q unreachable", name)
	}

	out := make([]broker.Position, len(c.positions[name]))
	copy(out, c.positions[name])
	return out, nil
}
