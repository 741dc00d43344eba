package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tradekit/riskcore/internal/id"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) OpenTrades(ctx context.Context) ([]Trade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT trade_id, commodity, side, broker, lot_size, entry_price,
		       stop_loss, take_profit, status, open_time
		FROM trades
		WHERE status = ?
		ORDER BY trade_id`, StatusOpen)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []Trade
	for rows.Next() {
		var (
			t          Trade
			stopLoss   sql.NullFloat64
			takeProfit sql.NullFloat64
		)
		if err := rows.Scan(
			&t.ID, &t.Commodity, &t.Side, &t.Broker, &t.LotSize, &t.EntryPrice,
			&stopLoss, &takeProfit, &t.Status, &t.OpenTime,
		); err != nil {
			return nil, err
		}
		if stopLoss.Valid {
			v := stopLoss.Float64
			t.StopLoss = &v
		}
		if takeProfit.Valid {
			v := takeProfit.Float64
			t.TakeProfit = &v
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

func (s *SQLite) InsertTrade(ctx context.Context, t *Trade) error {
	if t.ID == "" {
		t.ID = id.TradeID()
	}
	if t.Status == "" {
		t.Status = StatusOpen
	}
	if t.OpenTime.IsZero() {
		t.OpenTime = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trades
		(trade_id, commodity, side, broker, lot_size, entry_price, stop_loss, take_profit, status, open_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Commodity, t.Side, t.Broker, t.LotSize, t.EntryPrice,
		nullable(t.StopLoss), nullable(t.TakeProfit), t.Status, t.OpenTime,
	)
	return err
}

func (s *SQLite) UpdateStopLoss(ctx context.Context, tradeID string, stopLoss float64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE trades SET stop_loss = ? WHERE trade_id = ? AND status = ?`,
		stopLoss, tradeID, StatusOpen,
	)
	if err != nil {
		return err
	}
	return requireRow(res, tradeID)
}

func (s *SQLite) CloseTrade(ctx context.Context, tradeID string, exitPrice float64, reason string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE trades
		SET status = ?, exit_price = ?, close_reason = ?, close_time = ?
		WHERE trade_id = ? AND status = ?`,
		StatusClosed, exitPrice, reason, time.Now().UTC(), tradeID, StatusOpen,
	)
	if err != nil {
		return err
	}
	return requireRow(res, tradeID)
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func requireRow(res sql.Result, tradeID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no open trade %q", tradeID)
	}
	return nil
}
