package store

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	commodity TEXT NOT NULL,
	side TEXT NOT NULL,
	broker TEXT NOT NULL,
	lot_size REAL NOT NULL,
	entry_price REAL NOT NULL,
	stop_loss REAL,
	take_profit REAL,
	status TEXT NOT NULL DEFAULT 'OPEN',
	open_time DATETIME NOT NULL,
	close_time DATETIME,
	exit_price REAL,
	close_reason TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_trades_status ON trades(status);
`
