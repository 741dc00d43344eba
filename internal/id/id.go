// Package id mints trade identifiers.
package id

import "github.com/oklog/ulid/v2"

// TradeID returns a new time-sortable trade identifier. ULIDs keep the
// trades table ordered by creation time, so scans over open trades are
// stable across restarts. Safe for concurrent use.
func TradeID() string {
	return ulid.Make().String()
}
