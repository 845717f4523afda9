package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Statements are executed one at a time because pgx's extended protocol
// rejects multi-command queries.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id BIGSERIAL PRIMARY KEY,
		player_uuid TEXT NOT NULL UNIQUE,
		player_name TEXT NOT NULL,
		wallet BIGINT NOT NULL DEFAULT 0 CHECK (wallet >= 0),
		bank BIGINT NOT NULL DEFAULT 0 CHECK (bank >= 0),
		is_bank_open BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS market_items (
		id BIGSERIAL PRIMARY KEY,
		item_key TEXT NOT NULL UNIQUE,
		item_name TEXT NOT NULL,
		base_price BIGINT NOT NULL,
		current_sell_price BIGINT NOT NULL,
		current_buy_price BIGINT NOT NULL,
		price_multiplier DOUBLE PRECISION NOT NULL DEFAULT 1.0,
		total_sold BIGINT NOT NULL DEFAULT 0,
		total_bought BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS trade_records (
		id BIGSERIAL PRIMARY KEY,
		player_uuid TEXT NOT NULL,
		item_key TEXT NOT NULL,
		direction TEXT NOT NULL CHECK (direction IN ('SELL', 'BUY')),
		quantity BIGINT NOT NULL,
		price_per_unit BIGINT NOT NULL,
		total_amount BIGINT NOT NULL,
		price_multiplier DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS trade_records_item_window_idx
		ON trade_records (item_key, direction, created_at)`,
	`CREATE TABLE IF NOT EXISTS economy_config (
		config_key TEXT PRIMARY KEY,
		config_value NUMERIC NOT NULL
	)`,
}

// EnsureSchema creates the tables the economy needs if they do not exist.
// Every statement is idempotent so all binaries can run this at startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
