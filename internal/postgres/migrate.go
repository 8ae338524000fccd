package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is embedded rather than shipped as loose files: the POS box runs as
// a single binary and must come up on an empty database.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS tables (
		id        TEXT PRIMARY KEY,
		name      TEXT NOT NULL,
		capacity  INT  NOT NULL DEFAULT 4
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		price_cents  BIGINT NOT NULL,
		variants     TEXT[] NOT NULL DEFAULT '{}',
		is_available BOOLEAN NOT NULL DEFAULT TRUE,
		category_id  TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id             TEXT PRIMARY KEY,
		number         BIGINT GENERATED ALWAYS AS IDENTITY UNIQUE,
		type           TEXT NOT NULL CHECK (type IN ('dine_in','takeaway')),
		table_id       TEXT REFERENCES tables(id),
		table_name     TEXT,
		customer_name  TEXT,
		notes          TEXT,
		subtotal_cents BIGINT NOT NULL,
		tax_cents      BIGINT NOT NULL,
		total_cents    BIGINT NOT NULL,
		status         TEXT NOT NULL CHECK (status IN ('preparing','served','billed','cancelled')),
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		CHECK ((type = 'dine_in') = (table_id IS NOT NULL))
	)`,
	// backstop for the one-active-order-per-table rule, independent of the
	// row lock taken on create
	`CREATE UNIQUE INDEX IF NOT EXISTS orders_table_active
		ON orders(table_id) WHERE status IN ('preparing','served')`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id               BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		order_id         TEXT NOT NULL REFERENCES orders(id),
		position         INT NOT NULL,
		product_id       TEXT NOT NULL,
		product_name     TEXT NOT NULL,
		variant          TEXT,
		quantity         INT NOT NULL CHECK (quantity > 0),
		unit_price_cents BIGINT NOT NULL,
		notes            TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		id           INT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
		currency     TEXT NOT NULL DEFAULT 'Rs.',
		tax_rate_bps INT  NOT NULL DEFAULT 1000
	)`,
}

// Migrate applies the schema statements in order. Each statement is
// idempotent, so re-running on startup is safe.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
