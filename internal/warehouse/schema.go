package warehouse

import (
	"context"
	"database/sql"

	"martctl/pkg/errors"
)

// Warehouse table DDL. dim_session_activity holds one row per raw
// session with its pageview aggregates; fact_orders is a 1:1 reshape of
// the raw orders table; fact_order_items is declared for future
// cross-sell analysis and is not populated by the transform; dim_date
// drives time-based grouping in the views.
var warehouseTables = []struct {
	name string
	ddl  string
}{
	{
		name: "dim_session_activity",
		ddl: `CREATE TABLE IF NOT EXISTS dim_session_activity (
			session_id          INTEGER PRIMARY KEY,
			session_date        TEXT,
			landing_page        TEXT,
			total_pageviews     INTEGER,
			is_bounced          INTEGER, -- 1 if total_pageviews = 1
			traffic_source      TEXT,
			traffic_campaign    TEXT,
			device_type         TEXT,
			referrer_domain     TEXT,
			is_returning        INTEGER
		)`,
	},
	{
		name: "fact_orders",
		ddl: `CREATE TABLE IF NOT EXISTS fact_orders (
			order_id                INTEGER PRIMARY KEY,
			website_session_id      INTEGER,
			user_id                 INTEGER,
			price_usd               REAL,
			cogs_usd                REAL,
			total_items_purchased   INTEGER,
			primary_product_id      INTEGER,
			created_at              TEXT
		)`,
	},
	{
		name: "fact_order_items",
		ddl: `CREATE TABLE IF NOT EXISTS fact_order_items (
			order_item_id           INTEGER PRIMARY KEY,
			order_id                INTEGER,
			product_id              INTEGER,
			is_primary_item         INTEGER,
			item_revenue_usd        REAL,
			item_cogs_usd           REAL,
			created_at              TEXT
		)`,
	},
	{
		name: "dim_date",
		ddl: `CREATE TABLE IF NOT EXISTS dim_date (
			date_key            TEXT PRIMARY KEY, -- YYYY-MM-DD
			full_date           TEXT,
			year                INTEGER,
			quarter             INTEGER,
			month               INTEGER,
			day_of_week         TEXT,
			is_weekend          INTEGER
		)`,
	},
}

// Tables rebuilt from scratch on every run. Clearing them here discards
// any channel_group backfill, so the classifier must run again after a
// rebuild.
var rebuiltTables = []string{"dim_session_activity", "fact_orders"}

// ensureSchema creates the warehouse tables if absent and clears the
// two rebuilt tables, inside the caller's transaction.
func (s *Service) ensureSchema(ctx context.Context, tx *sql.Tx) error {
	for _, table := range warehouseTables {
		if _, err := tx.ExecContext(ctx, table.ddl); err != nil {
			return errors.SchemaError("Failed to create table "+table.name, table.ddl, err).
				WithContext("table", table.name)
		}
	}

	for _, table := range rebuiltTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return errors.SchemaError("Failed to clear table "+table, "DELETE FROM "+table, err).
				WithContext("table", table)
		}
	}

	return nil
}

// EnsureSchema creates the warehouse tables and clears the rebuilt
// ones in a single transaction. Safe to call repeatedly: it always
// converges to the existing schema plus empty rebuilt tables.
func (s *Service) EnsureSchema(ctx context.Context) error {
	return s.store.WithTx(ctx, func(tx *sql.Tx) error {
		return s.ensureSchema(ctx, tx)
	})
}
