package warehouse

import (
	"context"
	"database/sql"

	"martctl/pkg/errors"
)

// insertSessionActivitySQL aggregates every raw session's pageviews and
// joins back to the landing pageview. The minimum pageview id is the
// canonical proxy for temporal order, so the first-inserted pageview
// always wins the landing-page tie-break. Sessions with zero pageviews
// are excluded by the inner join.
//
// The referrer domain strips the scheme prefix; a NULL http_referer
// yields a NULL referrer_domain.
const insertSessionActivitySQL = `
INSERT INTO dim_session_activity (
    session_id,
    session_date,
    landing_page,
    total_pageviews,
    is_bounced,
    traffic_source,
    traffic_campaign,
    device_type,
    referrer_domain,
    is_returning
)
WITH session_pageview_summary AS (
    SELECT
        website_session_id,
        COUNT(website_pageview_id) AS total_pageviews,
        MIN(website_pageview_id) AS first_pageview_id
    FROM website_pageviews
    GROUP BY website_session_id
)
SELECT
    wss.website_session_id,
    DATE(wss.created_at),
    wps_min.pageview_url,
    sps.total_pageviews,
    CASE
        WHEN sps.total_pageviews = 1 THEN 1
        ELSE 0
    END AS is_bounced,
    wss.utm_source,
    wss.utm_campaign,
    wss.device_type,
    SUBSTR(wss.http_referer, INSTR(wss.http_referer, '://') + 3),
    wss.is_repeat_session
FROM website_sessions AS wss
INNER JOIN session_pageview_summary AS sps
    ON wss.website_session_id = sps.website_session_id
INNER JOIN website_pageviews AS wps_min
    ON sps.first_pageview_id = wps_min.website_pageview_id;
`

// insertFactOrdersSQL copies every raw order 1:1 into the fact table.
// No filtering or joins: malformed session references pass through
// uncorrected and only surface in downstream view joins.
const insertFactOrdersSQL = `
INSERT INTO fact_orders (
    order_id,
    website_session_id,
    user_id,
    price_usd,
    cogs_usd,
    total_items_purchased,
    primary_product_id,
    created_at
)
SELECT
    order_id,
    website_session_id,
    user_id,
    price_usd,
    cogs_usd,
    items_purchased,
    primary_product_id,
    created_at
FROM
    orders;
`

// RebuildResult reports the rows inserted by a successful rebuild
type RebuildResult struct {
	SessionRows int64
	OrderRows   int64
}

// Rebuild runs the core transform: schema setup, the session-activity
// aggregation, and the order fact copy, all inside one all-or-nothing
// transaction. On failure the error context records the rows inserted
// before the rollback, for diagnostics only.
func (s *Service) Rebuild(ctx context.Context) (*RebuildResult, error) {
	var result RebuildResult

	err := s.store.WithTx(ctx, func(tx *sql.Tx) error {
		if err := s.ensureSchema(ctx, tx); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, insertSessionActivitySQL)
		if err != nil {
			return errors.TransformError("dim_session_activity", 0, err)
		}
		result.SessionRows, _ = res.RowsAffected()

		res, err = tx.ExecContext(ctx, insertFactOrdersSQL)
		if err != nil {
			return errors.TransformError("fact_orders", result.SessionRows, err)
		}
		result.OrderRows, _ = res.RowsAffected()

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}
