package warehouse

import (
	"context"
	"database/sql"

	"martctl/pkg/errors"
)

// The analytical views are virtual: each is recomputed on read from the
// warehouse tables, so the layer can be dropped and recreated at any
// time without touching upstream state.
//
// Note the daily summary restricts the traffic side to dates before
// 2015-03-01 while the order side is unrestricted. The asymmetry is
// carried over from the reporting requirements as-is; orders after that
// date only contribute to rows whose session date falls inside the
// window.
var analyticalViews = []struct {
	name string
	ddl  string
}{
	{
		name: "v_daily_analytics_summary",
		ddl: `
CREATE VIEW v_daily_analytics_summary AS
WITH daily_sessions AS (
    SELECT
        session_date AS report_date,
        channel_group,
        COUNT(DISTINCT session_id) AS total_sessions,
        SUM(is_bounced) AS total_bounced_sessions,
        CAST(SUM(is_bounced) AS REAL) * 100.0 / COUNT(session_id) AS bounce_rate_percentage
    FROM
        dim_session_activity
    WHERE session_date < '2015-03-01'
    GROUP BY
        session_date, channel_group
),
daily_orders AS (
    SELECT
        STRFTIME('%Y-%m-%d', o.created_at) AS report_date,
        s.channel_group,
        COUNT(DISTINCT o.order_id) AS total_orders,
        SUM(o.price_usd) AS total_revenue_usd
    FROM
        fact_orders AS o
    JOIN
        dim_session_activity AS s ON o.website_session_id = s.session_id
    GROUP BY
        STRFTIME('%Y-%m-%d', o.created_at), s.channel_group
)
SELECT
    ds.report_date,
    ds.channel_group,
    dd.day_of_week,
    dd.is_weekend,
    ds.total_sessions,
    ds.total_bounced_sessions,
    ds.bounce_rate_percentage,
    COALESCE(do.total_orders, 0) AS total_orders,
    COALESCE(do.total_revenue_usd, 0.0) AS total_revenue_usd,
    CAST(COALESCE(do.total_orders, 0) AS REAL) * 100.0 / ds.total_sessions AS conversion_rate_percentage
FROM
    daily_sessions AS ds
LEFT JOIN
    daily_orders AS do
    ON ds.report_date = do.report_date
    AND ds.channel_group = do.channel_group
LEFT JOIN
    dim_date AS dd
    ON ds.report_date = dd.date_key
ORDER BY
    ds.report_date, ds.channel_group`,
	},
	{
		name: "v_customer_loyalty",
		ddl: `
CREATE VIEW v_customer_loyalty AS
SELECT
    order_id,
    user_id,
    created_at,
    price_usd,
    ROW_NUMBER() OVER (
        PARTITION BY user_id ORDER BY created_at, order_id
    ) AS order_number,
    CASE
        WHEN ROW_NUMBER() OVER (
            PARTITION BY user_id ORDER BY created_at, order_id
        ) = 1 THEN 'First-Time Buyer'
        ELSE 'Repeat Buyer'
    END AS buyer_type,
    COALESCE(
        JULIANDAY(created_at) - JULIANDAY(LAG(created_at) OVER (
            PARTITION BY user_id ORDER BY created_at, order_id
        )),
        0
    ) AS days_since_last_purchase
FROM fact_orders`,
	},
	{
		name: "v_cohort_analysis",
		ddl: `
CREATE VIEW v_cohort_analysis AS
WITH user_first_order AS (
    SELECT
        user_id,
        MIN(created_at) AS first_order_at
    FROM fact_orders
    GROUP BY user_id
)
SELECT
    o.order_id,
    o.user_id,
    o.created_at,
    o.price_usd,
    STRFTIME('%Y-%m-01', f.first_order_at) AS cohort_month,
    (CAST(STRFTIME('%Y', o.created_at) AS INTEGER) - CAST(STRFTIME('%Y', f.first_order_at) AS INTEGER)) * 12
        + (CAST(STRFTIME('%m', o.created_at) AS INTEGER) - CAST(STRFTIME('%m', f.first_order_at) AS INTEGER)) AS cohort_index
FROM fact_orders AS o
JOIN user_first_order AS f
    ON o.user_id = f.user_id`,
	},
	{
		name: "v_landing_page_conversion",
		ddl: `
CREATE VIEW v_landing_page_conversion AS
SELECT
    s.session_id,
    s.session_date,
    s.landing_page,
    CASE
        WHEN s.is_returning = 1 THEN 'Repeat'
        ELSE 'New'
    END AS visitor_type,
    CASE
        WHEN o.order_id IS NOT NULL THEN 1
        ELSE 0
    END AS converted
FROM dim_session_activity AS s
LEFT JOIN fact_orders AS o
    ON o.website_session_id = s.session_id`,
	},
	{
		name: "v_billing_experiment",
		ddl: `
CREATE VIEW v_billing_experiment AS
WITH billing_pageviews AS (
    SELECT
        website_session_id,
        MIN(website_pageview_id) AS first_billing_pageview_id
    FROM website_pageviews
    WHERE pageview_url IN ('/billing', '/billing-2')
    GROUP BY website_session_id
)
SELECT
    s.session_id,
    s.session_date,
    wp.pageview_url AS billing_version,
    CASE
        WHEN s.is_returning = 1 THEN 'Repeat'
        ELSE 'New'
    END AS visitor_type,
    CASE
        WHEN o.order_id IS NOT NULL THEN 1
        ELSE 0
    END AS converted
FROM billing_pageviews AS bp
JOIN website_pageviews AS wp
    ON bp.first_billing_pageview_id = wp.website_pageview_id
JOIN dim_session_activity AS s
    ON bp.website_session_id = s.session_id
LEFT JOIN fact_orders AS o
    ON o.website_session_id = s.session_id`,
	},
}

// ViewNames lists the analytical views in creation order
func ViewNames() []string {
	names := make([]string, len(analyticalViews))
	for i, v := range analyticalViews {
		names[i] = v.name
	}
	return names
}

// CreateViews drops and recreates the analytical view layer in one
// transaction. Pure read-side: safe to rerun independently of the
// pipeline, provided the warehouse tables exist.
func (s *Service) CreateViews(ctx context.Context) error {
	return s.store.WithTx(ctx, func(tx *sql.Tx) error {
		for _, view := range analyticalViews {
			if _, err := tx.ExecContext(ctx, "DROP VIEW IF EXISTS "+view.name); err != nil {
				return errors.Wrap(err, errors.ErrCodeViewCreation, "Failed to drop view "+view.name)
			}
			if _, err := tx.ExecContext(ctx, view.ddl); err != nil {
				return errors.Wrap(err, errors.ErrCodeViewCreation, "Failed to create view "+view.name).
					WithContext("view", view.name)
			}
		}
		return nil
	})
}
