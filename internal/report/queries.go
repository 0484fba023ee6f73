// Package report runs named read-only queries over the analytical
// views and renders or exports the results.
package report

import (
	"fmt"
	"sort"
)

// Report is a named query over the view layer
type Report struct {
	Name        string
	Description string
	Query       string
}

var reports = map[string]Report{
	"daily_summary": {
		Name:        "daily_summary",
		Description: "Daily sessions, bounce rate, orders, revenue and CVR per channel",
		Query: `SELECT report_date, channel_group, day_of_week, total_sessions,
       total_bounced_sessions, ROUND(bounce_rate_percentage, 2) AS bounce_rate_pct,
       total_orders, ROUND(total_revenue_usd, 2) AS revenue_usd,
       ROUND(conversion_rate_percentage, 2) AS cvr_pct
FROM v_daily_analytics_summary`,
	},
	"channel_mix": {
		Name:        "channel_mix",
		Description: "Session volume and bounce rate aggregated per channel",
		Query: `SELECT channel_group,
       COUNT(*) AS total_sessions,
       SUM(is_bounced) AS bounced_sessions,
       ROUND(CAST(SUM(is_bounced) AS REAL) * 100.0 / COUNT(*), 2) AS bounce_rate_pct
FROM dim_session_activity
GROUP BY channel_group
ORDER BY total_sessions DESC`,
	},
	"loyalty": {
		Name:        "loyalty",
		Description: "Order sequence, buyer type and repurchase gap per order",
		Query: `SELECT order_id, user_id, order_number, buyer_type,
       ROUND(days_since_last_purchase, 2) AS days_since_last_purchase
FROM v_customer_loyalty
ORDER BY user_id, order_number`,
	},
	"cohorts": {
		Name:        "cohorts",
		Description: "Orders and revenue per acquisition cohort and month offset",
		Query: `SELECT cohort_month, cohort_index,
       COUNT(DISTINCT user_id) AS active_users,
       COUNT(*) AS orders,
       ROUND(SUM(price_usd), 2) AS revenue_usd
FROM v_cohort_analysis
GROUP BY cohort_month, cohort_index
ORDER BY cohort_month, cohort_index`,
	},
	"landing_pages": {
		Name:        "landing_pages",
		Description: "Sessions and conversion rate per landing page",
		Query: `SELECT landing_page,
       COUNT(*) AS sessions,
       SUM(converted) AS converting_sessions,
       ROUND(CAST(SUM(converted) AS REAL) * 100.0 / COUNT(*), 2) AS cvr_pct
FROM v_landing_page_conversion
GROUP BY landing_page
ORDER BY sessions DESC`,
	},
	"billing_test": {
		Name:        "billing_test",
		Description: "Conversion split between the two billing page variants",
		Query: `SELECT billing_version, visitor_type,
       COUNT(*) AS sessions,
       SUM(converted) AS converting_sessions,
       ROUND(CAST(SUM(converted) AS REAL) * 100.0 / COUNT(*), 2) AS cvr_pct
FROM v_billing_experiment
GROUP BY billing_version, visitor_type
ORDER BY billing_version, visitor_type`,
	},
}

// Get returns a report by name
func Get(name string) (Report, error) {
	r, ok := reports[name]
	if !ok {
		return Report{}, fmt.Errorf("unknown report %q, available: %v", name, Names())
	}
	return r, nil
}

// Names returns the available report names, sorted
func Names() []string {
	names := make([]string, 0, len(reports))
	for name := range reports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
