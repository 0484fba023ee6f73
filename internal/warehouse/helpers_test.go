package warehouse

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"martctl/internal/sqlite"
)

// newTestService opens a fresh warehouse file with the raw tables
// loaded, mimicking the state the bulk loader leaves behind.
func newTestService(t *testing.T) *Service {
	t.Helper()

	store := sqlite.NewService(sqlite.Config{
		Path: filepath.Join(t.TempDir(), "warehouse.db"),
	})
	require.NoError(t, store.Connect())
	t.Cleanup(func() { store.Close() })

	for _, stmt := range rawFixture {
		_, err := store.DB().Exec(stmt)
		require.NoError(t, err)
	}

	return NewService(store)
}

// newEmptyService opens a warehouse with no raw tables at all
func newEmptyService(t *testing.T) *Service {
	t.Helper()

	store := sqlite.NewService(sqlite.Config{
		Path: filepath.Join(t.TempDir(), "warehouse.db"),
	})
	require.NoError(t, store.Connect())
	t.Cleanup(func() { store.Close() })

	return NewService(store)
}

// Raw-table fixture. Session 5 deliberately has no pageviews, session 4
// is a repeat visit, and user 100 places two orders three months apart.
var rawFixture = []string{
	`CREATE TABLE website_sessions (
		website_session_id INTEGER PRIMARY KEY,
		created_at         TEXT,
		user_id            INTEGER,
		is_repeat_session  INTEGER,
		utm_source         TEXT,
		utm_campaign       TEXT,
		utm_content        TEXT,
		device_type        TEXT,
		http_referer       TEXT
	)`,
	`CREATE TABLE website_pageviews (
		website_pageview_id INTEGER PRIMARY KEY,
		created_at          TEXT,
		website_session_id  INTEGER,
		pageview_url        TEXT
	)`,
	`CREATE TABLE orders (
		order_id           INTEGER PRIMARY KEY,
		created_at         TEXT,
		website_session_id INTEGER,
		user_id            INTEGER,
		primary_product_id INTEGER,
		items_purchased    INTEGER,
		price_usd          REAL,
		cogs_usd           REAL
	)`,
	`INSERT INTO website_sessions VALUES
		(1, '2012-03-19 08:04:16', 100, 0, 'https://www.gsearch.com', NULL, NULL, 'desktop', 'https://www.gsearch.com'),
		(2, '2012-03-19 09:12:00', 101, 0, NULL, NULL, NULL, 'mobile', NULL),
		(3, '2012-03-20 10:00:00', 100, 0, 'https://www.gsearch.com', 'brand', NULL, 'desktop', 'https://www.gsearch.com'),
		(4, '2012-03-20 11:30:00', 102, 1, 'socialbook', NULL, NULL, 'mobile', 'https://www.socialbook.com'),
		(5, '2012-03-21 12:00:00', 103, 0, 'https://www.bsearch.com', 'nonbrand', NULL, 'desktop', 'https://www.bsearch.com'),
		(6, '2012-06-20 09:00:00', 100, 1, 'https://www.bsearch.com', 'nonbrand', NULL, 'desktop', 'https://www.bsearch.com')`,
	`INSERT INTO website_pageviews VALUES
		(10, '2012-03-19 08:04:16', 1, '/home'),
		(11, '2012-03-19 08:05:00', 1, '/products'),
		(12, '2012-03-19 09:12:00', 2, '/home'),
		(13, '2012-03-20 10:00:00', 3, '/lander-1'),
		(14, '2012-03-20 10:02:00', 3, '/billing'),
		(15, '2012-03-20 11:30:00', 4, '/billing-2'),
		(16, '2012-06-20 09:00:00', 6, '/lander-5')`,
	`INSERT INTO orders VALUES
		(1, '2012-03-20 10:00:00', 3, 100, 1, 1, 49.99, 19.49),
		(2, '2012-06-20 22:00:00', 6, 100, 2, 2, 99.98, 38.98)`,
}
