package warehouse

import (
	"context"
	"database/sql"

	"martctl/pkg/errors"
)

const addChannelGroupSQL = `ALTER TABLE dim_session_activity ADD COLUMN channel_group TEXT`

// classifyChannelsSQL assigns a marketing-channel label from the raw
// traffic fields. Rule order matters: the organic rule requires a NULL
// campaign, so a recognized search-engine source with campaign 'brand'
// still lands in paid_brand. Only unclassified rows are touched, which
// keeps re-invocation after new rows additive.
const classifyChannelsSQL = `
UPDATE dim_session_activity
SET channel_group =
    CASE
        -- ORGANIC
        WHEN traffic_campaign IS NULL AND traffic_source IN ('https://www.gsearch.com', 'https://www.bsearch.com') THEN 'organic'
        -- PAID BRAND
        WHEN traffic_campaign = 'brand' THEN 'paid_brand'
        -- PAID NONBRAND
        WHEN traffic_campaign = 'nonbrand' THEN 'paid_nonbrand'
        -- DIRECT (traffic_source is NULL)
        WHEN traffic_source IS NULL THEN 'direct_type_in'
        -- PAID SOCIAL
        WHEN traffic_source = 'socialbook' THEN 'paid_social'
        -- Everything else (e.g. untracked referral)
        ELSE 'other'
    END
WHERE channel_group IS NULL OR channel_group = ''
`

// ClassifyChannels backfills channel_group for every unclassified
// session-activity row and returns the number of rows updated. The
// column addition tolerates the already-exists case so the whole
// operation is idempotent.
func (s *Service) ClassifyChannels(ctx context.Context) (int64, error) {
	var updated int64

	err := s.store.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, addChannelGroupSQL); err != nil {
			appErr := errors.SQLError("Failed to add channel_group column", addChannelGroupSQL, err)
			if !errors.IsDuplicateColumn(appErr) {
				return appErr
			}
			// Column already exists from an earlier run
		}

		res, err := tx.ExecContext(ctx, classifyChannelsSQL)
		if err != nil {
			return errors.TransformError("channel_group", 0, err)
		}
		updated, _ = res.RowsAffected()

		return nil
	})
	if err != nil {
		return 0, err
	}

	return updated, nil
}
