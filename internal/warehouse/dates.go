package warehouse

import (
	"context"
	"database/sql"
	"time"

	"martctl/pkg/errors"
)

const upsertDateSQL = `
INSERT OR REPLACE INTO dim_date
    (date_key, full_date, year, quarter, month, day_of_week, is_weekend)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

// PopulateDateDimension upserts one dim_date row per calendar day in
// [start, end] inclusive. Upserting by date_key makes the operation
// safe to repeat or extend without truncation.
func (s *Service) PopulateDateDimension(ctx context.Context, start, end time.Time) (int64, error) {
	if end.Before(start) {
		return 0, errors.ValidationError("date_dimension", end.Format("2006-01-02"),
			"end date precedes start date")
	}

	var count int64
	err := s.store.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, upsertDateSQL)
		if err != nil {
			return errors.SQLError("Failed to prepare dim_date upsert", upsertDateSQL, err)
		}
		defer stmt.Close()

		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			isWeekend := 0
			if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
				isWeekend = 1
			}

			_, err := stmt.ExecContext(ctx,
				d.Format("2006-01-02"),
				d.Format("January 02, 2006"),
				d.Year(),
				(int(d.Month())-1)/3+1,
				int(d.Month()),
				d.Weekday().String(),
				isWeekend,
			)
			if err != nil {
				return errors.SQLError("Failed to upsert dim_date row", upsertDateSQL, err).
					WithContext("date_key", d.Format("2006-01-02"))
			}
			count++
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}
