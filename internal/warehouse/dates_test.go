package warehouse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPopulateDateDimension(t *testing.T) {
	s := newEmptyService(t)
	ctx := context.Background()
	require.NoError(t, s.EnsureSchema(ctx))

	// 2012 is a leap year
	count, err := s.PopulateDateDimension(ctx, date(2012, time.January, 1), date(2012, time.December, 31))
	require.NoError(t, err)
	assert.Equal(t, int64(366), count)

	var (
		fullDate  string
		year      int
		quarter   int
		month     int
		dayOfWeek string
		isWeekend int
	)
	row := s.store.DB().QueryRow(`
		SELECT full_date, year, quarter, month, day_of_week, is_weekend
		FROM dim_date WHERE date_key = '2012-02-29'`)
	require.NoError(t, row.Scan(&fullDate, &year, &quarter, &month, &dayOfWeek, &isWeekend))

	assert.Equal(t, "February 29, 2012", fullDate)
	assert.Equal(t, 2012, year)
	assert.Equal(t, 1, quarter)
	assert.Equal(t, 2, month)
	assert.Equal(t, "Wednesday", dayOfWeek)
	assert.Equal(t, 0, isWeekend)
}

func TestDateDimensionQuartersAndWeekends(t *testing.T) {
	s := newEmptyService(t)
	ctx := context.Background()
	require.NoError(t, s.EnsureSchema(ctx))

	_, err := s.PopulateDateDimension(ctx, date(2012, time.April, 1), date(2012, time.April, 7))
	require.NoError(t, err)

	tests := []struct {
		dateKey   string
		quarter   int
		isWeekend int
	}{
		{"2012-04-01", 2, 1}, // Sunday
		{"2012-04-02", 2, 0}, // Monday
		{"2012-04-07", 2, 1}, // Saturday
	}

	for _, tt := range tests {
		var quarter, isWeekend int
		row := s.store.DB().QueryRow(
			"SELECT quarter, is_weekend FROM dim_date WHERE date_key = ?", tt.dateKey)
		require.NoError(t, row.Scan(&quarter, &isWeekend), tt.dateKey)
		assert.Equal(t, tt.quarter, quarter, tt.dateKey)
		assert.Equal(t, tt.isWeekend, isWeekend, tt.dateKey)
	}
}

func TestDateDimensionUpsertAndExtend(t *testing.T) {
	s := newEmptyService(t)
	ctx := context.Background()
	require.NoError(t, s.EnsureSchema(ctx))

	_, err := s.PopulateDateDimension(ctx, date(2012, time.January, 1), date(2012, time.January, 31))
	require.NoError(t, err)

	// Repopulating an overlapping, extended range replaces by key
	// rather than duplicating.
	_, err = s.PopulateDateDimension(ctx, date(2012, time.January, 15), date(2012, time.February, 15))
	require.NoError(t, err)

	var count int64
	require.NoError(t, s.store.DB().QueryRow("SELECT COUNT(*) FROM dim_date").Scan(&count))
	assert.Equal(t, int64(46), count) // Jan 1..Feb 15
}

func TestPopulateDateDimensionRejectsInvertedRange(t *testing.T) {
	s := newEmptyService(t)
	ctx := context.Background()
	require.NoError(t, s.EnsureSchema(ctx))

	_, err := s.PopulateDateDimension(ctx, date(2012, time.February, 1), date(2012, time.January, 1))
	require.Error(t, err)
}
