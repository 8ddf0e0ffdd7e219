package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		existingFrom, existingTo   time.Time
		queryFrom, queryTo         time.Time
		want                       bool
	}{
		{
			name:         "existing contains query",
			existingFrom: date(2024, 1, 1), existingTo: date(2024, 1, 10),
			queryFrom: date(2024, 1, 3), queryTo: date(2024, 1, 5),
			want: true,
		},
		{
			name:         "query contains existing",
			existingFrom: date(2024, 1, 3), existingTo: date(2024, 1, 5),
			queryFrom: date(2024, 1, 1), queryTo: date(2024, 1, 10),
			want: true,
		},
		{
			name:         "existing covers start of query",
			existingFrom: date(2024, 1, 1), existingTo: date(2024, 1, 4),
			queryFrom: date(2024, 1, 3), queryTo: date(2024, 1, 6),
			want: true,
		},
		{
			name:         "existing covers end of query",
			existingFrom: date(2024, 1, 5), existingTo: date(2024, 1, 8),
			queryFrom: date(2024, 1, 3), queryTo: date(2024, 1, 6),
			want: true,
		},
		{
			name:         "identical ranges",
			existingFrom: date(2024, 1, 1), existingTo: date(2024, 1, 5),
			queryFrom: date(2024, 1, 1), queryTo: date(2024, 1, 5),
			want: true,
		},
		{
			name:         "checkout day equals check-in day",
			existingFrom: date(2024, 1, 1), existingTo: date(2024, 1, 5),
			queryFrom: date(2024, 1, 5), queryTo: date(2024, 1, 10),
			want: false,
		},
		{
			name:         "check-in day equals checkout day, reversed",
			existingFrom: date(2024, 1, 5), existingTo: date(2024, 1, 10),
			queryFrom: date(2024, 1, 1), queryTo: date(2024, 1, 5),
			want: false,
		},
		{
			name:         "one night overlap at the end",
			existingFrom: date(2024, 1, 1), existingTo: date(2024, 1, 5),
			queryFrom: date(2024, 1, 4), queryTo: date(2024, 1, 6),
			want: true,
		},
		{
			name:         "fully before",
			existingFrom: date(2024, 1, 1), existingTo: date(2024, 1, 3),
			queryFrom: date(2024, 1, 5), queryTo: date(2024, 1, 10),
			want: false,
		},
		{
			name:         "fully after",
			existingFrom: date(2024, 1, 12), existingTo: date(2024, 1, 15),
			queryFrom: date(2024, 1, 5), queryTo: date(2024, 1, 10),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(tt.existingFrom, tt.existingTo, tt.queryFrom, tt.queryTo)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDateRangeValidate(t *testing.T) {
	now := date(2024, 6, 1)

	t.Run("from after to", func(t *testing.T) {
		r := DateRange{From: date(2024, 6, 10), To: date(2024, 6, 5)}
		assert.ErrorIs(t, r.Validate(now, DefaultMaxAdvanceDays), ErrEmptyRange)
	})

	t.Run("zero nights", func(t *testing.T) {
		r := DateRange{From: date(2024, 6, 10), To: date(2024, 6, 10)}
		assert.ErrorIs(t, r.Validate(now, DefaultMaxAdvanceDays), ErrEmptyRange)
	})

	t.Run("from equal to today rejected", func(t *testing.T) {
		r := DateRange{From: date(2024, 6, 1), To: date(2024, 6, 3)}
		assert.ErrorIs(t, r.Validate(now, DefaultMaxAdvanceDays), ErrPastDate)
	})

	t.Run("from tomorrow accepted", func(t *testing.T) {
		r := DateRange{From: date(2024, 6, 2), To: date(2024, 6, 3)}
		assert.NoError(t, r.Validate(now, DefaultMaxAdvanceDays))
	})

	t.Run("beyond max advance", func(t *testing.T) {
		r := DateRange{From: date(2026, 6, 10), To: date(2026, 6, 12)}
		assert.ErrorIs(t, r.Validate(now, DefaultMaxAdvanceDays), ErrDateTooFar)
	})

	t.Run("horizon uses the passed clock, not wall time", func(t *testing.T) {
		r := DateRange{From: date(2020, 1, 2), To: date(2020, 1, 5)}
		assert.NoError(t, r.Validate(date(2020, 1, 1), DefaultMaxAdvanceDays))
	})
}

func TestDateRangeDays(t *testing.T) {
	r := DateRange{From: date(2024, 1, 1), To: date(2024, 1, 5)}
	assert.Equal(t, 4, r.Days())
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("2024-01-01", "2024-01-05")
	require.NoError(t, err)
	assert.Equal(t, date(2024, 1, 1), r.From)
	assert.Equal(t, date(2024, 1, 5), r.To)

	_, err = ParseDateRange("01.01.2024", "2024-01-05")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestBookingExpectedTotals(t *testing.T) {
	b := &Booking{
		Price:    100,
		DateFrom: date(2024, 1, 1),
		DateTo:   date(2024, 1, 5),
	}
	cost, days := b.ExpectedTotals()
	assert.Equal(t, int64(400), cost)
	assert.Equal(t, int64(4), days)
}
