package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in   string
		ok   bool
		want time.Time
	}{
		{"2025-01-30T10:15:00Z", true, time.Date(2025, 1, 30, 10, 15, 0, 0, time.UTC)},
		{"2025-01-30T10:15:00.250Z", true, time.Date(2025, 1, 30, 10, 15, 0, 250e6, time.UTC)},
		{"2025-01-30T10:15:00-03:00", true, time.Date(2025, 1, 30, 13, 15, 0, 0, time.UTC)},
		{"2025-01-30", true, time.Date(2025, 1, 30, 0, 0, 0, 0, time.UTC)},
		{"2025-01-30T08:00", true, time.Date(2025, 1, 30, 8, 0, 0, 0, time.Local)},
		{"tomorrow morning", false, time.Time{}},
		{"2025-13-01", false, time.Time{}},
		{"", false, time.Time{}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseTimestamp(tc.in)
			require.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.True(t, tc.want.Equal(got), "got %s want %s", got, tc.want)
			}
		})
	}
}

func TestCanonical(t *testing.T) {
	ts := time.Date(2025, 3, 4, 5, 6, 7, 891e6, time.FixedZone("BRT", -3*3600))
	assert.Equal(t, "2025-03-04T08:06:07.891Z", Canonical(ts))
}

func TestNormalizeTimestamp(t *testing.T) {
	assert.Equal(t, "2025-02-01T12:00:00.000Z", NormalizeTimestamp("2025-02-01T09:00:00-03:00"))
	assert.Equal(t, "after lunch", NormalizeTimestamp("after lunch"))
}

func TestNormalizeKey(t *testing.T) {
	key, err := NormalizeKey("2025-01-30T23:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-30", key)

	key, err = NormalizeKey("2025-01-30")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-30", key)

	_, err = NormalizeKey("30/01/2025")
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestReferenceConventions(t *testing.T) {
	day, err := ParseDay("2025-02-01")
	require.NoError(t, err)
	assert.Equal(t, "01/02/2025", ToDayMonthYear(day))
	assert.Equal(t, "saturday", WeekdayKey(day))
	assert.Equal(t, "2025-02-01", Key(day))
}

func TestDays(t *testing.T) {
	start := time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	days := Days(start, end)
	require.Len(t, days, 4)
	keys := make([]string, 0, len(days))
	for _, d := range days {
		keys = append(keys, Key(d))
	}
	assert.Equal(t, []string{"2024-12-30", "2024-12-31", "2025-01-01", "2025-01-02"}, keys)
	assert.Equal(t, 4, DaysBetween(start, end))

	assert.Len(t, Days(start, start), 1)
	assert.Nil(t, Days(end, start))
}
