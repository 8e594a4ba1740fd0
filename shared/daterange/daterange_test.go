package daterange_test

import (
	"testing"
	"time"

	"rolloff/shared/daterange"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(day int) time.Time {
	return time.Date(2024, time.June, day, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, start, end int) daterange.Range {
	t.Helper()

	r, err := daterange.New(date(start), date(end))
	require.NoError(t, err)

	return r
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr bool
		wantLen int
	}{
		{
			name:    "single day",
			start:   date(5),
			end:     date(5),
			wantLen: 1,
		},
		{
			name:    "four days",
			start:   date(5),
			end:     date(8),
			wantLen: 4,
		},
		{
			name:    "time of day is dropped",
			start:   time.Date(2024, time.June, 5, 23, 59, 0, 0, time.UTC),
			end:     time.Date(2024, time.June, 6, 0, 1, 0, 0, time.UTC),
			wantLen: 2,
		},
		{
			name:    "end before start",
			start:   date(8),
			end:     date(5),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := daterange.New(tt.start, tt.end)

			if tt.wantErr {
				assert.ErrorIs(t, err, daterange.ErrInvalidRange)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantLen, r.Len())
		})
	}
}

func TestParse(t *testing.T) {
	r, err := daterange.Parse("2024-06-05", "2024-06-08")
	require.NoError(t, err)
	assert.Equal(t, date(5), r.Start)
	assert.Equal(t, date(8), r.End)
	assert.Equal(t, "2024-06-05..2024-06-08", r.String())

	_, err = daterange.Parse("06/05/2024", "2024-06-08")
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)

	_, err = daterange.Parse("2024-06-08", "2024-06-05")
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)
}

func TestDay(t *testing.T) {
	loc := time.FixedZone("UTC-7", -7*60*60)
	late := time.Date(2024, time.June, 5, 22, 30, 0, 0, loc)

	assert.Equal(t, date(5), daterange.Day(late))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 3, daterange.DaysBetween(date(5), date(8)))
	assert.Equal(t, 0, daterange.DaysBetween(date(5), date(5)))
	assert.Equal(t, -2, daterange.DaysBetween(date(8), date(6)))
	assert.Equal(t, 30, daterange.DaysBetween(date(1), time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)))
}

func TestRange_Contains(t *testing.T) {
	r := mustRange(t, 5, 8)

	assert.False(t, r.Contains(date(4)))
	assert.True(t, r.Contains(date(5)))
	assert.True(t, r.Contains(time.Date(2024, time.June, 8, 18, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(date(9)))
}

func TestRange_Overlaps(t *testing.T) {
	tests := []struct {
		name     string
		a, b     daterange.Range
		expected bool
	}{
		{name: "disjoint", a: mustRange(t, 1, 4), b: mustRange(t, 5, 8), expected: false},
		{name: "touching on a shared day", a: mustRange(t, 1, 5), b: mustRange(t, 5, 8), expected: true},
		{name: "contained", a: mustRange(t, 1, 10), b: mustRange(t, 5, 6), expected: true},
		{name: "partial", a: mustRange(t, 5, 8), b: mustRange(t, 7, 10), expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.expected, tt.b.Overlaps(tt.a))
		})
	}
}

func TestRange_Clip(t *testing.T) {
	week := daterange.Week(date(3))
	assert.Equal(t, date(9), week.End)

	clipped, ok := mustRange(t, 1, 5).Clip(week)
	require.True(t, ok)
	assert.Equal(t, date(3), clipped.Start)
	assert.Equal(t, date(5), clipped.End)

	clipped, ok = mustRange(t, 8, 20).Clip(week)
	require.True(t, ok)
	assert.Equal(t, date(8), clipped.Start)
	assert.Equal(t, date(9), clipped.End)

	_, ok = mustRange(t, 10, 12).Clip(week)
	assert.False(t, ok)
}

func TestRange_Days(t *testing.T) {
	days := mustRange(t, 5, 8).Days()

	assert.Equal(t, []time.Time{date(5), date(6), date(7), date(8)}, days)
}
