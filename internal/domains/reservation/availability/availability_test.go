package availability_test

import (
	"math/rand"
	"testing"
	"time"

	"rolloff/internal/domains/reservation/availability"
	"rolloff/shared/daterange"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, time.June, d, 0, 0, 0, 0, time.UTC)
}

func entry(t *testing.T, id, containerTypeID string, start, end int) availability.Entry {
	t.Helper()

	dates, err := daterange.New(day(start), day(end))
	require.NoError(t, err)

	return availability.Entry{ID: id, ContainerTypeID: containerTypeID, Dates: dates}
}

func exampleIndex(t *testing.T) *availability.Index {
	t.Helper()

	return availability.New(availability.Snapshot{
		Version:  day(1),
		Capacity: map[string]int{"ct-20": 2, "ct-30": 1},
		Entries: []availability.Entry{
			entry(t, "a", "ct-20", 5, 8),
			entry(t, "b", "ct-20", 7, 10),
			entry(t, "c", "ct-30", 1, 30),
		},
	})
}

func TestIndex_RemainingUnits(t *testing.T) {
	idx := exampleIndex(t)

	tests := []struct {
		name            string
		containerTypeID string
		day             time.Time
		want            int
	}{
		{name: "both reservations overlap", containerTypeID: "ct-20", day: day(7), want: 0},
		{name: "only the second reservation", containerTypeID: "ct-20", day: day(9), want: 1},
		{name: "free day", containerTypeID: "ct-20", day: day(2), want: 2},
		{name: "time of day is ignored", containerTypeID: "ct-20", day: day(9).Add(17 * time.Hour), want: 1},
		{name: "other container type", containerTypeID: "ct-30", day: day(7), want: 0},
		{name: "unknown container type", containerTypeID: "ct-40", day: day(2), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, idx.RemainingUnits(tt.containerTypeID, tt.day))
		})
	}
}

func TestIndex_IsRangeAvailable(t *testing.T) {
	idx := exampleIndex(t)

	tests := []struct {
		name            string
		containerTypeID string
		start, end      time.Time
		units           int
		want            bool
		wantErr         error
	}{
		{name: "range crosses a full day", containerTypeID: "ct-20", start: day(6), end: day(11), units: 1, want: false},
		{name: "range before any booking", containerTypeID: "ct-20", start: day(1), end: day(4), units: 1, want: true},
		{name: "single free day after bookings", containerTypeID: "ct-20", start: day(9), end: day(9), units: 1, want: true},
		{name: "two units on a half booked day", containerTypeID: "ct-20", start: day(9), end: day(9), units: 2, want: false},
		{name: "two units on free days", containerTypeID: "ct-20", start: day(11), end: day(14), units: 2, want: true},
		{name: "unknown container type", containerTypeID: "ct-40", start: day(1), end: day(2), units: 1, want: false},
		{name: "end before start", containerTypeID: "ct-20", start: day(4), end: day(1), units: 1, wantErr: availability.ErrInvalidRange},
		{name: "zero units", containerTypeID: "ct-20", start: day(1), end: day(2), units: 0, wantErr: availability.ErrInvalidUnits},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := idx.IsRangeAvailable(tt.containerTypeID, tt.start, tt.end, tt.units)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIndex_CancelledEntriesAreIgnored(t *testing.T) {
	cancelled := entry(t, "a", "ct-20", 5, 8)
	cancelled.Cancelled = true

	idx := availability.New(availability.Snapshot{
		Capacity: map[string]int{"ct-20": 1},
		Entries:  []availability.Entry{cancelled},
	})

	assert.Equal(t, 1, idx.RemainingUnits("ct-20", day(6)))

	ok, err := idx.IsRangeAvailable("ct-20", day(5), day(8), 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIndex_ZeroCapacity(t *testing.T) {
	idx := availability.New(availability.Snapshot{Capacity: map[string]int{"ct-retired": 0}})

	_, err := idx.IsRangeAvailable("ct-retired", day(1), day(2), 1)
	assert.ErrorIs(t, err, availability.ErrInvalidRange)
	assert.Equal(t, 0, idx.RemainingUnits("ct-retired", day(1)))
}

func TestIndex_EmptySnapshot(t *testing.T) {
	idx := availability.New(availability.Snapshot{Capacity: map[string]int{"ct-20": 3}})

	ok, err := idx.IsRangeAvailable("ct-20", day(1), day(30), 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, idx.Known("ct-10"))
	assert.True(t, idx.Known("ct-20"))
}

func TestIndex_Days(t *testing.T) {
	idx := exampleIndex(t)

	dates, err := daterange.New(day(6), day(9))
	require.NoError(t, err)

	days := idx.Days("ct-20", dates)

	require.Len(t, days, 4)
	assert.Equal(t, []int{1, 0, 0, 1}, []int{days[0].Remaining, days[1].Remaining, days[2].Remaining, days[3].Remaining})
	assert.True(t, days[1].Full)
	assert.False(t, days[3].Full)
	assert.Equal(t, day(6), days[0].Date)
	assert.Equal(t, day(1), idx.Version())
}

func TestIndex_SnapshotIsCopied(t *testing.T) {
	capacity := map[string]int{"ct-20": 1}
	idx := availability.New(availability.Snapshot{Capacity: capacity})

	capacity["ct-20"] = 5

	assert.Equal(t, 1, idx.RemainingUnits("ct-20", day(1)))
}

// A range is available for one unit exactly when every day in it has a unit left.
func TestIndex_RangeAvailabilityMatchesDailyRemaining(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		capacity := 1 + rng.Intn(3)
		entries := make([]availability.Entry, 0, 8)

		for n := 0; n < rng.Intn(8); n++ {
			start := 1 + rng.Intn(25)
			entries = append(entries, entry(t, "r", "ct", start, start+rng.Intn(5)))
		}

		idx := availability.New(availability.Snapshot{Capacity: map[string]int{"ct": capacity}, Entries: entries})

		start := 1 + rng.Intn(25)
		end := start + rng.Intn(5)

		want := true

		for d := start; d <= end; d++ {
			remaining := idx.RemainingUnits("ct", day(d))
			assert.GreaterOrEqual(t, remaining, 0)
			assert.LessOrEqual(t, remaining, capacity)

			if remaining < 1 {
				want = false
			}
		}

		got, err := idx.IsRangeAvailable("ct", day(start), day(end), 1)
		require.NoError(t, err)
		assert.Equal(t, want, got, "round %d range %d..%d", round, start, end)
	}
}
