// Package daterange models inclusive ranges of calendar days.
//
// Every value is normalized to midnight UTC so that day arithmetic never
// depends on the zone or the time of day a caller happened to pass in:
//
//	r, err := daterange.Parse("2024-06-05", "2024-06-08")
//	r.Len()                          // 4
//	r.Contains(daterange.Day(t))     // true when t falls on 5, 6, 7 or 8 June
package daterange

import (
	"errors"
	"fmt"
	"time"

	"rolloff/shared/constant"
)

const hoursInDay = 24

var ErrInvalidRange = errors.New("invalid date range")

// Range is an inclusive span of calendar days.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Day truncates t to its calendar day at midnight UTC, keeping the wall-clock date of t.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from a to b, negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / hoursInDay)
}

func New(start, end time.Time) (Range, error) {
	start, end = Day(start), Day(end)

	if end.Before(start) {
		return Range{}, fmt.Errorf("%w: end %s is before start %s", ErrInvalidRange,
			end.Format(constant.DateOnlyFormat), start.Format(constant.DateOnlyFormat))
	}

	return Range{Start: start, End: end}, nil
}

// Parse builds a Range from two YYYY-MM-DD strings.
func Parse(start, end string) (Range, error) {
	startDay, err := time.Parse(constant.DateOnlyFormat, start)
	if err != nil {
		return Range{}, fmt.Errorf("%w: start date %q: %w", ErrInvalidRange, start, err)
	}

	endDay, err := time.Parse(constant.DateOnlyFormat, end)
	if err != nil {
		return Range{}, fmt.Errorf("%w: end date %q: %w", ErrInvalidRange, end, err)
	}

	return New(startDay, endDay)
}

// Week returns the seven day range starting on weekStart.
func Week(weekStart time.Time) Range {
	start := Day(weekStart)

	return Range{Start: start, End: start.AddDate(0, 0, constant.DaysInWeek-1)}
}

// Len is the number of days in the range, both ends included.
func (r Range) Len() int {
	return DaysBetween(r.Start, r.End) + 1
}

func (r Range) Contains(day time.Time) bool {
	day = Day(day)

	return !day.Before(r.Start) && !day.After(r.End)
}

func (r Range) Overlaps(other Range) bool {
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

// Clip returns the part of r that falls inside bounds.
func (r Range) Clip(bounds Range) (Range, bool) {
	if !r.Overlaps(bounds) {
		return Range{}, false
	}

	clipped := r
	if clipped.Start.Before(bounds.Start) {
		clipped.Start = bounds.Start
	}

	if clipped.End.After(bounds.End) {
		clipped.End = bounds.End
	}

	return clipped, true
}

// Days lists every day in the range in ascending order.
func (r Range) Days() []time.Time {
	days := make([]time.Time, 0, r.Len())

	for day := r.Start; !day.After(r.End); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}

	return days
}

func (r Range) String() string {
	return r.Start.Format(constant.DateOnlyFormat) + ".." + r.End.Format(constant.DateOnlyFormat)
}
