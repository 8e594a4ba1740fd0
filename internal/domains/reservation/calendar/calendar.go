// Package calendar lays out reservations of one week as horizontal bands so that overlapping
// reservations never share a row.
package calendar

import (
	"sort"
	"time"

	"rolloff/shared/daterange"
)

type Item struct {
	ReservationID string
	Dates         daterange.Range
}

type Band struct {
	ReservationID string `json:"reservation_id"`
	StartDayIndex int    `json:"start_day_index"`
	DurationDays  int    `json:"duration_days"`
	Row           int    `json:"row"`
}

func (b Band) endDayIndex() int {
	return b.StartDayIndex + b.DurationDays - 1
}

func (b Band) intersects(other Band) bool {
	return b.StartDayIndex <= other.endDayIndex() && other.StartDayIndex <= b.endDayIndex()
}

// LayoutWeek clips items to the week starting at weekStart and assigns each band the first row
// free of intersecting bands, in ascending start order with ties kept in input order.
// Items outside the week are dropped.
func LayoutWeek(weekStart time.Time, items []Item) []Band {
	week := daterange.Week(weekStart)
	bands := make([]Band, 0, len(items))

	for _, item := range items {
		clipped, ok := item.Dates.Clip(week)
		if !ok {
			continue
		}

		bands = append(bands, Band{
			ReservationID: item.ReservationID,
			StartDayIndex: daterange.DaysBetween(week.Start, clipped.Start),
			DurationDays:  clipped.Len(),
		})
	}

	sort.SliceStable(bands, func(i, j int) bool {
		return bands[i].StartDayIndex < bands[j].StartDayIndex
	})

	var rows [][]Band

	for i := range bands {
		row := firstFreeRow(rows, bands[i])
		if row == len(rows) {
			rows = append(rows, nil)
		}

		bands[i].Row = row
		rows[row] = append(rows[row], bands[i])
	}

	return bands
}

func firstFreeRow(rows [][]Band, band Band) int {
	for n, placed := range rows {
		free := true

		for _, other := range placed {
			if other.intersects(band) {
				free = false

				break
			}
		}

		if free {
			return n
		}
	}

	return len(rows)
}
