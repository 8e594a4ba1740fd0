// Package availability answers capacity questions against a versioned snapshot of the
// reservation set. The index is an optimistic hint: the reservation store re-checks capacity
// atomically on every insert and extension.
package availability

import (
	"errors"
	"fmt"
	"time"

	"rolloff/shared/daterange"
)

var (
	ErrInvalidRange = daterange.ErrInvalidRange
	ErrInvalidUnits = errors.New("units needed must be at least one")
)

// Entry is the part of a reservation the index needs.
type Entry struct {
	ID              string          `json:"id"`
	ContainerTypeID string          `json:"container_type_id"`
	Dates           daterange.Range `json:"dates"`
	Cancelled       bool            `json:"cancelled"`
}

// Snapshot is the reservation read model taken at Version.
type Snapshot struct {
	Version  time.Time      `json:"version"`
	Capacity map[string]int `json:"capacity"`
	Entries  []Entry        `json:"entries"`
}

type DayAvailability struct {
	Date      time.Time `json:"date"`
	Remaining int       `json:"remaining"`
	Full      bool      `json:"full"`
}

// Index groups the active entries of a snapshot by container type.
type Index struct {
	version  time.Time
	capacity map[string]int
	active   map[string][]daterange.Range
}

func New(snapshot Snapshot) *Index {
	idx := &Index{
		version:  snapshot.Version,
		capacity: make(map[string]int, len(snapshot.Capacity)),
		active:   make(map[string][]daterange.Range),
	}

	for id, quantity := range snapshot.Capacity {
		idx.capacity[id] = quantity
	}

	for _, entry := range snapshot.Entries {
		if entry.Cancelled {
			continue
		}

		idx.active[entry.ContainerTypeID] = append(idx.active[entry.ContainerTypeID], entry.Dates)
	}

	return idx
}

func (i *Index) Version() time.Time {
	return i.version
}

// Known reports whether the snapshot carries a capacity for the container type.
func (i *Index) Known(containerTypeID string) bool {
	_, ok := i.capacity[containerTypeID]

	return ok
}

// IsRangeAvailable reports whether unitsNeeded more units fit on every day of [start, end].
// An unknown container type is never available.
func (i *Index) IsRangeAvailable(containerTypeID string, start, end time.Time, unitsNeeded int) (bool, error) {
	if unitsNeeded < 1 {
		return false, ErrInvalidUnits
	}

	dates, err := daterange.New(start, end)
	if err != nil {
		return false, err
	}

	capacity, ok := i.capacity[containerTypeID]
	if !ok {
		return false, nil
	}

	if capacity <= 0 {
		return false, fmt.Errorf("%w: container type %s has no capacity", ErrInvalidRange, containerTypeID)
	}

	for _, day := range dates.Days() {
		if i.count(containerTypeID, day)+unitsNeeded > capacity {
			return false, nil
		}
	}

	return true, nil
}

// RemainingUnits is the number of free units on day, never below zero.
func (i *Index) RemainingUnits(containerTypeID string, day time.Time) int {
	capacity, ok := i.capacity[containerTypeID]
	if !ok {
		return 0
	}

	return max(0, capacity-i.count(containerTypeID, daterange.Day(day)))
}

// Days lists the remaining units for every day of dates.
func (i *Index) Days(containerTypeID string, dates daterange.Range) []DayAvailability {
	days := dates.Days()
	res := make([]DayAvailability, len(days))

	for n, day := range days {
		remaining := i.RemainingUnits(containerTypeID, day)
		res[n] = DayAvailability{
			Date:      day,
			Remaining: remaining,
			Full:      remaining == 0,
		}
	}

	return res
}

func (i *Index) count(containerTypeID string, day time.Time) int {
	var n int

	for _, dates := range i.active[containerTypeID] {
		if dates.Contains(day) {
			n++
		}
	}

	return n
}
