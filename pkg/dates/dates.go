// Package dates is the single authority for expanding a stay into the
// calendar days it touches. Every availability comparison in the system
// goes through DaysInRange and Day so time-of-day noise can never cause
// a false mismatch between a request and a stored unavailable date.
package dates

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("start date is after end date")

// Day normalizes a timestamp to midnight UTC.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysInRange returns the ordered, inclusive sequence of normalized days
// from start to end, stepping one calendar day at a time. start == end
// yields a single-day sequence.
func DaysInRange(start, end time.Time) ([]time.Time, error) {
	first := Day(start)
	last := Day(end)

	if first.After(last) {
		return nil, ErrInvalidRange
	}

	var days []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days, nil
}

// Nights returns the days a guest actually occupies a room for a
// [checkIn, checkOut) stay: check-in day through the day before
// check-out. The checkout day stays bookable by an adjacent stay.
func Nights(checkIn, checkOut time.Time) ([]time.Time, error) {
	in := Day(checkIn)
	out := Day(checkOut)

	if !in.Before(out) {
		return nil, ErrInvalidRange
	}
	return DaysInRange(in, out.AddDate(0, 0, -1))
}

// Intersects reports whether any of the requested days appears in the
// stored set, comparing by exact normalized-day equality.
func Intersects(requested, stored []time.Time) (time.Time, bool) {
	taken := make(map[time.Time]struct{}, len(stored))
	for _, d := range stored {
		taken[Day(d)] = struct{}{}
	}
	for _, d := range requested {
		if _, ok := taken[Day(d)]; ok {
			return Day(d), true
		}
	}
	return time.Time{}, false
}
