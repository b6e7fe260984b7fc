package dates

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysInRange_StartAfterEnd(t *testing.T) {
	_, err := DaysInRange(date(2026, time.June, 12), date(2026, time.June, 10))
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestDaysInRange_SingleDay(t *testing.T) {
	days, err := DaysInRange(date(2026, time.June, 10), date(2026, time.June, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}
	if !days[0].Equal(date(2026, time.June, 10)) {
		t.Errorf("expected %v, got %v", date(2026, time.June, 10), days[0])
	}
}

func TestDaysInRange_Inclusive(t *testing.T) {
	days, err := DaysInRange(date(2026, time.June, 10), date(2026, time.June, 13))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 4 {
		t.Fatalf("expected 4 days, got %d", len(days))
	}
	for i, want := range []time.Time{
		date(2026, time.June, 10),
		date(2026, time.June, 11),
		date(2026, time.June, 12),
		date(2026, time.June, 13),
	} {
		if !days[i].Equal(want) {
			t.Errorf("day %d: expected %v, got %v", i, want, days[i])
		}
	}
}

func TestDaysInRange_NormalizesTimeOfDay(t *testing.T) {
	start := time.Date(2026, time.June, 10, 15, 30, 45, 0, time.UTC)
	end := time.Date(2026, time.June, 11, 9, 1, 2, 0, time.UTC)

	days, err := DaysInRange(start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	for _, d := range days {
		if d.Hour() != 0 || d.Minute() != 0 || d.Second() != 0 {
			t.Errorf("expected midnight-normalized day, got %v", d)
		}
	}
}

func TestDaysInRange_CrossesMonthBoundary(t *testing.T) {
	days, err := DaysInRange(date(2026, time.June, 29), date(2026, time.July, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 4 {
		t.Fatalf("expected 4 days, got %d", len(days))
	}
	if !days[3].Equal(date(2026, time.July, 2)) {
		t.Errorf("expected last day July 2, got %v", days[3])
	}
}

func TestNights_ExcludesCheckoutDay(t *testing.T) {
	nights, err := Nights(date(2026, time.June, 10), date(2026, time.June, 12))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nights) != 2 {
		t.Fatalf("expected 2 nights, got %d", len(nights))
	}
	if !nights[0].Equal(date(2026, time.June, 10)) || !nights[1].Equal(date(2026, time.June, 11)) {
		t.Errorf("expected nights Jun 10 and Jun 11, got %v", nights)
	}
}

func TestNights_ZeroLengthStay(t *testing.T) {
	_, err := Nights(date(2026, time.June, 10), date(2026, time.June, 10))
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for same-day checkout, got %v", err)
	}
}

func TestIntersects(t *testing.T) {
	stored := []time.Time{
		time.Date(2026, time.June, 11, 14, 0, 0, 0, time.UTC), // stored with time-of-day noise
		date(2026, time.June, 12),
	}

	conflict, found := Intersects([]time.Time{date(2026, time.June, 11)}, stored)
	if !found {
		t.Fatal("expected intersection on Jun 11")
	}
	if !conflict.Equal(date(2026, time.June, 11)) {
		t.Errorf("expected conflict day Jun 11, got %v", conflict)
	}

	if _, found := Intersects([]time.Time{date(2026, time.June, 13)}, stored); found {
		t.Error("expected no intersection for disjoint day")
	}
}
