package models

import (
	"testing"
	"time"
)

// 2026-01-05 is a Monday.
func mondayAt(hour, minute int) time.Time {
	return time.Date(2026, 1, 5, hour, minute, 0, 0, time.UTC)
}

func mondayHours(open, close string) BusinessHoursMap {
	return BusinessHoursMap{"monday": {Open: open, Close: close}}
}

func TestResolveRestaurantStatusWithinWindow(t *testing.T) {
	hours := mondayHours("09:00", "22:00")

	cases := []struct {
		now  time.Time
		want RestaurantStatus
	}{
		{mondayAt(8, 59), RestaurantClosed},
		{mondayAt(9, 0), RestaurantOpen},
		{mondayAt(12, 30), RestaurantOpen},
		{mondayAt(21, 59), RestaurantOpen},
		{mondayAt(22, 0), RestaurantClosed},
		{mondayAt(23, 15), RestaurantClosed},
	}
	for _, tc := range cases {
		got := ResolveRestaurantStatus(hours, OverrideAuto, tc.now)
		if got != tc.want {
			t.Fatalf("at %s: got %s; want %s", tc.now.Format("15:04"), got, tc.want)
		}
	}
}

func TestResolveRestaurantStatusManualOverrideWins(t *testing.T) {
	hours := mondayHours("09:00", "22:00")

	// Forced open outside the window.
	if got := ResolveRestaurantStatus(hours, OverrideOpen, mondayAt(3, 0)); got != RestaurantOpen {
		t.Fatalf("override open: got %s; want open", got)
	}
	// Forced closed inside the window.
	if got := ResolveRestaurantStatus(hours, OverrideClosed, mondayAt(12, 0)); got != RestaurantClosed {
		t.Fatalf("override closed: got %s; want closed", got)
	}
}

func TestResolveRestaurantStatusMissingDayClosed(t *testing.T) {
	hours := BusinessHoursMap{"tuesday": {Open: "09:00", Close: "22:00"}}
	if got := ResolveRestaurantStatus(hours, OverrideAuto, mondayAt(12, 0)); got != RestaurantClosed {
		t.Fatalf("missing weekday: got %s; want closed", got)
	}
	if got := ResolveRestaurantStatus(nil, OverrideAuto, mondayAt(12, 0)); got != RestaurantClosed {
		t.Fatalf("nil hours: got %s; want closed", got)
	}
}

func TestResolveRestaurantStatusEmptyWindowClosed(t *testing.T) {
	hours := mondayHours("", "")
	if got := ResolveRestaurantStatus(hours, OverrideAuto, mondayAt(12, 0)); got != RestaurantClosed {
		t.Fatalf("empty window: got %s; want closed", got)
	}
}

func TestParseBusinessHoursTolerant(t *testing.T) {
	if got := ParseBusinessHours(""); len(got) != 0 {
		t.Fatalf("empty text: got %d entries; want 0", len(got))
	}
	if got := ParseBusinessHours("{not json"); len(got) != 0 {
		t.Fatalf("malformed text: got %d entries; want 0", len(got))
	}

	got := ParseBusinessHours(`{"monday":{"open":"09:00","close":"22:00"}}`)
	if got["monday"].Open != "09:00" || got["monday"].Close != "22:00" {
		t.Fatalf("parsed entry mismatch: %+v", got["monday"])
	}
}
