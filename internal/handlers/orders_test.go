package handlers

import (
	"testing"
	"time"
)

func TestDayRangeSpansExactlyOneDay(t *testing.T) {
	loc := time.UTC
	from, to, err := dayRange("2024-05-01", loc)
	if err != nil {
		t.Fatalf("dayRange returned error: %v", err)
	}

	if !from.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, loc)) {
		t.Fatalf("unexpected range start %v", from)
	}
	if !to.Equal(time.Date(2024, 5, 2, 0, 0, 0, 0, loc)) {
		t.Fatalf("unexpected range end %v", to)
	}
}

func TestDayRangeExcludesNeighbouringDays(t *testing.T) {
	loc := time.UTC
	from, to, err := dayRange("2024-05-01", loc)
	if err != nil {
		t.Fatalf("dayRange returned error: %v", err)
	}

	inside := time.Date(2024, 5, 1, 23, 59, 59, 0, loc)
	if inside.Before(from) || !inside.Before(to) {
		t.Fatal("expected end of day to fall inside the range")
	}

	before := time.Date(2024, 4, 30, 23, 59, 59, 0, loc)
	if !before.Before(from) {
		t.Fatal("expected previous day to fall outside the range")
	}

	after := time.Date(2024, 5, 2, 0, 0, 0, 0, loc)
	if after.Before(to) {
		t.Fatal("expected next day midnight to fall outside the range")
	}
}

func TestDayRangeRejectsMalformedDates(t *testing.T) {
	for _, date := range []string{"", "01-05-2024", "2024-13-01", "yesterday"} {
		if _, _, err := dayRange(date, time.UTC); err == nil {
			t.Fatalf("expected error for date %q", date)
		}
	}
}
