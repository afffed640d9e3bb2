package dates

import (
	"testing"
	"time"
)

func TestStartEndOfDay(t *testing.T) {
	in := time.Date(2025, 6, 15, 13, 45, 12, 500, time.Local)
	start := StartOfDay(in)
	if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 || start.Nanosecond() != 0 {
		t.Fatalf("start of day not midnight: %v", start)
	}
	end := EndOfDay(in)
	if end.Hour() != 23 || end.Minute() != 59 || end.Second() != 59 {
		t.Fatalf("end of day wrong: %v", end)
	}
	if !SameDay(start, end) {
		t.Fatalf("start and end on different days")
	}
}

func TestKeyIgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2025, 1, 2, 0, 0, 1, 0, time.Local)
	night := time.Date(2025, 1, 2, 23, 59, 59, 0, time.Local)
	if Key(morning) != "2025-01-02" || Key(night) != "2025-01-02" {
		t.Fatalf("keys differ: %s vs %s", Key(morning), Key(night))
	}
}

func TestParseKeyRoundTrip(t *testing.T) {
	day, err := ParseKey("2024-02-29")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if Key(day) != "2024-02-29" {
		t.Fatalf("round trip: %s", Key(day))
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same day", time.Date(2025, 3, 10, 1, 0, 0, 0, time.Local), time.Date(2025, 3, 10, 23, 0, 0, 0, time.Local), 0},
		{"next day", time.Date(2025, 3, 10, 23, 0, 0, 0, time.Local), time.Date(2025, 3, 11, 1, 0, 0, 0, time.Local), 1},
		{"week apart", time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local), time.Date(2025, 3, 8, 12, 0, 0, 0, time.Local), 7},
		{"reversed", time.Date(2025, 3, 8, 0, 0, 0, 0, time.Local), time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local), -7},
		{"month boundary", time.Date(2025, 1, 31, 0, 0, 0, 0, time.Local), time.Date(2025, 2, 1, 0, 0, 0, 0, time.Local), 1},
		{"leap day", time.Date(2024, 2, 28, 0, 0, 0, 0, time.Local), time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local), 2},
	}
	for _, tt := range tests {
		if got := DaysBetween(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestAddDaysAcrossMonth(t *testing.T) {
	start := time.Date(2025, 1, 30, 10, 0, 0, 0, time.Local)
	got := AddDays(start, 3)
	if Key(got) != "2025-02-02" {
		t.Fatalf("expected 2025-02-02, got %s", Key(got))
	}
}
