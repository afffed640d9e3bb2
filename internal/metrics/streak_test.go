package metrics

import (
	"testing"
	"time"

	"github.com/tranxuanbinhn/goalflow-backend/internal/dates"
	"github.com/tranxuanbinhn/goalflow-backend/internal/models"
)

var testNow = time.Date(2025, 6, 15, 14, 30, 0, 0, time.Local)

func activityDaysBack(now time.Time, daysBack ...int) []models.HabitActivity {
	acts := make([]models.HabitActivity, 0, len(daysBack))
	for _, d := range daysBack {
		acts = append(acts, models.HabitActivity{
			HabitID:   "h1",
			Date:      dates.AddDays(dates.StartOfDay(now), -d),
			Completed: true,
		})
	}
	return acts
}

func TestHabitStreakEmptyLog(t *testing.T) {
	if got := HabitStreak(nil, 7, testNow); got != 0 {
		t.Fatalf("empty log: got %d, want 0", got)
	}
}

func TestHabitStreakNoFrequency(t *testing.T) {
	acts := activityDaysBack(testNow, 0, 1, 2)
	if got := HabitStreak(acts, 0, testNow); got != 0 {
		t.Fatalf("zero frequency: got %d, want 0", got)
	}
}

func TestHabitStreakFullWindow(t *testing.T) {
	// Completed every day from 9 days back through today: streak = 10.
	acts := activityDaysBack(testNow, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	if got := HabitStreak(acts, 7, testNow); got != 10 {
		t.Fatalf("got %d, want 10", got)
	}
}

func TestHabitStreakTodayMissingDoesNotBreak(t *testing.T) {
	// Not completed today, completed days 1..5 back, gap at day 6.
	acts := activityDaysBack(testNow, 1, 2, 3, 4, 5)
	if got := HabitStreak(acts, 7, testNow); got != 5 {
		t.Fatalf("got %d, want 5", got)
	}
}

func TestHabitStreakPastGapBreaks(t *testing.T) {
	// 8 of the last 10 days completed, not today, gap at day 3:
	// today skipped, days 1-2 count, day 3 missing past day stops the walk.
	acts := activityDaysBack(testNow, 1, 2, 4, 5, 6, 7, 8, 9)
	if got := HabitStreak(acts, 7, testNow); got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
}

func TestHabitStreakCappedAt365(t *testing.T) {
	days := make([]int, 400)
	for i := range days {
		days[i] = i
	}
	acts := activityDaysBack(testNow, days...)
	if got := HabitStreak(acts, 7, testNow); got != 365 {
		t.Fatalf("got %d, want cap 365", got)
	}
}

func TestHabitStreakIgnoresUncompletedRecords(t *testing.T) {
	acts := activityDaysBack(testNow, 0, 1)
	acts = append(acts, models.HabitActivity{
		HabitID:   "h1",
		Date:      dates.AddDays(dates.StartOfDay(testNow), -2),
		Completed: false,
	})
	if got := HabitStreak(acts, 7, testNow); got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
}

func TestHabitStreakIdempotent(t *testing.T) {
	acts := activityDaysBack(testNow, 0, 1, 2, 5, 6)
	first := HabitStreak(acts, 3, testNow)
	second := HabitStreak(acts, 3, testNow)
	if first != second {
		t.Fatalf("recomputation differs: %d vs %d", first, second)
	}
	if first != 3 {
		t.Fatalf("got %d, want 3", first)
	}
}

func completionsDaysBack(now time.Time, daysBack ...int) []time.Time {
	out := make([]time.Time, 0, len(daysBack))
	for _, d := range daysBack {
		out = append(out, dates.AddDays(now, -d))
	}
	return out
}

func TestTaskStreakWalk(t *testing.T) {
	tests := []struct {
		name     string
		daysBack []int
		want     int
	}{
		{"empty", nil, 0},
		{"today only", []int{0}, 1},
		{"today and yesterday", []int{0, 1}, 2},
		{"yesterday only, today open", []int{1}, 1},
		{"gap two days back", []int{0, 1, 3}, 2},
		{"stale completion", []int{5}, 0},
	}
	for _, tt := range tests {
		got := TaskStreak(completionsDaysBack(testNow, tt.daysBack...), testNow)
		if got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestLongestStreak(t *testing.T) {
	tests := []struct {
		name     string
		daysBack []int
		want     int
	}{
		{"empty", nil, 0},
		{"single day", []int{10}, 1},
		{"duplicates on one day count once", []int{10, 10, 10}, 1},
		{"run of three", []int{12, 11, 10}, 3},
		{"two runs, longest wins", []int{20, 19, 10, 9, 8, 7}, 4},
		{"run not ending today still counts", []int{300, 299, 298}, 3},
	}
	for _, tt := range tests {
		got := LongestStreak(completionsDaysBack(testNow, tt.daysBack...))
		if got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestLongestStreakUnordered(t *testing.T) {
	// Input order must not matter.
	completions := completionsDaysBack(testNow, 3, 1, 2, 5)
	if got := LongestStreak(completions); got != 3 {
		t.Fatalf("got %d, want 3", got)
	}
}
