package metrics

import (
	"testing"
	"time"

	"github.com/tranxuanbinhn/goalflow-backend/internal/dates"
	"github.com/tranxuanbinhn/goalflow-backend/internal/models"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		actual, expected float64
		want             int
	}{
		{0, 0, 0},
		{5, 0, 0},
		{0, 10, 0},
		{5, 10, 50},
		{10, 10, 100},
		{15, 10, 100}, // over-completion clamps
		{-3, 10, 0},
		{1, 3, 33},
		{2, 3, 67},
	}
	for _, tt := range tests {
		if got := Percent(tt.actual, tt.expected); got != tt.want {
			t.Errorf("Percent(%v, %v) = %d, want %d", tt.actual, tt.expected, got, tt.want)
		}
	}
}

func TestHabitExpected(t *testing.T) {
	if got := HabitExpected(7, 10); got != 10 {
		t.Fatalf("daily habit over 10 days: got %v, want 10", got)
	}
	if got := HabitExpected(0, 10); got != 0 {
		t.Fatalf("zero frequency: got %v, want 0", got)
	}
	if got := HabitExpected(7, -1); got != 0 {
		t.Fatalf("negative window: got %v, want 0", got)
	}
	// 3 days/week over a 14-day window expects 6 completions.
	if got := HabitExpected(3, 14); got != 6 {
		t.Fatalf("got %v, want 6", got)
	}
}

func milestoneFixture(created time.Time, targetDaysAhead int, habits ...models.Habit) models.Milestone {
	target := dates.AddDays(created, targetDaysAhead)
	return models.Milestone{
		ID:         "m1",
		VisionID:   "v1",
		CreatedAt:  created,
		TargetDate: &target,
		Habits:     habits,
	}
}

func habitWithCompleted(freq, completed int) models.Habit {
	h := models.Habit{ID: "h1", FrequencyPerWeek: freq, CreatedAt: testNow}
	for i := 0; i < completed; i++ {
		h.Activities = append(h.Activities, models.HabitActivity{
			HabitID:   h.ID,
			Date:      dates.AddDays(dates.StartOfDay(testNow), -i),
			Completed: true,
		})
	}
	return h
}

func TestMilestoneProgress(t *testing.T) {
	created := dates.AddDays(testNow, -6)

	// 7-day window, daily habit: expected 7, completed 7 -> 100%.
	m := milestoneFixture(created, 6, habitWithCompleted(7, 7))
	if got := MilestoneProgress(m); got != 100 {
		t.Fatalf("full completion: got %d, want 100", got)
	}

	// Half done.
	m = milestoneFixture(created, 6, habitWithCompleted(7, 4))
	if got := MilestoneProgress(m); got != 57 {
		t.Fatalf("partial: got %d, want 57", got)
	}

	// No habits.
	m = milestoneFixture(created, 6)
	if got := MilestoneProgress(m); got != 0 {
		t.Fatalf("no habits: got %d, want 0", got)
	}

	// No target date.
	m = milestoneFixture(created, 6, habitWithCompleted(7, 3))
	m.TargetDate = nil
	if got := MilestoneProgress(m); got != 0 {
		t.Fatalf("no target: got %d, want 0", got)
	}

	// Inverted window.
	m = milestoneFixture(created, -3, habitWithCompleted(7, 3))
	if got := MilestoneProgress(m); got != 0 {
		t.Fatalf("inverted window: got %d, want 0", got)
	}

	// Zero-frequency habits contribute nothing; expected total 0 -> 0.
	m = milestoneFixture(created, 6, habitWithCompleted(0, 5))
	if got := MilestoneProgress(m); got != 0 {
		t.Fatalf("only zero-frequency habits: got %d, want 0", got)
	}
}

func TestMilestoneProgressClamped(t *testing.T) {
	created := dates.AddDays(testNow, -2)
	// 3-day window, 1/week habit: expected 3/7, completed 3 -> way over 100.
	m := milestoneFixture(created, 2, habitWithCompleted(1, 3))
	if got := MilestoneProgress(m); got != 100 {
		t.Fatalf("got %d, want clamp at 100", got)
	}
}

func TestVisionProgressIsMeanOfRoundedMilestones(t *testing.T) {
	created := dates.AddDays(testNow, -6)
	v := models.Vision{
		ID: "v1",
		Milestones: []models.Milestone{
			milestoneFixture(created, 6, habitWithCompleted(7, 7)), // 100
			milestoneFixture(created, 6, habitWithCompleted(7, 4)), // 57
		},
	}
	// mean(100, 57) = 78.5 -> 79
	if got := VisionProgress(v); got != 79 {
		t.Fatalf("got %d, want 79", got)
	}
}

func TestVisionProgressEmptyMilestones(t *testing.T) {
	if got := VisionProgress(models.Vision{ID: "v1"}); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}

func TestVisionProgressRange(t *testing.T) {
	created := dates.AddDays(testNow, -9)
	for completed := 0; completed <= 15; completed++ {
		v := models.Vision{
			Milestones: []models.Milestone{
				milestoneFixture(created, 9, habitWithCompleted(7, completed)),
			},
		}
		got := VisionProgress(v)
		if got < 0 || got > 100 {
			t.Fatalf("completed=%d: progress %d out of [0,100]", completed, got)
		}
	}
}

func TestBuildVisionTrend(t *testing.T) {
	created := dates.AddDays(dates.StartOfDay(testNow), -10)
	target := dates.AddDays(dates.StartOfDay(testNow), 10)
	v := models.Vision{
		ID:         "v1",
		Title:      "Run a marathon",
		CreatedAt:  created,
		TargetDate: &target,
		Milestones: []models.Milestone{
			milestoneFixture(created, 20, habitWithCompleted(7, 10)),
		},
	}

	trend := BuildVisionTrend(v, testNow)
	if trend == nil {
		t.Fatal("expected trend")
	}
	if len(trend.Line) != 3 {
		t.Fatalf("expected 3 points, got %d", len(trend.Line))
	}
	if trend.Line[0].Ideal != 0 || *trend.Line[0].Current != 0 {
		t.Fatalf("start point wrong: %+v", trend.Line[0])
	}
	// Halfway through a 20-day window.
	if trend.IdealProgressToday != 50 {
		t.Fatalf("ideal today: got %d, want 50", trend.IdealProgressToday)
	}
	if trend.Line[1].Date != dates.Key(testNow) {
		t.Fatalf("mid point date: got %s", trend.Line[1].Date)
	}
	if trend.Line[2].Current != nil {
		t.Fatal("end point actual should be unknown")
	}
	if trend.Line[2].Ideal != 100 {
		t.Fatalf("end point ideal: got %d, want 100", trend.Line[2].Ideal)
	}
}

func TestBuildVisionTrendNoTarget(t *testing.T) {
	v := models.Vision{ID: "v1", CreatedAt: testNow}
	if trend := BuildVisionTrend(v, testNow); trend != nil {
		t.Fatal("expected nil trend without target date")
	}
}

func TestBuildVisionTrendTodayClampedIntoWindow(t *testing.T) {
	// Vision already past its target: today clamps to the target day.
	created := dates.AddDays(dates.StartOfDay(testNow), -30)
	target := dates.AddDays(dates.StartOfDay(testNow), -5)
	v := models.Vision{ID: "v1", CreatedAt: created, TargetDate: &target}

	trend := BuildVisionTrend(v, testNow)
	if trend == nil {
		t.Fatal("expected trend")
	}
	if trend.Line[1].Date != dates.Key(target) {
		t.Fatalf("mid point should clamp to target, got %s", trend.Line[1].Date)
	}
	if trend.IdealProgressToday != 100 {
		t.Fatalf("ideal after target: got %d, want 100", trend.IdealProgressToday)
	}
}
