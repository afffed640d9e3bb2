package metrics

import (
	"math"
	"time"

	"github.com/tranxuanbinhn/goalflow-backend/internal/dates"
	"github.com/tranxuanbinhn/goalflow-backend/internal/models"
)

// Percent converts an actual/expected ratio into an integer percentage in
// [0,100]. Division by zero and negative inputs resolve to 0, never NaN.
func Percent(actual, expected float64) int {
	if expected <= 0 {
		return 0
	}
	ratio := actual / expected
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return int(math.Round(ratio * 100))
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// HabitExpected is the number of completions expected from a habit over an
// inclusive window of totalDays: totalDays scaled by frequencyPerWeek/7.
func HabitExpected(frequencyPerWeek, totalDays int) float64 {
	if frequencyPerWeek <= 0 || totalDays <= 0 {
		return 0
	}
	return float64(totalDays) * (float64(frequencyPerWeek) / 7)
}

// MilestoneProgress derives a milestone's 0-100 progress over its lifecycle
// window [createdAt, targetDate], both ends inclusive. Expected counts come
// from each attached habit's weekly frequency; actual counts are the habit's
// completed activity records (the habit's whole log, not window-bounded).
// A milestone with no habits, no target date or an inverted window is at 0.
func MilestoneProgress(m models.Milestone) int {
	if len(m.Habits) == 0 || m.TargetDate == nil {
		return 0
	}
	totalDays := dates.DaysBetween(m.CreatedAt, *m.TargetDate) + 1
	if totalDays <= 0 {
		return 0
	}

	var expected, actual float64
	for _, h := range m.Habits {
		if h.FrequencyPerWeek <= 0 {
			continue
		}
		expected += HabitExpected(h.FrequencyPerWeek, totalDays)
		for _, a := range h.Activities {
			if a.Completed {
				actual++
			}
		}
	}
	return Percent(actual, expected)
}

// VisionProgress is the unweighted mean of the vision's milestone progress
// values, each independently computed and already rounded, then rounded and
// clamped again. It is deliberately NOT a roll-up of the underlying habit
// counts: each milestone's rounding error propagates into the average.
func VisionProgress(v models.Vision) int {
	if len(v.Milestones) == 0 {
		return 0
	}
	sum := 0
	for _, m := range v.Milestones {
		sum += MilestoneProgress(m)
	}
	avg := float64(sum) / float64(len(v.Milestones))
	return clampPercent(int(math.Round(avg)))
}

// TrendPoint is one point of a vision's progress chart. Current is nil at
// the window end, where actual progress is not yet known.
type TrendPoint struct {
	Date    string `json:"date"`
	Current *int   `json:"current"`
	Ideal   int    `json:"ideal"`
}

// VisionTrend charts ideal vs actual progress over a vision's lifecycle.
type VisionTrend struct {
	VisionID           string       `json:"vision_id"`
	Title              string       `json:"title"`
	StartDate          string       `json:"start_date"`
	TargetDate         string       `json:"target_date"`
	CurrentProgress    int          `json:"current_progress"`
	IdealProgressToday int          `json:"ideal_progress_today"`
	Line               []TrendPoint `json:"line"`
}

// BuildVisionTrend produces the three-point trend line for a vision: window
// start (0/0), today clamped into the window (actual vs linearly interpolated
// ideal), and the target date (ideal 100, actual unknown). Returns nil when
// the vision has no target date.
func BuildVisionTrend(v models.Vision, now time.Time) *VisionTrend {
	if v.TargetDate == nil {
		return nil
	}
	start := dates.StartOfDay(v.CreatedAt)
	target := dates.StartOfDay(*v.TargetDate)
	totalDays := dates.DaysBetween(start, target)

	today := dates.StartOfDay(now)
	clamped := today
	if clamped.Before(start) {
		clamped = start
	} else if clamped.After(target) {
		clamped = target
	}

	current := VisionProgress(v)
	ideal := 0
	if totalDays > 0 {
		elapsed := dates.DaysBetween(start, clamped)
		ideal = clampPercent(int(math.Round(float64(elapsed) / float64(totalDays) * 100)))
	}

	zero := 0
	cur := current
	return &VisionTrend{
		VisionID:           v.ID,
		Title:              v.Title,
		StartDate:          dates.Key(start),
		TargetDate:         dates.Key(target),
		CurrentProgress:    current,
		IdealProgressToday: ideal,
		Line: []TrendPoint{
			{Date: dates.Key(start), Current: &zero, Ideal: 0},
			{Date: dates.Key(clamped), Current: &cur, Ideal: ideal},
			{Date: dates.Key(target), Current: nil, Ideal: 100},
		},
	}
}
