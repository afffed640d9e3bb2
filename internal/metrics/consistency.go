package metrics

import (
	"sort"
	"time"

	"github.com/tranxuanbinhn/goalflow-backend/internal/dates"
	"github.com/tranxuanbinhn/goalflow-backend/internal/models"
)

// ConsistencyWindowDays is the trailing window for the consistency score,
// today inclusive.
const ConsistencyWindowDays = 30

// HeatmapWindowDays is the trailing window for the completion heatmap,
// today inclusive.
const HeatmapWindowDays = 365

// HabitCompletion is one habit's completion rate over the consistency window.
type HabitCompletion struct {
	HabitID        string `json:"habit_id"`
	Title          string `json:"title"`
	CompletionRate int    `json:"completion_rate"`
}

// Consistency aggregates every qualifying habit's actual-vs-expected activity
// over the trailing 30-day window into a single 0-100 score, plus a
// per-habit completion-rate breakdown in input order.
//
// completedInWindow maps habit ID to its count of completed activity records
// inside the window. A habit created mid-window is only expected to perform
// from its creation day; habits with no weekly frequency are skipped. With no
// qualifying habits the score is 0, never NaN.
func Consistency(habits []models.Habit, completedInWindow map[string]int, now time.Time) (int, []HabitCompletion) {
	today := dates.StartOfDay(now)
	windowStart := dates.AddDays(today, -(ConsistencyWindowDays - 1))

	var totalExpected, totalActual float64
	var perHabit []HabitCompletion

	for _, h := range habits {
		if h.FrequencyPerWeek <= 0 {
			continue
		}
		activeStart := dates.StartOfDay(h.CreatedAt)
		if activeStart.Before(windowStart) {
			activeStart = windowStart
		}
		activeDays := dates.DaysBetween(activeStart, today) + 1
		if activeDays <= 0 {
			continue
		}
		expected := HabitExpected(h.FrequencyPerWeek, activeDays)
		if expected <= 0 {
			continue
		}
		actual := float64(completedInWindow[h.ID])

		totalExpected += expected
		totalActual += actual
		perHabit = append(perHabit, HabitCompletion{
			HabitID:        h.ID,
			Title:          h.Title,
			CompletionRate: Percent(actual, expected),
		})
	}

	return Percent(totalActual, totalExpected), perHabit
}

// LowestCompletionHabits returns up to limit habits with the lowest
// completion rates, ascending. Ties keep their input order.
func LowestCompletionHabits(rates []HabitCompletion, limit int) []HabitCompletion {
	sorted := make([]HabitCompletion, len(rates))
	copy(sorted, rates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CompletionRate < sorted[j].CompletionRate
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// HeatmapEntry is one day's merged completion count.
type HeatmapEntry struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Heatmap merges completed habit activity days and task completion times
// into one count per calendar day over the trailing 365-day window. The
// result always has exactly 365 entries in chronological order, zero-filled
// for days with no activity.
func Heatmap(activityDays []time.Time, taskCompletions []time.Time, now time.Time) []HeatmapEntry {
	counts := make(map[string]int)
	for _, d := range activityDays {
		counts[dates.Key(d)]++
	}
	for _, c := range taskCompletions {
		counts[dates.Key(c)]++
	}

	start := dates.AddDays(dates.StartOfDay(now), -(HeatmapWindowDays - 1))
	entries := make([]HeatmapEntry, 0, HeatmapWindowDays)
	for i := 0; i < HeatmapWindowDays; i++ {
		key := dates.Key(dates.AddDays(start, i))
		entries = append(entries, HeatmapEntry{Date: key, Count: counts[key]})
	}
	return entries
}
