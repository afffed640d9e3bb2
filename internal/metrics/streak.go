// Package metrics is the derived-metric engine: pure functions that turn raw
// entity snapshots (habit activity logs, task completion timestamps) into
// streaks, progress percentages, consistency scores, heatmaps and calendar
// reports. Nothing here touches storage; callers fetch snapshots, invoke the
// computation, and persist or serve the result. Every function is
// deterministic given the same inputs and the same "now".
package metrics

import (
	"sort"
	"time"

	"github.com/tranxuanbinhn/goalflow-backend/internal/dates"
	"github.com/tranxuanbinhn/goalflow-backend/internal/models"
)

// maxStreakDays caps how far back the streak walk goes. A streak is never
// reported longer than this.
const maxStreakDays = 365

// HabitStreak computes a habit's current streak from its activity log as of
// now's calendar day. Walking back from today, each day with a completed
// activity extends the streak; today without one is skipped rather than
// breaking the streak; the first past day without one ends the walk.
//
// frequencyPerWeek only gates the computation (a habit with no weekly target
// has no streak); every calendar day is treated as scheduled since the model
// carries no weekday mask.
func HabitStreak(activities []models.HabitActivity, frequencyPerWeek int, now time.Time) int {
	if frequencyPerWeek < 1 {
		return 0
	}
	completed := make(map[string]struct{}, len(activities))
	for _, a := range activities {
		if a.Completed {
			completed[dates.Key(a.Date)] = struct{}{}
		}
	}
	if len(completed) == 0 {
		return 0
	}

	today := dates.StartOfDay(now)
	check := today
	streak := 0
	for i := 0; i < maxStreakDays; i++ {
		if _, ok := completed[dates.Key(check)]; ok {
			streak++
			check = dates.AddDays(check, -1)
			continue
		}
		if dates.SameDay(check, today) {
			// Today not yet completed does not end a streak in progress.
			check = dates.AddDays(check, -1)
			continue
		}
		break
	}
	return streak
}

// TaskStreak computes the user-wide current streak from completed-task
// timestamps: consecutive calendar days ending at (or walking back from)
// today on which at least one task was completed. Same walk rules as
// HabitStreak, different source — the two are intentionally distinct
// operations and must not be unified.
func TaskStreak(completions []time.Time, now time.Time) int {
	days := make(map[string]struct{}, len(completions))
	for _, c := range completions {
		days[dates.Key(c)] = struct{}{}
	}

	today := dates.StartOfDay(now)
	check := today
	streak := 0
	for i := 0; i < maxStreakDays; i++ {
		if _, ok := days[dates.Key(check)]; ok {
			streak++
		} else if i > 0 {
			break
		}
		check = dates.AddDays(check, -1)
	}
	return streak
}

// LongestStreak derives the all-time longest run of consecutive completion
// days from completed-task timestamps. Duplicate completions on one day
// count once. Empty input yields 0; any completion at all yields at least 1.
func LongestStreak(completions []time.Time) int {
	if len(completions) == 0 {
		return 0
	}
	uniq := make(map[string]time.Time, len(completions))
	for _, c := range completions {
		day := dates.StartOfDay(c)
		uniq[dates.Key(day)] = day
	}
	days := make([]time.Time, 0, len(uniq))
	for _, d := range uniq {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest := 1
	run := 1
	for i := 1; i < len(days); i++ {
		if dates.DaysBetween(days[i-1], days[i]) == 1 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}
