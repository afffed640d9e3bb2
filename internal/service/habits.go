package service

import (
	"context"
	"time"

	"github.com/tranxuanbinhn/goalflow-backend/internal/dates"
	"github.com/tranxuanbinhn/goalflow-backend/internal/metrics"
	"github.com/tranxuanbinhn/goalflow-backend/internal/models"
	"github.com/tranxuanbinhn/goalflow-backend/internal/repo"
)

func (s *Service) CreateHabit(ctx context.Context, userID string, h models.Habit) (models.Habit, error) {
	id, err := s.Repo.CreateHabit(ctx, userID, h)
	if err != nil {
		return models.Habit{}, err
	}
	return s.Repo.GetHabit(ctx, id, userID)
}

// ListHabits rolls over stale completed_today flags before reading, so the
// cache self-heals at midnight without a scheduler.
func (s *Service) ListHabits(ctx context.Context, userID, milestoneID string) ([]models.Habit, error) {
	if err := s.Repo.ResetCompletedToday(ctx, userID, dates.StartOfDay(time.Now())); err != nil {
		return nil, err
	}
	return s.Repo.ListHabits(ctx, userID, milestoneID)
}

func (s *Service) GetHabit(ctx context.Context, userID, habitID string) (models.Habit, error) {
	if err := s.Repo.ResetCompletedToday(ctx, userID, dates.StartOfDay(time.Now())); err != nil {
		return models.Habit{}, err
	}
	return s.Repo.GetHabit(ctx, habitID, userID)
}

// UpdateHabit applies the partial update and recomputes the streak cache: a
// frequency change wipes the activity log, so the streak restarts from zero.
func (s *Service) UpdateHabit(ctx context.Context, userID, habitID string, upd repo.HabitUpdate) (models.Habit, error) {
	if err := s.Repo.UpdateHabit(ctx, habitID, userID, upd); err != nil {
		return models.Habit{}, err
	}
	return s.recomputeHabit(ctx, userID, habitID, time.Now())
}

func (s *Service) DeleteHabit(ctx context.Context, userID, habitID string) error {
	return s.Repo.DeleteHabit(ctx, habitID, userID)
}

// ToggleHabitToday flips today's completion for a habit. Completing is
// refused while the habit still has open tasks created today; un-completing
// reverts those tasks and today's audit rows, then both paths rebuild the
// derived caches from the activity log.
func (s *Service) ToggleHabitToday(ctx context.Context, userID, habitID string, now time.Time) (models.Habit, error) {
	habit, err := s.GetHabit(ctx, userID, habitID)
	if err != nil {
		return models.Habit{}, err
	}
	start, end := dates.StartOfDay(now), dates.EndOfDay(now)

	if habit.CompletedToday {
		if err := s.Repo.UncompleteHabitTasks(ctx, habitID); err != nil {
			return models.Habit{}, err
		}
		if err := s.Repo.UpsertHabitActivity(ctx, habitID, now, false); err != nil {
			return models.Habit{}, err
		}
		if err := s.Repo.DeleteHabitCompletionsInDay(ctx, habitID, start, end); err != nil {
			return models.Habit{}, err
		}
		// last_completed_at records the latest attempt either way.
		if err := s.Repo.SetHabitCompletedToday(ctx, habitID, false, &now); err != nil {
			return models.Habit{}, err
		}
	} else {
		todayTasks, err := s.Repo.ListHabitTasksInDay(ctx, habitID, start, end)
		if err != nil {
			return models.Habit{}, err
		}
		for _, t := range todayTasks {
			if t.Status != models.TaskCompleted {
				return models.Habit{}, repo.ErrHasOpenTasks
			}
		}
		if err := s.completeHabitToday(ctx, habitID, now); err != nil {
			return models.Habit{}, err
		}
	}
	return s.recomputeHabit(ctx, userID, habitID, now)
}

func (s *Service) completeHabitToday(ctx context.Context, habitID string, now time.Time) error {
	if err := s.Repo.UpsertHabitActivity(ctx, habitID, now, true); err != nil {
		return err
	}
	if err := s.Repo.CreateHabitCompletion(ctx, habitID, now); err != nil {
		return err
	}
	return s.Repo.SetHabitCompletedToday(ctx, habitID, true, &now)
}

// SyncHabitAfterTaskChange reconciles a habit's today-completion with its
// tasks after one of them changed status: the habit completes automatically
// once every task created today is done, and reopens when one of them is
// reverted.
func (s *Service) SyncHabitAfterTaskChange(ctx context.Context, userID, habitID string, now time.Time) error {
	habit, err := s.Repo.GetHabit(ctx, habitID, userID)
	if err != nil {
		return err
	}
	start, end := dates.StartOfDay(now), dates.EndOfDay(now)
	todayTasks, err := s.Repo.ListHabitTasksInDay(ctx, habitID, start, end)
	if err != nil {
		return err
	}
	allDone := len(todayTasks) > 0
	for _, t := range todayTasks {
		if t.Status != models.TaskCompleted {
			allDone = false
			break
		}
	}

	switch {
	case allDone && !habit.CompletedToday:
		if err := s.completeHabitToday(ctx, habitID, now); err != nil {
			return err
		}
	case !allDone && habit.CompletedToday:
		if err := s.Repo.UpsertHabitActivity(ctx, habitID, now, false); err != nil {
			return err
		}
		if err := s.Repo.DeleteHabitCompletionsInDay(ctx, habitID, start, end); err != nil {
			return err
		}
		if err := s.Repo.SetHabitCompletedToday(ctx, habitID, false, &now); err != nil {
			return err
		}
	default:
		return nil
	}
	_, err = s.recomputeHabit(ctx, userID, habitID, now)
	return err
}

// ResyncHabitStreak rebuilds the streak cache from the activity log.
func (s *Service) ResyncHabitStreak(ctx context.Context, userID, habitID string, now time.Time) (models.Habit, error) {
	return s.recomputeHabit(ctx, userID, habitID, now)
}

// ResyncAllStreaks rebuilds every habit streak for the user, returning the
// number of habits touched.
func (s *Service) ResyncAllStreaks(ctx context.Context, userID string, now time.Time) (int, error) {
	ids, err := s.Repo.ListHabitIDs(ctx, userID)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		if _, err := s.recomputeHabit(ctx, userID, id, now); err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}

func (s *Service) recomputeHabit(ctx context.Context, userID, habitID string, now time.Time) (models.Habit, error) {
	habit, err := s.Repo.GetHabit(ctx, habitID, userID)
	if err != nil {
		return models.Habit{}, err
	}
	activities, err := s.Repo.ListCompletedActivities(ctx, habitID)
	if err != nil {
		return models.Habit{}, err
	}
	streak := metrics.HabitStreak(activities, habit.FrequencyPerWeek, now)
	if streak != habit.Streak {
		if err := s.Repo.SetHabitStreak(ctx, habitID, streak); err != nil {
			return models.Habit{}, err
		}
		habit.Streak = streak
	}
	return habit, nil
}

// ActivityDay is one day of a habit's recent history, zero-filled.
type ActivityDay struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

// HabitActivityWindow returns the habit's last `days` days oldest-first,
// with a row for every day whether or not the log has one.
func (s *Service) HabitActivityWindow(ctx context.Context, userID, habitID string, days int, now time.Time) ([]ActivityDay, error) {
	if _, err := s.Repo.GetHabit(ctx, habitID, userID); err != nil {
		return nil, err
	}
	start := dates.StartOfDay(dates.AddDays(now, -(days - 1)))
	activities, err := s.Repo.ListActivitiesInRange(ctx, habitID, start, dates.EndOfDay(now))
	if err != nil {
		return nil, err
	}
	completed := make(map[string]bool, len(activities))
	for _, a := range activities {
		if a.Completed {
			completed[dates.Key(a.Date)] = true
		}
	}
	out := make([]ActivityDay, 0, days)
	for day := start; !day.After(now); day = dates.AddDays(day, 1) {
		key := dates.Key(day)
		out = append(out, ActivityDay{Date: key, Completed: completed[key]})
	}
	return out, nil
}
