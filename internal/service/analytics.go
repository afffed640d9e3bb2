package service

import (
	"context"
	"sort"
	"time"

	"github.com/tranxuanbinhn/goalflow-backend/internal/dates"
	"github.com/tranxuanbinhn/goalflow-backend/internal/metrics"
	"github.com/tranxuanbinhn/goalflow-backend/internal/models"
)

// taskStreak is the user-wide current streak over completed-task days.
func (s *Service) taskStreak(ctx context.Context, userID string, now time.Time) (int, error) {
	completions, err := s.Repo.ListTaskCompletionTimes(ctx, userID)
	if err != nil {
		return 0, err
	}
	return metrics.TaskStreak(completions, now), nil
}

// DailyReport assembles the report for one calendar day from a single range
// query over the user's tasks.
func (s *Service) DailyReport(ctx context.Context, userID string, target, now time.Time) (metrics.DailyReport, error) {
	settings, err := s.Settings(ctx, userID)
	if err != nil {
		return metrics.DailyReport{}, err
	}
	streak, err := s.taskStreak(ctx, userID, now)
	if err != nil {
		return metrics.DailyReport{}, err
	}
	tasks, err := s.Repo.ListTasksTouchingRange(ctx, userID, dates.StartOfDay(target), dates.EndOfDay(target))
	if err != nil {
		return metrics.DailyReport{}, err
	}
	return metrics.BuildDailyReport(tasks, target, settings.DailyGoal, streak), nil
}

func (s *Service) WeeklyReport(ctx context.Context, userID string, now time.Time) (metrics.WeeklyReport, error) {
	streak, err := s.taskStreak(ctx, userID, now)
	if err != nil {
		return metrics.WeeklyReport{}, err
	}
	from := dates.StartOfDay(dates.AddDays(now, -6))
	tasks, err := s.Repo.ListTasksTouchingRange(ctx, userID, from, dates.EndOfDay(now))
	if err != nil {
		return metrics.WeeklyReport{}, err
	}
	return metrics.BuildWeeklyReport(tasks, now, streak), nil
}

// MonthlyReport builds the heatmap-style month report. month is 0-indexed,
// January = 0.
func (s *Service) MonthlyReport(ctx context.Context, userID string, year, month int) (metrics.MonthlyReport, error) {
	first := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.Local)
	last := dates.EndOfDay(first.AddDate(0, 1, -1))
	tasks, err := s.Repo.ListTasksTouchingRange(ctx, userID, first, last)
	if err != nil {
		return metrics.MonthlyReport{}, err
	}
	return metrics.BuildMonthlyReport(tasks, year, month), nil
}

type StreakSummary struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

func (s *Service) Streaks(ctx context.Context, userID string, now time.Time) (StreakSummary, error) {
	completions, err := s.Repo.ListTaskCompletionTimes(ctx, userID)
	if err != nil {
		return StreakSummary{}, err
	}
	return StreakSummary{
		Current: metrics.TaskStreak(completions, now),
		Longest: metrics.LongestStreak(completions),
	}, nil
}

type RoadmapHabit struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type RoadmapItem struct {
	MilestoneID string                 `json:"milestone_id"`
	VisionID    string                 `json:"vision_id"`
	Title       string                 `json:"title"`
	Status      models.MilestoneStatus `json:"status"`
	TargetDate  time.Time              `json:"target_date"`
	Progress    int                    `json:"progress"`
	Habits      []RoadmapHabit         `json:"habits"`
}

type Overview struct {
	TotalVisionProgress  int                       `json:"total_vision_progress"`
	ConsistencyScore     int                       `json:"consistency_score"`
	BestStreak           int                       `json:"best_streak"`
	TotalTasksCompleted  int                       `json:"total_tasks_completed"`
	ActiveHabits         int                       `json:"active_habits"`
	CompletedTodayHabits int                       `json:"completed_today_habits"`
	Heatmap              []metrics.HeatmapEntry    `json:"heatmap"`
	VisionTrend          *metrics.VisionTrend      `json:"vision_trend"`
	Visions              []models.Vision           `json:"visions"`
	SelectedVisionID     string                    `json:"selected_vision_id,omitempty"`
	Roadmap              []RoadmapItem             `json:"roadmap"`
	LowCompletionHabits  []metrics.HabitCompletion `json:"low_completion_habits"`
}

const lowCompletionLimit = 5

// BuildOverview assembles the dashboard: vision progress, consistency,
// streaks, habit counters, the 365-day heatmap, and the roadmap plus trend
// line for the selected vision. When no vision id is requested the
// latest-updated vision is used; an unknown id selects nothing.
func (s *Service) BuildOverview(ctx context.Context, userID, selectedVisionID string, now time.Time) (Overview, error) {
	var overview Overview

	visions, err := s.Repo.ListVisions(ctx, userID)
	if err != nil {
		return Overview{}, err
	}
	progressSum := 0
	for i := range visions {
		for j := range visions[i].Milestones {
			visions[i].Milestones[j].Progress = metrics.MilestoneProgress(visions[i].Milestones[j])
		}
		visions[i].Progress = metrics.VisionProgress(visions[i])
		progressSum += visions[i].Progress
	}
	overview.Visions = visions
	if len(visions) > 0 {
		overview.TotalVisionProgress = metrics.Percent(float64(progressSum), float64(len(visions)*100))
	}

	habits, err := s.ListHabits(ctx, userID, "")
	if err != nil {
		return Overview{}, err
	}
	windowStart := dates.AddDays(dates.StartOfDay(now), -(metrics.ConsistencyWindowDays - 1))
	counts, err := s.Repo.CountCompletedActivities(ctx, userID, windowStart, dates.EndOfDay(now))
	if err != nil {
		return Overview{}, err
	}
	score, rates := metrics.Consistency(habits, counts, now)
	overview.ConsistencyScore = score
	overview.LowCompletionHabits = metrics.LowestCompletionHabits(rates, lowCompletionLimit)

	if overview.BestStreak, err = s.Repo.BestHabitStreak(ctx, userID); err != nil {
		return Overview{}, err
	}
	if overview.TotalTasksCompleted, err = s.Repo.CountCompletedTasks(ctx, userID); err != nil {
		return Overview{}, err
	}
	if overview.ActiveHabits, err = s.Repo.CountActiveHabits(ctx, userID); err != nil {
		return Overview{}, err
	}
	if overview.CompletedTodayHabits, err = s.Repo.CountCompletedTodayHabits(ctx, userID); err != nil {
		return Overview{}, err
	}

	heatmapStart := dates.AddDays(dates.StartOfDay(now), -(metrics.HeatmapWindowDays - 1))
	activityDays, err := s.Repo.ListCompletedActivityDates(ctx, userID, heatmapStart, dates.EndOfDay(now))
	if err != nil {
		return Overview{}, err
	}
	taskTimes, err := s.Repo.ListTaskCompletionTimesInRange(ctx, userID, heatmapStart, dates.EndOfDay(now))
	if err != nil {
		return Overview{}, err
	}
	overview.Heatmap = metrics.Heatmap(activityDays, taskTimes, now)

	if selected := selectVision(visions, selectedVisionID); selected != nil {
		overview.SelectedVisionID = selected.ID
		overview.VisionTrend = metrics.BuildVisionTrend(*selected, now)
		if selected.TargetDate != nil {
			overview.Roadmap = buildRoadmap(*selected)
		}
	}
	return overview, nil
}

// buildRoadmap lists the vision's dated milestones, soonest first.
func buildRoadmap(v models.Vision) []RoadmapItem {
	var items []RoadmapItem
	for _, m := range v.Milestones {
		if m.TargetDate == nil {
			continue
		}
		item := RoadmapItem{
			MilestoneID: m.ID,
			VisionID:    v.ID,
			Title:       m.Title,
			Status:      m.Status,
			TargetDate:  *m.TargetDate,
			Progress:    m.Progress,
		}
		for _, h := range m.Habits {
			item.Habits = append(item.Habits, RoadmapHabit{ID: h.ID, Title: h.Title})
		}
		items = append(items, item)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].TargetDate.Before(items[j].TargetDate)
	})
	return items
}

// selectVision resolves which vision the roadmap and trend line track. A
// requested id matches exactly or selects nothing; with no id the most
// recently updated vision is used.
func selectVision(visions []models.Vision, selectedVisionID string) *models.Vision {
	if len(visions) == 0 {
		return nil
	}
	if selectedVisionID != "" {
		for i := range visions {
			if visions[i].ID == selectedVisionID {
				return &visions[i]
			}
		}
		return nil
	}
	selected := &visions[0]
	for i := range visions {
		if visions[i].UpdatedAt.After(selected.UpdatedAt) {
			selected = &visions[i]
		}
	}
	return selected
}
