package metrics

import (
	"math"
	"time"

	"github.com/tranxuanbinhn/goalflow-backend/internal/dates"
	"github.com/tranxuanbinhn/goalflow-backend/internal/models"
)

// DailyReport summarizes one calendar day's task work. Streak is the
// user-wide task streak, one value for the whole report.
type DailyReport struct {
	Date           string `json:"date"`
	TotalTasks     int    `json:"total_tasks"`
	CompletedTasks int    `json:"completed_tasks"`
	CompletionRate int    `json:"completion_rate"`
	EnergyLevel    int    `json:"energy_level"`
	Streak         int    `json:"streak"`
}

// WeekDay is one day of the weekly report.
type WeekDay struct {
	Date           string `json:"date"`
	DayName        string `json:"day_name"`
	TotalTasks     int    `json:"total_tasks"`
	CompletedTasks int    `json:"completed_tasks"`
	CompletionRate int    `json:"completion_rate"`
}

type WeeklyReport struct {
	WeekData          []WeekDay `json:"week_data"`
	Streak            int       `json:"streak"`
	TotalCompleted    int       `json:"total_completed"`
	AverageCompletion int       `json:"average_completion"`
}

// MonthDay is one day of the monthly report.
type MonthDay struct {
	Date           string `json:"date"`
	CompletedTasks int    `json:"completed_tasks"`
	CompletionRate int    `json:"completion_rate"`
}

type MonthlyReport struct {
	Year           int        `json:"year"`
	Month          int        `json:"month"`
	HeatmapData    []MonthDay `json:"heatmap_data"`
	TotalCompleted int        `json:"total_completed"`
	AverageDaily   int        `json:"average_daily"`
}

// dayCounts buckets a task snapshot onto one calendar day. A task is in
// scope for the day when it was created that day or is due that day; a task
// matching both counts once. Completed counts tasks whose completion
// timestamp falls on the day.
func dayCounts(tasks []models.Task, day time.Time) (total, completed int) {
	for _, t := range tasks {
		inDay := dates.SameDay(t.CreatedAt, day)
		if !inDay && t.DueDate != nil && dates.SameDay(*t.DueDate, day) {
			inDay = true
		}
		if inDay {
			total++
		}
		if t.Status == models.TaskCompleted && t.CompletedAt != nil && dates.SameDay(*t.CompletedAt, day) {
			completed++
		}
	}
	return total, completed
}

func completionRate(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

func energyLevel(completed, dailyGoal int) int {
	if dailyGoal <= 0 {
		dailyGoal = models.DefaultDailyGoal
	}
	level := float64(completed) / float64(dailyGoal) * 100
	if level > 100 {
		level = 100
	}
	return int(math.Round(level))
}

// BuildDailyReport computes the report for target's calendar day from a task
// snapshot covering at least that day. dailyGoal comes from user settings;
// non-positive values fall back to the default.
func BuildDailyReport(tasks []models.Task, target time.Time, dailyGoal, streak int) DailyReport {
	total, completed := dayCounts(tasks, target)
	return DailyReport{
		Date:           dates.Key(target),
		TotalTasks:     total,
		CompletedTasks: completed,
		CompletionRate: completionRate(completed, total),
		EnergyLevel:    energyLevel(completed, dailyGoal),
		Streak:         streak,
	}
}

// BuildWeeklyReport applies the daily bucketing to the trailing 7 calendar
// days (6 days back through today, oldest first), tagging each with its
// 3-letter English weekday name.
func BuildWeeklyReport(tasks []models.Task, now time.Time, streak int) WeeklyReport {
	today := dates.StartOfDay(now)
	week := make([]WeekDay, 0, 7)
	totalCompleted := 0
	rateSum := 0

	for i := 6; i >= 0; i-- {
		day := dates.AddDays(today, -i)
		total, completed := dayCounts(tasks, day)
		rate := completionRate(completed, total)
		week = append(week, WeekDay{
			Date:           dates.Key(day),
			DayName:        day.Format("Mon"),
			TotalTasks:     total,
			CompletedTasks: completed,
			CompletionRate: rate,
		})
		totalCompleted += completed
		rateSum += rate
	}

	return WeeklyReport{
		WeekData:          week,
		Streak:            streak,
		TotalCompleted:    totalCompleted,
		AverageCompletion: int(math.Round(float64(rateSum) / 7)),
	}
}

// BuildMonthlyReport buckets the snapshot over every day of the given month.
// month is 0-indexed (0 = January), matching the report API.
func BuildMonthlyReport(tasks []models.Task, year, month int) MonthlyReport {
	first := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.Local)
	daysInMonth := dates.AddDays(first.AddDate(0, 1, 0), -1).Day()

	days := make([]MonthDay, 0, daysInMonth)
	totalCompleted := 0
	for i := 0; i < daysInMonth; i++ {
		day := dates.AddDays(first, i)
		total, completed := dayCounts(tasks, day)
		days = append(days, MonthDay{
			Date:           dates.Key(day),
			CompletedTasks: completed,
			CompletionRate: completionRate(completed, total),
		})
		totalCompleted += completed
	}

	return MonthlyReport{
		Year:           year,
		Month:          month,
		HeatmapData:    days,
		TotalCompleted: totalCompleted,
		AverageDaily:   int(math.Round(float64(totalCompleted) / float64(daysInMonth))),
	}
}
