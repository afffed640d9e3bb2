package metrics

import (
	"testing"
	"time"

	"github.com/tranxuanbinhn/goalflow-backend/internal/dates"
	"github.com/tranxuanbinhn/goalflow-backend/internal/models"
)

func taskAt(id string, created time.Time, due, completed *time.Time) models.Task {
	t := models.Task{ID: id, UserID: "u1", Status: models.TaskPending, CreatedAt: created, DueDate: due}
	if completed != nil {
		t.Status = models.TaskCompleted
		t.CompletedAt = completed
	}
	return t
}

func ptr(t time.Time) *time.Time { return &t }

func TestBuildDailyReportDedupesCreatedAndDue(t *testing.T) {
	today := dates.StartOfDay(testNow)
	// Created today AND due today: one task, counted once.
	tasks := []models.Task{
		taskAt("t1", today.Add(9*time.Hour), ptr(today.Add(18*time.Hour)), nil),
	}
	rep := BuildDailyReport(tasks, testNow, 5, 0)
	if rep.TotalTasks != 1 {
		t.Fatalf("got %d total, want 1", rep.TotalTasks)
	}
	if rep.CompletedTasks != 0 || rep.CompletionRate != 0 {
		t.Fatalf("unexpected completion: %+v", rep)
	}
}

func TestBuildDailyReportCounts(t *testing.T) {
	today := dates.StartOfDay(testNow)
	yesterday := dates.AddDays(today, -1)
	tasks := []models.Task{
		// Created today, completed today.
		taskAt("t1", today.Add(8*time.Hour), nil, ptr(today.Add(12*time.Hour))),
		// Created earlier, due today, still pending.
		taskAt("t2", yesterday, ptr(today.Add(17*time.Hour)), nil),
		// Created earlier, due yesterday: out of scope for today.
		taskAt("t3", yesterday, ptr(yesterday), nil),
	}
	rep := BuildDailyReport(tasks, testNow, 5, 3)
	if rep.TotalTasks != 2 {
		t.Fatalf("total: got %d, want 2", rep.TotalTasks)
	}
	if rep.CompletedTasks != 1 {
		t.Fatalf("completed: got %d, want 1", rep.CompletedTasks)
	}
	if rep.CompletionRate != 50 {
		t.Fatalf("rate: got %d, want 50", rep.CompletionRate)
	}
	// 1 of 5 daily goal.
	if rep.EnergyLevel != 20 {
		t.Fatalf("energy: got %d, want 20", rep.EnergyLevel)
	}
	if rep.Streak != 3 {
		t.Fatalf("streak passthrough: got %d, want 3", rep.Streak)
	}
	if rep.Date != dates.Key(testNow) {
		t.Fatalf("date: got %s", rep.Date)
	}
}

func TestBuildDailyReportEmptyDay(t *testing.T) {
	rep := BuildDailyReport(nil, testNow, 5, 0)
	if rep.TotalTasks != 0 || rep.CompletionRate != 0 || rep.EnergyLevel != 0 {
		t.Fatalf("empty day must be all zeros: %+v", rep)
	}
}

func TestBuildDailyReportEnergyCapsAt100(t *testing.T) {
	today := dates.StartOfDay(testNow)
	var tasks []models.Task
	for i := 0; i < 8; i++ {
		tasks = append(tasks, taskAt(string(rune('a'+i)), today, nil, ptr(today.Add(time.Hour))))
	}
	rep := BuildDailyReport(tasks, testNow, 5, 0)
	if rep.EnergyLevel != 100 {
		t.Fatalf("energy must cap at 100, got %d", rep.EnergyLevel)
	}
}

func TestBuildDailyReportDefaultGoal(t *testing.T) {
	today := dates.StartOfDay(testNow)
	tasks := []models.Task{taskAt("t1", today, nil, ptr(today.Add(time.Hour)))}
	// dailyGoal 0 falls back to the default of 5: 1/5 -> 20.
	rep := BuildDailyReport(tasks, testNow, 0, 0)
	if rep.EnergyLevel != 20 {
		t.Fatalf("got %d, want 20", rep.EnergyLevel)
	}
}

func TestBuildWeeklyReport(t *testing.T) {
	today := dates.StartOfDay(testNow)
	var tasks []models.Task
	// One task created and completed on each of the 7 days.
	for i := 0; i < 7; i++ {
		day := dates.AddDays(today, -i)
		tasks = append(tasks, taskAt(dates.Key(day), day.Add(9*time.Hour), nil, ptr(day.Add(10*time.Hour))))
	}

	rep := BuildWeeklyReport(tasks, testNow, 2)
	if len(rep.WeekData) != 7 {
		t.Fatalf("expected 7 days, got %d", len(rep.WeekData))
	}
	// Oldest first, ending today.
	if rep.WeekData[0].Date != dates.Key(dates.AddDays(today, -6)) {
		t.Fatalf("first day wrong: %s", rep.WeekData[0].Date)
	}
	if rep.WeekData[6].Date != dates.Key(today) {
		t.Fatalf("last day wrong: %s", rep.WeekData[6].Date)
	}
	if rep.WeekData[6].DayName != today.Format("Mon") {
		t.Fatalf("day name: got %s", rep.WeekData[6].DayName)
	}
	if rep.TotalCompleted != 7 {
		t.Fatalf("total completed: got %d, want 7", rep.TotalCompleted)
	}
	if rep.AverageCompletion != 100 {
		t.Fatalf("average: got %d, want 100", rep.AverageCompletion)
	}
	if rep.Streak != 2 {
		t.Fatalf("streak passthrough: got %d", rep.Streak)
	}
}

func TestBuildWeeklyReportAverageOverSevenDays(t *testing.T) {
	today := dates.StartOfDay(testNow)
	// Only today has work: one task, completed. Average = 100/7 -> 14.
	tasks := []models.Task{taskAt("t1", today.Add(time.Hour), nil, ptr(today.Add(2*time.Hour)))}
	rep := BuildWeeklyReport(tasks, testNow, 0)
	if rep.AverageCompletion != 14 {
		t.Fatalf("got %d, want 14", rep.AverageCompletion)
	}
}

func TestBuildMonthlyReportAllZero(t *testing.T) {
	// June 2025 (month index 5) with no tasks: 30 zero days.
	rep := BuildMonthlyReport(nil, 2025, 5)
	if len(rep.HeatmapData) != 30 {
		t.Fatalf("expected 30 days, got %d", len(rep.HeatmapData))
	}
	if rep.TotalCompleted != 0 || rep.AverageDaily != 0 {
		t.Fatalf("expected zeros: %+v", rep)
	}
	if rep.HeatmapData[0].Date != "2025-06-01" || rep.HeatmapData[29].Date != "2025-06-30" {
		t.Fatalf("month span wrong: %s .. %s", rep.HeatmapData[0].Date, rep.HeatmapData[29].Date)
	}
}

func TestBuildMonthlyReportFebruaryLeap(t *testing.T) {
	rep := BuildMonthlyReport(nil, 2024, 1)
	if len(rep.HeatmapData) != 29 {
		t.Fatalf("leap February: expected 29 days, got %d", len(rep.HeatmapData))
	}
}

func TestBuildMonthlyReportCounts(t *testing.T) {
	day := time.Date(2025, 6, 10, 9, 0, 0, 0, time.Local)
	tasks := []models.Task{
		taskAt("t1", day, nil, ptr(day.Add(time.Hour))),
		taskAt("t2", day, nil, ptr(day.Add(2*time.Hour))),
	}
	rep := BuildMonthlyReport(tasks, 2025, 5)
	if rep.TotalCompleted != 2 {
		t.Fatalf("total: got %d, want 2", rep.TotalCompleted)
	}
	if rep.HeatmapData[9].CompletedTasks != 2 || rep.HeatmapData[9].CompletionRate != 100 {
		t.Fatalf("june 10th bucket wrong: %+v", rep.HeatmapData[9])
	}
	// 2 completions over 30 days rounds to 0.
	if rep.AverageDaily != 0 {
		t.Fatalf("average daily: got %d, want 0", rep.AverageDaily)
	}
	if rep.Year != 2025 || rep.Month != 5 {
		t.Fatalf("year/month echo wrong: %+v", rep)
	}
}
