package service

import (
	"context"
	"testing"
	"time"

	"github.com/tranxuanbinhn/goalflow-backend/internal/models"
)

func TestToggleHabitOffKeepsLastCompletedAt(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	userID := mustCreateTestUser(t, svc, "toggle@b.com")
	habit, err := svc.CreateHabit(ctx, userID, models.Habit{Title: "Stretch", FrequencyPerWeek: 7, IsActive: true})
	if err != nil {
		t.Fatalf("habit: %v", err)
	}

	now := time.Now()
	habit, err = svc.ToggleHabitToday(ctx, userID, habit.ID, now)
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if !habit.CompletedToday || habit.LastCompletedAt == nil {
		t.Fatalf("expected completed habit with timestamp, got %+v", habit)
	}

	habit, err = svc.ToggleHabitToday(ctx, userID, habit.ID, now)
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if habit.CompletedToday {
		t.Fatalf("expected habit reopened, got %+v", habit)
	}
	if habit.LastCompletedAt == nil {
		t.Fatal("expected last_completed_at retained after un-completing")
	}
	if habit.Streak != 0 {
		t.Fatalf("expected streak rebuilt to 0, got %d", habit.Streak)
	}
}
