package service

import (
	"context"
	"time"

	"github.com/tranxuanbinhn/goalflow-backend/internal/models"
)

// SetTaskStatus transitions a task and, when the task belongs to a habit,
// reconciles that habit's today-completion with the new task state.
func (s *Service) SetTaskStatus(ctx context.Context, userID, taskID string, status models.TaskStatus, now time.Time) (models.Task, error) {
	task, err := s.Repo.SetTaskStatus(ctx, taskID, userID, status, now)
	if err != nil {
		return models.Task{}, err
	}
	if task.HabitID != nil {
		if err := s.SyncHabitAfterTaskChange(ctx, userID, *task.HabitID, now); err != nil {
			return models.Task{}, err
		}
	}
	return task, nil
}
