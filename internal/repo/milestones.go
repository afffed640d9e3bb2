package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tranxuanbinhn/goalflow-backend/internal/models"
)

func (r *Repo) CreateMilestone(ctx context.Context, visionID, userID, title, description string, icon *string, targetDate *time.Time) (string, error) {
	var owned bool
	if err := r.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM visions WHERE id=$1 AND user_id=$2)`, visionID, userID).Scan(&owned); err != nil {
		return "", err
	}
	if !owned {
		return "", ErrNotFound
	}
	id := uuid.NewString()
	_, err := r.Pool.Exec(ctx, `INSERT INTO milestones (id, vision_id, title, description, icon, target_date)
		VALUES ($1, $2, $3, $4, $5, $6)`, id, visionID, title, description, icon, targetDate)
	return id, err
}

func (r *Repo) UpdateMilestone(ctx context.Context, id, userID, title, description string, icon *string, status models.MilestoneStatus, targetDate *time.Time) error {
	cmd, err := r.Pool.Exec(ctx, `UPDATE milestones SET title=$1, description=$2, icon=$3,
		status=COALESCE(NULLIF($4, ''), status), target_date=COALESCE($5, target_date), updated_at=now()
		WHERE id=$6 AND vision_id IN (SELECT id FROM visions WHERE user_id=$7)`,
		title, description, icon, string(status), targetDate, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) UpdateMilestoneStatus(ctx context.Context, id, userID string, status models.MilestoneStatus) error {
	cmd, err := r.Pool.Exec(ctx, `UPDATE milestones SET status=$1, updated_at=now()
		WHERE id=$2 AND vision_id IN (SELECT id FROM visions WHERE user_id=$3)`, status, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMilestone cascades: tasks linked to the milestone or its habits, the
// habits' activity logs, the habits, then the milestone itself.
func (r *Repo) DeleteMilestone(ctx context.Context, id, userID string) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var owned bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM milestones
		WHERE id=$1 AND vision_id IN (SELECT id FROM visions WHERE user_id=$2))`, id, userID).Scan(&owned); err != nil {
		return err
	}
	if !owned {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM tasks WHERE milestone_id=$1
		OR habit_id IN (SELECT id FROM habits WHERE milestone_id=$1)`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM habit_activities WHERE habit_id IN (SELECT id FROM habits WHERE milestone_id=$1)`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM habits WHERE milestone_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM milestones WHERE id=$1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// GetMilestone loads one milestone with its habits and completed activities.
func (r *Repo) GetMilestone(ctx context.Context, id, userID string) (models.Milestone, error) {
	var m models.Milestone
	err := r.Pool.QueryRow(ctx, `SELECT id, vision_id, title, description, icon, status, target_date, created_at, updated_at
		FROM milestones WHERE id=$1 AND vision_id IN (SELECT id FROM visions WHERE user_id=$2)`, id, userID).
		Scan(&m.ID, &m.VisionID, &m.Title, &m.Description, &m.Icon, &m.Status, &m.TargetDate, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Milestone{}, ErrNotFound
	}
	if err != nil {
		return models.Milestone{}, err
	}
	habits, err := r.listMilestoneHabits(ctx, m.ID)
	if err != nil {
		return models.Milestone{}, err
	}
	m.Habits = habits
	return m, nil
}

func (r *Repo) ListMilestones(ctx context.Context, userID string, visionID string) ([]models.Milestone, error) {
	query := `SELECT id, vision_id, title, description, icon, status, target_date, created_at, updated_at
		FROM milestones WHERE vision_id IN (SELECT id FROM visions WHERE user_id=$1)`
	args := []any{userID}
	if visionID != "" {
		query += ` AND vision_id=$2`
		args = append(args, visionID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var milestones []models.Milestone
	for rows.Next() {
		var m models.Milestone
		if err := rows.Scan(&m.ID, &m.VisionID, &m.Title, &m.Description, &m.Icon, &m.Status, &m.TargetDate, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		milestones = append(milestones, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range milestones {
		habits, err := r.listMilestoneHabits(ctx, milestones[i].ID)
		if err != nil {
			return nil, err
		}
		milestones[i].Habits = habits
	}
	return milestones, nil
}

func (r *Repo) listMilestoneHabits(ctx context.Context, milestoneID string) ([]models.Habit, error) {
	rows, err := r.Pool.Query(ctx, `SELECT id, milestone_id, title, description, icon, color, frequency_per_week,
		reminder, is_active, streak, completed_today, last_completed_at, created_at, updated_at
		FROM habits WHERE milestone_id=$1 ORDER BY created_at DESC`, milestoneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		var h models.Habit
		if err := rows.Scan(&h.ID, &h.MilestoneID, &h.Title, &h.Description, &h.Icon, &h.Color, &h.FrequencyPerWeek,
			&h.Reminder, &h.IsActive, &h.Streak, &h.CompletedToday, &h.LastCompletedAt, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range habits {
		acts, err := r.ListCompletedActivities(ctx, habits[i].ID)
		if err != nil {
			return nil, err
		}
		habits[i].Activities = acts
	}
	return habits, nil
}
