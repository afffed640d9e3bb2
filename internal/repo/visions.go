package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tranxuanbinhn/goalflow-backend/internal/models"
)

func (r *Repo) CreateVision(ctx context.Context, userID, title, description string, icon *string, targetDate *time.Time) (string, error) {
	id := uuid.NewString()
	_, err := r.Pool.Exec(ctx, `INSERT INTO visions (id, user_id, title, description, icon, target_date)
		VALUES ($1, $2, $3, $4, $5, $6)`, id, userID, title, description, icon, targetDate)
	return id, err
}

func (r *Repo) UpdateVision(ctx context.Context, id, userID, title, description string, icon *string, targetDate *time.Time) error {
	cmd, err := r.Pool.Exec(ctx, `UPDATE visions SET title=$1, description=$2, icon=$3,
		target_date=COALESCE($4, target_date), updated_at=now()
		WHERE id=$5 AND user_id=$6`, title, description, icon, targetDate, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletionCounts reports what a vision cascade delete removed.
type DeletionCounts struct {
	Milestones int `json:"deleted_milestones"`
	Habits     int `json:"deleted_habits"`
	Tasks      int `json:"deleted_tasks"`
}

// DeleteVision removes the vision and everything under it: milestones, their
// habits and activity logs, and tasks linked to either.
func (r *Repo) DeleteVision(ctx context.Context, id, userID string) (DeletionCounts, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return DeletionCounts{}, err
	}
	defer tx.Rollback(ctx)

	var owned bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM visions WHERE id=$1 AND user_id=$2)`, id, userID).Scan(&owned); err != nil {
		return DeletionCounts{}, err
	}
	if !owned {
		return DeletionCounts{}, ErrNotFound
	}

	var counts DeletionCounts
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM milestones WHERE vision_id=$1`, id).Scan(&counts.Milestones); err != nil {
		return DeletionCounts{}, err
	}
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM habits WHERE milestone_id IN (SELECT id FROM milestones WHERE vision_id=$1)`, id).Scan(&counts.Habits); err != nil {
		return DeletionCounts{}, err
	}
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM tasks WHERE milestone_id IN (SELECT id FROM milestones WHERE vision_id=$1)
		OR habit_id IN (SELECT id FROM habits WHERE milestone_id IN (SELECT id FROM milestones WHERE vision_id=$1))`, id).Scan(&counts.Tasks); err != nil {
		return DeletionCounts{}, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM tasks WHERE milestone_id IN (SELECT id FROM milestones WHERE vision_id=$1)
		OR habit_id IN (SELECT id FROM habits WHERE milestone_id IN (SELECT id FROM milestones WHERE vision_id=$1))`, id); err != nil {
		return DeletionCounts{}, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM habit_activities WHERE habit_id IN
		(SELECT id FROM habits WHERE milestone_id IN (SELECT id FROM milestones WHERE vision_id=$1))`, id); err != nil {
		return DeletionCounts{}, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM habits WHERE milestone_id IN (SELECT id FROM milestones WHERE vision_id=$1)`, id); err != nil {
		return DeletionCounts{}, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM milestones WHERE vision_id=$1`, id); err != nil {
		return DeletionCounts{}, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM visions WHERE id=$1`, id); err != nil {
		return DeletionCounts{}, err
	}
	return counts, tx.Commit(ctx)
}

// GetVision loads one vision with its milestones, habits and completed
// activity logs, the snapshot shape the progress calculator consumes.
func (r *Repo) GetVision(ctx context.Context, id, userID string) (models.Vision, error) {
	var v models.Vision
	err := r.Pool.QueryRow(ctx, `SELECT id, user_id, title, description, icon, target_date, created_at, updated_at
		FROM visions WHERE id=$1 AND user_id=$2`, id, userID).
		Scan(&v.ID, &v.UserID, &v.Title, &v.Description, &v.Icon, &v.TargetDate, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Vision{}, ErrNotFound
	}
	if err != nil {
		return models.Vision{}, err
	}
	if err := r.attachMilestones(ctx, []*models.Vision{&v}); err != nil {
		return models.Vision{}, err
	}
	return v, nil
}

// ListVisions returns all of a user's visions with nested milestone/habit/
// activity data, newest first.
func (r *Repo) ListVisions(ctx context.Context, userID string) ([]models.Vision, error) {
	rows, err := r.Pool.Query(ctx, `SELECT id, user_id, title, description, icon, target_date, created_at, updated_at
		FROM visions WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visions []models.Vision
	for rows.Next() {
		var v models.Vision
		if err := rows.Scan(&v.ID, &v.UserID, &v.Title, &v.Description, &v.Icon, &v.TargetDate, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		visions = append(visions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ptrs := make([]*models.Vision, len(visions))
	for i := range visions {
		ptrs[i] = &visions[i]
	}
	if err := r.attachMilestones(ctx, ptrs); err != nil {
		return nil, err
	}
	return visions, nil
}

// attachMilestones fills Milestones (with habits and completed activities)
// for the given visions in three queries, not one per entity.
func (r *Repo) attachMilestones(ctx context.Context, visions []*models.Vision) error {
	if len(visions) == 0 {
		return nil
	}
	visionIDs := make([]string, 0, len(visions))
	byVision := make(map[string]*models.Vision, len(visions))
	for _, v := range visions {
		visionIDs = append(visionIDs, v.ID)
		byVision[v.ID] = v
	}

	rows, err := r.Pool.Query(ctx, `SELECT id, vision_id, title, description, icon, status, target_date, created_at, updated_at
		FROM milestones WHERE vision_id = ANY($1) ORDER BY created_at DESC`, visionIDs)
	if err != nil {
		return err
	}
	defer rows.Close()

	var milestoneIDs []string
	milestoneIndex := make(map[string]*models.Milestone)
	for rows.Next() {
		var m models.Milestone
		if err := rows.Scan(&m.ID, &m.VisionID, &m.Title, &m.Description, &m.Icon, &m.Status, &m.TargetDate, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return err
		}
		v := byVision[m.VisionID]
		v.Milestones = append(v.Milestones, m)
		milestoneIDs = append(milestoneIDs, m.ID)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for _, v := range visions {
		for i := range v.Milestones {
			milestoneIndex[v.Milestones[i].ID] = &v.Milestones[i]
		}
	}
	if len(milestoneIDs) == 0 {
		return nil
	}

	habitRows, err := r.Pool.Query(ctx, `SELECT id, milestone_id, title, description, icon, color, frequency_per_week,
		reminder, is_active, streak, completed_today, last_completed_at, created_at, updated_at
		FROM habits WHERE milestone_id = ANY($1)`, milestoneIDs)
	if err != nil {
		return err
	}
	defer habitRows.Close()

	var habitIDs []string
	habitIndex := make(map[string]*models.Habit)
	for habitRows.Next() {
		var h models.Habit
		if err := habitRows.Scan(&h.ID, &h.MilestoneID, &h.Title, &h.Description, &h.Icon, &h.Color, &h.FrequencyPerWeek,
			&h.Reminder, &h.IsActive, &h.Streak, &h.CompletedToday, &h.LastCompletedAt, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return err
		}
		m := milestoneIndex[*h.MilestoneID]
		m.Habits = append(m.Habits, h)
		habitIDs = append(habitIDs, h.ID)
	}
	if err := habitRows.Err(); err != nil {
		return err
	}
	for _, m := range milestoneIndex {
		for i := range m.Habits {
			habitIndex[m.Habits[i].ID] = &m.Habits[i]
		}
	}
	if len(habitIDs) == 0 {
		return nil
	}

	actRows, err := r.Pool.Query(ctx, `SELECT habit_id, date, completed FROM habit_activities
		WHERE habit_id = ANY($1) AND completed ORDER BY date`, habitIDs)
	if err != nil {
		return err
	}
	defer actRows.Close()
	for actRows.Next() {
		var a models.HabitActivity
		if err := actRows.Scan(&a.HabitID, &a.Date, &a.Completed); err != nil {
			return err
		}
		h := habitIndex[a.HabitID]
		h.Activities = append(h.Activities, a)
	}
	return actRows.Err()
}
