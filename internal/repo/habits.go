package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tranxuanbinhn/goalflow-backend/internal/dates"
	"github.com/tranxuanbinhn/goalflow-backend/internal/models"
)

func (r *Repo) CreateHabit(ctx context.Context, userID string, h models.Habit) (string, error) {
	if h.MilestoneID != nil {
		var owned bool
		if err := r.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM milestones
			WHERE id=$1 AND vision_id IN (SELECT id FROM visions WHERE user_id=$2))`, *h.MilestoneID, userID).Scan(&owned); err != nil {
			return "", err
		}
		if !owned {
			return "", ErrNotFound
		}
	}
	id := uuid.NewString()
	_, err := r.Pool.Exec(ctx, `INSERT INTO habits (id, user_id, milestone_id, title, description, icon, color,
		frequency_per_week, reminder, is_active, streak, completed_today)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, true, 0, false)`,
		id, userID, h.MilestoneID, h.Title, h.Description, h.Icon, h.Color, h.FrequencyPerWeek, h.Reminder)
	return id, err
}

func (r *Repo) GetHabit(ctx context.Context, id, userID string) (models.Habit, error) {
	var h models.Habit
	err := r.Pool.QueryRow(ctx, `SELECT id, milestone_id, title, description, icon, color, frequency_per_week,
		reminder, is_active, streak, completed_today, last_completed_at, created_at, updated_at
		FROM habits WHERE id=$1 AND user_id=$2`, id, userID).
		Scan(&h.ID, &h.MilestoneID, &h.Title, &h.Description, &h.Icon, &h.Color, &h.FrequencyPerWeek,
			&h.Reminder, &h.IsActive, &h.Streak, &h.CompletedToday, &h.LastCompletedAt, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Habit{}, ErrNotFound
	}
	return h, err
}

// ListHabits returns the user's habits, newest first, optionally filtered to
// one milestone. Standalone habits (no milestone) are included.
func (r *Repo) ListHabits(ctx context.Context, userID, milestoneID string) ([]models.Habit, error) {
	query := `SELECT id, milestone_id, title, description, icon, color, frequency_per_week,
		reminder, is_active, streak, completed_today, last_completed_at, created_at, updated_at
		FROM habits WHERE user_id=$1`
	args := []any{userID}
	if milestoneID != "" {
		query += ` AND milestone_id=$2`
		args = append(args, milestoneID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.Pool.Query(ctx, query, args...)
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
	return habits, rows.Err()
}

type HabitUpdate struct {
	Title            *string
	Description      *string
	FrequencyPerWeek *int
	Reminder         *string
	IsActive         *bool
	Icon             *string
	Color            *string
	MilestoneID      *string
}

// UpdateHabit applies a partial update. A frequency change invalidates the
// derived caches: the activity log is wiped and streak/completedToday reset,
// since the expected-count basis they were computed against is gone.
func (r *Repo) UpdateHabit(ctx context.Context, id, userID string, upd HabitUpdate) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `UPDATE habits SET
		title=COALESCE($1, title),
		description=COALESCE($2, description),
		reminder=COALESCE($3, reminder),
		is_active=COALESCE($4, is_active),
		icon=COALESCE($5, icon),
		color=COALESCE($6, color),
		milestone_id=COALESCE($7, milestone_id),
		updated_at=now()
		WHERE id=$8 AND user_id=$9`,
		upd.Title, upd.Description, upd.Reminder, upd.IsActive, upd.Icon, upd.Color, upd.MilestoneID, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	if upd.FrequencyPerWeek != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM habit_activities WHERE habit_id=$1`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE habits SET frequency_per_week=$1, streak=0,
			completed_today=false, last_completed_at=NULL, updated_at=now() WHERE id=$2`, *upd.FrequencyPerWeek, id); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// DeleteHabit detaches the habit's tasks rather than deleting them, then
// removes the activity log and the habit.
func (r *Repo) DeleteHabit(ctx context.Context, id, userID string) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var owned bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM habits WHERE id=$1 AND user_id=$2)`, id, userID).Scan(&owned); err != nil {
		return err
	}
	if !owned {
		return ErrNotFound
	}
	if _, err := tx.Exec(ctx, `UPDATE tasks SET habit_id=NULL WHERE habit_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM habit_activities WHERE habit_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM habits WHERE id=$1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// SetHabitStreak writes back the recomputed streak cache.
func (r *Repo) SetHabitStreak(ctx context.Context, id string, streak int) error {
	_, err := r.Pool.Exec(ctx, `UPDATE habits SET streak=$1, updated_at=now() WHERE id=$2`, streak, id)
	return err
}

func (r *Repo) SetHabitCompletedToday(ctx context.Context, id string, completed bool, at *time.Time) error {
	_, err := r.Pool.Exec(ctx, `UPDATE habits SET completed_today=$1, last_completed_at=$2, updated_at=now() WHERE id=$3`,
		completed, at, id)
	return err
}

// ResetCompletedToday clears the completed_today cache on habits whose last
// completion was before today. Called on habit reads so the flag lazily
// rolls over at midnight without a scheduled job.
func (r *Repo) ResetCompletedToday(ctx context.Context, userID string, startOfToday time.Time) error {
	_, err := r.Pool.Exec(ctx, `UPDATE habits SET completed_today=false
		WHERE user_id=$1 AND completed_today AND (last_completed_at IS NULL OR last_completed_at < $2)`,
		userID, startOfToday)
	return err
}

func (r *Repo) ListHabitIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT id FROM habits WHERE user_id=$1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpsertHabitActivity records one day's completion state, replacing any
// existing record for that (habit, day).
func (r *Repo) UpsertHabitActivity(ctx context.Context, habitID string, day time.Time, completed bool) error {
	// Normalized here so the (habit_id, date) unique constraint enforces one
	// row per calendar day no matter what time of day callers pass.
	_, err := r.Pool.Exec(ctx, `INSERT INTO habit_activities (habit_id, date, completed)
		VALUES ($1, $2, $3)
		ON CONFLICT (habit_id, date) DO UPDATE SET completed=EXCLUDED.completed`,
		habitID, dates.StartOfDay(day), completed)
	return err
}

// ListCompletedActivities returns a habit's full completed activity log,
// oldest first — the streak calculator's input.
func (r *Repo) ListCompletedActivities(ctx context.Context, habitID string) ([]models.HabitActivity, error) {
	rows, err := r.Pool.Query(ctx, `SELECT habit_id, date, completed FROM habit_activities
		WHERE habit_id=$1 AND completed ORDER BY date`, habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var acts []models.HabitActivity
	for rows.Next() {
		var a models.HabitActivity
		if err := rows.Scan(&a.HabitID, &a.Date, &a.Completed); err != nil {
			return nil, err
		}
		acts = append(acts, a)
	}
	return acts, rows.Err()
}

// ListActivitiesInRange returns all of a habit's activity records (completed
// or not) within [from, to], oldest first.
func (r *Repo) ListActivitiesInRange(ctx context.Context, habitID string, from, to time.Time) ([]models.HabitActivity, error) {
	rows, err := r.Pool.Query(ctx, `SELECT habit_id, date, completed FROM habit_activities
		WHERE habit_id=$1 AND date >= $2 AND date <= $3 ORDER BY date`, habitID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var acts []models.HabitActivity
	for rows.Next() {
		var a models.HabitActivity
		if err := rows.Scan(&a.HabitID, &a.Date, &a.Completed); err != nil {
			return nil, err
		}
		acts = append(acts, a)
	}
	return acts, rows.Err()
}

// CountCompletedActivities counts completed activity per habit inside a
// window, for the consistency aggregator.
func (r *Repo) CountCompletedActivities(ctx context.Context, userID string, from, to time.Time) (map[string]int, error) {
	rows, err := r.Pool.Query(ctx, `SELECT habit_id, count(*) FROM habit_activities
		WHERE habit_id IN (SELECT id FROM habits WHERE user_id=$1)
		AND completed AND date >= $2 AND date <= $3
		GROUP BY habit_id`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// ListCompletedActivityDates returns the dates of every completed activity
// record for the user's habits inside [from, to], for heatmap bucketing.
func (r *Repo) ListCompletedActivityDates(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error) {
	rows, err := r.Pool.Query(ctx, `SELECT date FROM habit_activities
		WHERE habit_id IN (SELECT id FROM habits WHERE user_id=$1)
		AND completed AND date >= $2 AND date <= $3`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// BestHabitStreak is the maximum cached streak across the user's habits.
func (r *Repo) BestHabitStreak(ctx context.Context, userID string) (int, error) {
	var best int
	err := r.Pool.QueryRow(ctx, `SELECT COALESCE(MAX(streak), 0) FROM habits WHERE user_id=$1`, userID).Scan(&best)
	return best, err
}

func (r *Repo) CountCompletedTodayHabits(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.Pool.QueryRow(ctx, `SELECT count(*) FROM habits WHERE user_id=$1 AND completed_today AND is_active`, userID).Scan(&n)
	return n, err
}

func (r *Repo) CountActiveHabits(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.Pool.QueryRow(ctx, `SELECT count(*) FROM habits WHERE user_id=$1 AND is_active`, userID).Scan(&n)
	return n, err
}
