package repo

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tranxuanbinhn/goalflow-backend/internal/models"
)

const taskColumns = `id, user_id, habit_id, milestone_id, title, description, status, due_date, completed_at, created_at, updated_at`

func scanTask(row pgx.Row) (models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.UserID, &t.HabitID, &t.MilestoneID, &t.Title, &t.Description,
		&t.Status, &t.DueDate, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *Repo) collectTasks(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *Repo) CreateTask(ctx context.Context, userID string, habitID, milestoneID *string, title, description string, dueDate *time.Time) (string, error) {
	id := uuid.NewString()
	_, err := r.Pool.Exec(ctx, `INSERT INTO tasks (id, user_id, habit_id, milestone_id, title, description, due_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'PENDING')`,
		id, userID, habitID, milestoneID, title, description, dueDate)
	return id, err
}

func (r *Repo) GetTask(ctx context.Context, id, userID string) (models.Task, error) {
	t, err := scanTask(r.Pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id=$1 AND user_id=$2`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Task{}, ErrNotFound
	}
	return t, err
}

func (r *Repo) UpdateTask(ctx context.Context, id, userID string, title, description *string, dueDate *time.Time) error {
	cmd, err := r.Pool.Exec(ctx, `UPDATE tasks SET
		title=COALESCE($1, title),
		description=COALESCE($2, description),
		due_date=COALESCE($3, due_date),
		updated_at=now()
		WHERE id=$4 AND user_id=$5`, title, description, dueDate, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetTaskStatus transitions a task, maintaining the invariant that
// completed_at is set iff the status is COMPLETED, and keeps the completion
// audit log in step: an audit row on completion, pruning on un-completion.
func (r *Repo) SetTaskStatus(ctx context.Context, id, userID string, status models.TaskStatus, at time.Time) (models.Task, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return models.Task{}, err
	}
	defer tx.Rollback(ctx)

	var completedAt *time.Time
	if status == models.TaskCompleted {
		completedAt = &at
	}
	t, err := scanTask(tx.QueryRow(ctx, `UPDATE tasks SET status=$1, completed_at=$2, updated_at=now()
		WHERE id=$3 AND user_id=$4 RETURNING `+taskColumns, status, completedAt, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, err
	}

	if status == models.TaskCompleted {
		if _, err := tx.Exec(ctx, `INSERT INTO completions (id, task_id, completed_at) VALUES ($1, $2, $3)`,
			uuid.NewString(), id, at); err != nil {
			return models.Task{}, err
		}
	} else {
		if _, err := tx.Exec(ctx, `DELETE FROM completions WHERE task_id=$1`, id); err != nil {
			return models.Task{}, err
		}
	}
	return t, tx.Commit(ctx)
}

func (r *Repo) DeleteTask(ctx context.Context, id, userID string) error {
	cmd, err := r.Pool.Exec(ctx, `DELETE FROM tasks WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TaskFilter narrows ListTasks. Zero values mean "no constraint".
type TaskFilter struct {
	HabitID     string
	MilestoneID string
	Status      models.TaskStatus
}

func (r *Repo) ListTasks(ctx context.Context, userID string, f TaskFilter) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id=$1`
	args := []any{userID}
	if f.HabitID != "" {
		args = append(args, f.HabitID)
		query += ` AND habit_id=$` + strconv.Itoa(len(args))
	}
	if f.MilestoneID != "" {
		args = append(args, f.MilestoneID)
		query += ` AND milestone_id=$` + strconv.Itoa(len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += ` AND status=$` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`
	return r.collectTasks(ctx, query, args...)
}

// ListTasksToday returns tasks created, due or completed within [start, end].
func (r *Repo) ListTasksToday(ctx context.Context, userID string, start, end time.Time) ([]models.Task, error) {
	return r.collectTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE user_id=$1
		AND ((created_at >= $2 AND created_at <= $3)
			OR (due_date >= $2 AND due_date <= $3)
			OR (completed_at >= $2 AND completed_at <= $3))
		ORDER BY status, created_at DESC`, userID, start, end)
}

// ListTasksTouchingRange returns tasks whose created_at, due_date or
// completed_at falls inside [from, to] — the snapshot the report builder
// buckets in memory, replacing per-day queries with one range scan.
func (r *Repo) ListTasksTouchingRange(ctx context.Context, userID string, from, to time.Time) ([]models.Task, error) {
	return r.collectTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE user_id=$1
		AND ((created_at >= $2 AND created_at <= $3)
			OR (due_date >= $2 AND due_date <= $3)
			OR (completed_at >= $2 AND completed_at <= $3))`, userID, from, to)
}

func (r *Repo) ListCompletedTasks(ctx context.Context, userID string) ([]models.Task, error) {
	return r.collectTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE user_id=$1 AND status='COMPLETED'
		ORDER BY completed_at DESC`, userID)
}

func (r *Repo) ListPendingTasks(ctx context.Context, userID string) ([]models.Task, error) {
	return r.collectTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE user_id=$1 AND status IN ('PENDING', 'SKIPPED')
		ORDER BY created_at DESC`, userID)
}

// ListOverdueTasks returns pending tasks whose due date fell before the
// given day boundary.
func (r *Repo) ListOverdueTasks(ctx context.Context, userID string, before time.Time) ([]models.Task, error) {
	return r.collectTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE user_id=$1 AND status='PENDING'
		AND due_date < $2 ORDER BY due_date`, userID, before)
}

func (r *Repo) ListFutureTasks(ctx context.Context, userID string, startOfTomorrow time.Time) ([]models.Task, error) {
	return r.collectTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE user_id=$1
		AND due_date >= $2 ORDER BY due_date`, userID, startOfTomorrow)
}

// ListHabitTasksInDay returns a habit's tasks created within [start, end],
// the set the manual-completion guard inspects.
func (r *Repo) ListHabitTasksInDay(ctx context.Context, habitID string, start, end time.Time) ([]models.Task, error) {
	return r.collectTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE habit_id=$1
		AND created_at >= $2 AND created_at <= $3`, habitID, start, end)
}

// UncompleteHabitTasks reverts every completed task linked to the habit back
// to PENDING, clearing completion timestamps and their audit rows.
func (r *Repo) UncompleteHabitTasks(ctx context.Context, habitID string) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM completions WHERE task_id IN
		(SELECT id FROM tasks WHERE habit_id=$1 AND status='COMPLETED')`, habitID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE tasks SET status='PENDING', completed_at=NULL, updated_at=now()
		WHERE habit_id=$1 AND status='COMPLETED'`, habitID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// CountCompletedTasks is the user's all-time completed task count.
func (r *Repo) CountCompletedTasks(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.Pool.QueryRow(ctx, `SELECT count(*) FROM tasks WHERE user_id=$1 AND status='COMPLETED'`, userID).Scan(&n)
	return n, err
}

// ListTaskCompletionTimes returns the completion timestamps of all of the
// user's completed tasks, ascending — input for both streak calculators.
func (r *Repo) ListTaskCompletionTimes(ctx context.Context, userID string) ([]time.Time, error) {
	rows, err := r.Pool.Query(ctx, `SELECT completed_at FROM tasks
		WHERE user_id=$1 AND status='COMPLETED' AND completed_at IS NOT NULL
		ORDER BY completed_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListTaskCompletionTimesInRange is the heatmap's task-side source.
func (r *Repo) ListTaskCompletionTimesInRange(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error) {
	rows, err := r.Pool.Query(ctx, `SELECT completed_at FROM tasks
		WHERE user_id=$1 AND status='COMPLETED' AND completed_at >= $2 AND completed_at <= $3`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CreateHabitCompletion appends an audit row for a habit completion toggle.
func (r *Repo) CreateHabitCompletion(ctx context.Context, habitID string, at time.Time) error {
	_, err := r.Pool.Exec(ctx, `INSERT INTO completions (id, habit_id, completed_at) VALUES ($1, $2, $3)`,
		uuid.NewString(), habitID, at)
	return err
}

// DeleteHabitCompletionsInDay prunes a habit's audit rows for one day, used
// when today's completion toggles off.
func (r *Repo) DeleteHabitCompletionsInDay(ctx context.Context, habitID string, start, end time.Time) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM completions WHERE habit_id=$1 AND completed_at >= $2 AND completed_at <= $3`,
		habitID, start, end)
	return err
}
