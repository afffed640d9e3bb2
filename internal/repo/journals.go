package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/tranxuanbinhn/goalflow-backend/internal/models"
)

func (r *Repo) CreateJournal(ctx context.Context, userID, reason, analysis string, streakCount int) (models.Journal, error) {
	j := models.Journal{ID: uuid.NewString(), UserID: userID, Reason: reason, Analysis: analysis, StreakCount: streakCount}
	err := r.Pool.QueryRow(ctx, `INSERT INTO journals (id, user_id, reason, analysis, streak_count)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at`,
		j.ID, userID, reason, analysis, streakCount).Scan(&j.CreatedAt)
	return j, err
}

func (r *Repo) ListJournals(ctx context.Context, userID string, limit int) ([]models.Journal, error) {
	rows, err := r.Pool.Query(ctx, `SELECT id, user_id, reason, analysis, streak_count, created_at
		FROM journals WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Journal
	for rows.Next() {
		var j models.Journal
		if err := rows.Scan(&j.ID, &j.UserID, &j.Reason, &j.Analysis, &j.StreakCount, &j.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}
