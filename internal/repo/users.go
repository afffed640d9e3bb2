package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tranxuanbinhn/goalflow-backend/internal/models"
)

func (r *Repo) CreateUser(ctx context.Context, email, name, passwordHash string) (string, error) {
	id := uuid.NewString()
	_, err := r.Pool.Exec(ctx, `INSERT INTO users (id, email, name, password_hash) VALUES ($1, $2, $3, $4)`,
		id, email, name, passwordHash)
	return id, err
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := r.Pool.QueryRow(ctx, `SELECT id, email, name, password_hash, created_at, updated_at FROM users WHERE email=$1`, email).
		Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	return u, err
}

func (r *Repo) GetUserByID(ctx context.Context, userID string) (models.User, error) {
	var u models.User
	err := r.Pool.QueryRow(ctx, `SELECT id, email, name, created_at, updated_at FROM users WHERE id=$1`, userID).
		Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	return u, err
}

func (r *Repo) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email=$1)`, email).Scan(&exists)
	return exists, err
}

func (r *Repo) CreateSession(ctx context.Context, userID, token string, expiresAt time.Time) error {
	_, err := r.Pool.Exec(ctx, `INSERT INTO sessions (id, user_id, token, expires_at) VALUES ($1, $2, $3, $4)`,
		uuid.NewString(), userID, token, expiresAt)
	return err
}

func (r *Repo) GetSessionUser(ctx context.Context, token string) (string, error) {
	var userID string
	var expiresAt time.Time
	err := r.Pool.QueryRow(ctx, `SELECT user_id, expires_at FROM sessions WHERE token=$1`, token).
		Scan(&userID, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if time.Now().After(expiresAt) {
		return "", ErrSessionExpired
	}
	return userID, nil
}

func (r *Repo) DeleteSession(ctx context.Context, token string) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM sessions WHERE token=$1`, token)
	return err
}

func (r *Repo) GetUserSettings(ctx context.Context, userID string) (models.UserSettings, error) {
	var s models.UserSettings
	err := r.Pool.QueryRow(ctx, `SELECT user_id, daily_goal, theme, updated_at FROM user_settings WHERE user_id=$1`, userID).
		Scan(&s.UserID, &s.DailyGoal, &s.Theme, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.UserSettings{}, ErrNotFound
	}
	return s, err
}

func (r *Repo) UpsertUserSettings(ctx context.Context, userID string, dailyGoal int, theme string) error {
	_, err := r.Pool.Exec(ctx, `INSERT INTO user_settings (user_id, daily_goal, theme)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET daily_goal=EXCLUDED.daily_goal, theme=EXCLUDED.theme, updated_at=now()`,
		userID, dailyGoal, theme)
	return err
}
