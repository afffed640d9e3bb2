package service

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tranxuanbinhn/goalflow-backend/internal/repo"
)

func setupTestService(t *testing.T) (*Service, func()) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	schema := fmt.Sprintf("test_%d", time.Now().UnixNano())
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s", schema))
		return err
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	_, err = pool.Exec(ctx, fmt.Sprintf("CREATE SCHEMA %s", schema))
	if err != nil {
		pool.Close()
		t.Fatalf("create schema: %v", err)
	}
	queries := []string{
		`CREATE TABLE users (id uuid PRIMARY KEY, email text UNIQUE, name text DEFAULT '', password_hash text, created_at timestamptz DEFAULT now(), updated_at timestamptz DEFAULT now())`,
		`CREATE TABLE habits (id uuid PRIMARY KEY, user_id uuid, milestone_id uuid, title text, description text DEFAULT '', icon text DEFAULT '', color text DEFAULT '', frequency_per_week int DEFAULT 7, reminder text, is_active boolean DEFAULT true, streak int DEFAULT 0, completed_today boolean DEFAULT false, last_completed_at timestamptz, created_at timestamptz DEFAULT now(), updated_at timestamptz DEFAULT now())`,
		`CREATE TABLE habit_activities (habit_id uuid, date timestamptz, completed boolean DEFAULT true, UNIQUE (habit_id, date))`,
		`CREATE TABLE tasks (id uuid PRIMARY KEY, user_id uuid, habit_id uuid, milestone_id uuid, title text, description text DEFAULT '', status text DEFAULT 'PENDING', due_date timestamptz, completed_at timestamptz, created_at timestamptz DEFAULT now(), updated_at timestamptz DEFAULT now())`,
		`CREATE TABLE completions (id uuid PRIMARY KEY, habit_id uuid, task_id uuid, completed_at timestamptz DEFAULT now())`,
		`CREATE TABLE journals (id uuid PRIMARY KEY, user_id uuid, reason text, analysis text DEFAULT '', streak_count int DEFAULT 0, created_at timestamptz DEFAULT now())`,
	}
	for _, query := range queries {
		if _, err := pool.Exec(ctx, query); err != nil {
			pool.Close()
			t.Fatalf("create tables: %v", err)
		}
	}
	svc := New(repo.New(pool), nil)
	return svc, func() {
		_, _ = pool.Exec(ctx, fmt.Sprintf("DROP SCHEMA %s CASCADE", schema))
		pool.Close()
	}
}

func mustCreateTestUser(t *testing.T, svc *Service, email string) string {
	t.Helper()
	userID, err := svc.Repo.CreateUser(context.Background(), email, "Test", "x")
	if err != nil {
		t.Fatalf("user: %v", err)
	}
	return userID
}
