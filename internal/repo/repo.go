// Package repo is the raw-SQL storage layer over Postgres. It returns entity
// snapshots for the metric engine and persists the derived caches the engine
// writes back. All ownership filtering happens here; the engine assumes
// already-authorized input sets.
package repo

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrHasOpenTasks   = errors.New("habit has incomplete tasks today")
	ErrEmailTaken     = errors.New("email already registered")
	ErrSessionExpired = errors.New("session expired")
)

type Repo struct {
	Pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{Pool: pool}
}
