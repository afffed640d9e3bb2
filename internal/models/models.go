package models

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// UserSettings holds plain pass-through preferences. DailyGoal feeds the
// daily report's energy level; DefaultDailyGoal is substituted when no row exists.
type UserSettings struct {
	UserID    string    `json:"user_id"`
	DailyGoal int       `json:"daily_goal"`
	Theme     string    `json:"theme"`
	UpdatedAt time.Time `json:"updated_at"`
}

const DefaultDailyGoal = 5

type Vision struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Icon        *string     `json:"icon"`
	TargetDate  *time.Time  `json:"target_date"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Milestones  []Milestone `json:"milestones,omitempty"`
	Progress    int         `json:"progress"`
}

type MilestoneStatus string

const (
	MilestoneNotStarted MilestoneStatus = "NOT_STARTED"
	MilestoneInProgress MilestoneStatus = "IN_PROGRESS"
	MilestoneCompleted  MilestoneStatus = "COMPLETED"
)

type Milestone struct {
	ID          string          `json:"id"`
	VisionID    string          `json:"vision_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Icon        *string         `json:"icon"`
	Status      MilestoneStatus `json:"status"`
	TargetDate  *time.Time      `json:"target_date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Habits      []Habit         `json:"habits,omitempty"`
	Progress    int             `json:"progress"`
}

// Habit carries two derived caches, Streak and CompletedToday. Both are
// rebuilt from the HabitActivity log on every completion toggle, frequency
// change and resync; a from-scratch recomputation must reproduce them.
type Habit struct {
	ID               string          `json:"id"`
	MilestoneID      *string         `json:"milestone_id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Icon             string          `json:"icon"`
	Color            string          `json:"color"`
	FrequencyPerWeek int             `json:"frequency_per_week"`
	Reminder         *string         `json:"reminder"`
	IsActive         bool            `json:"is_active"`
	Streak           int             `json:"streak"`
	CompletedToday   bool            `json:"completed_today"`
	LastCompletedAt  *time.Time      `json:"last_completed_at"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Activities       []HabitActivity `json:"activities,omitempty"`
}

// HabitActivity is one day's completion record for a habit; at most one row
// exists per (habit, calendar day). The activity log is the source of truth
// for streak and progress computation, never the Habit caches.
type HabitActivity struct {
	HabitID   string    `json:"habit_id"`
	Date      time.Time `json:"date"`
	Completed bool      `json:"completed"`
}

type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskSkipped    TaskStatus = "SKIPPED"
)

// Task invariant: CompletedAt is non-nil iff Status is COMPLETED.
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	HabitID     *string    `json:"habit_id"`
	MilestoneID *string    `json:"milestone_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Completion is an append-only audit row written when a habit or task
// completion toggles on, and pruned for "today" when it toggles off.
type Completion struct {
	ID          string    `json:"id"`
	HabitID     *string   `json:"habit_id"`
	TaskID      *string   `json:"task_id"`
	CompletedAt time.Time `json:"completed_at"`
}

type Journal struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Reason      string    `json:"reason"`
	Analysis    string    `json:"analysis"`
	StreakCount int       `json:"streak_count"`
	CreatedAt   time.Time `json:"created_at"`
}
