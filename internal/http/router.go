// Package http exposes the REST surface: auth, vision/milestone/habit/task
// CRUD, the analytics reports and the discipline journal.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tranxuanbinhn/goalflow-backend/internal/auth"
	"github.com/tranxuanbinhn/goalflow-backend/internal/repo"
	"github.com/tranxuanbinhn/goalflow-backend/internal/service"
)

type API struct {
	Repo    *repo.Repo
	Service *service.Service
	Auth    *auth.Manager
	Origins []string
}

func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(loggingMiddleware)
	r.Use(a.corsMiddleware)

	r.Get("/health", a.handleHealth)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", a.handleRegister)
		r.Post("/login", a.handleLogin)
		r.Post("/refresh", a.handleRefresh)
		r.Post("/logout", a.handleLogout)
	})

	r.Group(func(r chi.Router) {
		r.Use(a.authMiddleware)
		r.Get("/me", a.handleMe)
		r.Get("/settings", a.handleGetSettings)
		r.Put("/settings", a.handleUpdateSettings)

		r.Route("/visions", func(r chi.Router) {
			r.Get("/", a.handleListVisions)
			r.Post("/", a.handleCreateVision)
			r.Get("/{id}", a.handleGetVision)
			r.Put("/{id}", a.handleUpdateVision)
			r.Delete("/{id}", a.handleDeleteVision)
		})
		r.Route("/milestones", func(r chi.Router) {
			r.Get("/", a.handleListMilestones)
			r.Post("/", a.handleCreateMilestone)
			r.Get("/{id}", a.handleGetMilestone)
			r.Put("/{id}", a.handleUpdateMilestone)
			r.Patch("/{id}/status", a.handleUpdateMilestoneStatus)
			r.Delete("/{id}", a.handleDeleteMilestone)
		})
		r.Route("/habits", func(r chi.Router) {
			r.Get("/", a.handleListHabits)
			r.Post("/", a.handleCreateHabit)
			r.Get("/{id}", a.handleGetHabit)
			r.Put("/{id}", a.handleUpdateHabit)
			r.Delete("/{id}", a.handleDeleteHabit)
			r.Post("/{id}/toggle", a.handleToggleHabit)
			r.Get("/{id}/activity", a.handleHabitActivity)
			r.Post("/{id}/resync", a.handleResyncHabit)
			r.Post("/resync", a.handleResyncAllHabits)
		})
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", a.handleListTasks)
			r.Post("/", a.handleCreateTask)
			r.Get("/today", a.handleListTodayTasks)
			r.Get("/completed", a.handleListCompletedTasks)
			r.Get("/pending", a.handleListPendingTasks)
			r.Get("/overdue", a.handleListOverdueTasks)
			r.Get("/future", a.handleListFutureTasks)
			r.Get("/{id}", a.handleGetTask)
			r.Put("/{id}", a.handleUpdateTask)
			r.Patch("/{id}/status", a.handleUpdateTaskStatus)
			r.Post("/{id}/complete", a.handleCompleteTask)
			r.Delete("/{id}", a.handleDeleteTask)
		})
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/", a.handleOverview)
			r.Get("/daily", a.handleDailyReport)
			r.Get("/weekly", a.handleWeeklyReport)
			r.Get("/monthly", a.handleMonthlyReport)
			r.Get("/streaks", a.handleStreaks)
		})
		r.Route("/discipline", func(r chi.Router) {
			r.Get("/check", a.handleJournalCheck)
			r.Post("/journal", a.handleSubmitJournal)
			r.Get("/journal/history", a.handleJournalHistory)
		})
	})

	return r
}
