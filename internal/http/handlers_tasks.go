package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tranxuanbinhn/goalflow-backend/internal/dates"
	"github.com/tranxuanbinhn/goalflow-backend/internal/models"
	"github.com/tranxuanbinhn/goalflow-backend/internal/repo"
)

type taskRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	HabitID     *string   `json:"habit_id"`
	MilestoneID *string   `json:"milestone_id"`
	DueDate     *FlexTime `json:"due_date"`
}

type taskUpdateRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	DueDate     *FlexTime `json:"due_date"`
}

type taskStatusRequest struct {
	Status string `json:"status"`
}

func (a *API) handleListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	tasks, err := a.Repo.ListTasks(r.Context(), userID, repo.TaskFilter{
		HabitID:     q.Get("habit_id"),
		MilestoneID: q.Get("milestone_id"),
		Status:      models.TaskStatus(q.Get("status")),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (a *API) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req taskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Title required")
		return
	}
	id, err := a.Repo.CreateTask(r.Context(), userID, req.HabitID, req.MilestoneID, req.Title, req.Description, req.DueDate.ToTimePtr())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entityResponse{ID: id})
}

func (a *API) handleGetTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	task, err := a.Repo.GetTask(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (a *API) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req taskUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := a.Repo.UpdateTask(r.Context(), chi.URLParam(r, "id"), userID, req.Title, req.Description, req.DueDate.ToTimePtr()); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (a *API) handleUpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req taskStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	status := models.TaskStatus(req.Status)
	switch status {
	case models.TaskPending, models.TaskInProgress, models.TaskCompleted, models.TaskSkipped:
	default:
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown status")
		return
	}
	task, err := a.Service.SetTaskStatus(r.Context(), userID, chi.URLParam(r, "id"), status, time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (a *API) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	task, err := a.Service.SetTaskStatus(r.Context(), userID, chi.URLParam(r, "id"), models.TaskCompleted, time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (a *API) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := a.Repo.DeleteTask(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (a *API) handleListTodayTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	now := time.Now()
	tasks, err := a.Repo.ListTasksToday(r.Context(), userID, dates.StartOfDay(now), dates.EndOfDay(now))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (a *API) handleListCompletedTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	tasks, err := a.Repo.ListCompletedTasks(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (a *API) handleListPendingTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	tasks, err := a.Repo.ListPendingTasks(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (a *API) handleListOverdueTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	tasks, err := a.Repo.ListOverdueTasks(r.Context(), userID, dates.StartOfDay(time.Now()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (a *API) handleListFutureTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	startOfTomorrow := dates.StartOfDay(dates.AddDays(time.Now(), 1))
	tasks, err := a.Repo.ListFutureTasks(r.Context(), userID, startOfTomorrow)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}
