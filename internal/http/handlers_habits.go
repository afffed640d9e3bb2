package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tranxuanbinhn/goalflow-backend/internal/models"
	"github.com/tranxuanbinhn/goalflow-backend/internal/repo"
)

type habitRequest struct {
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	Icon             string  `json:"icon"`
	Color            string  `json:"color"`
	FrequencyPerWeek int     `json:"frequency_per_week"`
	Reminder         *string `json:"reminder"`
	MilestoneID      *string `json:"milestone_id"`
}

type habitUpdateRequest struct {
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	Icon             *string `json:"icon"`
	Color            *string `json:"color"`
	FrequencyPerWeek *int    `json:"frequency_per_week"`
	Reminder         *string `json:"reminder"`
	IsActive         *bool   `json:"is_active"`
	MilestoneID      *string `json:"milestone_id"`
}

func (a *API) handleListHabits(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	habits, err := a.Service.ListHabits(r.Context(), userID, r.URL.Query().Get("milestone_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"habits": habits})
}

func (a *API) handleCreateHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req habitRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Title required")
		return
	}
	if req.FrequencyPerWeek < 1 || req.FrequencyPerWeek > 7 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Frequency must be 1-7 days per week")
		return
	}
	habit, err := a.Service.CreateHabit(r.Context(), userID, models.Habit{
		Title:            req.Title,
		Description:      req.Description,
		Icon:             req.Icon,
		Color:            req.Color,
		FrequencyPerWeek: req.FrequencyPerWeek,
		Reminder:         req.Reminder,
		MilestoneID:      req.MilestoneID,
		IsActive:         true,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, habit)
}

func (a *API) handleGetHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	habit, err := a.Service.GetHabit(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

func (a *API) handleUpdateHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req habitUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.FrequencyPerWeek != nil && (*req.FrequencyPerWeek < 1 || *req.FrequencyPerWeek > 7) {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Frequency must be 1-7 days per week")
		return
	}
	habit, err := a.Service.UpdateHabit(r.Context(), userID, chi.URLParam(r, "id"), repo.HabitUpdate{
		Title:            req.Title,
		Description:      req.Description,
		Icon:             req.Icon,
		Color:            req.Color,
		FrequencyPerWeek: req.FrequencyPerWeek,
		Reminder:         req.Reminder,
		IsActive:         req.IsActive,
		MilestoneID:      req.MilestoneID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

func (a *API) handleDeleteHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := a.Service.DeleteHabit(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (a *API) handleToggleHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	habit, err := a.Service.ToggleHabitToday(r.Context(), userID, chi.URLParam(r, "id"), time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

const defaultActivityWindowDays = 30

func (a *API) handleHabitActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	days := defaultActivityWindowDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 365 {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "days must be 1-365")
			return
		}
		days = n
	}
	activity, err := a.Service.HabitActivityWindow(r.Context(), userID, chi.URLParam(r, "id"), days, time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"activity": activity})
}

func (a *API) handleResyncHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	habit, err := a.Service.ResyncHabitStreak(r.Context(), userID, chi.URLParam(r, "id"), time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

func (a *API) handleResyncAllHabits(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	resynced, err := a.Service.ResyncAllStreaks(r.Context(), userID, time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"resynced": resynced})
}
