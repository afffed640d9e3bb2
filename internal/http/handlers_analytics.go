package http

import (
	"net/http"
	"strconv"
	"time"
)

type journalRequest struct {
	Reason string `json:"reason"`
}

func (a *API) handleOverview(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	overview, err := a.Service.BuildOverview(r.Context(), userID, r.URL.Query().Get("vision_id"), time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (a *API) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	now := time.Now()
	target := now
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD")
			return
		}
		target = parsed
	}
	report, err := a.Service.DailyReport(r.Context(), userID, target, now)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (a *API) handleWeeklyReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	report, err := a.Service.WeeklyReport(r.Context(), userID, time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (a *API) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	now := time.Now()
	year, month := now.Year(), int(now.Month())-1
	q := r.URL.Query()
	if raw := q.Get("year"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid year")
			return
		}
		year = n
	}
	// month is 0-indexed, matching the frontend's Date.getMonth().
	if raw := q.Get("month"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 11 {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "month must be 0-11")
			return
		}
		month = n
	}
	report, err := a.Service.MonthlyReport(r.Context(), userID, year, month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (a *API) handleStreaks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	streaks, err := a.Service.Streaks(r.Context(), userID, time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, streaks)
}

func (a *API) handleJournalCheck(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	status, err := a.Service.CheckJournal(r.Context(), userID, time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (a *API) handleSubmitJournal(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req journalRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Reason == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Reason required")
		return
	}
	entry, err := a.Service.SubmitJournal(r.Context(), userID, req.Reason, time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (a *API) handleJournalHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid limit")
			return
		}
		limit = n
	}
	entries, err := a.Service.JournalHistory(r.Context(), userID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"journals": entries})
}
