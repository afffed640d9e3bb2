package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tranxuanbinhn/goalflow-backend/internal/metrics"
	"github.com/tranxuanbinhn/goalflow-backend/internal/models"
)

type visionRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        *string   `json:"icon"`
	TargetDate  *FlexTime `json:"target_date"`
}

type milestoneRequest struct {
	VisionID    string    `json:"vision_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        *string   `json:"icon"`
	Status      string    `json:"status"`
	TargetDate  *FlexTime `json:"target_date"`
}

type milestoneStatusRequest struct {
	Status string `json:"status"`
}

// withProgress fills in the derived progress fields before a vision goes out
// on the wire.
func withProgress(v models.Vision) models.Vision {
	for i := range v.Milestones {
		v.Milestones[i].Progress = metrics.MilestoneProgress(v.Milestones[i])
	}
	v.Progress = metrics.VisionProgress(v)
	return v
}

func (a *API) handleListVisions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	visions, err := a.Repo.ListVisions(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	for i := range visions {
		visions[i] = withProgress(visions[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"visions": visions})
}

func (a *API) handleCreateVision(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req visionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Title required")
		return
	}
	id, err := a.Repo.CreateVision(r.Context(), userID, req.Title, req.Description, req.Icon, req.TargetDate.ToTimePtr())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entityResponse{ID: id})
}

func (a *API) handleGetVision(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	vision, err := a.Repo.GetVision(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, withProgress(vision))
}

func (a *API) handleUpdateVision(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req visionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Title required")
		return
	}
	if err := a.Repo.UpdateVision(r.Context(), chi.URLParam(r, "id"), userID, req.Title, req.Description, req.Icon, req.TargetDate.ToTimePtr()); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (a *API) handleDeleteVision(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	counts, err := a.Repo.DeleteVision(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (a *API) handleListMilestones(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	milestones, err := a.Repo.ListMilestones(r.Context(), userID, r.URL.Query().Get("vision_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	for i := range milestones {
		milestones[i].Progress = metrics.MilestoneProgress(milestones[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"milestones": milestones})
}

func (a *API) handleCreateMilestone(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req milestoneRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.VisionID == "" || req.Title == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Vision and title required")
		return
	}
	id, err := a.Repo.CreateMilestone(r.Context(), req.VisionID, userID, req.Title, req.Description, req.Icon, req.TargetDate.ToTimePtr())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entityResponse{ID: id})
}

func (a *API) handleGetMilestone(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	milestone, err := a.Repo.GetMilestone(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	milestone.Progress = metrics.MilestoneProgress(milestone)
	writeJSON(w, http.StatusOK, milestone)
}

func (a *API) handleUpdateMilestone(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req milestoneRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Title required")
		return
	}
	status := models.MilestoneStatus(req.Status)
	switch status {
	case "", models.MilestoneNotStarted, models.MilestoneInProgress, models.MilestoneCompleted:
		// empty keeps the stored status
	default:
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown status")
		return
	}
	err := a.Repo.UpdateMilestone(r.Context(), chi.URLParam(r, "id"), userID, req.Title, req.Description,
		req.Icon, status, req.TargetDate.ToTimePtr())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (a *API) handleUpdateMilestoneStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req milestoneStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	status := models.MilestoneStatus(req.Status)
	switch status {
	case models.MilestoneNotStarted, models.MilestoneInProgress, models.MilestoneCompleted:
	default:
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown status")
		return
	}
	if err := a.Repo.UpdateMilestoneStatus(r.Context(), chi.URLParam(r, "id"), userID, status); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (a *API) handleDeleteMilestone(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := a.Repo.DeleteMilestone(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}
