package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tranxuanbinhn/goalflow-backend/internal/auth"
)

func TestUpdateMilestoneRejectsUnknownStatus(t *testing.T) {
	api := &API{}
	body := `{"title":"Ship it","status":"ALMOST_DONE"}`
	req := httptest.NewRequest(http.MethodPut, "/api/milestones/m1", strings.NewReader(body))
	req = req.WithContext(auth.WithUserID(req.Context(), "u1"))
	rec := httptest.NewRecorder()

	api.handleUpdateMilestone(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR, got %q", resp.Error.Code)
	}
}
