package service

import (
	"testing"
	"time"

	"github.com/tranxuanbinhn/goalflow-backend/internal/models"
)

func TestSelectVision(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	visions := []models.Vision{
		{ID: "a", UpdatedAt: base},
		{ID: "b", UpdatedAt: base.Add(48 * time.Hour)},
		{ID: "c", UpdatedAt: base.Add(24 * time.Hour)},
	}

	if v := selectVision(visions, "c"); v == nil || v.ID != "c" {
		t.Fatalf("expected requested vision c, got %+v", v)
	}
	if v := selectVision(visions, ""); v == nil || v.ID != "b" {
		t.Fatalf("expected latest-updated vision b, got %+v", v)
	}
	if v := selectVision(visions, "missing"); v != nil {
		t.Fatalf("expected no selection for unknown id, got %+v", v)
	}
	if v := selectVision(nil, ""); v != nil {
		t.Fatalf("expected no selection without visions, got %+v", v)
	}
}

func TestBuildRoadmapSingleVision(t *testing.T) {
	near := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	far := near.AddDate(0, 2, 0)
	vision := models.Vision{
		ID: "v1",
		Milestones: []models.Milestone{
			{ID: "later", Title: "Later", Status: models.MilestoneNotStarted, TargetDate: &far},
			{ID: "undated", Title: "Undated"},
			{ID: "sooner", Title: "Sooner", Status: models.MilestoneInProgress, TargetDate: &near,
				Habits: []models.Habit{{ID: "h1", Title: "Practice"}}},
		},
	}

	items := buildRoadmap(vision)
	if len(items) != 2 {
		t.Fatalf("expected 2 dated milestones, got %d", len(items))
	}
	if items[0].MilestoneID != "sooner" || items[1].MilestoneID != "later" {
		t.Fatalf("expected soonest-first order, got %s then %s", items[0].MilestoneID, items[1].MilestoneID)
	}
	if items[0].VisionID != "v1" {
		t.Fatalf("expected vision id on the item, got %q", items[0].VisionID)
	}
	if len(items[0].Habits) != 1 || items[0].Habits[0].ID != "h1" {
		t.Fatalf("expected linked habit carried over, got %+v", items[0].Habits)
	}
}
