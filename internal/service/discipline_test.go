package service

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/tranxuanbinhn/goalflow-backend/internal/models"
)

func TestJournalReasonsOldestFirstWithNewLast(t *testing.T) {
	history := []models.Journal{
		{Reason: "newest"},
		{Reason: "middle"},
		{Reason: "oldest"},
	}
	got := journalReasons(history, "fresh")
	want := []string{"oldest", "middle", "newest", "fresh"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if got := journalReasons(nil, "only"); !reflect.DeepEqual(got, []string{"only"}) {
		t.Fatalf("expected just the new reason, got %v", got)
	}
}

func TestSubmitJournalAccumulatesPatterns(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	userID := mustCreateTestUser(t, svc, "journal@b.com")
	now := time.Now()
	if _, err := svc.SubmitJournal(ctx, userID, "too busy at work this week", now); err != nil {
		t.Fatalf("first journal: %v", err)
	}
	entry, err := svc.SubmitJournal(ctx, userID, "felt tired and low on energy", now)
	if err != nil {
		t.Fatalf("second journal: %v", err)
	}

	patterns := map[string]bool{}
	for _, p := range entry.Analysis.Patterns {
		patterns[p] = true
	}
	if !patterns["Energy management could be improved"] {
		t.Fatalf("expected energy pattern from the new reason, got %v", entry.Analysis.Patterns)
	}
	if !patterns["Time management issues detected"] {
		t.Fatalf("expected time pattern carried over from history, got %v", entry.Analysis.Patterns)
	}
}
