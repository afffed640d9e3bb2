package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tranxuanbinhn/goalflow-backend/internal/metrics"
	"github.com/tranxuanbinhn/goalflow-backend/internal/models"
)

type JournalStatus struct {
	JournalRequired bool `json:"journal_required"`
	BrokenDays      int  `json:"broken_days"`
	CurrentStreak   int  `json:"current_streak"`
}

// CheckJournal reports whether the user's recent missed days have crossed
// the reflection threshold.
func (s *Service) CheckJournal(ctx context.Context, userID string, now time.Time) (JournalStatus, error) {
	completions, err := s.Repo.ListTaskCompletionTimes(ctx, userID)
	if err != nil {
		return JournalStatus{}, err
	}
	required, brokenDays := metrics.JournalCheck(completions, now)
	return JournalStatus{
		JournalRequired: required,
		BrokenDays:      brokenDays,
		CurrentStreak:   metrics.TaskStreak(completions, now),
	}, nil
}

type JournalEntry struct {
	models.Journal
	Analysis metrics.JournalAnalysis `json:"analysis"`
}

const journalAnalysisHistory = 10

// SubmitJournal analyzes the user's stated reason together with their recent
// journal history, stores the entry with a snapshot of the current streak,
// and returns both. Patterns accumulate across entries so repeated excuses
// surface even when each individual reason looks benign.
func (s *Service) SubmitJournal(ctx context.Context, userID, reason string, now time.Time) (JournalEntry, error) {
	completions, err := s.Repo.ListTaskCompletionTimes(ctx, userID)
	if err != nil {
		return JournalEntry{}, err
	}
	history, err := s.Repo.ListJournals(ctx, userID, journalAnalysisHistory)
	if err != nil {
		return JournalEntry{}, err
	}
	analysis := metrics.AnalyzeJournal(journalReasons(history, reason))
	encoded, err := json.Marshal(analysis)
	if err != nil {
		return JournalEntry{}, err
	}
	journal, err := s.Repo.CreateJournal(ctx, userID, reason, string(encoded), metrics.TaskStreak(completions, now))
	if err != nil {
		return JournalEntry{}, err
	}
	return JournalEntry{Journal: journal, Analysis: analysis}, nil
}

// journalReasons flattens recent journals (newest first, as ListJournals
// returns them) into oldest-first reasons with the new one appended.
func journalReasons(history []models.Journal, newReason string) []string {
	reasons := make([]string, 0, len(history)+1)
	for i := len(history) - 1; i >= 0; i-- {
		reasons = append(reasons, history[i].Reason)
	}
	return append(reasons, newReason)
}

const defaultJournalHistoryLimit = 30

func (s *Service) JournalHistory(ctx context.Context, userID string, limit int) ([]JournalEntry, error) {
	if limit < 1 {
		limit = defaultJournalHistoryLimit
	}
	journals, err := s.Repo.ListJournals(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	entries := make([]JournalEntry, 0, len(journals))
	for _, j := range journals {
		entry := JournalEntry{Journal: j}
		if j.Analysis != "" {
			_ = json.Unmarshal([]byte(j.Analysis), &entry.Analysis)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
