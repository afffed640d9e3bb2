package metrics

import (
	"strings"
	"testing"
)

func TestJournalCheck(t *testing.T) {
	tests := []struct {
		name       string
		daysBack   []int
		wantBroken int
		wantReq    bool
	}{
		{"all three days worked", []int{1, 2, 3}, 0, false},
		{"one missed", []int{1, 2}, 1, false},
		{"two missed", []int{2}, 2, false},
		{"all missed", nil, 3, true},
		{"today does not count", []int{0}, 3, true},
		{"older days do not count", []int{4, 5, 6}, 3, true},
	}
	for _, tt := range tests {
		required, broken := JournalCheck(completionsDaysBack(testNow, tt.daysBack...), testNow)
		if broken != tt.wantBroken || required != tt.wantReq {
			t.Errorf("%s: got broken=%d required=%v, want broken=%d required=%v",
				tt.name, broken, required, tt.wantBroken, tt.wantReq)
		}
	}
}

func TestAnalyzeJournalMatchesRules(t *testing.T) {
	analysis := AnalyzeJournal([]string{"Too busy at work", "felt tired all day"})
	if len(analysis.Patterns) != 2 {
		t.Fatalf("expected 2 patterns, got %v", analysis.Patterns)
	}
	joined := strings.Join(analysis.Patterns, "|")
	if !strings.Contains(joined, "Time management") || !strings.Contains(joined, "Energy management") {
		t.Fatalf("wrong patterns: %v", analysis.Patterns)
	}
	if len(analysis.Suggestions) != 2 {
		t.Fatalf("expected one suggestion per pattern, got %v", analysis.Suggestions)
	}
}

func TestAnalyzeJournalCaseInsensitive(t *testing.T) {
	analysis := AnalyzeJournal([]string{"PHONE kept buzzing"})
	if len(analysis.Patterns) != 1 || !strings.Contains(analysis.Patterns[0], "Distractions") {
		t.Fatalf("got %v", analysis.Patterns)
	}
}

func TestAnalyzeJournalFallback(t *testing.T) {
	analysis := AnalyzeJournal([]string{"just didn't"})
	if len(analysis.Patterns) != 0 {
		t.Fatalf("expected no patterns, got %v", analysis.Patterns)
	}
	if len(analysis.Suggestions) != 3 {
		t.Fatalf("expected 3 generic suggestions, got %v", analysis.Suggestions)
	}
}

func TestAnalyzeJournalRuleFiresOnce(t *testing.T) {
	// Multiple keywords of the same rule add its pattern only once.
	analysis := AnalyzeJournal([]string{"busy with work, no time"})
	if len(analysis.Patterns) != 1 {
		t.Fatalf("expected 1 pattern, got %v", analysis.Patterns)
	}
}
