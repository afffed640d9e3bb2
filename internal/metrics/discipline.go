package metrics

import (
	"strings"
	"time"

	"github.com/tranxuanbinhn/goalflow-backend/internal/dates"
)

// journalLookbackDays is the fixed window the discipline check scans:
// the 3 days immediately preceding today, today itself excluded.
const journalLookbackDays = 3

// JournalCheck scans the 3 calendar days before now for days with no
// completed task. brokenDays is in [0,3]; a journal entry is required only
// once all three are broken.
func JournalCheck(completions []time.Time, now time.Time) (required bool, brokenDays int) {
	days := make(map[string]struct{}, len(completions))
	for _, c := range completions {
		days[dates.Key(c)] = struct{}{}
	}

	today := dates.StartOfDay(now)
	for i := 1; i <= journalLookbackDays; i++ {
		if _, ok := days[dates.Key(dates.AddDays(today, -i))]; !ok {
			brokenDays++
		}
	}
	return brokenDays >= journalLookbackDays, brokenDays
}

// JournalAnalysis is the rule-table classification of journal reasons.
type JournalAnalysis struct {
	Patterns    []string `json:"patterns"`
	Suggestions []string `json:"suggestions"`
}

type journalRule struct {
	keywords   []string
	pattern    string
	suggestion string
}

var journalRules = []journalRule{
	{
		keywords:   []string{"busy", "work", "time"},
		pattern:    "Time management issues detected",
		suggestion: "Try time-blocking your day or waking up 30 minutes earlier",
	},
	{
		keywords:   []string{"tired", "sleep", "energy"},
		pattern:    "Energy management could be improved",
		suggestion: "Focus on sleep quality and morning routines",
	},
	{
		keywords:   []string{"motivation", "want", "feel"},
		pattern:    "Motivation fluctuations detected",
		suggestion: "Connect your goals to a deeper \"why\" and use visual reminders",
	},
	{
		keywords:   []string{"distraction", "phone", "social"},
		pattern:    "Distractions are interfering",
		suggestion: "Create a distraction-free environment during focus time",
	},
}

var journalFallbackSuggestions = []string{
	"Start with smaller, more achievable daily goals",
	"Track your progress visually to maintain motivation",
	"Build a support system or accountability partner",
}

// AnalyzeJournal matches recent journal reasons against a fixed keyword
// taxonomy. When no rule fires, generic suggestions are returned.
func AnalyzeJournal(reasons []string) JournalAnalysis {
	text := strings.ToLower(strings.Join(reasons, " "))

	analysis := JournalAnalysis{Patterns: []string{}, Suggestions: []string{}}
	for _, rule := range journalRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				analysis.Patterns = append(analysis.Patterns, rule.pattern)
				analysis.Suggestions = append(analysis.Suggestions, rule.suggestion)
				break
			}
		}
	}
	if len(analysis.Suggestions) == 0 {
		analysis.Suggestions = append(analysis.Suggestions, journalFallbackSuggestions...)
	}
	return analysis
}
