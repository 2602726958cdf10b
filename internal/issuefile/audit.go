package issuefile

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"

	"github.com/triagelab/ai-triage/pkg/models"
)

// Report summarizes structural and language problems in a loaded corpus.
// The similarity engine's stop list and token rules assume English text, so
// non-English records are worth surfacing before anyone trusts the scores.
type Report struct {
	Total               int
	ByStatus            map[string]int
	MissingDescriptions int
	DuplicateIDs        []string
	NonEnglish          []string
}

// Clean reports whether the audit found nothing to warn about.
func (r Report) Clean() bool {
	return r.MissingDescriptions == 0 && len(r.DuplicateIDs) == 0 && len(r.NonEnglish) == 0
}

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

func languageDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			Build()
	})
	return detector
}

// Audit inspects a corpus for duplicate ids, missing descriptions, and
// records whose text does not read as English.
func Audit(issues []*models.IssueReference) Report {
	report := Report{
		Total:    len(issues),
		ByStatus: make(map[string]int, 4),
	}

	seen := make(map[string]int, len(issues))
	for _, issue := range issues {
		report.ByStatus[issue.Status]++

		if issue.Description == "" || issue.Description == DefaultDescription {
			report.MissingDescriptions++
		}

		seen[issue.IssueID]++
		if seen[issue.IssueID] == 2 {
			report.DuplicateIDs = append(report.DuplicateIDs, issue.IssueID)
		}

		if !looksEnglish(issue.Title + " " + issue.Description) {
			report.NonEnglish = append(report.NonEnglish, issue.IssueID)
		}
	}
	return report
}

// looksEnglish detects the dominant language of the text. Fragments too
// short for a reliable detection pass the check.
func looksEnglish(text string) bool {
	sample := strings.TrimSpace(text)
	letters := 0
	for _, r := range sample {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters < 6 {
		return true
	}

	language, exists := languageDetector().DetectLanguageOf(sample)
	if !exists {
		return true
	}
	return language == lingua.English
}
