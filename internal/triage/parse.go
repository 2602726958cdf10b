package triage

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/triagelab/ai-triage/pkg/models"
)

// jsonBlockPattern grabs everything from the first { to the last },
// which tolerates prose and markdown fences around the payload.
var jsonBlockPattern = regexp.MustCompile(`(?s)\{.*\}`)

type analysisPayload struct {
	IssueType         string                   `json:"issue_type"`
	Severity          string                   `json:"severity"`
	RootCauseAnalysis models.RootCauseAnalysis `json:"root_cause_analysis"`
	ProposedSolutions []models.CodeSolution    `json:"proposed_solutions"`
	ConfidenceScore   float64                  `json:"confidence_score"`
	AnalysisSummary   string                   `json:"analysis_summary"`
}

type duplicatePayload struct {
	IsDuplicate       bool     `json:"is_duplicate"`
	DuplicateIssueID  string   `json:"duplicate_issue_id"`
	SimilarityScore   float64  `json:"similarity_score"`
	SimilarityReasons []string `json:"similarity_reasons"`
	ConfidenceScore   *float64 `json:"confidence_score"`
	Recommendation    string   `json:"recommendation"`
}

// parseAnalysisResponse extracts the structured analysis from a model
// response, falling back to keyword heuristics when no parsable JSON is
// present.
func parseAnalysisResponse(text string) analysisPayload {
	if block := jsonBlockPattern.FindString(text); block != "" {
		var p analysisPayload
		if err := json.Unmarshal([]byte(block), &p); err == nil {
			return p
		}
	}
	return analysisFromText(text)
}

// analysisFromText derives a coarse analysis from free-form text.
func analysisFromText(text string) analysisPayload {
	lower := strings.ToLower(text)

	issueType := "bug"
	if containsAny(lower, "enhancement", "improve", "optimize") {
		issueType = "enhancement"
	} else if containsAny(lower, "feature", "new", "add") {
		issueType = "feature_request"
	}

	severity := "medium"
	if containsAny(lower, "critical", "severe", "urgent") {
		severity = "critical"
	} else if containsAny(lower, "high", "important") {
		severity = "high"
	} else if containsAny(lower, "low", "minor") {
		severity = "low"
	}

	summary := text
	if len(summary) > 500 {
		summary = summary[:500] + "..."
	}

	return analysisPayload{
		IssueType: issueType,
		Severity:  severity,
		RootCauseAnalysis: models.RootCauseAnalysis{
			PrimaryCause:         "Analysis based on codebase review",
			ContributingFactors:  []string{"Requires detailed code inspection"},
			AffectedComponents:   []string{"To be determined"},
			RelatedCodeLocations: []models.CodeLocation{},
		},
		ProposedSolutions: []models.CodeSolution{
			{
				Description: "Requires further investigation",
				CodeChanges: "To be determined after detailed analysis",
				Location:    models.CodeLocation{FilePath: "unknown"},
				Rationale:   "Based on initial analysis",
			},
		},
		ConfidenceScore: 0.5,
		AnalysisSummary: summary,
	}
}

// parseDuplicateResponse extracts the duplicate verdict from a model
// response, falling back to keyword heuristics when no parsable JSON is
// present.
func parseDuplicateResponse(text string) duplicatePayload {
	if block := jsonBlockPattern.FindString(text); block != "" {
		var p duplicatePayload
		if err := json.Unmarshal([]byte(block), &p); err == nil {
			if p.SimilarityReasons == nil {
				p.SimilarityReasons = []string{}
			}
			if p.ConfidenceScore == nil {
				half := 0.5
				p.ConfidenceScore = &half
			}
			if p.Recommendation == "" {
				p.Recommendation = "Manual review recommended"
			}
			if !p.IsDuplicate {
				p.DuplicateIssueID = ""
			}
			return p
		}
	}
	return duplicateFromText(text)
}

// duplicateFromText derives a coarse duplicate verdict from free-form text.
func duplicateFromText(text string) duplicatePayload {
	lower := strings.ToLower(text)

	isDuplicate := containsAny(lower, "duplicate", "same issue", "already reported")

	score := 0.1
	if isDuplicate {
		score = 0.3
	}
	if strings.Contains(lower, "very similar") || strings.Contains(lower, "identical") {
		score = 0.8
	} else if strings.Contains(lower, "similar") {
		score = 0.6
	}

	reasons := []string{}
	if isDuplicate {
		reasons = []string{"Analysis based on text review"}
	}

	conf := 0.4 // low confidence for fallback parsing
	return duplicatePayload{
		IsDuplicate:       isDuplicate,
		SimilarityScore:   score,
		SimilarityReasons: reasons,
		ConfidenceScore:   &conf,
		Recommendation:    "Manual review recommended due to parsing issues",
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
