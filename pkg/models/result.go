package models

import "time"

// DuplicateDetectionResult is the outcome of checking one new issue against
// a candidate set. It is always well-formed: a degenerate input produces a
// zero-score result with a manual-review recommendation, never an absent one.
type DuplicateDetectionResult struct {
	IsDuplicate       bool            `json:"is_duplicate"`
	DuplicateOf       *IssueReference `json:"duplicate_of"`
	SimilarityScore   float64         `json:"similarity_score"`
	ConfidenceScore   float64         `json:"confidence_score"`
	SimilarityReasons []string        `json:"similarity_reasons"`
	Recommendation    string          `json:"recommendation"`
}

// SimilarMatch pairs a candidate issue with its similarity score.
type SimilarMatch struct {
	Issue *IssueReference `json:"issue"`
	Score float64         `json:"score"`
}

// IndexStats contains statistics from an indexing operation.
type IndexStats struct {
	TotalIssues int `json:"total_issues"`
	Indexed     int `json:"indexed"`
	Skipped     int `json:"skipped"`
	Errors      int `json:"errors"`
	DurationMs  int `json:"duration_ms"`
}

// SearchResult is a semantic-index hit.
type SearchResult struct {
	Issue IssueReference `json:"issue"`
	Score float64        `json:"score"`
}

// CheckReport is the envelope for a duplicate check: what was asked, what
// was decided, and the closest candidates.
type CheckReport struct {
	AnalyzedAt    time.Time                 `json:"analyzed_at"`
	NewIssue      NewIssue                  `json:"new_issue"`
	Result        *DuplicateDetectionResult `json:"result"`
	SimilarIssues []SimilarIssueSummary     `json:"similar_issues,omitempty"`
}

// SimilarIssueSummary is the compact similar-issue line used in reports.
type SimilarIssueSummary struct {
	IssueID string  `json:"issue_id"`
	Title   string  `json:"title"`
	Status  string  `json:"status"`
	Score   float64 `json:"score"`
}

// SummarizeMatches flattens matches into report lines.
func SummarizeMatches(matches []SimilarMatch) []SimilarIssueSummary {
	out := make([]SimilarIssueSummary, 0, len(matches))
	for _, m := range matches {
		if m.Issue == nil {
			continue
		}
		out = append(out, SimilarIssueSummary{
			IssueID: m.Issue.IssueID,
			Title:   m.Issue.Title,
			Status:  m.Issue.Status,
			Score:   m.Score,
		})
	}
	return out
}
