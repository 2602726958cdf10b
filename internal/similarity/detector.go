package similarity

import (
	"fmt"
	"sort"

	"github.com/triagelab/ai-triage/pkg/models"
)

// Default detection thresholds.
const (
	DefaultSimilarityThreshold = 0.6
	DefaultConfidenceThreshold = 0.6
)

// Detector performs lexical duplicate detection over candidate issues using
// TF-IDF weighted cosine similarity. It is deterministic, needs no network,
// and is safe for sequential reuse; it holds no per-call state.
type Detector struct {
	similarityThreshold float64
	confidenceThreshold float64
}

// NewDetector creates a detector with explicit thresholds, both in [0, 1].
func NewDetector(similarityThreshold, confidenceThreshold float64) (*Detector, error) {
	if similarityThreshold < 0 || similarityThreshold > 1 {
		return nil, fmt.Errorf("similarity threshold %v out of range [0, 1]", similarityThreshold)
	}
	if confidenceThreshold < 0 || confidenceThreshold > 1 {
		return nil, fmt.Errorf("confidence threshold %v out of range [0, 1]", confidenceThreshold)
	}
	return &Detector{
		similarityThreshold: similarityThreshold,
		confidenceThreshold: confidenceThreshold,
	}, nil
}

// NewDefaultDetector creates a detector with the default thresholds.
func NewDefaultDetector() *Detector {
	return &Detector{
		similarityThreshold: DefaultSimilarityThreshold,
		confidenceThreshold: DefaultConfidenceThreshold,
	}
}

// SimilarityThreshold returns the duplicate classification cutoff.
func (d *Detector) SimilarityThreshold() float64 { return d.similarityThreshold }

// ConfidenceThreshold returns the high-confidence reporting cutoff.
func (d *Detector) ConfidenceThreshold() float64 { return d.confidenceThreshold }

// DetectDuplicate checks whether the new issue duplicates any OPEN candidate.
// Closed candidates are ignored here (and only here: FindMostSimilar and
// TopMatches rank the full candidate set). The result is always well-formed;
// degenerate input produces a zero-score manual-review result.
func (d *Detector) DetectDuplicate(title, description string, candidates []*models.IssueReference) *models.DuplicateDetectionResult {
	open := filterOpen(candidates)
	if len(open) == 0 {
		return &models.DuplicateDetectionResult{
			IsDuplicate:       false,
			DuplicateOf:       nil,
			SimilarityScore:   0.0,
			ConfidenceScore:   1.0,
			SimilarityReasons: []string{},
			Recommendation:    "No open issues to compare against. This appears to be a new issue.",
		}
	}

	scores, err := d.scoreAgainst(title, description, open, corpusOptions)
	if err != nil {
		return fallbackResult(err)
	}

	// First maximum wins on ties.
	bestIdx := 0
	for i, s := range scores {
		if s > scores[bestIdx] {
			bestIdx = i
		}
	}
	bestScore := scores[bestIdx]
	match := open[bestIdx]

	isDuplicate := bestScore >= d.similarityThreshold

	var duplicateOf *models.IssueReference
	if isDuplicate {
		duplicateOf = match
	}

	return &models.DuplicateDetectionResult{
		IsDuplicate:       isDuplicate,
		DuplicateOf:       duplicateOf,
		SimilarityScore:   bestScore,
		ConfidenceScore:   confidenceFor(bestScore),
		SimilarityReasons: d.buildReasons(title, description, match, bestScore),
		Recommendation:    recommendationFor(isDuplicate, bestScore, match),
	}
}

// FindMostSimilar returns the single closest candidate regardless of status,
// or (nil, 0) when there are no candidates.
func (d *Detector) FindMostSimilar(title, description string, candidates []*models.IssueReference) (*models.IssueReference, float64) {
	matches := d.TopMatches(title, description, candidates, 1)
	if len(matches) == 0 {
		return nil, 0.0
	}
	return matches[0].Issue, matches[0].Score
}

// TopMatches ranks ALL candidates (open and closed) against the new issue
// and returns up to topK matches with non-zero scores, highest first.
func (d *Detector) TopMatches(title, description string, candidates []*models.IssueReference, topK int) []models.SimilarMatch {
	if len(candidates) == 0 || topK <= 0 {
		return nil
	}

	scores, err := d.scoreAgainst(title, description, candidates, corpusOptions)
	if err != nil {
		return nil
	}

	matches := make([]models.SimilarMatch, 0, len(candidates))
	for i, s := range scores {
		if s > 0.0 {
			matches = append(matches, models.SimilarMatch{Issue: candidates[i], Score: s})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}

// DetectBatch runs DetectDuplicate for each new issue against the same
// candidate set. The result slice preserves input order and length; a
// degenerate element yields its own fallback result without stopping the
// batch.
func (d *Detector) DetectBatch(newIssues []models.NewIssue, candidates []*models.IssueReference) []*models.DuplicateDetectionResult {
	results := make([]*models.DuplicateDetectionResult, 0, len(newIssues))
	for _, issue := range newIssues {
		results = append(results, d.DetectDuplicate(issue.Title, issue.Description, candidates))
	}
	return results
}

// SimilarityMatrix computes pairwise combined-text similarities across a set
// of issues in one fit. Degenerate input yields an all-zero matrix.
func (d *Detector) SimilarityMatrix(issues []*models.IssueReference) [][]float64 {
	m := make([][]float64, len(issues))
	for i := range m {
		m[i] = make([]float64, len(issues))
	}
	if len(issues) == 0 {
		return m
	}

	docs := make([]string, len(issues))
	for i, issue := range issues {
		docs[i] = combineIssueText(issue.Title, issue.Description)
	}

	vectors, err := fitTransform(docs, corpusOptions)
	if err != nil {
		return m
	}

	for i := range vectors {
		for j := i; j < len(vectors); j++ {
			s := cosine(vectors[i], vectors[j])
			m[i][j] = s
			m[j][i] = s
		}
	}
	return m
}

// scoreAgainst fits one corpus (query first, then candidates) and returns the
// query's similarity to each candidate, in candidate order.
func (d *Detector) scoreAgainst(title, description string, candidates []*models.IssueReference, opts vectorizerOptions) ([]float64, error) {
	docs := make([]string, 0, len(candidates)+1)
	docs = append(docs, combineIssueText(title, description))
	for _, c := range candidates {
		docs = append(docs, combineIssueText(c.Title, c.Description))
	}

	vectors, err := fitTransform(docs, opts)
	if err != nil {
		return nil, err
	}

	scores := make([]float64, len(candidates))
	for i := 1; i < len(vectors); i++ {
		scores[i-1] = cosine(vectors[0], vectors[i])
	}
	return scores, nil
}

func filterOpen(candidates []*models.IssueReference) []*models.IssueReference {
	open := make([]*models.IssueReference, 0, len(candidates))
	for _, c := range candidates {
		if c != nil && c.IsOpen() {
			open = append(open, c)
		}
	}
	return open
}

func fallbackResult(err error) *models.DuplicateDetectionResult {
	return &models.DuplicateDetectionResult{
		IsDuplicate:       false,
		DuplicateOf:       nil,
		SimilarityScore:   0.0,
		ConfidenceScore:   0.0,
		SimilarityReasons: []string{},
		Recommendation:    fmt.Sprintf("Unable to perform similarity analysis due to error: %v. Manual review required.", err),
	}
}
