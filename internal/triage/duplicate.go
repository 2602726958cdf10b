package triage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/triagelab/ai-triage/internal/llm"
	"github.com/triagelab/ai-triage/pkg/models"
)

// DuplicateChecker asks an LLM whether a new issue duplicates any open
// candidate. It mirrors the lexical detector's outer contract: open-only
// comparison, the same empty-candidate result, and fallback results instead
// of errors.
type DuplicateChecker struct {
	provider   llm.Provider
	maxRetries int
	log        zerolog.Logger
}

// NewDuplicateChecker creates a checker with the given retry budget
// (additional attempts after the first).
func NewDuplicateChecker(provider llm.Provider, maxRetries int, log zerolog.Logger) *DuplicateChecker {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &DuplicateChecker{
		provider:   provider,
		maxRetries: maxRetries,
		log:        log,
	}
}

// DetectDuplicate checks the new issue against open candidates via the LLM.
// The result is always well-formed; provider failures after retries produce
// a zero-confidence manual-review result.
func (c *DuplicateChecker) DetectDuplicate(ctx context.Context, title, description string, candidates []*models.IssueReference) *models.DuplicateDetectionResult {
	open := make([]*models.IssueReference, 0, len(candidates))
	for _, cand := range candidates {
		if cand != nil && cand.IsOpen() {
			open = append(open, cand)
		}
	}

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

	prompt := duplicatePrompt(title, description, open)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		response, err := c.provider.Complete(ctx, prompt)
		if err != nil {
			lastErr = err
			c.log.Warn().Err(err).Int("attempt", attempt+1).Msg("duplicate detection request failed")
			continue
		}

		payload := parseDuplicateResponse(response)
		return c.assemble(payload, open)
	}

	return &models.DuplicateDetectionResult{
		IsDuplicate:       false,
		DuplicateOf:       nil,
		SimilarityScore:   0.0,
		ConfidenceScore:   0.0,
		SimilarityReasons: []string{},
		Recommendation:    fmt.Sprintf("Unable to perform duplicate detection due to API error: %v. Manual review required.", lastErr),
	}
}

// assemble resolves the referenced candidate and normalizes the verdict. A
// duplicate claim that names no known candidate is downgraded so the result
// never asserts a duplicate it cannot point at.
func (c *DuplicateChecker) assemble(p duplicatePayload, open []*models.IssueReference) *models.DuplicateDetectionResult {
	result := &models.DuplicateDetectionResult{
		IsDuplicate:       p.IsDuplicate,
		SimilarityScore:   p.SimilarityScore,
		ConfidenceScore:   *p.ConfidenceScore,
		SimilarityReasons: p.SimilarityReasons,
		Recommendation:    p.Recommendation,
	}

	if result.IsDuplicate {
		for _, cand := range open {
			if cand.IssueID == p.DuplicateIssueID {
				result.DuplicateOf = cand
				break
			}
		}
		if result.DuplicateOf == nil {
			c.log.Warn().Str("issue_id", p.DuplicateIssueID).
				Msg("duplicate verdict names an unknown issue, downgrading")
			result.IsDuplicate = false
		}
	}

	return result
}

// FindMostSimilar returns the duplicate target and score when the LLM finds
// one, or (nil, 0) otherwise.
func (c *DuplicateChecker) FindMostSimilar(ctx context.Context, title, description string, candidates []*models.IssueReference) (*models.IssueReference, float64) {
	if len(candidates) == 0 {
		return nil, 0.0
	}
	result := c.DetectDuplicate(ctx, title, description, candidates)
	if result.DuplicateOf != nil {
		return result.DuplicateOf, result.SimilarityScore
	}
	return nil, 0.0
}
