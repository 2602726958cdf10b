package similarity

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/triagelab/ai-triage/pkg/models"
)

// buildReasons explains why the new issue resembles the matched candidate.
// Reasons appear in a fixed order: title similarity, description similarity,
// shared keywords, then the overall score band. The slice is never nil.
func (d *Detector) buildReasons(title, description string, match *models.IssueReference, score float64) []string {
	reasons := []string{}

	if titleSim := pairwiseTextSimilarity(title, match.Title); titleSim > 0.5 {
		reasons = append(reasons, fmt.Sprintf("Similar titles (similarity: %.2f)", titleSim))
	}

	if description != "" && match.Description != "" {
		if descSim := pairwiseTextSimilarity(description, match.Description); descSim > 0.3 {
			reasons = append(reasons, fmt.Sprintf("Similar descriptions (similarity: %.2f)", descSim))
		}
	}

	if keywords := commonKeywords(title, description, match); len(keywords) > 0 {
		reasons = append(reasons, "Common keywords: "+strings.Join(keywords, ", "))
	}

	switch {
	case score > 0.8:
		reasons = append(reasons, "Very high overall similarity score")
	case score > 0.6:
		reasons = append(reasons, "High overall similarity score")
	case score > 0.4:
		reasons = append(reasons, "Moderate overall similarity score")
	}

	return reasons
}

// pairwiseTextSimilarity scores two texts against each other alone, with a
// unigram-only fit. Either side empty (after normalization) scores 0.
func pairwiseTextSimilarity(a, b string) float64 {
	na, nb := normalizeText(a), normalizeText(b)
	if na == "" || nb == "" {
		return 0.0
	}
	vectors, err := fitTransform([]string{na, nb}, pairwiseOptions)
	if err != nil {
		return 0.0
	}
	return cosine(vectors[0], vectors[1])
}

// commonKeywords intersects the full word sets of both issues' combined
// text. Only when the raw intersection has more than 3 words does it report
// anything, and then only words longer than 3 runes, sorted, capped at
// 5. Stop words are intentionally part of the raw count: heavy function-word
// overlap is itself a signal that the texts run parallel.
func commonKeywords(title, description string, match *models.IssueReference) []string {
	newWords := wordSet(normalizeText(title + " " + description))
	matchWords := wordSet(normalizeText(match.Title + " " + match.Description))

	shared := make([]string, 0, len(newWords))
	for w := range newWords {
		if matchWords[w] {
			shared = append(shared, w)
		}
	}
	if len(shared) <= 3 {
		return nil
	}

	keywords := shared[:0]
	for _, w := range shared {
		if utf8.RuneCountInString(w) > 3 {
			keywords = append(keywords, w)
		}
	}
	if len(keywords) == 0 {
		return nil
	}

	sort.Strings(keywords)
	if len(keywords) > 5 {
		keywords = keywords[:5]
	}
	return keywords
}

func recommendationFor(isDuplicate bool, score float64, match *models.IssueReference) string {
	if isDuplicate {
		return fmt.Sprintf("This issue appears to be a duplicate of issue %s. Consider linking to the original issue and closing this one.", match.IssueID)
	}
	if score > 0.5 {
		return fmt.Sprintf("This issue shows moderate similarity to issue %s. Review both issues to determine if they are related or should be merged.", match.IssueID)
	}
	return "This appears to be a new, unique issue."
}

// confidenceFor maps a similarity score onto reporting confidence. Low
// scores are trusted as-is; anything at or above 0.3 gets a 1.2x boost,
// capped at 1.
func confidenceFor(score float64) float64 {
	if score < 0.3 {
		return score
	}
	boosted := score * 1.2
	if boosted > 1.0 {
		return 1.0
	}
	return boosted
}
