// Package embedding generates vector representations of issue text for
// semantic duplicate search. The lexical engine never touches this path;
// embeddings only feed the vector index and its queries.
package embedding

import (
	"context"
	"fmt"
	"strings"
)

// Provider defines the interface for embedding generation
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Close() error
}

// maxEmbedChars keeps prepared text within model limits (~1500 tokens).
const maxEmbedChars = 6000

// PrepareIssueText combines title and description into the canonical text
// embedded for one issue. Index writes and queries must both go through
// this so their vectors live in the same space.
func PrepareIssueText(title, description string) string {
	text := fmt.Sprintf("Title: %s\n\nDescription: %s", CleanText(title), CleanText(description))
	return TruncateText(text, maxEmbedChars)
}

// TruncateText truncates text to maxLen characters
func TruncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen] + "..."
}

// CleanText trims each line and drops blank ones, collapsing the noisy
// whitespace GitHub issue bodies tend to carry.
func CleanText(text string) string {
	text = strings.TrimSpace(text)
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
