package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/triagelab/ai-triage/internal/config"
	"github.com/triagelab/ai-triage/internal/embedding"
	"github.com/triagelab/ai-triage/internal/llm"
	"github.com/triagelab/ai-triage/internal/vectordb"
	"github.com/triagelab/ai-triage/pkg/models"
)

// closedScoreWeight damps similarity scores of closed issues so open ones
// rank first at equal relevance.
const closedScoreWeight = 0.9

// Searcher answers free-text queries against an indexed corpus.
type Searcher struct {
	cfg      *config.Config
	embedder *embedding.FallbackProvider
	vdb      *vectordb.Client
	llm      llm.Provider
	logger   zerolog.Logger
}

// SearchOptions control a single query.
type SearchOptions struct {
	Limit     int
	Threshold float64
	OpenOnly  bool
	// Rerank asks the LLM to reorder hits by relevance. Ignored when no
	// LLM provider is configured.
	Rerank bool
}

// NewSearcher wires the embedding provider and vector store. The LLM
// provider is optional: without one, rerank requests keep vector order.
func NewSearcher(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Searcher, error) {
	embedder, err := embedding.NewFallbackProvider(ctx, &cfg.Embedding, logger)
	if err != nil {
		return nil, err
	}

	vdb, err := vectordb.NewClient(&cfg.Qdrant, logger)
	if err != nil {
		embedder.Close()
		return nil, err
	}

	var provider llm.Provider
	if cfg.LLM.Provider != "" {
		provider, err = llm.NewFromConfig(cfg.LLM)
		if err != nil {
			logger.Warn().Err(err).Msg("LLM provider unavailable, rerank disabled")
			provider = nil
		}
	}

	return &Searcher{
		cfg:      cfg,
		embedder: embedder,
		vdb:      vdb,
		llm:      provider,
		logger:   logger,
	}, nil
}

// Close releases all underlying connections.
func (s *Searcher) Close() error {
	if err := s.embedder.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to close embedding provider")
	}
	if s.llm != nil {
		if err := s.llm.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to close LLM provider")
		}
	}
	return s.vdb.Close()
}

// Search embeds the query and returns the best-matching issues from the
// corpus's collection.
func (s *Searcher) Search(ctx context.Context, corpus, query string, opts SearchOptions) ([]models.SearchResult, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	collection := vectordb.CollectionName(s.cfg.Qdrant.CollectionPrefix, corpus)
	hits, err := s.vdb.Search(ctx, collection, vector, vectordb.SearchOptions{
		Limit:        opts.Limit,
		Threshold:    opts.Threshold,
		OpenOnly:     opts.OpenOnly,
		ClosedWeight: closedScoreWeight,
	})
	if err != nil {
		return nil, err
	}

	if opts.Rerank && s.llm != nil && len(hits) > 1 {
		hits = s.rerank(ctx, query, hits)
	}

	results := make([]models.SearchResult, len(hits))
	for i, hit := range hits {
		results[i] = models.SearchResult{Issue: hit.Issue, Score: hit.Score}
	}
	return results, nil
}

// rerank asks the LLM for a relevance ordering. Any failure keeps the
// vector order.
func (s *Searcher) rerank(ctx context.Context, query string, hits []vectordb.SearchResult) []vectordb.SearchResult {
	var b strings.Builder
	b.WriteString("Rank the following issues by relevance to the query.\n\n")
	fmt.Fprintf(&b, "Query: %s\n\nIssues:\n", query)
	for _, hit := range hits {
		fmt.Fprintf(&b, "- [%s] %s\n", hit.Issue.IssueID, hit.Issue.Title)
	}
	b.WriteString("\nRespond with ONLY a JSON array of issue ids, most relevant first.")

	response, err := s.llm.Complete(ctx, b.String())
	if err != nil {
		s.logger.Warn().Err(err).Msg("rerank failed, keeping vector order")
		return hits
	}

	order := parseIDList(response)
	if len(order) == 0 {
		s.logger.Warn().Msg("rerank returned no usable ordering, keeping vector order")
		return hits
	}
	return reorderHits(hits, order)
}

// parseIDList extracts a JSON string array from an LLM response that may
// wrap it in prose or code fences.
func parseIDList(response string) []string {
	start := strings.Index(response, "[")
	end := strings.LastIndex(response, "]")
	if start < 0 || end <= start {
		return nil
	}

	var ids []string
	if err := json.Unmarshal([]byte(response[start:end+1]), &ids); err != nil {
		return nil
	}
	return ids
}

// reorderHits applies the id ordering, ignoring unknown or repeated ids and
// appending any hits the ordering missed in their original order.
func reorderHits(hits []vectordb.SearchResult, order []string) []vectordb.SearchResult {
	byID := make(map[string]int, len(hits))
	for i, hit := range hits {
		byID[hit.Issue.IssueID] = i
	}

	taken := make([]bool, len(hits))
	reordered := make([]vectordb.SearchResult, 0, len(hits))
	for _, id := range order {
		i, ok := byID[id]
		if !ok || taken[i] {
			continue
		}
		reordered = append(reordered, hits[i])
		taken[i] = true
	}
	for i, hit := range hits {
		if !taken[i] {
			reordered = append(reordered, hit)
		}
	}
	return reordered
}
