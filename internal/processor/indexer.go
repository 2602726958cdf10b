// Package processor orchestrates the long-running flows: indexing an issue
// corpus into the vector store and searching it, with optional LLM reranking.
package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/triagelab/ai-triage/internal/config"
	"github.com/triagelab/ai-triage/internal/embedding"
	"github.com/triagelab/ai-triage/internal/github"
	"github.com/triagelab/ai-triage/internal/issuefile"
	"github.com/triagelab/ai-triage/internal/vectordb"
	"github.com/triagelab/ai-triage/pkg/models"
)

const defaultBatchSize = 32

// Indexer embeds issues and upserts them into the vector store.
type Indexer struct {
	cfg      *config.Config
	embedder *embedding.FallbackProvider
	vdb      *vectordb.Client
	logger   zerolog.Logger
	dryRun   bool
	stateDir string
}

// IndexOptions control a single indexing run.
type IndexOptions struct {
	// BatchSize is the number of issues embedded and upserted per call.
	BatchSize int
	// SinceLast skips issues whose text has not changed since the last run
	// and, for repositories, narrows the fetch to recently updated issues.
	SinceLast bool
}

// NewIndexer wires the embedding provider and vector store from config. In
// dry-run mode nothing is written.
func NewIndexer(ctx context.Context, cfg *config.Config, logger zerolog.Logger, dryRun bool) (*Indexer, error) {
	embedder, err := embedding.NewFallbackProvider(ctx, &cfg.Embedding, logger)
	if err != nil {
		return nil, err
	}

	vdb, err := vectordb.NewClient(&cfg.Qdrant, logger)
	if err != nil {
		embedder.Close()
		return nil, err
	}

	return &Indexer{
		cfg:      cfg,
		embedder: embedder,
		vdb:      vdb,
		logger:   logger,
		dryRun:   dryRun,
		stateDir: DefaultStateDir(),
	}, nil
}

// Close releases the embedding provider and vector store connections.
func (ix *Indexer) Close() error {
	if err := ix.embedder.Close(); err != nil {
		ix.logger.Warn().Err(err).Msg("failed to close embedding provider")
	}
	return ix.vdb.Close()
}

// IndexFile indexes all issues from a JSON file. Issues recorded in earlier
// runs but missing from the file are pruned from the collection.
func (ix *Indexer) IndexFile(ctx context.Context, path string, opts IndexOptions) (*models.IndexStats, error) {
	issues, err := issuefile.Load(path)
	if err != nil {
		return nil, err
	}

	corpus := filepath.Base(path)
	return ix.indexIssues(ctx, corpus, issues, opts, true)
}

// IndexRepo indexes the issues of a GitHub repository. With SinceLast the
// fetch is narrowed to issues updated since the previous run; such a partial
// listing never prunes.
func (ix *Indexer) IndexRepo(ctx context.Context, fullRepo string, opts IndexOptions) (*models.IndexStats, error) {
	org, repo, err := github.ParseRepo(fullRepo)
	if err != nil {
		return nil, err
	}

	gh, err := github.NewClient()
	if err != nil {
		return nil, err
	}
	defer gh.Close()

	exists, err := gh.RepoExists(ctx, org, repo)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("repository %s/%s not found", org, repo)
	}

	corpus := org + "/" + repo
	var since time.Time
	if opts.SinceLast {
		collection := vectordb.CollectionName(ix.cfg.Qdrant.CollectionPrefix, corpus)
		state, err := LoadState(ix.stateDir, collection)
		if err == nil {
			since = state.LastRun
		}
	}

	issues, err := gh.ListAllIssues(ctx, org, repo, "all", since)
	if err != nil {
		return nil, err
	}

	return ix.indexIssues(ctx, corpus, issues, opts, false)
}

func (ix *Indexer) indexIssues(ctx context.Context, corpus string, issues []*models.IssueReference, opts IndexOptions, pruneMissing bool) (*models.IndexStats, error) {
	start := time.Now()
	stats := &models.IndexStats{TotalIssues: len(issues)}
	collection := vectordb.CollectionName(ix.cfg.Qdrant.CollectionPrefix, corpus)

	state, err := LoadState(ix.stateDir, collection)
	if err != nil {
		ix.logger.Warn().Err(err).Msg("index state unreadable, reindexing everything")
		state = newState(collection)
	}

	// Prune against the full corpus before SinceLast narrows it, or every
	// unchanged issue would look removed.
	if pruneMissing {
		if err := ix.pruneMissing(ctx, collection, state, issues); err != nil {
			ix.logger.Warn().Err(err).Msg("failed to prune removed issues")
		}
	}

	if opts.SinceLast {
		changed := make([]*models.IssueReference, 0, len(issues))
		for _, issue := range issues {
			if state.Changed(issue) {
				changed = append(changed, issue)
			} else {
				stats.Skipped++
			}
		}
		issues = changed
	}

	if !ix.dryRun {
		if err := ix.vdb.EnsureCollection(ctx, collection, ix.cfg.Embedding.Primary.Dimensions); err != nil {
			return nil, err
		}
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	for i := 0; i < len(issues); i += batchSize {
		end := i + batchSize
		if end > len(issues) {
			end = len(issues)
		}
		batch := issues[i:end]

		if err := ix.indexBatch(ctx, collection, batch); err != nil {
			ix.logger.Warn().Err(err).Int("from", i).Int("to", end).Msg("batch failed, continuing")
			stats.Errors += len(batch)
			continue
		}

		for _, issue := range batch {
			state.Record(issue)
		}
		stats.Indexed += len(batch)
		ix.logger.Info().Int("indexed", stats.Indexed).Int("total", len(issues)).Msg("indexing progress")
	}

	state.LastRun = time.Now()
	if !ix.dryRun {
		if err := state.Save(ix.stateDir); err != nil {
			ix.logger.Warn().Err(err).Msg("failed to save index state")
		}
	}

	stats.DurationMs = int(time.Since(start).Milliseconds())
	return stats, nil
}

// pruneMissing deletes issues recorded in state but absent from the current
// corpus. The state entries go too, so a reappearing issue is re-indexed.
func (ix *Indexer) pruneMissing(ctx context.Context, collection string, state *IndexState, issues []*models.IssueReference) error {
	present := make(map[string]bool, len(issues))
	for _, issue := range issues {
		present[issue.IssueID] = true
	}

	var missing []string
	for id := range state.TextHashes {
		if !present[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 || ix.dryRun {
		return nil
	}

	if err := ix.vdb.Delete(ctx, collection, missing); err != nil {
		return err
	}
	for _, id := range missing {
		state.Forget(id)
	}
	ix.logger.Info().Int("pruned", len(missing)).Msg("removed issues no longer in corpus")
	return nil
}

func (ix *Indexer) indexBatch(ctx context.Context, collection string, batch []*models.IssueReference) error {
	texts := make([]string, len(batch))
	for i, issue := range batch {
		texts[i] = embedding.PrepareIssueText(issue.Title, issue.Description)
	}

	vectors, err := ix.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed batch: %w", err)
	}

	if ix.dryRun {
		return nil
	}
	return ix.vdb.UpsertBatch(ctx, collection, batch, vectors)
}
