package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/triagelab/ai-triage/internal/config"
	"github.com/triagelab/ai-triage/internal/github"
	"github.com/triagelab/ai-triage/internal/issuefile"
	"github.com/triagelab/ai-triage/pkg/models"
)

// candidateFlags resolve the corpus a new issue is checked against: a local
// issues file or a live GitHub repository.
type candidateFlags struct {
	issuesPath string
	repo       string
}

func (f *candidateFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.issuesPath, "issues", "", "issues JSON file")
	cmd.Flags().StringVar(&f.repo, "repo", "", "GitHub repository (owner/repo)")
}

// load fetches the candidate corpus. With neither flag set, the configured
// repository is used; without that either, it fails.
func (f *candidateFlags) load(ctx context.Context, cfg *config.Config, logger zerolog.Logger) ([]*models.IssueReference, error) {
	if f.issuesPath != "" {
		return issuefile.Load(f.issuesPath)
	}

	repo := f.repo
	if repo == "" {
		repo = cfg.GitHub.Repo
	}
	if repo == "" {
		return nil, fmt.Errorf("no candidate source: pass --issues or --repo")
	}

	org, name, err := github.ParseRepo(repo)
	if err != nil {
		return nil, err
	}

	gh, err := github.NewClient()
	if err != nil {
		return nil, err
	}
	defer gh.Close()

	state := "open"
	if cfg.GitHub.IncludeClosed {
		state = "all"
	}

	issues, err := gh.ListAllIssues(ctx, org, name, state, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch issues from %s: %w", repo, err)
	}
	if max := cfg.GitHub.MaxIssues; max > 0 && len(issues) > max {
		logger.Warn().Int("fetched", len(issues)).Int("max", max).Msg("truncating candidate corpus")
		issues = issues[:max]
	}

	logger.Debug().Int("count", len(issues)).Str("repo", repo).Msg("candidates loaded")
	return issues, nil
}

// corpusName labels the collection the candidates came from. It must agree
// with how the indexer names collections, or searches land in the wrong one.
func (f *candidateFlags) corpusName(cfg *config.Config) string {
	if f.issuesPath != "" {
		return filepath.Base(f.issuesPath)
	}
	if f.repo != "" {
		return f.repo
	}
	return cfg.GitHub.Repo
}
