package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/triagelab/ai-triage/internal/processor"
	"github.com/triagelab/ai-triage/pkg/models"
)

func newIndexCmd() *cobra.Command {
	var (
		issuesPath string
		repo       string
		dryRun     bool
		batchSize  int
		sinceLast  bool
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Embed issues and index them into Qdrant",
		Long: `Embed an issue corpus and upsert it into the vector database for
semantic search. State is kept per collection, so --since-last only
re-embeds issues whose text changed since the previous run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (issuesPath == "") == (repo == "") {
				return fmt.Errorf("pass exactly one of --issues or --repo")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger()
			ctx := context.Background()

			indexer, err := processor.NewIndexer(ctx, cfg, logger, dryRun)
			if err != nil {
				return fmt.Errorf("failed to create indexer: %w", err)
			}
			defer indexer.Close()

			opts := processor.IndexOptions{BatchSize: batchSize, SinceLast: sinceLast}

			var stats *models.IndexStats
			if issuesPath != "" {
				stats, err = indexer.IndexFile(ctx, issuesPath, opts)
			} else {
				stats, err = indexer.IndexRepo(ctx, repo, opts)
			}
			if err != nil {
				return fmt.Errorf("indexing failed: %w", err)
			}

			fmt.Printf("Indexed %d/%d issues (%d skipped, %d errors) in %dms\n",
				stats.Indexed, stats.TotalIssues, stats.Skipped, stats.Errors, stats.DurationMs)
			if dryRun {
				fmt.Println("Dry run: nothing was written")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&issuesPath, "issues", "", "issues JSON file to index")
	cmd.Flags().StringVar(&repo, "repo", "", "GitHub repository to index (owner/repo)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "embed but skip all writes")
	cmd.Flags().IntVar(&batchSize, "batch-size", 32, "issues per embedding batch")
	cmd.Flags().BoolVar(&sinceLast, "since-last", false, "only index issues changed since the last run")

	return cmd
}
