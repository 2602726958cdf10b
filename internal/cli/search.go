package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/triagelab/ai-triage/internal/processor"
)

func newSearchCmd() *cobra.Command {
	var (
		candidates candidateFlags
		limit      int
		threshold  float64
		rerank     bool
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Semantic search over an indexed corpus",
		Long: `Embed a free-text query and search the corpus's Qdrant collection.
The corpus must have been indexed first; --issues or --repo names it the
same way index does.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(args[0])
			if query == "" {
				return fmt.Errorf("query must not be empty")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger()
			ctx := context.Background()

			corpus := candidates.corpusName(cfg)
			if corpus == "" {
				return fmt.Errorf("no corpus: pass --issues or --repo")
			}

			searcher, err := processor.NewSearcher(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to create searcher: %w", err)
			}
			defer searcher.Close()

			results, err := searcher.Search(ctx, corpus, query, processor.SearchOptions{
				Limit:     limit,
				Threshold: threshold,
				Rerank:    rerank,
			})
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			if len(results) == 0 {
				fmt.Println("No matching issues found")
				return nil
			}

			fmt.Printf("Found %d matching issues:\n\n", len(results))
			for i, r := range results {
				fmt.Printf("%d. [%s] %s\n", i+1, r.Issue.IssueID, r.Issue.Title)
				fmt.Printf("   Score: %.1f%% | Status: %s\n", r.Score*100, r.Issue.Status)
				if r.Issue.URL != "" {
					fmt.Printf("   %s\n", r.Issue.URL)
				}
				fmt.Println()
			}
			return nil
		},
	}

	candidates.addFlags(cmd)
	cmd.Flags().IntVar(&limit, "limit", 5, "maximum results to return")
	cmd.Flags().Float64Var(&threshold, "threshold", 0.0, "minimum similarity score")
	cmd.Flags().BoolVar(&rerank, "rerank", false, "rerank results with the configured LLM")

	return cmd
}
