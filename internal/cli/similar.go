package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/triagelab/ai-triage/internal/similarity"
	"github.com/triagelab/ai-triage/pkg/models"
)

func newSimilarCmd() *cobra.Command {
	var (
		input      inputFlags
		candidates candidateFlags
		limit      int
		output     string
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "similar",
		Short: "List the most similar existing issues",
		Long: `Rank the candidate corpus by lexical similarity to the given issue and
list the top matches. Closed issues are included; no threshold is applied.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger()

			issue, err := input.resolve()
			if err != nil {
				return err
			}
			corpus, err := candidates.load(context.Background(), cfg, logger)
			if err != nil {
				return err
			}

			detector := similarity.NewDefaultDetector()
			matches := detector.TopMatches(issue.Title, issue.Description, corpus, limit)

			text, err := renderSimilar(models.SummarizeMatches(matches), output)
			if err != nil {
				return err
			}
			return writeOut(text, outputFile)
		},
	}

	input.addFlags(cmd)
	candidates.addFlags(cmd)
	cmd.Flags().IntVar(&limit, "limit", 5, "maximum matches to list")
	cmd.Flags().StringVar(&output, "output", "text", "output format: text or json")
	cmd.Flags().StringVar(&outputFile, "output-file", "", "write output to file instead of stdout")

	return cmd
}
