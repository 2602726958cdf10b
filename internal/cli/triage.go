package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/triagelab/ai-triage/internal/pipeline"
)

func newTriageCmd() *cobra.Command {
	var (
		input      inputFlags
		candidates candidateFlags
		noClean    bool
		output     string
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "triage",
		Short: "Run the full triage pipeline on an issue",
		Long: `Run every triage step over one issue: prompt-injection screening,
lexical duplicate detection, LLM confirmation of borderline scores, and LLM
analysis. Steps without a configured provider are skipped; a failing step
degrades the report instead of aborting it.`,
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

			runner, err := pipeline.NewRunner(cfg, logger, pipeline.Options{NoClean: noClean})
			if err != nil {
				return err
			}
			defer runner.Close()

			report := runner.Run(context.Background(), issue, corpus)

			text, err := renderTriage(report, output)
			if err != nil {
				return err
			}
			return writeOut(text, outputFile)
		},
	}

	input.addFlags(cmd)
	candidates.addFlags(cmd)
	cmd.Flags().BoolVar(&noClean, "no-clean", false, "skip redaction of LLM-bound text")
	cmd.Flags().StringVar(&output, "output", "text", "output format: text or json")
	cmd.Flags().StringVar(&outputFile, "output-file", "", "write output to file instead of stdout")

	return cmd
}
