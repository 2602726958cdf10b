package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/triagelab/ai-triage/internal/llm"
	"github.com/triagelab/ai-triage/internal/security"
	"github.com/triagelab/ai-triage/internal/similarity"
	"github.com/triagelab/ai-triage/internal/triage"
	"github.com/triagelab/ai-triage/pkg/models"
)

func newCheckCmd() *cobra.Command {
	var (
		input               inputFlags
		candidates          candidateFlags
		threshold           float64
		confidenceThreshold float64
		showSimilar         int
		output              string
		outputFile          string
		exitCode            bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a new issue for duplicates",
		Long: `Check a new issue against an existing corpus using lexical TF-IDF
similarity. Deterministic: no network, no LLM, same input same verdict.`,
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

			if !cmd.Flags().Changed("threshold") {
				threshold = cfg.Detection.SimilarityThreshold
			}
			if !cmd.Flags().Changed("confidence-threshold") {
				confidenceThreshold = cfg.Detection.ConfidenceThreshold
			}
			detector, err := similarity.NewDetector(threshold, confidenceThreshold)
			if err != nil {
				return err
			}

			report := models.CheckReport{
				AnalyzedAt: time.Now().UTC(),
				NewIssue:   issue,
				Result:     detector.DetectDuplicate(issue.Title, issue.Description, corpus),
			}
			if showSimilar > 0 {
				matches := detector.TopMatches(issue.Title, issue.Description, corpus, showSimilar)
				report.SimilarIssues = models.SummarizeMatches(matches)
			}

			text, err := renderCheck(report, output)
			if err != nil {
				return err
			}
			if err := writeOut(text, outputFile); err != nil {
				return err
			}

			if exitCode && report.Result.IsDuplicate {
				os.Exit(2)
			}
			return nil
		},
	}

	input.addFlags(cmd)
	candidates.addFlags(cmd)
	cmd.Flags().Float64Var(&threshold, "threshold", 0.6, "similarity threshold for the duplicate verdict")
	cmd.Flags().Float64Var(&confidenceThreshold, "confidence-threshold", 0.6, "minimum confidence for the duplicate verdict")
	cmd.Flags().IntVar(&showSimilar, "show-similar", 0, "also list the top N similar issues")
	cmd.Flags().StringVar(&output, "output", "text", "output format: text or json")
	cmd.Flags().StringVar(&outputFile, "output-file", "", "write output to file instead of stdout")
	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "exit 2 when a duplicate is detected")

	return cmd
}

func newLLMCheckCmd() *cobra.Command {
	var (
		input       inputFlags
		candidates  candidateFlags
		showSimilar int
		output      string
		outputFile  string
		exitCode    bool
	)

	cmd := &cobra.Command{
		Use:   "llm-check",
		Short: "Check a new issue for duplicates using the configured LLM",
		Long: `Delegate the duplicate decision to the configured LLM provider. The
prompt lists the open candidate issues; the model answers with a structured
verdict. Falls back to a manual-review result when the provider fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger()

			if cfg.LLM.Provider == "" {
				return fmt.Errorf("no LLM provider configured (set llm.provider in config)")
			}

			issue, err := input.resolve()
			if err != nil {
				return err
			}
			corpus, err := candidates.load(context.Background(), cfg, logger)
			if err != nil {
				return err
			}

			provider, err := llm.NewFromConfig(cfg.LLM)
			if err != nil {
				return fmt.Errorf("failed to create LLM provider: %w", err)
			}
			defer provider.Close()

			checker := triage.NewDuplicateChecker(provider, cfg.LLM.MaxRetries, logger)
			cleanTitle, cleanDescription := security.CleanAndRedact(issue.Title, issue.Description)
			report := models.CheckReport{
				AnalyzedAt: time.Now().UTC(),
				NewIssue:   issue,
				Result:     checker.DetectDuplicate(context.Background(), cleanTitle, cleanDescription, corpus),
			}
			if showSimilar > 0 {
				detector := similarity.NewDefaultDetector()
				matches := detector.TopMatches(issue.Title, issue.Description, corpus, showSimilar)
				report.SimilarIssues = models.SummarizeMatches(matches)
			}

			text, err := renderCheck(report, output)
			if err != nil {
				return err
			}
			if err := writeOut(text, outputFile); err != nil {
				return err
			}

			if exitCode && report.Result.IsDuplicate {
				os.Exit(2)
			}
			return nil
		},
	}

	input.addFlags(cmd)
	candidates.addFlags(cmd)
	cmd.Flags().IntVar(&showSimilar, "show-similar", 0, "also list the top N similar issues")
	cmd.Flags().StringVar(&output, "output", "text", "output format: text or json")
	cmd.Flags().StringVar(&outputFile, "output-file", "", "write output to file instead of stdout")
	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "exit 2 when a duplicate is detected")

	return cmd
}
