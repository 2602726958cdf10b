package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/triagelab/ai-triage/internal/llm"
	"github.com/triagelab/ai-triage/internal/security"
	"github.com/triagelab/ai-triage/internal/triage"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		input        inputFlags
		sourcePath   string
		customPrompt string
		retries      int
		noClean      bool
		output       string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze an issue with the configured LLM",
		Long: `Produce a structured assessment of an issue: classification, severity,
root cause, and proposed solutions. A codebase context file (for example a
repomix export) sharpens the code-level suggestions when present.`,
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

			provider, err := llm.NewFromConfig(cfg.LLM)
			if err != nil {
				return fmt.Errorf("failed to create LLM provider: %w", err)
			}
			defer provider.Close()

			if !cmd.Flags().Changed("source-path") {
				sourcePath = cfg.Triage.Analysis.SourcePath
			}
			if !cmd.Flags().Changed("custom-prompt") {
				customPrompt = cfg.Triage.Analysis.CustomPrompt
			}
			if !cmd.Flags().Changed("retries") {
				retries = cfg.Triage.Analysis.Retries
			}

			analyzer := triage.NewAnalyzer(provider, triage.AnalyzerOptions{
				SourcePath:       sourcePath,
				CustomPromptPath: customPrompt,
				MaxRetries:       retries,
				MinConfidence:    cfg.Triage.Analysis.MinConfidence,
				Logger:           logger,
			})

			title, description := issue.Title, issue.Description
			if !noClean {
				title, description = security.CleanAndRedact(title, description)
			}

			analysis := analyzer.Analyze(context.Background(), title, description)

			text, err := renderAnalysis(analysis, output)
			if err != nil {
				return err
			}
			return writeOut(text, outputFile)
		},
	}

	input.addFlags(cmd)
	cmd.Flags().StringVar(&sourcePath, "source-path", "", "codebase context file for the prompt")
	cmd.Flags().StringVar(&customPrompt, "custom-prompt", "", "custom prompt template file")
	cmd.Flags().IntVar(&retries, "retries", 2, "retries after a failed or low-quality response")
	cmd.Flags().BoolVar(&noClean, "no-clean", false, "skip redaction of the prompt text")
	cmd.Flags().StringVar(&output, "output", "text", "output format: text or json")
	cmd.Flags().StringVar(&outputFile, "output-file", "", "write output to file instead of stdout")

	return cmd
}
