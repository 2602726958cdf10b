// Package cli wires the ai-triage commands.
package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/triagelab/ai-triage/internal/config"
	"github.com/triagelab/ai-triage/internal/logging"
)

var (
	cfgFile   string
	verbose   bool
	quiet     bool
	logFormat string
	version   = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "ai-triage",
	Short: "AI-assisted issue triage",
	Long: `ai-triage checks new issue reports against an existing corpus: lexical
duplicate detection, similarity ranking, optional LLM analysis, and a
semantic index backed by Qdrant.`,
	SilenceUsage: true,
}

func Execute() error {
	// Best effort; secrets may come from the real environment instead.
	_ = godotenv.Load()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "errors only")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "auto", "log format: auto, console, json")

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newLLMCheckCmd())
	rootCmd.AddCommand(newSimilarCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newTriageCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newSampleCmd())
	rootCmd.AddCommand(newIndexCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ai-triage version %s\n", version)
		},
	}
}

// loadConfig resolves the config file (or defaults when none exists) and
// validates it.
func loadConfig() (*config.Config, error) {
	path := config.FindConfigPath(cfgFile)
	if path == "" {
		return config.Default(), nil
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if errs := config.Validate(cfg); len(errs) > 0 {
		for _, e := range errs {
			fmt.Printf("config error: %v\n", e)
		}
		return nil, fmt.Errorf("invalid configuration")
	}
	return cfg, nil
}

func newLogger() zerolog.Logger {
	return logging.New(logging.Options{
		Verbose: verbose,
		Quiet:   quiet,
		Format:  logFormat,
	})
}
