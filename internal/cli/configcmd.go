package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/triagelab/ai-triage/internal/config"
)

const starterConfig = `# ai-triage configuration.
# Values like ${GEMINI_API_KEY} are expanded from the environment;
# ${VAR:-fallback} substitutes the fallback when the variable is unset.

github:
  # Default repository for candidate issues (overridable with --repo).
  repo: ""
  max_issues: 200
  include_closed: false

detection:
  similarity_threshold: 0.6
  confidence_threshold: 0.6
  max_similar_to_show: 5

llm:
  # gemini or openai. Leave empty to disable all LLM features.
  provider: ""
  model: ""
  api_key: ${GEMINI_API_KEY:-}
  max_retries: 3
  temperature: 0.3
  max_tokens: 2048

triage:
  analysis:
    enabled: false
    retries: 2
    min_confidence: 0.6
    # Codebase context file for code-level suggestions (repomix export).
    source_path: repomix-output.txt
    custom_prompt: ""
  confirm:
    # Ask the LLM to confirm lexical scores inside [band_low, band_high).
    enabled: false
    band_low: 0.4
    band_high: 0.75

security:
  # Lowest injection risk that blocks LLM steps: off, low, medium, high, critical.
  block_level: high

embedding:
  primary:
    provider: gemini
    model: gemini-embedding-001
    api_key: ${GEMINI_API_KEY:-}
    dimensions: 768
  fallback:
    provider: ""
    model: ""
    api_key: ""
    dimensions: 768

qdrant:
  url: localhost:6334
  api_key: ""
  collection_prefix: ai_triage

server:
  host: 0.0.0.0
  port: 8080
`

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigValidateCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a commented starter config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "ai-triage.yml"
			if len(args) == 1 {
				path = args[0]
			}

			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				}
			}

			if err := os.WriteFile(path, []byte(starterConfig), 0o644); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Printf("Config written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long:  `Print the configuration after defaults and environment expansion, with secrets masked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			masked := *cfg
			masked.GitHub.Token = maskSecret(cfg.GitHub.Token)
			masked.LLM.APIKey = maskSecret(cfg.LLM.APIKey)
			masked.Embedding.Primary.APIKey = maskSecret(cfg.Embedding.Primary.APIKey)
			masked.Embedding.Fallback.APIKey = maskSecret(cfg.Embedding.Fallback.APIKey)
			masked.Qdrant.APIKey = maskSecret(cfg.Qdrant.APIKey)

			data, err := yaml.Marshal(&masked)
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}

			if path := config.FindConfigPath(cfgFile); path != "" {
				fmt.Printf("# from %s\n", path)
			} else {
				fmt.Println("# built-in defaults (no config file found)")
			}
			fmt.Print(string(data))
			return nil
		},
	}
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "****"
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.FindConfigPath(cfgFile)
			if path == "" {
				return fmt.Errorf("config file not found")
			}

			fmt.Printf("Validating config: %s\n", path)

			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if errs := config.Validate(cfg); len(errs) > 0 {
				fmt.Println("\nValidation errors:")
				for _, e := range errs {
					fmt.Printf("  - %v\n", e)
				}
				return fmt.Errorf("configuration is invalid")
			}

			fmt.Println("\nConfiguration is valid")
			fmt.Printf("  - Qdrant: %s (prefix %s)\n", cfg.Qdrant.URL, cfg.Qdrant.CollectionPrefix)
			fmt.Printf("  - Primary embedding: %s (%s, %d dimensions)\n",
				cfg.Embedding.Primary.Provider, cfg.Embedding.Primary.Model, cfg.Embedding.Primary.Dimensions)
			if cfg.LLM.Provider != "" {
				fmt.Printf("  - LLM: %s (%s)\n", cfg.LLM.Provider, cfg.LLM.Model)
			} else {
				fmt.Println("  - LLM: disabled")
			}
			fmt.Printf("  - Block level: %s\n", cfg.Security.BlockLevel)
			return nil
		},
	}
}
