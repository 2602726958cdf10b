package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the full application configuration
type Config struct {
	GitHub    GitHubConfig    `yaml:"github"`
	Detection DetectionConfig `yaml:"detection"`
	LLM       LLMConfig       `yaml:"llm"`
	Triage    TriageConfig    `yaml:"triage"`
	Security  SecurityConfig  `yaml:"security"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Qdrant    QdrantConfig    `yaml:"qdrant"`
	Server    ServerConfig    `yaml:"server"`
}

// GitHubConfig contains settings for fetching candidate issues from a repo
type GitHubConfig struct {
	Token         string `yaml:"token"`
	Repo          string `yaml:"repo"`
	MaxIssues     int    `yaml:"max_issues"`
	IncludeClosed bool   `yaml:"include_closed"`
}

// DetectionConfig contains lexical duplicate detection settings
type DetectionConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	MaxSimilarToShow    int     `yaml:"max_similar_to_show"`
}

// LLMConfig contains LLM provider settings
type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key"`
	MaxRetries  int     `yaml:"max_retries"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// TriageConfig contains pipeline behavior settings
type TriageConfig struct {
	Analysis AnalysisConfig `yaml:"analysis"`
	Confirm  ConfirmConfig  `yaml:"confirm"`
}

// AnalysisConfig contains LLM issue analysis settings
type AnalysisConfig struct {
	Enabled       bool    `yaml:"enabled"`
	Retries       int     `yaml:"retries"`
	MinConfidence float64 `yaml:"min_confidence"`
	SourcePath    string  `yaml:"source_path"`
	CustomPrompt  string  `yaml:"custom_prompt"`
}

// ConfirmConfig controls LLM confirmation of borderline lexical scores.
// When a duplicate score lands inside [band_low, band_high) the pipeline
// asks the LLM for a second opinion.
type ConfirmConfig struct {
	Enabled  bool    `yaml:"enabled"`
	BandLow  float64 `yaml:"band_low"`
	BandHigh float64 `yaml:"band_high"`
}

// SecurityConfig contains prompt-injection screening settings
type SecurityConfig struct {
	// BlockLevel is the lowest risk level at which the triage pipeline
	// refuses to forward text to an LLM: off, low, medium, high, critical.
	BlockLevel string `yaml:"block_level"`
}

// EmbeddingConfig contains embedding provider settings
type EmbeddingConfig struct {
	Primary  ProviderConfig `yaml:"primary"`
	Fallback ProviderConfig `yaml:"fallback"`
}

// ProviderConfig contains settings for an embedding provider
type ProviderConfig struct {
	Provider   string `yaml:"provider"`
	Model      string `yaml:"model"`
	APIKey     string `yaml:"api_key"`
	Dimensions int    `yaml:"dimensions"`
}

// QdrantConfig contains Qdrant connection settings
type QdrantConfig struct {
	URL              string `yaml:"url"`
	APIKey           string `yaml:"api_key"`
	UseGRPC          bool   `yaml:"use_grpc"`
	CollectionPrefix string `yaml:"collection_prefix"`
}

// ServerConfig contains JSON API server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Load reads and parses config from the given path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand ${VAR} and ${VAR:-default} before parsing so every field,
	// including nested ones, picks up environment values.
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// FindConfigPath looks for config in common locations
func FindConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	paths := []string{
		"ai-triage.yml",
		"ai-triage.yaml",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		homePath := filepath.Join(home, ".config", "ai-triage", "config.yml")
		if _, err := os.Stat(homePath); err == nil {
			return homePath
		}
	}

	return ""
}

// applyDefaults sets default values for unset fields
func applyDefaults(cfg *Config) {
	if cfg.Detection.SimilarityThreshold == 0 {
		cfg.Detection.SimilarityThreshold = 0.6
	}
	if cfg.Detection.ConfidenceThreshold == 0 {
		cfg.Detection.ConfidenceThreshold = 0.6
	}
	if cfg.Detection.MaxSimilarToShow == 0 {
		cfg.Detection.MaxSimilarToShow = 5
	}

	if cfg.GitHub.MaxIssues == 0 {
		cfg.GitHub.MaxIssues = 200
	}

	if cfg.LLM.MaxRetries == 0 {
		cfg.LLM.MaxRetries = 3
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.3
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 2048
	}

	if cfg.Triage.Analysis.Retries == 0 {
		cfg.Triage.Analysis.Retries = 2
	}
	if cfg.Triage.Analysis.MinConfidence == 0 {
		cfg.Triage.Analysis.MinConfidence = 0.6
	}
	if cfg.Triage.Analysis.SourcePath == "" {
		cfg.Triage.Analysis.SourcePath = "repomix-output.txt"
	}

	if cfg.Triage.Confirm.BandLow == 0 {
		cfg.Triage.Confirm.BandLow = 0.4
	}
	if cfg.Triage.Confirm.BandHigh == 0 {
		cfg.Triage.Confirm.BandHigh = 0.75
	}

	if cfg.Security.BlockLevel == "" {
		cfg.Security.BlockLevel = "high"
	}

	if cfg.Embedding.Primary.Dimensions == 0 {
		cfg.Embedding.Primary.Dimensions = 768
	}
	if cfg.Embedding.Fallback.Dimensions == 0 {
		cfg.Embedding.Fallback.Dimensions = 768
	}

	if cfg.Qdrant.CollectionPrefix == "" {
		cfg.Qdrant.CollectionPrefix = "ai_triage"
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	// Analysis and confirm default to disabled (zero value) - LLM calls
	// must be explicitly enabled.
}

// Redacted returns a copy of the config with secrets masked, for display.
func (cfg *Config) Redacted() *Config {
	out := *cfg
	out.GitHub.Token = maskSecret(cfg.GitHub.Token)
	out.LLM.APIKey = maskSecret(cfg.LLM.APIKey)
	out.Qdrant.APIKey = maskSecret(cfg.Qdrant.APIKey)
	out.Embedding.Primary.APIKey = maskSecret(cfg.Embedding.Primary.APIKey)
	out.Embedding.Fallback.APIKey = maskSecret(cfg.Embedding.Fallback.APIKey)
	return &out
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}
