package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("TEST_VAR", "test-value")
	defer os.Unsetenv("TEST_VAR")

	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "expands env var",
			input:  "${TEST_VAR}",
			expect: "test-value",
		},
		{
			name:   "keeps unset var",
			input:  "${UNSET_VAR}",
			expect: "${UNSET_VAR}",
		},
		{
			name:   "expands in string",
			input:  "https://${TEST_VAR}.example.com",
			expect: "https://test-value.example.com",
		},
		{
			name:   "uses fallback for unset var",
			input:  "${UNSET_VAR:-fallback}",
			expect: "fallback",
		},
		{
			name:   "set var wins over fallback",
			input:  "${TEST_VAR:-fallback}",
			expect: "test-value",
		},
		{
			name:   "no vars",
			input:  "plain string",
			expect: "plain string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandEnvVars(tt.input)
			if result != tt.expect {
				t.Errorf("expandEnvVars(%q) = %q, want %q", tt.input, result, tt.expect)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	os.Setenv("TEST_QDRANT_URL", "http://localhost:6334")
	defer os.Unsetenv("TEST_QDRANT_URL")

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yml")

	content := `
github:
  repo: "testorg/testrepo"

detection:
  similarity_threshold: 0.7

llm:
  provider: "gemini"
  api_key: "test-key"

qdrant:
  url: "${TEST_QDRANT_URL}"
  use_grpc: true

embedding:
  primary:
    provider: "gemini"
    model: "gemini-embedding-001"
    api_key: "${UNSET_EMBED_KEY:-embed-key}"
`

	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.GitHub.Repo != "testorg/testrepo" {
		t.Errorf("GitHub.Repo = %v, want testorg/testrepo", cfg.GitHub.Repo)
	}
	if cfg.Detection.SimilarityThreshold != 0.7 {
		t.Errorf("Detection.SimilarityThreshold = %v, want 0.7", cfg.Detection.SimilarityThreshold)
	}
	if cfg.Qdrant.URL != "http://localhost:6334" {
		t.Errorf("Qdrant.URL = %v, want expanded env value", cfg.Qdrant.URL)
	}
	if cfg.Embedding.Primary.APIKey != "embed-key" {
		t.Errorf("Embedding.Primary.APIKey = %v, want fallback value", cfg.Embedding.Primary.APIKey)
	}

	// Defaults fill in around explicit values.
	if cfg.Detection.ConfidenceThreshold != 0.6 {
		t.Errorf("Detection.ConfidenceThreshold = %v, want 0.6", cfg.Detection.ConfidenceThreshold)
	}
	if cfg.Embedding.Primary.Dimensions != 768 {
		t.Errorf("Embedding.Primary.Dimensions = %v, want 768", cfg.Embedding.Primary.Dimensions)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Error("Load() on a missing file returned nil error")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	if cfg.Detection.SimilarityThreshold != 0.6 {
		t.Errorf("SimilarityThreshold = %v, want 0.6", cfg.Detection.SimilarityThreshold)
	}
	if cfg.Detection.ConfidenceThreshold != 0.6 {
		t.Errorf("ConfidenceThreshold = %v, want 0.6", cfg.Detection.ConfidenceThreshold)
	}
	if cfg.Detection.MaxSimilarToShow != 5 {
		t.Errorf("MaxSimilarToShow = %v, want 5", cfg.Detection.MaxSimilarToShow)
	}
	if cfg.GitHub.MaxIssues != 200 {
		t.Errorf("GitHub.MaxIssues = %v, want 200", cfg.GitHub.MaxIssues)
	}
	if cfg.Security.BlockLevel != "high" {
		t.Errorf("Security.BlockLevel = %v, want high", cfg.Security.BlockLevel)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %v, want 8080", cfg.Server.Port)
	}
	if cfg.Triage.Analysis.Enabled || cfg.Triage.Confirm.Enabled {
		t.Error("LLM steps enabled by default, want disabled")
	}
	if cfg.LLM.Temperature != 0.3 {
		t.Errorf("LLM.Temperature = %v, want 0.3", cfg.LLM.Temperature)
	}
	if cfg.LLM.MaxTokens != 2048 {
		t.Errorf("LLM.MaxTokens = %v, want 2048", cfg.LLM.MaxTokens)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "valid defaults",
			mutate:    func(cfg *Config) {},
			wantField: "",
		},
		{
			name: "similarity threshold out of range",
			mutate: func(cfg *Config) {
				cfg.Detection.SimilarityThreshold = 1.5
			},
			wantField: "detection.similarity_threshold",
		},
		{
			name: "bad repo format",
			mutate: func(cfg *Config) {
				cfg.GitHub.Repo = "just-a-name"
			},
			wantField: "github.repo",
		},
		{
			name: "unknown llm provider",
			mutate: func(cfg *Config) {
				cfg.LLM.Provider = "mystery"
				cfg.LLM.APIKey = "k"
			},
			wantField: "llm.provider",
		},
		{
			name: "llm provider without key",
			mutate: func(cfg *Config) {
				cfg.LLM.Provider = "openai"
			},
			wantField: "llm.api_key",
		},
		{
			name: "llm temperature out of range",
			mutate: func(cfg *Config) {
				cfg.LLM.Temperature = 3
			},
			wantField: "llm.temperature",
		},
		{
			name: "analysis enabled without provider",
			mutate: func(cfg *Config) {
				cfg.Triage.Analysis.Enabled = true
			},
			wantField: "triage.analysis.enabled",
		},
		{
			name: "inverted confirm band",
			mutate: func(cfg *Config) {
				cfg.Triage.Confirm.BandLow = 0.8
				cfg.Triage.Confirm.BandHigh = 0.5
			},
			wantField: "triage.confirm.band_low",
		},
		{
			name: "bad block level",
			mutate: func(cfg *Config) {
				cfg.Security.BlockLevel = "maximum"
			},
			wantField: "security.block_level",
		},
		{
			name: "embedding provider without qdrant",
			mutate: func(cfg *Config) {
				cfg.Embedding.Primary.Provider = "gemini"
				cfg.Embedding.Primary.APIKey = "k"
			},
			wantField: "qdrant.url",
		},
		{
			name: "port out of range",
			mutate: func(cfg *Config) {
				cfg.Server.Port = 70000
			},
			wantField: "server.port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			errs := Validate(cfg)

			if tt.wantField == "" {
				if len(errs) != 0 {
					t.Fatalf("Validate() = %v, want no errors", errs)
				}
				return
			}

			found := false
			for _, err := range errs {
				ve, ok := err.(ValidationError)
				if !ok {
					t.Fatalf("error %v is not a ValidationError", err)
				}
				if ve.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("Validate() = %v, want error on field %s", errs, tt.wantField)
			}
		})
	}
}

func TestBlocksAt(t *testing.T) {
	tests := []struct {
		level string
		risk  string
		want  bool
	}{
		{level: "high", risk: "critical", want: true},
		{level: "high", risk: "high", want: true},
		{level: "high", risk: "medium", want: false},
		{level: "low", risk: "low", want: true},
		{level: "off", risk: "critical", want: false},
		{level: "critical", risk: "high", want: false},
	}

	for _, tt := range tests {
		cfg := Default()
		cfg.Security.BlockLevel = tt.level
		if got := cfg.BlocksAt(tt.risk); got != tt.want {
			t.Errorf("BlocksAt(%s) with level %s = %v, want %v", tt.risk, tt.level, got, tt.want)
		}
	}
}

func TestRedacted(t *testing.T) {
	cfg := Default()
	cfg.LLM.APIKey = "sk-secret"
	cfg.GitHub.Token = "ghp_secret"

	red := cfg.Redacted()
	if red.LLM.APIKey != "********" || red.GitHub.Token != "********" {
		t.Errorf("Redacted() kept secrets: %q, %q", red.LLM.APIKey, red.GitHub.Token)
	}
	if red.Qdrant.APIKey != "" {
		t.Errorf("Redacted() masked an empty key: %q", red.Qdrant.APIKey)
	}
	if cfg.LLM.APIKey != "sk-secret" {
		t.Error("Redacted() mutated the original config")
	}
}
