package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var validBlockLevels = map[string]bool{
	"off":      true,
	"low":      true,
	"medium":   true,
	"high":     true,
	"critical": true,
}

// Validate checks the configuration for errors
func Validate(cfg *Config) []error {
	var errs []error

	if cfg.Detection.SimilarityThreshold < 0 || cfg.Detection.SimilarityThreshold > 1 {
		errs = append(errs, ValidationError{"detection.similarity_threshold", "must be between 0 and 1"})
	}
	if cfg.Detection.ConfidenceThreshold < 0 || cfg.Detection.ConfidenceThreshold > 1 {
		errs = append(errs, ValidationError{"detection.confidence_threshold", "must be between 0 and 1"})
	}
	if cfg.Detection.MaxSimilarToShow < 0 {
		errs = append(errs, ValidationError{"detection.max_similar_to_show", "must not be negative"})
	}

	if cfg.GitHub.Repo != "" && !strings.Contains(cfg.GitHub.Repo, "/") {
		errs = append(errs, ValidationError{"github.repo", "must be in format 'owner/repo'"})
	}
	if cfg.GitHub.MaxIssues < 0 {
		errs = append(errs, ValidationError{"github.max_issues", "must not be negative"})
	}

	// LLM settings are optional; when a provider is named it must be usable.
	if cfg.LLM.Provider != "" {
		if cfg.LLM.Provider != "gemini" && cfg.LLM.Provider != "openai" {
			errs = append(errs, ValidationError{"llm.provider", "must be 'gemini' or 'openai'"})
		}
		if cfg.LLM.APIKey == "" {
			errs = append(errs, ValidationError{"llm.api_key", "required when a provider is set"})
		}
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		errs = append(errs, ValidationError{"llm.temperature", "must be between 0 and 2"})
	}
	if cfg.LLM.MaxTokens < 0 {
		errs = append(errs, ValidationError{"llm.max_tokens", "must not be negative"})
	}

	if cfg.Triage.Analysis.Enabled && cfg.LLM.Provider == "" {
		errs = append(errs, ValidationError{"triage.analysis.enabled", "requires llm.provider"})
	}
	if cfg.Triage.Confirm.Enabled && cfg.LLM.Provider == "" {
		errs = append(errs, ValidationError{"triage.confirm.enabled", "requires llm.provider"})
	}
	if cfg.Triage.Analysis.MinConfidence < 0 || cfg.Triage.Analysis.MinConfidence > 1 {
		errs = append(errs, ValidationError{"triage.analysis.min_confidence", "must be between 0 and 1"})
	}
	if cfg.Triage.Confirm.BandLow < 0 || cfg.Triage.Confirm.BandLow > 1 {
		errs = append(errs, ValidationError{"triage.confirm.band_low", "must be between 0 and 1"})
	}
	if cfg.Triage.Confirm.BandHigh < 0 || cfg.Triage.Confirm.BandHigh > 1 {
		errs = append(errs, ValidationError{"triage.confirm.band_high", "must be between 0 and 1"})
	}
	if cfg.Triage.Confirm.BandLow > cfg.Triage.Confirm.BandHigh {
		errs = append(errs, ValidationError{"triage.confirm.band_low", "must not exceed band_high"})
	}

	if !validBlockLevels[cfg.Security.BlockLevel] {
		errs = append(errs, ValidationError{"security.block_level", "must be one of: off, low, medium, high, critical"})
	}

	// Embedding settings are optional; when a provider is named it must be
	// usable and have somewhere to store vectors.
	for _, p := range []struct {
		field string
		cfg   ProviderConfig
	}{
		{"embedding.primary", cfg.Embedding.Primary},
		{"embedding.fallback", cfg.Embedding.Fallback},
	} {
		if p.cfg.Provider == "" {
			continue
		}
		if p.cfg.Provider != "gemini" && p.cfg.Provider != "openai" {
			errs = append(errs, ValidationError{p.field + ".provider", "must be 'gemini' or 'openai'"})
		}
		if p.cfg.APIKey == "" {
			errs = append(errs, ValidationError{p.field + ".api_key", "required when a provider is set"})
		}
		if p.cfg.Dimensions <= 0 {
			errs = append(errs, ValidationError{p.field + ".dimensions", "must be positive"})
		}
	}
	if cfg.Embedding.Primary.Provider != "" && cfg.Qdrant.URL == "" {
		errs = append(errs, ValidationError{"qdrant.url", "required when an embedding provider is set"})
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, ValidationError{"server.port", "must be between 1 and 65535"})
	}

	return errs
}

// BlocksAt reports whether the configured block level stops the pipeline
// for text assessed at the given risk level.
func (cfg *Config) BlocksAt(risk string) bool {
	order := map[string]int{"low": 1, "medium": 2, "high": 3, "critical": 4}
	threshold, ok := order[cfg.Security.BlockLevel]
	if !ok {
		// "off" (or anything unrecognized) never blocks.
		return false
	}
	return order[risk] >= threshold
}
