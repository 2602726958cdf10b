// Package llm abstracts chat-completion providers used for issue analysis
// and LLM-backed duplicate detection.
package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/triagelab/ai-triage/internal/config"
)

// Provider defines the interface for LLM chat completion
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, system, prompt string) (string, error)
	Close() error
}

// Options tunes completion requests. The zero value means "use the
// defaults": an unset model falls back to the provider's default and unset
// sampling knobs to the values below.
type Options struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

const (
	defaultTemperature = 0.3
	defaultMaxTokens   = 2048
)

func (o Options) withDefaults() Options {
	if o.Temperature <= 0 {
		o.Temperature = defaultTemperature
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = defaultMaxTokens
	}
	return o
}

// NewFromConfig builds a provider from the llm section of the config.
func NewFromConfig(cfg config.LLMConfig) (Provider, error) {
	return New(cfg.Provider, cfg.APIKey, Options{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
}

// New builds a provider by name. An empty API key falls back to the
// provider's usual environment variables.
func New(provider, apiKey string, opts Options) (Provider, error) {
	switch provider {
	case "gemini":
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			apiKey = os.Getenv("GOOGLE_API_KEY")
		}
		return NewGeminiProvider(apiKey, opts)
	case "openai":
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		return NewOpenAIProvider(apiKey, opts)
	case "":
		return nil, fmt.Errorf("no LLM provider configured")
	default:
		return nil, fmt.Errorf("unknown LLM provider %q (want gemini or openai)", provider)
	}
}
