package embedding

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/triagelab/ai-triage/internal/config"
)

// FallbackProvider tries a primary provider and falls back to a secondary
// one when the primary call fails.
type FallbackProvider struct {
	primary  Provider
	fallback Provider
	logger   zerolog.Logger
}

// NewFallbackProvider creates a provider chain from config. The fallback
// leg is optional; a misconfigured fallback is logged and skipped rather
// than failing the whole chain.
func NewFallbackProvider(ctx context.Context, cfg *config.EmbeddingConfig, logger zerolog.Logger) (*FallbackProvider, error) {
	primary, err := newProvider(ctx, &cfg.Primary)
	if err != nil {
		return nil, fmt.Errorf("failed to create primary provider: %w", err)
	}

	var fallback Provider
	if cfg.Fallback.Provider != "" && cfg.Fallback.APIKey != "" {
		fallback, err = newProvider(ctx, &cfg.Fallback)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to create fallback embedding provider")
			fallback = nil
		}
	}

	return &FallbackProvider{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}, nil
}

func newProvider(ctx context.Context, cfg *config.ProviderConfig) (Provider, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiProvider(ctx, cfg.APIKey, cfg.Model, cfg.Dimensions)
	case "openai":
		return NewOpenAIProvider(cfg.APIKey, cfg.Model, cfg.Dimensions)
	case "":
		return nil, fmt.Errorf("no embedding provider configured")
	default:
		return nil, fmt.Errorf("unknown embedding provider %q (want gemini or openai)", cfg.Provider)
	}
}

// Embed generates an embedding with fallback on failure
func (p *FallbackProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	embedding, err := p.primary.Embed(ctx, text)
	if err == nil {
		return embedding, nil
	}

	if p.fallback == nil {
		return nil, fmt.Errorf("primary embedding failed (no fallback): %w", err)
	}

	p.logger.Warn().Err(err).Msg("primary embedding failed, trying fallback")
	return p.fallback.Embed(ctx, text)
}

// EmbedBatch generates embeddings for multiple texts with fallback
func (p *FallbackProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings, err := p.primary.EmbedBatch(ctx, texts)
	if err == nil {
		return embeddings, nil
	}

	if p.fallback == nil {
		return nil, fmt.Errorf("primary embedding failed (no fallback): %w", err)
	}

	p.logger.Warn().Err(err).Msg("primary batch embedding failed, trying fallback")
	return p.fallback.EmbedBatch(ctx, texts)
}

// Close releases resources
func (p *FallbackProvider) Close() error {
	var errs []error
	if err := p.primary.Close(); err != nil {
		errs = append(errs, err)
	}
	if p.fallback != nil {
		if err := p.fallback.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
