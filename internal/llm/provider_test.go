package llm

import (
	"strings"
	"testing"

	"github.com/triagelab/ai-triage/internal/config"
)

func TestOptionsWithDefaults(t *testing.T) {
	got := Options{}.withDefaults()
	if got.Temperature != defaultTemperature {
		t.Errorf("Temperature = %v, want %v", got.Temperature, defaultTemperature)
	}
	if got.MaxTokens != defaultMaxTokens {
		t.Errorf("MaxTokens = %v, want %v", got.MaxTokens, defaultMaxTokens)
	}

	got = Options{Temperature: 0.9, MaxTokens: 512}.withDefaults()
	if got.Temperature != 0.9 || got.MaxTokens != 512 {
		t.Errorf("explicit options overwritten: %+v", got)
	}
}

func TestNewOpenAIProviderOptions(t *testing.T) {
	p, err := NewOpenAIProvider("test-key", Options{})
	if err != nil {
		t.Fatalf("NewOpenAIProvider() error = %v", err)
	}
	if p.opts.Model != defaultOpenAIModel {
		t.Errorf("Model = %q, want %q", p.opts.Model, defaultOpenAIModel)
	}
	if p.opts.Temperature != defaultTemperature || p.opts.MaxTokens != defaultMaxTokens {
		t.Errorf("opts = %+v, want sampling defaults filled in", p.opts)
	}

	p, err = NewOpenAIProvider("test-key", Options{Model: "gpt-4o", Temperature: 0.1, MaxTokens: 256})
	if err != nil {
		t.Fatalf("NewOpenAIProvider() error = %v", err)
	}
	if p.opts.Model != "gpt-4o" || p.opts.Temperature != 0.1 || p.opts.MaxTokens != 256 {
		t.Errorf("opts = %+v, want the configured values carried through", p.opts)
	}
}

func TestNewOpenAIProviderRequiresKey(t *testing.T) {
	if _, err := NewOpenAIProvider("", Options{}); err == nil {
		t.Error("NewOpenAIProvider(\"\") error = nil, want error")
	}
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	if _, err := New("mystery", "k", Options{}); err == nil || !strings.Contains(err.Error(), "unknown LLM provider") {
		t.Errorf("err = %v", err)
	}
	if _, err := New("", "k", Options{}); err == nil || !strings.Contains(err.Error(), "no LLM provider configured") {
		t.Errorf("err = %v", err)
	}
}

func TestNewFromConfigCarriesOptions(t *testing.T) {
	p, err := NewFromConfig(config.LLMConfig{
		Provider:    "openai",
		APIKey:      "test-key",
		Model:       "gpt-4o",
		Temperature: 0.7,
		MaxTokens:   1024,
	})
	if err != nil {
		t.Fatalf("NewFromConfig() error = %v", err)
	}
	op, ok := p.(*OpenAIProvider)
	if !ok {
		t.Fatalf("provider type = %T, want *OpenAIProvider", p)
	}
	if op.opts.Model != "gpt-4o" || op.opts.Temperature != 0.7 || op.opts.MaxTokens != 1024 {
		t.Errorf("opts = %+v, want the config values threaded through", op.opts)
	}
}
