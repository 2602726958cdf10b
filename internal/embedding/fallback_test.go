package embedding

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/triagelab/ai-triage/internal/config"
)

type fakeEmbedder struct {
	vec    []float32
	err    error
	calls  int
	closed bool
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vec, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.vec
	}
	return out, nil
}

func (f *fakeEmbedder) Close() error {
	f.closed = true
	return nil
}

func TestFallbackPrefersPrimary(t *testing.T) {
	primary := &fakeEmbedder{vec: []float32{1, 0}}
	secondary := &fakeEmbedder{vec: []float32{0, 1}}
	p := &FallbackProvider{primary: primary, fallback: secondary, logger: zerolog.Nop()}

	vec, err := p.Embed(context.Background(), "text")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if vec[0] != 1 {
		t.Errorf("vec = %v, want the primary's vector", vec)
	}
	if secondary.calls != 0 {
		t.Errorf("fallback calls = %d, want 0", secondary.calls)
	}
}

func TestFallbackUsedOnPrimaryFailure(t *testing.T) {
	primary := &fakeEmbedder{err: errors.New("quota exceeded")}
	secondary := &fakeEmbedder{vec: []float32{0, 1}}
	p := &FallbackProvider{primary: primary, fallback: secondary, logger: zerolog.Nop()}

	vecs, err := p.EmbedBatch(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("EmbedBatch() error = %v", err)
	}
	if len(vecs) != 2 || vecs[0][1] != 1 {
		t.Errorf("vecs = %v, want the fallback's vectors", vecs)
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Errorf("calls = (%d, %d), want (1, 1)", primary.calls, secondary.calls)
	}
}

func TestFallbackAbsent(t *testing.T) {
	primary := &fakeEmbedder{err: errors.New("quota exceeded")}
	p := &FallbackProvider{primary: primary, logger: zerolog.Nop()}

	_, err := p.Embed(context.Background(), "text")
	if err == nil {
		t.Fatal("Embed() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "no fallback") {
		t.Errorf("error = %v", err)
	}
}

func TestFallbackClose(t *testing.T) {
	primary := &fakeEmbedder{}
	secondary := &fakeEmbedder{}
	p := &FallbackProvider{primary: primary, fallback: secondary, logger: zerolog.Nop()}

	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !primary.closed || !secondary.closed {
		t.Error("Close() should close both providers")
	}
}

func TestNewProviderRejectsUnknown(t *testing.T) {
	_, err := newProvider(context.Background(), &config.ProviderConfig{Provider: "cohere"})
	if err == nil || !strings.Contains(err.Error(), "unknown embedding provider") {
		t.Errorf("err = %v", err)
	}

	_, err = newProvider(context.Background(), &config.ProviderConfig{})
	if err == nil || !strings.Contains(err.Error(), "no embedding provider configured") {
		t.Errorf("err = %v", err)
	}
}
