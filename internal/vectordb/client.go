// Package vectordb wraps the Qdrant operations behind the semantic index.
// The lexical engine never depends on it.
package vectordb

import (
	"fmt"
	"strings"

	"github.com/qdrant/go-client/qdrant"
	"github.com/rs/zerolog"

	"github.com/triagelab/ai-triage/internal/config"
)

// Client wraps Qdrant operations
type Client struct {
	qdrant *qdrant.Client
	logger zerolog.Logger
}

// NewClient creates a new Qdrant client
func NewClient(cfg *config.QdrantConfig, logger zerolog.Logger) (*Client, error) {
	host, port := parseHostPort(cfg.URL)

	// cloud.qdrant.io endpoints require TLS
	useTLS := strings.Contains(host, "qdrant.io") || strings.Contains(host, "qdrant.cloud")

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Qdrant: %w", err)
	}

	return &Client{qdrant: client, logger: logger}, nil
}

// parseHostPort extracts host and port from URL string
func parseHostPort(url string) (string, int) {
	url = strings.TrimPrefix(url, "https://")
	url = strings.TrimPrefix(url, "http://")

	if idx := strings.LastIndex(url, ":"); idx != -1 {
		host := url[:idx]
		var port int
		_, _ = fmt.Sscanf(url[idx+1:], "%d", &port)
		if port == 0 {
			port = 6334
		}
		return host, port
	}

	if url == "" {
		url = "localhost"
	}
	return url, 6334
}

// Close closes the connection
func (c *Client) Close() error {
	if c.qdrant != nil {
		return c.qdrant.Close()
	}
	return nil
}

// CollectionName builds the collection name for a corpus, e.g.
// "ai_triage_octo_widgets" for the repo octo/widgets.
func CollectionName(prefix, corpus string) string {
	return prefix + "_" + slug(corpus)
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "_")
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	if out == "" {
		return "default"
	}
	return out
}
