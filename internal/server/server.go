// Package server exposes the triage operations as a JSON API. The candidate
// corpus is loaded once at startup; every request is checked against it.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/triagelab/ai-triage/internal/config"
	"github.com/triagelab/ai-triage/internal/llm"
	"github.com/triagelab/ai-triage/internal/pipeline"
	"github.com/triagelab/ai-triage/internal/similarity"
	"github.com/triagelab/ai-triage/internal/triage"
	"github.com/triagelab/ai-triage/pkg/models"
)

// Server answers triage requests over HTTP.
type Server struct {
	cfg        *config.Config
	detector   *similarity.Detector
	analyzer   *triage.Analyzer
	runner     *pipeline.Runner
	provider   llm.Provider
	candidates []*models.IssueReference
	logger     zerolog.Logger
}

// New builds a server over a fixed candidate corpus. The LLM provider is
// optional; without one the analyze path answers 503 and the triage pipeline
// skips its LLM steps.
func New(cfg *config.Config, candidates []*models.IssueReference, logger zerolog.Logger) (*Server, error) {
	detector, err := similarity.NewDetector(cfg.Detection.SimilarityThreshold, cfg.Detection.ConfidenceThreshold)
	if err != nil {
		return nil, err
	}

	var provider llm.Provider
	if cfg.LLM.Provider != "" {
		provider, err = llm.NewFromConfig(cfg.LLM)
		if err != nil {
			logger.Warn().Err(err).Msg("LLM provider unavailable, analyze and LLM triage steps disabled")
			provider = nil
		}
	}

	var analyzer *triage.Analyzer
	if provider != nil {
		analyzer = triage.NewAnalyzer(provider, triage.AnalyzerOptions{
			SourcePath:       cfg.Triage.Analysis.SourcePath,
			CustomPromptPath: cfg.Triage.Analysis.CustomPrompt,
			MaxRetries:       cfg.Triage.Analysis.Retries,
			MinConfidence:    cfg.Triage.Analysis.MinConfidence,
			Logger:           logger,
		})
	}

	runner, err := pipeline.NewRunnerWith(cfg, provider, logger, pipeline.Options{})
	if err != nil {
		if provider != nil {
			provider.Close()
		}
		return nil, err
	}

	return &Server{
		cfg:        cfg,
		detector:   detector,
		analyzer:   analyzer,
		runner:     runner,
		provider:   provider,
		candidates: candidates,
		logger:     logger,
	}, nil
}

// Close releases the LLM provider, if any.
func (s *Server) Close() error {
	if s.provider != nil {
		return s.provider.Close()
	}
	return nil
}

// Start runs the HTTP server until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	e := s.router()

	host := s.cfg.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	addr := fmt.Sprintf("%s:%d", host, s.cfg.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	s.logger.Info().Str("addr", addr).Int("candidates", len(s.candidates)).Msg("triage API listening")
	if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.logger.Info().Msg("triage API stopped")
	return nil
}

func (s *Server) router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			evt := s.logger.Info()
			if v.Error != nil {
				evt = s.logger.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("http request")
			return nil
		},
	}))

	e.GET("/healthz", s.handleHealth)

	api := e.Group("/api/v1")
	api.POST("/check", s.handleCheck)
	api.POST("/similar", s.handleSimilar)
	api.POST("/analyze", s.handleAnalyze)
	api.POST("/triage", s.handleTriage)
	api.GET("/issues", s.handleIssues)

	return e
}

// httpErrorHandler renders every error as the JSON envelope {error: msg}.
func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	// Non-HTTP errors stay opaque: the log has the detail.
	status := http.StatusInternalServerError
	message := "internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if msg, ok := he.Message.(string); ok && strings.TrimSpace(msg) != "" {
			message = msg
		} else {
			message = http.StatusText(status)
		}
	}

	if writeErr := c.JSON(status, errorResponse{Error: message}); writeErr != nil {
		s.logger.Error().Err(writeErr).Msg("failed to write error response")
	}
}
