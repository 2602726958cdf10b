package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/triagelab/ai-triage/internal/security"
	"github.com/triagelab/ai-triage/pkg/models"
)

type errorResponse struct {
	Error string `json:"error"`
}

type issueRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	// Limit caps the similar-issue listing. Zero falls back to config.
	Limit int `json:"limit,omitempty"`
}

func (r *issueRequest) validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	return nil
}

func bindIssue(c echo.Context) (*issueRequest, error) {
	var req issueRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":     "ok",
		"candidates": len(s.candidates),
	})
}

func (s *Server) handleCheck(c echo.Context) error {
	req, err := bindIssue(c)
	if err != nil {
		return err
	}

	report := models.CheckReport{
		AnalyzedAt: time.Now().UTC(),
		NewIssue:   models.NewIssue{Title: req.Title, Description: req.Description},
		Result:     s.detector.DetectDuplicate(req.Title, req.Description, s.candidates),
	}
	if limit := s.similarLimit(req.Limit); limit > 0 {
		matches := s.detector.TopMatches(req.Title, req.Description, s.candidates, limit)
		report.SimilarIssues = models.SummarizeMatches(matches)
	}
	return c.JSON(http.StatusOK, report)
}

func (s *Server) handleSimilar(c echo.Context) error {
	req, err := bindIssue(c)
	if err != nil {
		return err
	}

	matches := s.detector.TopMatches(req.Title, req.Description, s.candidates, s.similarLimit(req.Limit))
	return c.JSON(http.StatusOK, map[string]any{
		"similar_issues": models.SummarizeMatches(matches),
	})
}

func (s *Server) handleAnalyze(c echo.Context) error {
	if s.analyzer == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "no LLM provider configured")
	}

	req, err := bindIssue(c)
	if err != nil {
		return err
	}

	title, description := security.CleanAndRedact(req.Title, req.Description)
	analysis := s.analyzer.Analyze(c.Request().Context(), title, description)
	return c.JSON(http.StatusOK, analysis)
}

func (s *Server) handleTriage(c echo.Context) error {
	req, err := bindIssue(c)
	if err != nil {
		return err
	}

	issue := models.NewIssue{Title: req.Title, Description: req.Description}
	report := s.runner.Run(c.Request().Context(), issue, s.candidates)
	return c.JSON(http.StatusOK, report)
}

func (s *Server) handleIssues(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"count":  len(s.candidates),
		"issues": s.candidates,
	})
}

func (s *Server) similarLimit(requested int) int {
	if requested > 0 {
		return requested
	}
	return s.cfg.Detection.MaxSimilarToShow
}
