package triage

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/triagelab/ai-triage/internal/llm"
	"github.com/triagelab/ai-triage/pkg/models"
)

// maxCodebaseChars caps how much of the codebase context file goes into the
// prompt.
const maxCodebaseChars = 200000

// AnalyzerOptions configures an Analyzer.
type AnalyzerOptions struct {
	// SourcePath is the codebase context file. Missing files are tolerated;
	// analysis proceeds without codebase content.
	SourcePath string
	// CustomPromptPath overrides the built-in analysis prompt. The template
	// may use {title}, {issue_description}, and {codebase_content}.
	CustomPromptPath string
	// MaxRetries is the number of additional attempts after a failed or
	// low-quality response.
	MaxRetries int
	// MinConfidence is the quality gate: responses below it are retried.
	MinConfidence float64
	Logger        zerolog.Logger
}

// Analyzer produces a structured assessment of an issue using an LLM. It
// always returns a usable analysis; provider failures degrade into a
// zero-confidence fallback rather than an error.
type Analyzer struct {
	provider      llm.Provider
	sourcePath    string
	customPrompt  string
	maxRetries    int
	minConfidence float64
	codebase      string
	log           zerolog.Logger
}

// NewAnalyzer creates an analyzer and loads the codebase context file.
func NewAnalyzer(provider llm.Provider, opts AnalyzerOptions) *Analyzer {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 2
	}
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = 0.6
	}

	a := &Analyzer{
		provider:      provider,
		sourcePath:    opts.SourcePath,
		customPrompt:  opts.CustomPromptPath,
		maxRetries:    opts.MaxRetries,
		minConfidence: opts.MinConfidence,
		log:           opts.Logger,
	}
	a.codebase = a.loadCodebase()
	return a
}

func (a *Analyzer) loadCodebase() string {
	if a.sourcePath == "" {
		return ""
	}
	data, err := os.ReadFile(a.sourcePath)
	if err != nil {
		a.log.Warn().Str("path", a.sourcePath).Err(err).
			Msg("codebase context unavailable, analyzing without it")
		return ""
	}
	content := string(data)
	if len(content) > maxCodebaseChars {
		a.log.Debug().Str("path", a.sourcePath).Int("chars", len(content)).
			Msg("truncating codebase context")
		content = content[:maxCodebaseChars]
	}
	return content
}

// Analyze assesses one issue. The returned analysis is never nil.
func (a *Analyzer) Analyze(ctx context.Context, title, description string) *models.IssueAnalysis {
	var best *models.IssueAnalysis

	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		prompt, err := a.buildPrompt(title, description)
		if err != nil {
			// A broken custom prompt never improves on retry.
			return a.fallbackAnalysis(title, description, err)
		}

		response, err := a.provider.Complete(ctx, prompt)
		if err != nil {
			a.log.Warn().Err(err).Int("attempt", attempt+1).Msg("analysis request failed")
			if attempt < a.maxRetries {
				continue
			}
			if best != nil {
				return best
			}
			return a.fallbackAnalysis(title, description, err)
		}

		payload := parseAnalysisResponse(response)
		analysis := a.assemble(title, description, payload)

		if a.isLowQuality(analysis) {
			a.log.Debug().Int("attempt", attempt+1).Float64("confidence", analysis.ConfidenceScore).
				Msg("low quality analysis, retrying")
			if best == nil || analysis.ConfidenceScore > best.ConfidenceScore {
				best = analysis
			}
			if attempt < a.maxRetries {
				continue
			}
			best.AnalysisSummary = strings.TrimSpace(best.AnalysisSummary + " (low-confidence result after retries)")
			return best
		}

		return analysis
	}

	// Unreachable: the loop always returns.
	return a.fallbackAnalysis(title, description, fmt.Errorf("no analysis produced"))
}

func (a *Analyzer) buildPrompt(title, description string) (string, error) {
	if a.customPrompt != "" {
		return loadPromptTemplate(a.customPrompt, title, description, a.codebase)
	}
	return analysisPrompt(title, description, a.codebase), nil
}

func (a *Analyzer) assemble(title, description string, p analysisPayload) *models.IssueAnalysis {
	issueType := models.IssueType(p.IssueType)
	if !models.ValidIssueType(p.IssueType) {
		issueType = models.IssueTypeBug
	}
	severity := models.Severity(p.Severity)
	if !models.ValidSeverity(p.Severity) {
		severity = models.SeverityMedium
	}

	return &models.IssueAnalysis{
		Title:             title,
		Description:       description,
		IssueType:         issueType,
		Severity:          severity,
		RootCauseAnalysis: p.RootCauseAnalysis,
		ProposedSolutions: p.ProposedSolutions,
		ConfidenceScore:   p.ConfidenceScore,
		AnalysisSummary:   p.AnalysisSummary,
	}
}

// isLowQuality flags responses that look like filler: boilerplate phrases,
// low confidence, or a summary too short to be useful.
func (a *Analyzer) isLowQuality(analysis *models.IssueAnalysis) bool {
	boilerplate := []string{
		"requires further investigation",
		"to be determined",
		"based on initial analysis",
	}

	primary := strings.ToLower(analysis.RootCauseAnalysis.PrimaryCause)
	for _, phrase := range boilerplate {
		if strings.Contains(primary, phrase) {
			return true
		}
	}

	for _, sol := range analysis.ProposedSolutions {
		if strings.Contains(strings.ToLower(sol.Description), "requires further investigation") {
			return true
		}
		if strings.Contains(strings.ToLower(sol.CodeChanges), "to be determined") {
			return true
		}
		if strings.Contains(strings.ToLower(sol.Rationale), "based on initial analysis") {
			return true
		}
		if sol.Location.FilePath == "unknown" || sol.Location.FilePath == "" {
			return true
		}
	}

	if analysis.ConfidenceScore < a.minConfidence {
		return true
	}
	if len(strings.TrimSpace(analysis.AnalysisSummary)) < 50 {
		return true
	}

	return false
}

func (a *Analyzer) fallbackAnalysis(title, description string, err error) *models.IssueAnalysis {
	return &models.IssueAnalysis{
		Title:       title,
		Description: description,
		IssueType:   models.IssueTypeBug,
		Severity:    models.SeverityMedium,
		RootCauseAnalysis: models.RootCauseAnalysis{
			PrimaryCause:         fmt.Sprintf("Unable to analyze due to API error: %v", err),
			ContributingFactors:  []string{"API unavailable"},
			AffectedComponents:   []string{"Unknown"},
			RelatedCodeLocations: []models.CodeLocation{},
		},
		ProposedSolutions: []models.CodeSolution{
			{
				Description: "Manual analysis required",
				CodeChanges: "Please analyze manually",
				Location:    models.CodeLocation{FilePath: "unknown"},
				Rationale:   "Automated analysis failed",
			},
		},
		ConfidenceScore: 0.0,
		AnalysisSummary: "Analysis failed - manual review needed",
	}
}
