// Package pipeline runs the full triage flow over a single issue: security
// screening, lexical duplicate detection, optional LLM confirmation and
// analysis, and report assembly.
package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/triagelab/ai-triage/internal/config"
	"github.com/triagelab/ai-triage/internal/llm"
	"github.com/triagelab/ai-triage/internal/similarity"
	"github.com/triagelab/ai-triage/internal/triage"
	"github.com/triagelab/ai-triage/pkg/models"
)

// State carries one issue through the steps.
type State struct {
	Issue      models.NewIssue
	Candidates []*models.IssueReference

	// CleanTitle and CleanDescription are the redacted forms fed to
	// LLM-bound steps. The lexical detector always sees the original text.
	CleanTitle       string
	CleanDescription string

	// Blocked is set when the security gate refuses to forward the text to
	// an LLM. LLM-backed steps become no-ops.
	Blocked bool

	Report *Report
}

// Report is the combined triage outcome.
type Report struct {
	AnalyzedAt    time.Time                        `json:"analyzed_at"`
	NewIssue      models.NewIssue                  `json:"new_issue"`
	Security      *models.InjectionResult          `json:"security,omitempty"`
	Blocked       bool                             `json:"blocked,omitempty"`
	Duplicate     *models.DuplicateDetectionResult `json:"duplicate,omitempty"`
	Confirmation  *models.DuplicateDetectionResult `json:"llm_confirmation,omitempty"`
	Analysis      *models.IssueAnalysis            `json:"analysis,omitempty"`
	SimilarIssues []models.SimilarMatch            `json:"similar_issues,omitempty"`
	// Degraded lists steps that failed. Their findings are absent; the rest
	// of the report is still valid.
	Degraded []string `json:"degraded,omitempty"`
}

// Step is one unit of the triage flow.
type Step interface {
	Name() string
	Run(ctx context.Context, state *State) error
}

// Options tune a Runner.
type Options struct {
	// NoClean skips redaction of LLM-bound text.
	NoClean bool
}

// Runner executes the triage steps in order. A failing step degrades the
// report; later steps still run.
type Runner struct {
	llm     llm.Provider
	ownsLLM bool
	logger  zerolog.Logger
	steps   []Step
}

// NewRunner wires the steps from config, constructing the LLM provider
// named there. The provider is optional: without one, confirmation and
// analysis are skipped.
func NewRunner(cfg *config.Config, logger zerolog.Logger, opts Options) (*Runner, error) {
	var provider llm.Provider
	if cfg.LLM.Provider != "" {
		var err error
		provider, err = llm.NewFromConfig(cfg.LLM)
		if err != nil {
			logger.Warn().Err(err).Msg("LLM provider unavailable, LLM steps disabled")
			provider = nil
		}
	}

	r, err := NewRunnerWith(cfg, provider, logger, opts)
	if err != nil {
		if provider != nil {
			provider.Close()
		}
		return nil, err
	}
	r.ownsLLM = true
	return r, nil
}

// NewRunnerWith wires the steps around an existing provider, which may be
// nil. The caller keeps ownership of the provider.
func NewRunnerWith(cfg *config.Config, provider llm.Provider, logger zerolog.Logger, opts Options) (*Runner, error) {
	detector, err := similarity.NewDetector(cfg.Detection.SimilarityThreshold, cfg.Detection.ConfidenceThreshold)
	if err != nil {
		return nil, err
	}

	var checker *triage.DuplicateChecker
	var analyzer *triage.Analyzer
	if provider != nil {
		checker = triage.NewDuplicateChecker(provider, cfg.LLM.MaxRetries, logger)
		if cfg.Triage.Analysis.Enabled {
			analyzer = triage.NewAnalyzer(provider, triage.AnalyzerOptions{
				SourcePath:       cfg.Triage.Analysis.SourcePath,
				CustomPromptPath: cfg.Triage.Analysis.CustomPrompt,
				MaxRetries:       cfg.Triage.Analysis.Retries,
				MinConfidence:    cfg.Triage.Analysis.MinConfidence,
				Logger:           logger,
			})
		}
	}

	return &Runner{
		llm:    provider,
		logger: logger,
		steps: []Step{
			&securityStep{cfg: cfg, noClean: opts.NoClean},
			&lexicalStep{detector: detector, maxSimilar: cfg.Detection.MaxSimilarToShow},
			&confirmStep{cfg: cfg, checker: checker},
			&analysisStep{analyzer: analyzer},
			&reportStep{},
		},
	}, nil
}

// Close releases the LLM provider when the runner constructed it.
func (r *Runner) Close() error {
	if r.ownsLLM && r.llm != nil {
		return r.llm.Close()
	}
	return nil
}

// Run triages one issue against the candidate corpus. The report is always
// complete enough to render; failed steps are listed in Degraded.
func (r *Runner) Run(ctx context.Context, issue models.NewIssue, candidates []*models.IssueReference) *Report {
	state := &State{
		Issue:            issue,
		Candidates:       candidates,
		CleanTitle:       issue.Title,
		CleanDescription: issue.Description,
		Report:           &Report{NewIssue: issue},
	}

	for _, step := range r.steps {
		if err := step.Run(ctx, state); err != nil {
			r.logger.Warn().Err(err).Str("step", step.Name()).Msg("step failed, report degraded")
			state.Report.Degraded = append(state.Report.Degraded, step.Name())
		}
	}
	return state.Report
}

// reportStep finalizes the report.
type reportStep struct{}

func (s *reportStep) Name() string { return "report" }

func (s *reportStep) Run(ctx context.Context, state *State) error {
	state.Report.AnalyzedAt = time.Now().UTC()
	return nil
}
