package pipeline

import (
	"context"

	"github.com/triagelab/ai-triage/internal/triage"
)

// analysisStep produces the structured LLM assessment. Absent when analysis
// is disabled, no provider is configured, or the security gate blocked.
type analysisStep struct {
	analyzer *triage.Analyzer
}

func (s *analysisStep) Name() string { return "analysis" }

func (s *analysisStep) Run(ctx context.Context, state *State) error {
	if s.analyzer == nil || state.Blocked {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	state.Report.Analysis = s.analyzer.Analyze(ctx, state.CleanTitle, state.CleanDescription)
	return nil
}
