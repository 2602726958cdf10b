package pipeline

import (
	"context"

	"github.com/triagelab/ai-triage/internal/config"
	"github.com/triagelab/ai-triage/internal/similarity"
	"github.com/triagelab/ai-triage/internal/triage"
)

// lexicalStep runs the deterministic duplicate detector and collects the
// top similar issues for the report.
type lexicalStep struct {
	detector   *similarity.Detector
	maxSimilar int
}

func (s *lexicalStep) Name() string { return "lexical_duplicate" }

func (s *lexicalStep) Run(ctx context.Context, state *State) error {
	state.Report.Duplicate = s.detector.DetectDuplicate(state.Issue.Title, state.Issue.Description, state.Candidates)
	if s.maxSimilar > 0 {
		state.Report.SimilarIssues = s.detector.TopMatches(state.Issue.Title, state.Issue.Description, state.Candidates, s.maxSimilar)
	}
	return nil
}

// confirmStep asks the LLM for a second opinion when the lexical score lands
// inside the configured gray band.
type confirmStep struct {
	cfg     *config.Config
	checker *triage.DuplicateChecker
}

func (s *confirmStep) Name() string { return "llm_confirmation" }

func (s *confirmStep) Run(ctx context.Context, state *State) error {
	if s.checker == nil || !s.cfg.Triage.Confirm.Enabled || state.Blocked {
		return nil
	}
	if state.Report.Duplicate == nil {
		return nil
	}

	score := state.Report.Duplicate.SimilarityScore
	if score < s.cfg.Triage.Confirm.BandLow || score >= s.cfg.Triage.Confirm.BandHigh {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	state.Report.Confirmation = s.checker.DetectDuplicate(ctx, state.CleanTitle, state.CleanDescription, state.Candidates)
	return nil
}
