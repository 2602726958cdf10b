package pipeline

import (
	"context"

	"github.com/triagelab/ai-triage/internal/config"
	"github.com/triagelab/ai-triage/internal/security"
)

// securityStep screens the issue for prompt injection and redacts the text
// bound for LLM prompts. At or above the configured block level, later
// LLM-backed steps are disabled.
type securityStep struct {
	cfg     *config.Config
	noClean bool
}

func (s *securityStep) Name() string { return "security" }

func (s *securityStep) Run(ctx context.Context, state *State) error {
	scan := security.ScanInjection(state.Issue.Title+"\n\n"+state.Issue.Description, false)
	state.Report.Security = &scan

	if s.cfg.BlocksAt(string(scan.RiskLevel)) {
		state.Blocked = true
		state.Report.Blocked = true
	}

	if !s.noClean {
		state.CleanTitle, state.CleanDescription = security.CleanAndRedact(state.Issue.Title, state.Issue.Description)
	}
	return nil
}
