package issuefile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/triagelab/ai-triage/pkg/models"
)

// SampleIssues returns the demonstration corpus used by the sample command
// and the docs. It mixes open and closed issues so duplicate checks against
// it exercise the open-only filter.
func SampleIssues() []*models.IssueReference {
	return []*models.IssueReference{
		{
			IssueID:     "ISSUE-001",
			Title:       "Login page crashes when clicking submit button",
			Description: "When I click the submit button on the login page, the application crashes with a JavaScript error. The console shows 'TypeError: Cannot read property of undefined'. This happens in Chrome and Firefox.",
			Status:      "open",
			CreatedDate: "2024-01-15",
			URL:         "https://github.com/example/repo/issues/1",
		},
		{
			IssueID:     "ISSUE-002",
			Title:       "Database connection timeout in production",
			Description: "The application frequently shows database connection timeout errors in production environment. This affects user authentication and data retrieval. Error occurs approximately every 30 minutes.",
			Status:      "open",
			CreatedDate: "2024-01-20",
			URL:         "https://github.com/example/repo/issues/2",
		},
		{
			IssueID:     "ISSUE-003",
			Title:       "User authentication module memory leak",
			Description: "Memory usage continuously increases in the authentication service. After 24 hours of operation, memory usage reaches 2GB and the service becomes unresponsive.",
			Status:      "open",
			CreatedDate: "2024-01-25",
			URL:         "https://github.com/example/repo/issues/3",
		},
		{
			IssueID:     "ISSUE-004",
			Title:       "Submit button not working on login form",
			Description: "Users report that clicking the submit button on the login form doesn't work. The page doesn't respond and no error is shown. This issue affects multiple browsers.",
			Status:      "closed",
			CreatedDate: "2024-01-28",
			URL:         "https://github.com/example/repo/issues/4",
		},
		{
			IssueID:     "ISSUE-005",
			Title:       "Database timeout errors during peak hours",
			Description: "During high traffic periods, the database connection times out frequently. This causes authentication failures and data loading issues for users.",
			Status:      "open",
			CreatedDate: "2024-01-30",
			URL:         "https://github.com/example/repo/issues/5",
		},
	}
}

// WriteSample writes the sample corpus to path as indented JSON, in the
// exact shape Load reads back.
func WriteSample(path string) error {
	data, err := json.MarshalIndent(SampleIssues(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode sample issues: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write sample issues file: %w", err)
	}
	return nil
}
