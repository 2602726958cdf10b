package github

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/triagelab/ai-triage/internal/issuefile"
	"github.com/triagelab/ai-triage/pkg/models"
)

// Event is a GitHub Actions issues event payload, the file behind
// GITHUB_EVENT_PATH in a workflow run.
type Event struct {
	Action string      `json:"action"`
	Issue  *EventIssue `json:"issue"`
	Repo   *EventRepo  `json:"repository"`
}

// EventIssue represents issue data in an event
type EventIssue struct {
	Number  int     `json:"number"`
	Title   string  `json:"title"`
	Body    string  `json:"body"`
	State   string  `json:"state"`
	HTMLURL string  `json:"html_url"`
	Labels  []Label `json:"labels"`
}

// EventRepo represents repository data in an event
type EventRepo struct {
	FullName string `json:"full_name"`
}

// ParseEventFile reads and parses a GitHub event JSON file
func ParseEventFile(path string) (*Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event file: %w", err)
	}

	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("failed to parse event JSON: %w", err)
	}

	return &event, nil
}

// IsIssueEvent checks if this is an issue event
func (e *Event) IsIssueEvent() bool {
	return e.Issue != nil
}

// NeedsDuplicateCheck reports whether the event action is one where a
// duplicate check is worthwhile.
func (e *Event) NeedsDuplicateCheck() bool {
	return e.Action == "opened" || e.Action == "edited"
}

// NewIssue extracts the incoming report from the event payload, or nil if
// the event does not carry an issue.
func (e *Event) NewIssue() *models.NewIssue {
	if e.Issue == nil {
		return nil
	}

	description := e.Issue.Body
	if description == "" {
		description = issuefile.DefaultDescription
	}

	return &models.NewIssue{
		Title:       e.Issue.Title,
		Description: description,
	}
}
