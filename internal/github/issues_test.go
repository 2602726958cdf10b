package github

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/triagelab/ai-triage/internal/issuefile"
)

func TestParseRepo(t *testing.T) {
	tests := []struct {
		input   string
		org     string
		repo    string
		wantErr bool
	}{
		{input: "octo/widgets", org: "octo", repo: "widgets"},
		{input: "octo", wantErr: true},
		{input: "octo/widgets/extra", wantErr: true},
		{input: "/widgets", wantErr: true},
		{input: "octo/", wantErr: true},
	}
	for _, tt := range tests {
		org, repo, err := ParseRepo(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseRepo(%q) error = nil, want error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRepo(%q) error = %v", tt.input, err)
			continue
		}
		if org != tt.org || repo != tt.repo {
			t.Errorf("ParseRepo(%q) = (%q, %q), want (%q, %q)", tt.input, org, repo, tt.org, tt.repo)
		}
	}
}

func TestToReference(t *testing.T) {
	payload := `{
		"number": 42,
		"title": "Crash on export",
		"body": "The exporter panics on empty projects.",
		"state": "OPEN",
		"html_url": "https://github.com/octo/widgets/issues/42",
		"labels": [{"name": "bug"}, {"name": "exporter"}],
		"created_at": "2024-04-01T12:30:00Z"
	}`
	var issue Issue
	if err := json.Unmarshal([]byte(payload), &issue); err != nil {
		t.Fatal(err)
	}

	ref := issue.ToReference()
	if ref.IssueID != "42" || ref.Title != "Crash on export" {
		t.Errorf("id/title = %q/%q", ref.IssueID, ref.Title)
	}
	if ref.Status != "open" {
		t.Errorf("Status = %q, want lowercased", ref.Status)
	}
	if ref.CreatedDate != "2024-04-01T12:30:00Z" {
		t.Errorf("CreatedDate = %q", ref.CreatedDate)
	}
	if !reflect.DeepEqual(ref.Labels, []string{"bug", "exporter"}) {
		t.Errorf("Labels = %v", ref.Labels)
	}
}

func TestToReferenceEmptyBody(t *testing.T) {
	issue := Issue{Number: 7, Title: "t", State: "open"}
	ref := issue.ToReference()
	if ref.Description != issuefile.DefaultDescription {
		t.Errorf("Description = %q, want the loader default", ref.Description)
	}
	if ref.CreatedDate != "" {
		t.Errorf("CreatedDate = %q, want empty for zero time", ref.CreatedDate)
	}
}

func TestToReferencesSkipsPullRequests(t *testing.T) {
	payload := `[
		{"number": 1, "title": "real issue", "state": "open"},
		{"number": 2, "title": "a PR", "state": "open",
		 "pull_request": {"url": "https://api.github.com/repos/octo/widgets/pulls/2"}}
	]`
	var raw []Issue
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatal(err)
	}

	refs := toReferences(raw)
	if len(refs) != 1 || refs[0].IssueID != "1" {
		t.Errorf("refs = %+v, want only the real issue", refs)
	}
}
