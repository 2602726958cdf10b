package vectordb

import (
	"testing"

	"github.com/triagelab/ai-triage/pkg/models"
)

func TestRankResultsDampsClosed(t *testing.T) {
	results := []SearchResult{
		{Issue: models.IssueReference{IssueID: "1", Status: "closed"}, Score: 0.90},
		{Issue: models.IssueReference{IssueID: "2", Status: "open"}, Score: 0.85},
		{Issue: models.IssueReference{IssueID: "3", Status: "open"}, Score: 0.70},
	}

	ranked := rankResults(results, 0.9, 3)

	if ranked[0].Issue.IssueID != "2" {
		t.Errorf("first = %s, want the open issue after damping", ranked[0].Issue.IssueID)
	}
	if got := ranked[1].Issue.IssueID; got != "1" {
		t.Errorf("second = %s, want the damped closed issue", got)
	}
	if ranked[1].Score < 0.80 || ranked[1].Score > 0.82 {
		t.Errorf("damped score = %f, want 0.9*0.9", ranked[1].Score)
	}
}

func TestRankResultsNoDamping(t *testing.T) {
	results := []SearchResult{
		{Issue: models.IssueReference{IssueID: "1", Status: "closed"}, Score: 0.90},
		{Issue: models.IssueReference{IssueID: "2", Status: "open"}, Score: 0.85},
	}

	ranked := rankResults(results, 0, 2)
	if ranked[0].Issue.IssueID != "1" {
		t.Errorf("first = %s, want order preserved without damping", ranked[0].Issue.IssueID)
	}
}

func TestRankResultsTrimsToLimit(t *testing.T) {
	results := []SearchResult{
		{Issue: models.IssueReference{IssueID: "1", Status: "open"}, Score: 0.9},
		{Issue: models.IssueReference{IssueID: "2", Status: "open"}, Score: 0.8},
		{Issue: models.IssueReference{IssueID: "3", Status: "open"}, Score: 0.7},
	}

	ranked := rankResults(results, 0.9, 2)
	if len(ranked) != 2 {
		t.Fatalf("len = %d, want 2", len(ranked))
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	issue := &models.IssueReference{
		IssueID:     "ISSUE-9",
		Title:       "Crash on save",
		Description: "not stored in the index",
		Status:      "open",
		CreatedDate: "2024-02-02",
		URL:         "https://github.com/example/repo/issues/9",
		Labels:      []string{"bug", "ui"},
	}

	point := referenceToPoint(issue, []float32{0.1, 0.2})
	got := payloadToReference(point.Payload)

	if got.IssueID != issue.IssueID || got.Title != issue.Title || got.Status != issue.Status {
		t.Errorf("got %+v", got)
	}
	if got.URL != issue.URL || got.CreatedDate != issue.CreatedDate {
		t.Errorf("got %+v", got)
	}
	if len(got.Labels) != 2 || got.Labels[0] != "bug" {
		t.Errorf("Labels = %v", got.Labels)
	}
	if got.Description != "" {
		t.Errorf("Description = %q, want empty (not stored)", got.Description)
	}
	if h := point.Payload["text_hash"].GetStringValue(); h != issue.TextHash() {
		t.Errorf("text_hash = %q", h)
	}
}
