package cli

import (
	"strings"
	"testing"

	"github.com/triagelab/ai-triage/internal/similarity"
	"github.com/triagelab/ai-triage/pkg/models"
)

func TestRenderSimilarityMatrix(t *testing.T) {
	issues := []*models.IssueReference{
		{IssueID: "ISSUE-001", Title: "a"},
		{IssueID: "ISSUE-002", Title: "b"},
	}
	m := [][]float64{
		{1.0, 0.12},
		{0.12, 1.0},
	}

	got := renderSimilarityMatrix(issues, m)
	want := strings.Join([]string{
		"           ISSUE-001  ISSUE-002",
		"ISSUE-001       1.00       0.12",
		"ISSUE-002       0.12       1.00",
		"",
	}, "\n")
	if got != want {
		t.Errorf("renderSimilarityMatrix =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderSimilarityMatrixShortIDs(t *testing.T) {
	issues := []*models.IssueReference{
		{IssueID: "A"},
		{IssueID: "BB"},
	}
	m := [][]float64{
		{1.0, 0.0},
		{0.0, 1.0},
	}

	got := renderSimilarityMatrix(issues, m)
	want := strings.Join([]string{
		"         A    BB",
		"A     1.00  0.00",
		"BB    0.00  1.00",
		"",
	}, "\n")
	if got != want {
		t.Errorf("renderSimilarityMatrix =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderSimilarityMatrixFromDetector(t *testing.T) {
	issues := []*models.IssueReference{
		{IssueID: "1", Title: "Export drops the header row", Description: "CSV files start with data rows.", Status: "open"},
		{IssueID: "2", Title: "Export drops the header row", Description: "CSV files start with data rows.", Status: "open"},
	}

	m := similarity.NewDefaultDetector().SimilarityMatrix(issues)
	got := renderSimilarityMatrix(issues, m)

	for _, line := range strings.Split(strings.TrimSuffix(got, "\n"), "\n")[1:] {
		if strings.Count(line, "1.00") != 2 {
			t.Errorf("line %q: identical issues should score 1.00 everywhere", line)
		}
	}
}
