package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDuplicateDetectionResult_JSONRoundTrip(t *testing.T) {
	orig := DuplicateDetectionResult{
		IsDuplicate: true,
		DuplicateOf: &IssueReference{
			IssueID: "ISSUE-001",
			Title:   "Login page crashes",
			Status:  "open",
			URL:     "https://github.com/org/repo/issues/1",
		},
		SimilarityScore:   0.87,
		ConfidenceScore:   1.0,
		SimilarityReasons: []string{"Similar titles (similarity: 0.91)", "Very high overall similarity score"},
		Recommendation:    "This issue appears to be a duplicate of issue ISSUE-001. Consider linking to the original issue and closing this one.",
	}

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var got DuplicateDetectionResult
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if got.IsDuplicate != orig.IsDuplicate ||
		got.SimilarityScore != orig.SimilarityScore ||
		got.ConfidenceScore != orig.ConfidenceScore ||
		got.Recommendation != orig.Recommendation {
		t.Errorf("round trip changed scalar fields: %+v", got)
	}
	if got.DuplicateOf == nil || got.DuplicateOf.IssueID != "ISSUE-001" {
		t.Errorf("round trip lost duplicate_of: %+v", got.DuplicateOf)
	}
	if len(got.SimilarityReasons) != 2 {
		t.Errorf("round trip changed reasons: %v", got.SimilarityReasons)
	}
}

func TestDuplicateDetectionResult_NullDuplicateOf(t *testing.T) {
	res := DuplicateDetectionResult{
		SimilarityReasons: []string{},
		Recommendation:    "This appears to be a new, unique issue.",
	}

	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	s := string(data)
	if !strings.Contains(s, `"duplicate_of":null`) {
		t.Errorf("expected explicit null duplicate_of, got %s", s)
	}
	if !strings.Contains(s, `"similarity_reasons":[]`) {
		t.Errorf("expected empty reasons array, got %s", s)
	}
}
