package similarity

import (
	"reflect"
	"testing"

	"github.com/triagelab/ai-triage/pkg/models"
)

func TestPairwiseTextSimilarity(t *testing.T) {
	tests := []struct {
		name    string
		a       string
		b       string
		wantMin float64
		wantMax float64
	}{
		{
			name:    "identical text",
			a:       "Database connection timeout under load",
			b:       "Database connection timeout under load",
			wantMin: 0.999,
			wantMax: 1.0,
		},
		{
			name:    "no shared terms",
			a:       "alpha beta",
			b:       "gamma delta",
			wantMin: 0.0,
			wantMax: 0.0,
		},
		{
			name:    "empty left side",
			a:       "",
			b:       "whatever text",
			wantMin: 0.0,
			wantMax: 0.0,
		},
		{
			name:    "punctuation-only side",
			a:       "???",
			b:       "whatever text",
			wantMin: 0.0,
			wantMax: 0.0,
		},
		{
			name:    "both stop words only",
			a:       "the and of",
			b:       "a an the",
			wantMin: 0.0,
			wantMax: 0.0,
		},
		{
			name:    "partial overlap",
			a:       "crash when saving report",
			b:       "crash when printing report",
			wantMin: 0.1,
			wantMax: 0.9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pairwiseTextSimilarity(tt.a, tt.b)
			if got < tt.wantMin || got > tt.wantMax {
				t.Errorf("pairwiseTextSimilarity(%q, %q) = %v, want in [%v, %v]", tt.a, tt.b, got, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestCommonKeywords(t *testing.T) {
	tests := []struct {
		name  string
		title string
		desc  string
		match *models.IssueReference
		want  []string
	}{
		{
			name:  "sorted and capped at five",
			title: "App crashes when opening settings page",
			desc:  "The application crashes immediately after tapping the settings icon on Android 14.",
			match: &models.IssueReference{
				Title:       "App crashes when opening settings page",
				Description: "The application crashes immediately after tapping the settings icon on Android 14.",
			},
			want: []string{"after", "android", "application", "crashes", "icon"},
		},
		{
			name:  "exactly three shared words is not enough",
			title: "alpha beta gamma",
			desc:  "",
			match: &models.IssueReference{Title: "alpha beta gamma", Description: ""},
			want:  nil,
		},
		{
			name:  "short shared words never surface",
			title: "db ui api log",
			desc:  "",
			match: &models.IssueReference{Title: "db ui api log mismatch", Description: ""},
			want:  nil,
		},
		{
			name:  "word length is measured in runes",
			title: "été parser crash loop detected",
			desc:  "",
			match: &models.IssueReference{Title: "été parser crash loop detected", Description: ""},
			want:  []string{"crash", "detected", "loop", "parser"},
		},
		{
			name:  "stop words count toward the raw overlap",
			title: "the crash is in the parser",
			desc:  "",
			match: &models.IssueReference{Title: "the crash is in the tokenizer", Description: ""},
			want:  []string{"crash"},
		},
		{
			name:  "no overlap",
			title: "alpha beta",
			desc:  "",
			match: &models.IssueReference{Title: "gamma delta", Description: ""},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := commonKeywords(tt.title, tt.desc, tt.match)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("commonKeywords = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildReasonsScoreBands(t *testing.T) {
	d := NewDefaultDetector()
	// A match whose text shares nothing with the query isolates the band
	// reason.
	match := &models.IssueReference{Title: "zz yy", Description: ""}

	tests := []struct {
		name  string
		score float64
		want  []string
	}{
		{name: "very high band", score: 0.85, want: []string{"Very high overall similarity score"}},
		{name: "high band", score: 0.7, want: []string{"High overall similarity score"}},
		{name: "moderate band", score: 0.45, want: []string{"Moderate overall similarity score"}},
		{name: "below all bands", score: 0.4, want: []string{}},
		{name: "boundary is exclusive", score: 0.8, want: []string{"High overall similarity score"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.buildReasons("qq ww", "", match, tt.score)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("buildReasons(score=%v) = %v, want %v", tt.score, got, tt.want)
			}
		})
	}
}

func TestBuildReasonsSkipsEmptyDescriptions(t *testing.T) {
	d := NewDefaultDetector()

	// Identical titles, but the query has no description: only the title
	// reason and the band reason may appear.
	match := &models.IssueReference{
		Title:       "Crash when saving report",
		Description: "Crash when saving report",
	}
	got := d.buildReasons("Crash when saving report", "", match, 0.9)

	want := []string{
		"Similar titles (similarity: 1.00)",
		"Common keywords: crash, report, saving, when",
		"Very high overall similarity score",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("buildReasons = %v, want %v", got, want)
	}
}

func TestRecommendationFor(t *testing.T) {
	match := &models.IssueReference{IssueID: "321"}

	tests := []struct {
		name        string
		isDuplicate bool
		score       float64
		want        string
	}{
		{
			name:        "duplicate",
			isDuplicate: true,
			score:       0.9,
			want:        "This issue appears to be a duplicate of issue 321. Consider linking to the original issue and closing this one.",
		},
		{
			name:        "moderate similarity",
			isDuplicate: false,
			score:       0.55,
			want:        "This issue shows moderate similarity to issue 321. Review both issues to determine if they are related or should be merged.",
		},
		{
			name:        "moderate boundary is exclusive",
			isDuplicate: false,
			score:       0.5,
			want:        "This appears to be a new, unique issue.",
		},
		{
			name:        "unique",
			isDuplicate: false,
			score:       0.1,
			want:        "This appears to be a new, unique issue.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := recommendationFor(tt.isDuplicate, tt.score, match); got != tt.want {
				t.Errorf("recommendationFor(%v, %v) = %q, want %q", tt.isDuplicate, tt.score, got, tt.want)
			}
		})
	}
}

func TestConfidenceFor(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  float64
	}{
		{name: "low scores pass through", score: 0.2, want: 0.2},
		{name: "zero", score: 0.0, want: 0.0},
		{name: "boost starts at 0.3", score: 0.3, want: 0.36},
		{name: "mid-range boost", score: 0.5, want: 0.6},
		{name: "boost caps at one", score: 0.9, want: 1.0},
		{name: "full score", score: 1.0, want: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := confidenceFor(tt.score); !almostEqual(got, tt.want, 1e-12) {
				t.Errorf("confidenceFor(%v) = %v, want %v", tt.score, got, tt.want)
			}
		})
	}
}
