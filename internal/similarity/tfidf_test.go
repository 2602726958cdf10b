package similarity

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestExtractTerms(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		ngramMax int
		want     []string
	}{
		{
			name:     "unigrams only",
			doc:      "the quick brown fox",
			ngramMax: 1,
			want:     []string{"quick", "brown", "fox"},
		},
		{
			name:     "unigrams plus bigrams",
			doc:      "the quick brown fox",
			ngramMax: 2,
			want:     []string{"quick", "brown", "fox", "quick brown", "brown fox"},
		},
		{
			name:     "bigrams bridge removed stop words",
			doc:      "crash on the settings page",
			ngramMax: 2,
			want:     []string{"crash", "settings", "page", "crash settings", "settings page"},
		},
		{
			name:     "single token yields no bigram",
			doc:      "crash",
			ngramMax: 2,
			want:     []string{"crash"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractTerms(tt.doc, tt.ngramMax); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("extractTerms(%q, %d) = %v, want %v", tt.doc, tt.ngramMax, got, tt.want)
			}
		})
	}
}

func TestFitTransformWeights(t *testing.T) {
	// Two documents, one shared term. Smoothed IDF gives the shared term
	// ln(3/3)+1 = 1 and each unique term ln(3/2)+1, then L2 normalization.
	vectors, err := fitTransform([]string{"alpha beta", "alpha gamma"}, pairwiseOptions)
	if err != nil {
		t.Fatalf("fitTransform: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("got %d vectors, want 2", len(vectors))
	}

	const (
		wantShared = 0.5797386715376657
		wantUnique = 0.8148024746671689
	)
	if got := vectors[0]["alpha"]; !almostEqual(got, wantShared, 1e-9) {
		t.Errorf("weight(alpha) = %v, want %v", got, wantShared)
	}
	if got := vectors[0]["beta"]; !almostEqual(got, wantUnique, 1e-9) {
		t.Errorf("weight(beta) = %v, want %v", got, wantUnique)
	}
	if got := cosine(vectors[0], vectors[1]); !almostEqual(got, 0.3360969272762574, 1e-9) {
		t.Errorf("cosine = %v, want 0.3360969272762574", got)
	}
}

func TestFitTransformUnitNorm(t *testing.T) {
	docs := []string{
		"database connection timeout under load",
		"timeout while connecting to the database",
		"ui button misaligned on mobile",
	}
	vectors, err := fitTransform(docs, corpusOptions)
	if err != nil {
		t.Fatalf("fitTransform: %v", err)
	}

	for i, v := range vectors {
		var sum float64
		for _, w := range v {
			sum += w * w
		}
		if !almostEqual(sum, 1.0, 1e-12) {
			t.Errorf("vector %d squared norm = %v, want 1.0", i, sum)
		}
	}
}

func TestFitTransformEmptyVocabulary(t *testing.T) {
	tests := []struct {
		name string
		docs []string
	}{
		{name: "all stop words", docs: []string{"the and of", "a an the"}},
		{name: "all too short", docs: []string{"a b c", "x y"}},
		{name: "all empty", docs: []string{"", ""}},
		{name: "no documents", docs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fitTransform(tt.docs, corpusOptions)
			if !errors.Is(err, errEmptyVocabulary) {
				t.Errorf("fitTransform err = %v, want errEmptyVocabulary", err)
			}
		})
	}
}

func TestMaxDFCeiling(t *testing.T) {
	// A term present in every document survives up to 19 documents and is
	// pruned from 20 on, since ceil(0.95*19) = 19 but ceil(0.95*20) = 19.
	makeDocs := func(n int) []string {
		docs := make([]string, n)
		for i := range docs {
			docs[i] = fmt.Sprintf("shared unique%d filler%d", i, i)
		}
		return docs
	}
	opts := vectorizerOptions{ngramMax: 1, maxDFRatio: 0.95}

	t.Run("kept at 19 documents", func(t *testing.T) {
		vectors, err := fitTransform(makeDocs(19), opts)
		if err != nil {
			t.Fatalf("fitTransform: %v", err)
		}
		if _, ok := vectors[0]["shared"]; !ok {
			t.Error("shared term pruned at 19 documents")
		}
		if got := cosine(vectors[0], vectors[1]); got <= 0 {
			t.Errorf("cosine = %v, want > 0 via the shared term", got)
		}
	})

	t.Run("pruned at 20 documents", func(t *testing.T) {
		vectors, err := fitTransform(makeDocs(20), opts)
		if err != nil {
			t.Fatalf("fitTransform: %v", err)
		}
		if _, ok := vectors[0]["shared"]; ok {
			t.Error("shared term kept at 20 documents")
		}
		if got := cosine(vectors[0], vectors[1]); got != 0 {
			t.Errorf("cosine = %v, want 0 once the shared term is pruned", got)
		}
	})

	t.Run("two-document corpus keeps shared terms", func(t *testing.T) {
		vectors, err := fitTransform([]string{"crash saving report", "crash saving report"}, corpusOptions)
		if err != nil {
			t.Fatalf("fitTransform: %v", err)
		}
		if got := cosine(vectors[0], vectors[1]); got < 0.999 {
			t.Errorf("identical documents cosine = %v, want ~1", got)
		}
	})
}

func TestMaxFeaturesTieBreak(t *testing.T) {
	// All three terms have total count 2; the cap keeps the two first in
	// lexicographic order.
	opts := vectorizerOptions{ngramMax: 1, maxFeatures: 2}
	vectors, err := fitTransform([]string{"bb bb cc", "aa aa cc"}, opts)
	if err != nil {
		t.Fatalf("fitTransform: %v", err)
	}

	if _, ok := vectors[0]["cc"]; ok {
		t.Error("cc kept, want dropped by the feature cap")
	}
	if _, ok := vectors[0]["bb"]; !ok {
		t.Error("bb dropped, want kept")
	}
	if _, ok := vectors[1]["aa"]; !ok {
		t.Error("aa dropped, want kept")
	}
	if got := cosine(vectors[0], vectors[1]); got != 0 {
		t.Errorf("cosine = %v, want 0 after the shared term is capped away", got)
	}
}

func TestMaxFeaturesPrefersFrequentTerms(t *testing.T) {
	opts := vectorizerOptions{ngramMax: 1, maxFeatures: 1}
	vectors, err := fitTransform([]string{"hot hot hot cold", "hot cold"}, opts)
	if err != nil {
		t.Fatalf("fitTransform: %v", err)
	}
	if _, ok := vectors[0]["hot"]; !ok {
		t.Error("hot dropped, want kept as the most frequent term")
	}
	if _, ok := vectors[0]["cold"]; ok {
		t.Error("cold kept, want dropped")
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a    termVector
		b    termVector
		want float64
	}{
		{
			name: "identical unit vectors",
			a:    termVector{"x": 0.6, "y": 0.8},
			b:    termVector{"x": 0.6, "y": 0.8},
			want: 1.0,
		},
		{
			name: "disjoint vectors",
			a:    termVector{"x": 1.0},
			b:    termVector{"y": 1.0},
			want: 0.0,
		},
		{
			name: "empty side",
			a:    termVector{},
			b:    termVector{"y": 1.0},
			want: 0.0,
		},
		{
			name: "partial overlap",
			a:    termVector{"x": 0.6, "y": 0.8},
			b:    termVector{"x": 1.0},
			want: 0.6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cosine(tt.a, tt.b); !almostEqual(got, tt.want, 1e-12) {
				t.Errorf("cosine = %v, want %v", got, tt.want)
			}
			if got := cosine(tt.b, tt.a); !almostEqual(got, tt.want, 1e-12) {
				t.Errorf("cosine (swapped) = %v, want %v", got, tt.want)
			}
		})
	}
}
