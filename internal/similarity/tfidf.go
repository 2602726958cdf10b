package similarity

import (
	"errors"
	"math"
	"sort"
)

// errEmptyVocabulary is returned when no feature survives tokenization and
// pruning; callers fold it into a manual-review fallback result.
var errEmptyVocabulary = errors.New("empty vocabulary: documents contain no usable terms")

// vectorizerOptions controls feature extraction for one fit.
type vectorizerOptions struct {
	ngramMax    int     // 1 = unigrams, 2 = unigrams + bigrams
	maxFeatures int     // keep only the N most frequent features; 0 = unlimited
	maxDFRatio  float64 // drop terms with df > ceil(ratio*n); 0 = no pruning
}

// corpusOptions is the configuration for full detection fits.
var corpusOptions = vectorizerOptions{
	ngramMax:    2,
	maxFeatures: 5000,
	maxDFRatio:  0.95,
}

// pairwiseOptions is the lighter configuration for two-document reason fits.
var pairwiseOptions = vectorizerOptions{
	ngramMax: 1,
}

// termVector is a sparse TF-IDF document vector keyed by feature.
type termVector map[string]float64

// extractTerms produces the n-gram features of one normalized document.
func extractTerms(doc string, ngramMax int) []string {
	tokens := tokenize(doc)
	if ngramMax < 2 {
		return tokens
	}

	terms := make([]string, 0, len(tokens)*2)
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}

// fitTransform builds a vocabulary over docs and returns one L2-normalized
// TF-IDF vector per document, in input order. The vocabulary is refit on
// every call: vectors from different fits are not comparable.
func fitTransform(docs []string, opts vectorizerOptions) ([]termVector, error) {
	counts := make([]map[string]int, len(docs))
	df := make(map[string]int)
	totals := make(map[string]int)

	for i, doc := range docs {
		c := make(map[string]int)
		for _, term := range extractTerms(doc, opts.ngramMax) {
			c[term]++
		}
		counts[i] = c
		for term, n := range c {
			df[term]++
			totals[term] += n
		}
	}

	vocab := buildVocabulary(df, totals, len(docs), opts)
	if len(vocab) == 0 {
		return nil, errEmptyVocabulary
	}

	n := float64(len(docs))
	idf := make(map[string]float64, len(vocab))
	for term := range vocab {
		// Smoothed IDF; constant 1 keeps corpus-wide terms from zeroing out.
		idf[term] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	vectors := make([]termVector, len(docs))
	for i, c := range counts {
		v := make(termVector, len(c))
		for term, count := range c {
			if !vocab[term] {
				continue
			}
			v[term] = float64(count) * idf[term]
		}
		normalizeL2(v)
		vectors[i] = v
	}

	return vectors, nil
}

// buildVocabulary applies document-frequency pruning and the feature cap.
func buildVocabulary(df, totals map[string]int, nDocs int, opts vectorizerOptions) map[string]bool {
	// Ceiling keeps tiny corpora intact: with two documents nothing reaches
	// df > ceil(1.9), so a query compared against a single identical
	// candidate still shares its full vocabulary.
	maxDF := nDocs
	if opts.maxDFRatio > 0 {
		maxDF = int(math.Ceil(opts.maxDFRatio * float64(nDocs)))
	}

	kept := make([]string, 0, len(df))
	for term, d := range df {
		if d > maxDF {
			continue
		}
		kept = append(kept, term)
	}

	if opts.maxFeatures > 0 && len(kept) > opts.maxFeatures {
		sort.Slice(kept, func(i, j int) bool {
			if totals[kept[i]] != totals[kept[j]] {
				return totals[kept[i]] > totals[kept[j]]
			}
			return kept[i] < kept[j]
		})
		kept = kept[:opts.maxFeatures]
	}

	vocab := make(map[string]bool, len(kept))
	for _, term := range kept {
		vocab[term] = true
	}
	return vocab
}

// normalizeL2 scales v to unit length in place. Zero vectors stay zero.
func normalizeL2(v termVector) {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for term, w := range v {
		v[term] = w / norm
	}
}
