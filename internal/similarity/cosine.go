package similarity

// cosine computes the cosine similarity of two L2-normalized sparse vectors,
// which reduces to their dot product. Either side being zero yields 0.
func cosine(a, b termVector) float64 {
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}

	var dot float64
	for term, w := range small {
		if w2, ok := large[term]; ok {
			dot += w * w2
		}
	}
	return clamp01(dot)
}

// clamp01 bounds floating noise into [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
