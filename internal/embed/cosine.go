package embed

import "math"

// Cosine returns the cosine similarity of a and b in [-1, 1]. Zero-magnitude
// or mismatched vectors yield 0 — both sides come from the same model, so a
// length mismatch means something upstream is broken, and 0 keeps a degenerate
// embedding from dominating the ranking.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
