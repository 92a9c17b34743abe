package entity

import "math"

// Fingerprint is the fixed-length vector an embedding model produces for one
// clip. It is immutable once produced; two fingerprints are comparable only
// when produced by the same model configuration.
type Fingerprint []float32

func (f Fingerprint) Dimension() int {
	return len(f)
}

// CosineSimilarity returns the normalized dot product of two fingerprints in
// [-1, 1]. Mismatched dimensions or a zero-magnitude vector score 0.
func CosineSimilarity(a, b Fingerprint) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
