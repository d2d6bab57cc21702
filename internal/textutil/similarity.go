package textutil

// CosineSimilarity scores two fingerprints between 0 and 1. The syllabus
// coverage pass uses it to surface near matches where a lecture restated a
// topic instead of repeating it verbatim. Nil or zero-norm fingerprints
// score 0.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for token, count := range a.tokens {
		if other, ok := b.tokens[token]; ok {
			dot += count * other
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.norm * b.norm)
}
