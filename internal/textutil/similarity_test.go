package textutil

import (
	"math"
	"testing"
)

func TestCosineSimilarityNilInputs(t *testing.T) {
	topic := NewFingerprint("binary search trees")
	if got := CosineSimilarity(nil, nil); got != 0 {
		t.Errorf("CosineSimilarity(nil, nil) = %v, want 0", got)
	}
	if got := CosineSimilarity(nil, topic); got != 0 {
		t.Errorf("CosineSimilarity(nil, fp) = %v, want 0", got)
	}
	if got := CosineSimilarity(topic, nil); got != 0 {
		t.Errorf("CosineSimilarity(fp, nil) = %v, want 0", got)
	}
}

func TestCosineSimilarityIdenticalTopics(t *testing.T) {
	text := "Dynamic programming and memoization strategies"
	got := CosineSimilarity(NewFingerprint(text), NewFingerprint(text))
	if got != 1.0 {
		t.Errorf("CosineSimilarity(identical) = %v, want 1.0", got)
	}
}

func TestCosineSimilarityDisjointTopics(t *testing.T) {
	a := NewFingerprint("photosynthesis chlorophyll respiration")
	b := NewFingerprint("recursion stack frames")

	if got := CosineSimilarity(a, b); got != 0 {
		t.Errorf("CosineSimilarity(disjoint) = %v, want 0", got)
	}
}

func TestCosineSimilarityRelatedTopics(t *testing.T) {
	// A syllabus entry and the lecture's phrasing of the same subject share
	// most content words, so the score lands strictly between 0 and 1.
	a := NewFingerprint("Introduction to graph traversal algorithms")
	b := NewFingerprint("Graph traversal with breadth first algorithms")

	got := CosineSimilarity(a, b)
	if got <= 0 || got >= 1 {
		t.Errorf("CosineSimilarity(related) = %v, want between 0 and 1", got)
	}
}

func TestCosineSimilaritySymmetric(t *testing.T) {
	a := NewFingerprint("linear regression gradient descent")
	b := NewFingerprint("gradient descent convergence proofs")

	ab := CosineSimilarity(a, b)
	ba := CosineSimilarity(b, a)
	if ab != ba {
		t.Errorf("CosineSimilarity not symmetric: (%v, %v)", ab, ba)
	}
}

func TestCosineSimilarityZeroNorm(t *testing.T) {
	a := &Fingerprint{tokens: map[string]float64{}, norm: 0}
	b := NewFingerprint("sorting algorithms quicksort")

	if got := CosineSimilarity(a, b); got != 0 {
		t.Errorf("CosineSimilarity(zero norm) = %v, want 0", got)
	}
}

func TestNewFingerprintEmpty(t *testing.T) {
	if fp := NewFingerprint(""); fp != nil {
		t.Error("expected nil for empty text")
	}
	// Nothing survives the three-letter minimum.
	if fp := NewFingerprint("a an it to"); fp != nil {
		t.Error("expected nil for text with only short tokens")
	}
}

func TestNewFingerprintNorm(t *testing.T) {
	// "limits limits derivatives" -> limits:2, derivatives:1
	// norm = sqrt(2^2 + 1^2) = sqrt(5)
	fp := NewFingerprint("limits limits derivatives")
	if fp == nil {
		t.Fatal("expected fingerprint")
	}
	want := math.Sqrt(5)
	if math.Abs(fp.norm-want) > 0.0001 {
		t.Errorf("norm = %v, want %v", fp.norm, want)
	}
}

func TestSimilarityTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"lowercases", "Bayes Theorem", []string{"bayes", "theorem"}},
		{"filters short", "a to the normal curve", []string{"the", "normal", "curve"}},
		{"strips punctuation", "What is entropy? Let's see.", []string{"what", "entropy", "let", "see"}},
		{"keeps digits inside words", "chapter12 review", []string{"chapter12", "review"}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("Tokenize() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFingerprintTokenCount(t *testing.T) {
	var nilFP *Fingerprint
	if got := nilFP.TokenCount(); got != 0 {
		t.Errorf("nil TokenCount() = %d, want 0", got)
	}
	if got := NewFingerprint("matrices determinants eigenvalues").TokenCount(); got != 3 {
		t.Errorf("TokenCount() = %d, want 3", got)
	}
	// Repeats collapse to the unique count.
	if got := NewFingerprint("proofs proofs induction induction induction").TokenCount(); got != 2 {
		t.Errorf("TokenCount() = %d, want 2", got)
	}
}

func TestCosineSimilaritySyllabusMatching(t *testing.T) {
	// The coverage near-match pass compares a syllabus topic against what a
	// completed lecture actually recorded. A restated topic should score
	// high while an unrelated lecture from the same course scores low.
	syllabusTopic := NewFingerprint("Sorting algorithms: quicksort, mergesort, and heapsort complexity analysis")
	lectureTopic := NewFingerprint("Complexity analysis of sorting algorithms including quicksort and mergesort")
	unrelated := NewFingerprint("Relational databases, normalization, and transaction isolation levels")

	if got := CosineSimilarity(syllabusTopic, lectureTopic); got < 0.7 {
		t.Errorf("restated topic similarity = %v, want >= 0.7", got)
	}
	if got := CosineSimilarity(syllabusTopic, unrelated); got >= 0.5 {
		t.Errorf("unrelated topic similarity = %v, want < 0.5", got)
	}
}
