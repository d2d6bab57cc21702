package topicmodel

import (
	"strings"
	"testing"
)

const sampleTranscript = `
Recursion is a technique where a function calls itself to solve smaller
instances of the same problem. Every recursive function needs a base case
so the recursion terminates. The call stack tracks each recursive call,
and deep recursion can overflow the stack. Iterative solutions avoid the
stack entirely by using loops. Dynamic programming stores subproblem
results in a table so repeated recursive calls become cheap lookups.
Memoization caches function results keyed by arguments. Binary search
divides the sorted array in half on each step, a classic recursive
pattern. Merge sort recursively splits the array and merges sorted halves.
`

func TestTokenizeFiltersShortWordsAndStopwords(t *testing.T) {
	tokens := Tokenize("The cat ran to a big recursion lab")
	for _, token := range tokens {
		if len(token) < 3 {
			t.Fatalf("token %q shorter than 3 letters", token)
		}
		if IsStopword(token) {
			t.Fatalf("stopword %q survived tokenization", token)
		}
	}
	found := false
	for _, token := range tokens {
		if token == "recursion" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected recursion in tokens")
	}
}

func TestTrainEmptyTranscript(t *testing.T) {
	topics := Train("", Params{Seed: 42})
	if len(topics) != 1 || topics[0] != NoTopicsMessage {
		t.Fatalf("unexpected topics for empty transcript: %v", topics)
	}

	topics = Train("a an to of it", Params{Seed: 42})
	if len(topics) != 1 || topics[0] != NoTopicsMessage {
		t.Fatalf("expected short-transcript message for stopword-only input, got %v", topics)
	}
}

func TestTrainRendersRequestedTopicCount(t *testing.T) {
	topics := Train(sampleTranscript, Params{Topics: 3, TermsPerTopic: 5, Passes: 10, Seed: 42})
	if len(topics) != 3 {
		t.Fatalf("expected 3 topics, got %d", len(topics))
	}
	for i, line := range topics {
		if !strings.HasPrefix(line, "Topic ") {
			t.Fatalf("topic %d missing prefix: %q", i, line)
		}
		terms := strings.Split(strings.SplitN(line, ": ", 2)[1], " + ")
		if len(terms) != 5 {
			t.Fatalf("topic %d has %d terms, want 5: %q", i, len(terms), line)
		}
		for _, term := range terms {
			if !strings.Contains(term, `*"`) {
				t.Fatalf("term %q not in weight*\"word\" format", term)
			}
		}
	}
}

func TestTrainDeterministicForFixedSeed(t *testing.T) {
	params := Params{Topics: 3, TermsPerTopic: 5, Passes: 10, Seed: 42}
	first := Train(sampleTranscript, params)
	second := Train(sampleTranscript, params)
	if len(first) != len(second) {
		t.Fatalf("topic counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("topic %d differs between runs:\n%s\n%s", i, first[i], second[i])
		}
	}
}
