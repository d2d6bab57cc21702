package topicmodel

import (
	"fmt"
	"math/rand"
	"regexp"
	"sort"
	"strings"
)

// NoTopicsMessage is returned as the only topic line when the transcript is
// too short to train on.
const NoTopicsMessage = "No topics generated (short transcript)."

// chunkSize splits the transcript into pseudo-documents so the sampler has
// co-occurrence structure to work with.
const chunkSize = 50

var tokenPattern = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)

// Params control the trainer. Zero values are replaced with the repository
// defaults used by the model stage.
type Params struct {
	Topics        int
	TermsPerTopic int
	Passes        int
	Seed          int64
}

func (p Params) withDefaults() Params {
	if p.Topics <= 0 {
		p.Topics = 3
	}
	if p.TermsPerTopic <= 0 {
		p.TermsPerTopic = 5
	}
	if p.Passes <= 0 {
		p.Passes = 10
	}
	return p
}

// Tokenize lowercases the text and extracts alphabetic tokens of three or
// more letters, dropping stopwords.
func Tokenize(text string) []string {
	matches := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(matches))
	for _, match := range matches {
		if IsStopword(match) {
			continue
		}
		tokens = append(tokens, match)
	}
	return tokens
}

// Train fits an LDA model to the transcript using collapsed Gibbs sampling
// and renders one line per topic:
//
//	Topic 1: 0.041*"recursion" + 0.035*"stack" + ...
//
// A transcript with no usable tokens yields the short-transcript message.
func Train(transcript string, params Params) []string {
	params = params.withDefaults()

	tokens := Tokenize(transcript)
	if len(tokens) == 0 {
		return []string{NoTopicsMessage}
	}

	vocab, ids := buildVocabulary(tokens)
	docs := chunkDocuments(ids, chunkSize)

	numTopics := params.Topics
	vocabSize := len(vocab)
	alpha := 50.0 / float64(numTopics)
	eta := 0.01

	rng := rand.New(rand.NewSource(params.Seed))

	docTopic := make([][]int, len(docs))
	topicWord := make([][]int, numTopics)
	topicTotals := make([]int, numTopics)
	assignments := make([][]int, len(docs))
	for k := range topicWord {
		topicWord[k] = make([]int, vocabSize)
	}

	for d, doc := range docs {
		docTopic[d] = make([]int, numTopics)
		assignments[d] = make([]int, len(doc))
		for i, word := range doc {
			topic := rng.Intn(numTopics)
			assignments[d][i] = topic
			docTopic[d][topic]++
			topicWord[topic][word]++
			topicTotals[topic]++
		}
	}

	weights := make([]float64, numTopics)
	for pass := 0; pass < params.Passes; pass++ {
		for d, doc := range docs {
			for i, word := range doc {
				old := assignments[d][i]
				docTopic[d][old]--
				topicWord[old][word]--
				topicTotals[old]--

				var total float64
				for k := 0; k < numTopics; k++ {
					w := (float64(docTopic[d][k]) + alpha) *
						(float64(topicWord[k][word]) + eta) /
						(float64(topicTotals[k]) + eta*float64(vocabSize))
					weights[k] = w
					total += w
				}
				target := rng.Float64() * total
				topic := numTopics - 1
				for k := 0; k < numTopics; k++ {
					target -= weights[k]
					if target < 0 {
						topic = k
						break
					}
				}

				assignments[d][i] = topic
				docTopic[d][topic]++
				topicWord[topic][word]++
				topicTotals[topic]++
			}
		}
	}

	return renderTopics(vocab, topicWord, topicTotals, eta, params.TermsPerTopic)
}

// buildVocabulary assigns deterministic word ids (sorted vocabulary order)
// and maps the token stream onto them.
func buildVocabulary(tokens []string) ([]string, []int) {
	seen := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		seen[token] = struct{}{}
	}
	vocab := make([]string, 0, len(seen))
	for token := range seen {
		vocab = append(vocab, token)
	}
	sort.Strings(vocab)

	index := make(map[string]int, len(vocab))
	for i, token := range vocab {
		index[token] = i
	}
	ids := make([]int, len(tokens))
	for i, token := range tokens {
		ids[i] = index[token]
	}
	return vocab, ids
}

func chunkDocuments(ids []int, size int) [][]int {
	if size <= 0 || len(ids) <= size {
		return [][]int{ids}
	}
	docs := make([][]int, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		docs = append(docs, ids[start:end])
	}
	return docs
}

type termWeight struct {
	term   string
	weight float64
}

func renderTopics(vocab []string, topicWord [][]int, topicTotals []int, eta float64, termsPerTopic int) []string {
	vocabSize := len(vocab)
	lines := make([]string, 0, len(topicWord))
	for k, counts := range topicWord {
		ranked := make([]termWeight, 0, vocabSize)
		denominator := float64(topicTotals[k]) + eta*float64(vocabSize)
		for w, count := range counts {
			ranked = append(ranked, termWeight{
				term:   vocab[w],
				weight: (float64(count) + eta) / denominator,
			})
		}
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].weight != ranked[j].weight {
				return ranked[i].weight > ranked[j].weight
			}
			return ranked[i].term < ranked[j].term
		})

		limit := termsPerTopic
		if limit > len(ranked) {
			limit = len(ranked)
		}
		parts := make([]string, 0, limit)
		for _, tw := range ranked[:limit] {
			parts = append(parts, fmt.Sprintf("%.3f*%q", tw.weight, tw.term))
		}
		lines = append(lines, fmt.Sprintf("Topic %d: %s", k+1, strings.Join(parts, " + ")))
	}
	return lines
}
