package topicmodel

// englishStopwords are excluded from the topic vocabulary. The list covers
// common function words plus lecture filler terms that otherwise dominate
// every topic.
var englishStopwords = map[string]struct{}{}

func init() {
	words := []string{
		"the", "and", "are", "was", "were", "been", "being", "have", "has",
		"had", "having", "does", "did", "doing", "but", "for", "with",
		"about", "against", "between", "into", "through", "during", "before",
		"after", "above", "below", "from", "down", "out", "off", "over",
		"under", "again", "further", "then", "once", "here", "there", "when",
		"where", "why", "how", "all", "any", "both", "each", "few", "more",
		"most", "other", "some", "such", "nor", "not", "only", "own", "same",
		"than", "too", "very", "can", "will", "just", "don", "should", "now",
		"this", "that", "these", "those", "what", "which", "who", "whom",
		"its", "they", "them", "their", "theirs", "themselves", "you",
		"your", "yours", "yourself", "yourselves", "him", "his", "himself",
		"she", "her", "hers", "herself", "itself", "our", "ours",
		"ourselves", "because", "until", "while", "also", "would", "could",
		"may", "might", "must", "shall", "one", "two", "three", "get",
		"got", "let", "like", "going", "want", "know", "think", "see",
		"say", "said", "well", "okay", "yeah", "right", "really", "thing",
		"things", "something", "anything", "everything", "way", "lot",
		"kind", "sort", "bit", "actually", "basically", "mean", "make",
		"made", "take", "look", "come", "back", "first", "next", "today",
		"gonna", "little", "good", "great", "question", "questions",
		"answer", "class", "lecture", "talk", "talking", "said", "example",
	}
	for _, word := range words {
		englishStopwords[word] = struct{}{}
	}
}

// IsStopword reports whether the lowercase token is excluded from the
// vocabulary.
func IsStopword(token string) bool {
	_, ok := englishStopwords[token]
	return ok
}
