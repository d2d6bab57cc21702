package textutil

import (
	"strings"

	"golang.org/x/text/cases"
)

var topicFolder = cases.Fold()

// NormalizeTopic canonicalizes a topic string for set comparison: trimmed,
// case-folded, inner whitespace collapsed. Case folding rather than plain
// lowercasing keeps non-ASCII course material comparable.
func NormalizeTopic(topic string) string {
	folded := topicFolder.String(strings.TrimSpace(topic))
	return strings.Join(strings.Fields(folded), " ")
}
