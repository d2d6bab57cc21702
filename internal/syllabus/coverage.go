package syllabus

import (
	"context"
	"encoding/json"
	"math"

	"lectern/internal/lectures"
	"lectern/internal/textutil"
)

// CoverageStats reconciles the syllabus topic list against what completed
// lectures covered. Field names are part of the result file contract.
type CoverageStats struct {
	TotalTopics        int      `json:"total_topics"`
	CoveredTopics      int      `json:"covered_topics"`
	CoveragePercentage float64  `json:"coverage_percentage"`
	MissingTopics      []string `json:"missing_topics"`
	MatchedTopics      []string `json:"matched_topics"`
}

// NearMatch records the closest covered topic for a missing syllabus topic.
// Surfaced in logs only; the result file keeps the exact-match contract.
type NearMatch struct {
	SyllabusTopic string
	ClosestTopic  string
	Similarity    float64
}

// lectureTopicEntry mirrors the topicsCovered section stored per lecture.
type lectureTopicEntry struct {
	Topic     string   `json:"topic"`
	Subtopics []string `json:"subtopics"`
}

// CalculateCoverage compares syllabus topics with the topics_json of every
// completed lecture. Lectures whose topic payload fails to parse are skipped.
func CalculateCoverage(ctx context.Context, store *lectures.Store, syllabusTopics []string) (CoverageStats, []NearMatch, error) {
	completed, err := store.CompletedLectures(ctx)
	if err != nil {
		return CoverageStats{}, nil, err
	}

	covered := make(map[string]string)
	for _, lecture := range completed {
		if lecture.TopicsJSON == "" {
			continue
		}
		var entries []lectureTopicEntry
		if err := json.Unmarshal([]byte(lecture.TopicsJSON), &entries); err != nil {
			continue
		}
		for _, entry := range entries {
			if key := textutil.NormalizeTopic(entry.Topic); key != "" {
				covered[key] = entry.Topic
			}
			for _, subtopic := range entry.Subtopics {
				if key := textutil.NormalizeTopic(subtopic); key != "" {
					covered[key] = subtopic
				}
			}
		}
	}

	matched := make([]string, 0, len(syllabusTopics))
	missing := make([]string, 0)
	for _, topic := range syllabusTopics {
		if _, ok := covered[textutil.NormalizeTopic(topic)]; ok {
			matched = append(matched, topic)
		} else {
			missing = append(missing, topic)
		}
	}

	var percentage float64
	if len(syllabusTopics) > 0 {
		percentage = round2(float64(len(matched)) / float64(len(syllabusTopics)) * 100)
	}

	stats := CoverageStats{
		TotalTopics:        len(syllabusTopics),
		CoveredTopics:      len(matched),
		CoveragePercentage: percentage,
		MissingTopics:      missing,
		MatchedTopics:      matched,
	}
	return stats, nearMatches(missing, covered), nil
}

// nearMatches finds, for each missing topic, the covered topic with the
// highest token similarity above a minimum threshold.
func nearMatches(missing []string, covered map[string]string) []NearMatch {
	const threshold = 0.5
	if len(missing) == 0 || len(covered) == 0 {
		return nil
	}
	coveredPrints := make(map[string]*textutil.Fingerprint, len(covered))
	for _, original := range covered {
		coveredPrints[original] = textutil.NewFingerprint(original)
	}
	matches := make([]NearMatch, 0)
	for _, topic := range missing {
		topicPrint := textutil.NewFingerprint(topic)
		if topicPrint == nil {
			continue
		}
		best := NearMatch{SyllabusTopic: topic}
		for original, coveredPrint := range coveredPrints {
			if score := textutil.CosineSimilarity(topicPrint, coveredPrint); score > best.Similarity {
				best.Similarity = score
				best.ClosestTopic = original
			}
		}
		if best.Similarity >= threshold {
			matches = append(matches, best)
		}
	}
	return matches
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
