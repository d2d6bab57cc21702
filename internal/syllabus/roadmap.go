package syllabus

import (
	"encoding/json"

	"lectern/internal/textutil"
)

// RoadmapDay is one instructional day of the generated course roadmap. The
// topic fields are typed because coverage depends on them; the descriptive
// fields stay raw so whatever shape the model chose round-trips into the
// saved result unchanged.
type RoadmapDay struct {
	Day              int             `json:"day"`
	Date             string          `json:"date"`
	MainTopic        string          `json:"main_topic"`
	Subtopics        []string        `json:"subtopics"`
	Objectives       json.RawMessage `json:"objectives,omitempty"`
	Activities       json.RawMessage `json:"activities,omitempty"`
	Reading          json.RawMessage `json:"reading,omitempty"`
	Assignments      json.RawMessage `json:"assignments,omitempty"`
	AssessmentType   json.RawMessage `json:"assessment_type,omitempty"`
	Resources        json.RawMessage `json:"resources,omitempty"`
	LearningOutcomes json.RawMessage `json:"learning_outcomes,omitempty"`
}

// TopicEntry is one main topic with its subtopics, the shape the topic
// structure endpoint serves.
type TopicEntry struct {
	MainTopic string   `json:"main_topic"`
	Subtopics []string `json:"subtopics"`
}

// TopicStructure reduces a roadmap to its main topics and subtopics. Days
// repeating a main topic merge into the first occurrence.
func TopicStructure(roadmap []RoadmapDay) []TopicEntry {
	index := make(map[string]int)
	entries := make([]TopicEntry, 0, len(roadmap))
	for _, day := range roadmap {
		key := textutil.NormalizeTopic(day.MainTopic)
		if key == "" {
			continue
		}
		pos, ok := index[key]
		if !ok {
			pos = len(entries)
			index[key] = pos
			entries = append(entries, TopicEntry{MainTopic: day.MainTopic, Subtopics: []string{}})
		}
		seen := make(map[string]struct{}, len(entries[pos].Subtopics))
		for _, sub := range entries[pos].Subtopics {
			seen[textutil.NormalizeTopic(sub)] = struct{}{}
		}
		for _, sub := range day.Subtopics {
			subKey := textutil.NormalizeTopic(sub)
			if subKey == "" {
				continue
			}
			if _, dup := seen[subKey]; dup {
				continue
			}
			seen[subKey] = struct{}{}
			entries[pos].Subtopics = append(entries[pos].Subtopics, sub)
		}
	}
	return entries
}

// FlattenRoadmap collects every main topic and subtopic into a deduplicated
// list for coverage comparison, preserving first-occurrence order so results
// stay stable across runs.
func FlattenRoadmap(roadmap []RoadmapDay) []string {
	seen := make(map[string]struct{})
	topics := make([]string, 0, len(roadmap)*4)
	appendTopic := func(topic string) {
		key := textutil.NormalizeTopic(topic)
		if key == "" {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		topics = append(topics, topic)
	}
	for _, day := range roadmap {
		appendTopic(day.MainTopic)
		for _, subtopic := range day.Subtopics {
			appendTopic(subtopic)
		}
	}
	return topics
}
