package syllabus

import (
	"reflect"
	"testing"
)

func TestFlattenRoadmapDedupesPreservingOrder(t *testing.T) {
	roadmap := []RoadmapDay{
		{Day: 1, MainTopic: "Recursion", Subtopics: []string{"Base cases", "Call stack"}},
		{Day: 2, MainTopic: "Sorting", Subtopics: []string{"Merge sort", "recursion"}},
		{Day: 3, MainTopic: "", Subtopics: []string{"  ", "Base Cases"}},
	}
	got := FlattenRoadmap(roadmap)
	want := []string{"Recursion", "Base cases", "Call stack", "Sorting", "Merge sort"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FlattenRoadmap = %v, want %v", got, want)
	}
}

func TestFlattenRoadmapEmpty(t *testing.T) {
	if got := FlattenRoadmap(nil); len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
}

func TestTopicStructureMergesRepeatedMainTopics(t *testing.T) {
	roadmap := []RoadmapDay{
		{Day: 1, MainTopic: "Recursion", Subtopics: []string{"Base cases"}},
		{Day: 2, MainTopic: "recursion", Subtopics: []string{"Call stack", "base cases"}},
		{Day: 3, MainTopic: "Sorting"},
		{Day: 4, MainTopic: ""},
	}
	got := TopicStructure(roadmap)
	want := []TopicEntry{
		{MainTopic: "Recursion", Subtopics: []string{"Base cases", "Call stack"}},
		{MainTopic: "Sorting", Subtopics: []string{}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("TopicStructure = %v, want %v", got, want)
	}
}
