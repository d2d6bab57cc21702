package notes_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"lectern/internal/logging"
	"lectern/internal/notes"
	"lectern/internal/testsupport"
)

const notesPayload = `{
	"main_topic": "Recursion",
	"learning_objectives": ["Explain base cases"],
	"introduction": "This lecture introduces recursion.",
	"subtopics": ["Base cases", "Call stack"],
	"key_takeaways": ["Always define the base case."],
	"highlighted_insight": "**Recursion is self-reference with an exit.**"
}`

func TestGeneratorExecuteStoresNotes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	chat := &testsupport.StubChat{Responses: []string{notesPayload}}
	generator := notes.NewGenerator(cfg, store, chat, logging.NewNop())

	lecture := testsupport.NewLecture(t, store, "/tmp/audio.mp3", "audio.mp3")
	lecture.Transcript = "today we covered recursion"

	ctx := context.Background()
	if err := generator.Prepare(ctx, lecture); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := generator.Execute(ctx, lecture); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var document map[string]any
	if err := json.Unmarshal([]byte(lecture.NotesJSON), &document); err != nil {
		t.Fatalf("decode notes: %v", err)
	}
	if document["main_topic"] != "Recursion" {
		t.Fatalf("unexpected main topic: %v", document["main_topic"])
	}
	if lecture.NeedsReview {
		t.Fatal("successful notes run should not flag review")
	}
}

func TestGeneratorExecuteDegradesOnProviderFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	chat := &testsupport.StubChat{Err: errors.New("502")}
	generator := notes.NewGenerator(cfg, store, chat, logging.NewNop())

	lecture := testsupport.NewLecture(t, store, "/tmp/audio.mp3", "audio.mp3")
	lecture.Transcript = "today we covered recursion"

	if err := generator.Execute(context.Background(), lecture); err != nil {
		t.Fatalf("notes failure should not fail the stage: %v", err)
	}
	if !lecture.NeedsReview {
		t.Fatal("expected review flag after provider failure")
	}
	if lecture.NotesJSON != "" {
		t.Fatalf("expected no notes stored, got %q", lecture.NotesJSON)
	}
}

func TestGeneratorExecuteDegradesOnBadPayload(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	chat := &testsupport.StubChat{Responses: []string{"not json at all"}}
	generator := notes.NewGenerator(cfg, store, chat, logging.NewNop())

	lecture := testsupport.NewLecture(t, store, "/tmp/audio.mp3", "audio.mp3")
	lecture.Transcript = "today we covered recursion"

	if err := generator.Execute(context.Background(), lecture); err != nil {
		t.Fatalf("bad payload should not fail the stage: %v", err)
	}
	if !lecture.NeedsReview {
		t.Fatal("expected review flag after unparseable payload")
	}
}

func TestGeneratorExecuteRequiresTranscript(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	generator := notes.NewGenerator(cfg, store, &testsupport.StubChat{}, logging.NewNop())

	lecture := testsupport.NewLecture(t, store, "/tmp/audio.mp3", "audio.mp3")
	if err := generator.Execute(context.Background(), lecture); err == nil {
		t.Fatal("expected error without transcript")
	}
}
