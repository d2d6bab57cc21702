package topicmodel_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"lectern/internal/logging"
	"lectern/internal/testsupport"
	"lectern/internal/topicmodel"
)

func TestModelerExecuteStoresTopics(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	modeler := topicmodel.NewModeler(cfg, store, logging.NewNop())

	lecture := testsupport.NewLecture(t, store, "/tmp/audio.mp3", "audio.mp3")
	lecture.Transcript = strings.Repeat("recursion stack heap pointer array hashing graph traversal ", 20)

	ctx := context.Background()
	if err := modeler.Prepare(ctx, lecture); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := modeler.Execute(ctx, lecture); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var topics []string
	if err := json.Unmarshal([]byte(lecture.LDATopicsJSON), &topics); err != nil {
		t.Fatalf("decode topics: %v", err)
	}
	if len(topics) != cfg.Topics.Count {
		t.Fatalf("expected %d topics, got %d", cfg.Topics.Count, len(topics))
	}
	if lecture.ProgressPercent != 100 {
		t.Fatalf("expected complete progress, got %v", lecture.ProgressPercent)
	}
}

func TestModelerExecuteRequiresTranscript(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	modeler := topicmodel.NewModeler(cfg, store, logging.NewNop())

	lecture := testsupport.NewLecture(t, store, "/tmp/audio.mp3", "audio.mp3")
	if err := modeler.Execute(context.Background(), lecture); err == nil {
		t.Fatal("expected error without transcript")
	}
}

func TestModelerHealthCheck(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	modeler := topicmodel.NewModeler(cfg, store, logging.NewNop())

	health := modeler.HealthCheck(context.Background())
	if !health.Ready {
		t.Fatalf("expected ready stage, got %+v", health)
	}
}
