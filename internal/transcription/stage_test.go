package transcription_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"lectern/internal/logging"
	"lectern/internal/services"
	"lectern/internal/testsupport"
	"lectern/internal/transcription"
)

func TestTranscriberExecuteStoresTranscript(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	stub := &testsupport.StubTranscriber{Text: "today we covered recursion"}
	handler := transcription.NewTranscriber(cfg, store, stub, logging.NewNop())

	audioPath := filepath.Join(cfg.Paths.UploadDir, "lecture1.mp3")
	testsupport.WriteFile(t, audioPath, 128)
	lecture := testsupport.NewLecture(t, store, audioPath, "lecture1.mp3")

	ctx := context.Background()
	if err := handler.Prepare(ctx, lecture); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := handler.Execute(ctx, lecture); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if lecture.Transcript != "today we covered recursion" {
		t.Fatalf("unexpected transcript: %q", lecture.Transcript)
	}
	if stub.LastAudioPath() != audioPath {
		t.Fatalf("transcriber saw path %q, want %q", stub.LastAudioPath(), audioPath)
	}
}

func TestTranscriberPrepareMissingAudio(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	handler := transcription.NewTranscriber(cfg, store, &testsupport.StubTranscriber{}, logging.NewNop())

	lecture := testsupport.NewLecture(t, store, filepath.Join(cfg.Paths.UploadDir, "gone.mp3"), "gone.mp3")
	err := handler.Prepare(context.Background(), lecture)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTranscriberExecuteEmptyTranscript(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	handler := transcription.NewTranscriber(cfg, store, &testsupport.StubTranscriber{Text: ""}, logging.NewNop())

	audioPath := filepath.Join(cfg.Paths.UploadDir, "silent.mp3")
	testsupport.WriteFile(t, audioPath, 16)
	lecture := testsupport.NewLecture(t, store, audioPath, "silent.mp3")

	err := handler.Execute(context.Background(), lecture)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTranscriberExecuteProviderFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	stub := &testsupport.StubTranscriber{Err: errors.New("rate limited")}
	handler := transcription.NewTranscriber(cfg, store, stub, logging.NewNop())

	audioPath := filepath.Join(cfg.Paths.UploadDir, "lecture2.mp3")
	testsupport.WriteFile(t, audioPath, 64)
	lecture := testsupport.NewLecture(t, store, audioPath, "lecture2.mp3")

	err := handler.Execute(context.Background(), lecture)
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected external service error, got %v", err)
	}
}

func TestTranscriberHealthCheck(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ready := transcription.NewTranscriber(cfg, store, &testsupport.StubTranscriber{}, logging.NewNop())
	if health := ready.HealthCheck(context.Background()); !health.Ready {
		t.Fatalf("expected ready, got %+v", health)
	}

	missing := transcription.NewTranscriber(cfg, store, nil, logging.NewNop())
	if health := missing.HealthCheck(context.Background()); health.Ready {
		t.Fatal("expected unready without client")
	}
}
