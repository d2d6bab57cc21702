package ingest_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lectern/internal/ingest"
	"lectern/internal/lectures"
	"lectern/internal/logging"
	"lectern/internal/testsupport"
)

func startWatcher(t *testing.T, w *ingest.Watcher) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})
	return cancel
}

func waitForPending(t *testing.T, store *lectures.Store, timeout time.Duration) *lectures.Lecture {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		all, err := store.List(context.Background(), nil, 0)
		if err != nil {
			t.Fatalf("list lectures: %v", err)
		}
		if len(all) > 0 {
			return all[0]
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("no lecture was enqueued")
	return nil
}

func TestWatcherScansExistingFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	source := filepath.Join(cfg.Paths.IngestDir, "week1.mp3")
	if err := os.WriteFile(source, []byte("audio-bytes"), 0o644); err != nil {
		t.Fatalf("write audio file: %v", err)
	}

	watcher := ingest.NewWatcher(cfg, store, logging.NewNop(),
		ingest.WithStability(10*time.Millisecond, 2))
	startWatcher(t, watcher)

	lecture := waitForPending(t, store, 10*time.Second)
	if lecture.Status != lectures.StatusPending {
		t.Fatalf("status = %s, want pending", lecture.Status)
	}
	if lecture.OriginalFilename != "week1.mp3" {
		t.Fatalf("original filename = %q", lecture.OriginalFilename)
	}
	if !strings.HasPrefix(lecture.SourcePath, cfg.Paths.UploadDir) {
		t.Fatalf("source path %q should live under the upload dir", lecture.SourcePath)
	}
	if _, err := os.Stat(lecture.SourcePath); err != nil {
		t.Fatalf("moved file missing: %v", err)
	}
	if _, err := os.Stat(source); !os.IsNotExist(err) {
		t.Fatalf("ingest file should be moved away, stat err = %v", err)
	}
}

func TestWatcherPicksUpNewFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	watcher := ingest.NewWatcher(cfg, store, logging.NewNop(),
		ingest.WithStability(10*time.Millisecond, 2))
	startWatcher(t, watcher)

	// Give the watcher a moment to register before dropping the file.
	time.Sleep(100 * time.Millisecond)
	source := filepath.Join(cfg.Paths.IngestDir, "week2.m4a")
	if err := os.WriteFile(source, []byte("audio-bytes"), 0o644); err != nil {
		t.Fatalf("write audio file: %v", err)
	}

	lecture := waitForPending(t, store, 10*time.Second)
	if lecture.OriginalFilename != "week2.m4a" {
		t.Fatalf("original filename = %q", lecture.OriginalFilename)
	}
}

func TestWatcherIgnoresNonAudio(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	source := filepath.Join(cfg.Paths.IngestDir, "notes.txt")
	if err := os.WriteFile(source, []byte("not audio"), 0o644); err != nil {
		t.Fatalf("write text file: %v", err)
	}

	watcher := ingest.NewWatcher(cfg, store, logging.NewNop(),
		ingest.WithStability(10*time.Millisecond, 2))
	startWatcher(t, watcher)

	time.Sleep(300 * time.Millisecond)
	all, err := store.List(context.Background(), nil, 0)
	if err != nil {
		t.Fatalf("list lectures: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected no lectures for non-audio file, got %d", len(all))
	}
	if _, err := os.Stat(source); err != nil {
		t.Fatalf("non-audio file should stay in place: %v", err)
	}
}

func TestWatcherSkipsRecordingAlreadyInFlight(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	// A lecture with this filename is still working through the pipeline.
	if _, err := store.NewLecture(context.Background(), "/tmp/elsewhere/week4.mp3", "week4.mp3"); err != nil {
		t.Fatalf("seed lecture: %v", err)
	}

	source := filepath.Join(cfg.Paths.IngestDir, "week4.mp3")
	if err := os.WriteFile(source, []byte("audio-bytes"), 0o644); err != nil {
		t.Fatalf("write audio file: %v", err)
	}

	watcher := ingest.NewWatcher(cfg, store, logging.NewNop(),
		ingest.WithStability(10*time.Millisecond, 2))
	startWatcher(t, watcher)

	time.Sleep(300 * time.Millisecond)
	all, err := store.List(context.Background(), nil, 0)
	if err != nil {
		t.Fatalf("list lectures: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected the duplicate to be skipped, got %d lectures", len(all))
	}
	if _, err := os.Stat(source); err != nil {
		t.Fatalf("skipped file should stay in the ingest directory: %v", err)
	}
}

func TestIsAudioFile(t *testing.T) {
	accepted := []string{"a.mp3", "b.WAV", "c.m4a", "d.mp4", "e.aac", "f.flac", "g.ogg", "h.webm"}
	for _, name := range accepted {
		if !ingest.IsAudioFile(name) {
			t.Fatalf("%s should be accepted", name)
		}
	}
	rejected := []string{"a.txt", "b.pdf", "c", "d.mp3.part"}
	for _, name := range rejected {
		if ingest.IsAudioFile(name) {
			t.Fatalf("%s should be rejected", name)
		}
	}
}
