package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"lectern/internal/config"
	"lectern/internal/fileutil"
	"lectern/internal/lectures"
	"lectern/internal/logging"
	"lectern/internal/notifications"
)

// audioExtensions lists the recording formats the pipeline accepts.
var audioExtensions = map[string]struct{}{
	".mp3":  {},
	".wav":  {},
	".m4a":  {},
	".mp4":  {},
	".aac":  {},
	".flac": {},
	".ogg":  {},
	".webm": {},
}

// IsAudioFile reports whether the path carries a supported audio extension.
func IsAudioFile(path string) bool {
	_, ok := audioExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Watcher moves dropped recordings into the upload workspace and enqueues
// them as pending lectures.
type Watcher struct {
	cfg      *config.Config
	store    *lectures.Store
	logger   *slog.Logger
	notifier notifications.Service

	stabilityPoll   time.Duration
	stabilityChecks int
}

// Option configures optional Watcher behavior.
type Option func(*Watcher)

// WithNotifier overrides the notifier built from configuration.
func WithNotifier(notifier notifications.Service) Option {
	return func(w *Watcher) {
		w.notifier = notifier
	}
}

// WithStability tunes the size-stability probe. Tests shorten it.
func WithStability(poll time.Duration, checks int) Option {
	return func(w *Watcher) {
		if poll > 0 {
			w.stabilityPoll = poll
		}
		if checks > 0 {
			w.stabilityChecks = checks
		}
	}
}

// NewWatcher constructs a drop-directory watcher.
func NewWatcher(cfg *config.Config, store *lectures.Store, logger *slog.Logger, opts ...Option) *Watcher {
	w := &Watcher{
		cfg:             cfg,
		store:           store,
		logger:          logging.NewComponentLogger(logger, "ingest"),
		notifier:        notifications.NewService(cfg),
		stabilityPoll:   time.Second,
		stabilityChecks: 2,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run blocks until the context is cancelled, scanning pre-existing files
// first and then reacting to filesystem events.
func (w *Watcher) Run(ctx context.Context) error {
	ingestDir := strings.TrimSpace(w.cfg.Paths.IngestDir)
	if ingestDir == "" {
		return errors.New("ingest directory not configured")
	}
	if err := os.MkdirAll(ingestDir, 0o755); err != nil {
		return fmt.Errorf("create ingest directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create filesystem watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(ingestDir); err != nil {
		return fmt.Errorf("watch ingest directory: %w", err)
	}
	w.logger.Info("watching ingest directory", logging.String("path", ingestDir))

	if err := w.scanExisting(ctx, ingestDir); err != nil {
		w.logger.Warn("startup ingest scan failed", logging.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			w.handleCandidate(ctx, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("filesystem watcher error", logging.Error(err))
		}
	}
}

func (w *Watcher) scanExisting(ctx context.Context, ingestDir string) error {
	entries, err := os.ReadDir(ingestDir)
	if err != nil {
		return fmt.Errorf("read ingest directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		w.handleCandidate(ctx, filepath.Join(ingestDir, entry.Name()))
	}
	return nil
}

func (w *Watcher) handleCandidate(ctx context.Context, path string) {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return
	}
	if !IsAudioFile(path) {
		w.logger.Debug("ignoring non-audio file", logging.String("path", path))
		return
	}

	stable, err := w.waitForStableSize(ctx, path)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			w.logger.Warn("size stability probe failed", logging.Error(err), logging.String("path", path))
		}
		return
	}
	if !stable {
		return
	}

	existing, err := w.store.FindActiveByFilename(ctx, name)
	if err != nil {
		w.logger.Warn("duplicate check failed", logging.Error(err), logging.String("file", name))
	} else if existing != nil {
		w.logger.Info("skipping recording already in flight",
			logging.Int64(logging.FieldLectureID, existing.ID),
			logging.String("original_filename", name),
		)
		return
	}

	destDir := filepath.Join(w.cfg.Paths.UploadDir, uuid.NewString())
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		w.logger.Error("failed to create upload directory", logging.Error(err), logging.String("path", destDir))
		return
	}
	destPath := filepath.Join(destDir, name)
	if err := fileutil.MoveFile(path, destPath); err != nil {
		w.logger.Error("failed to move recording into workspace",
			logging.Error(err),
			logging.String("source", path),
			logging.String("destination", destPath),
		)
		_ = os.Remove(destPath)
		_ = os.Remove(destDir)
		return
	}

	lecture, err := w.store.NewLecture(ctx, destPath, name)
	if err != nil {
		w.logger.Error("failed to enqueue lecture", logging.Error(err), logging.String("file", name))
		return
	}
	w.logger.Info("lecture queued from ingest directory",
		logging.Int64(logging.FieldLectureID, lecture.ID),
		logging.String("original_filename", name),
	)
	if w.notifier != nil {
		if err := w.notifier.NotifyLectureReceived(ctx, name); err != nil {
			w.logger.Debug("received notification failed", logging.Error(err))
		}
	}
}

// waitForStableSize polls until the file size stops changing, so half-copied
// recordings are not enqueued. Returns false when the file vanished.
func (w *Watcher) waitForStableSize(ctx context.Context, path string) (bool, error) {
	var lastSize int64 = -1
	stableRounds := 0
	for {
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return false, nil
			}
			return false, err
		}
		if info.Size() == lastSize && info.Size() > 0 {
			stableRounds++
			if stableRounds >= w.stabilityChecks {
				return true, nil
			}
		} else {
			stableRounds = 0
		}
		lastSize = info.Size()

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(w.stabilityPoll):
		}
	}
}
