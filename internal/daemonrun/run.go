package daemonrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"lectern/internal/ai"
	"lectern/internal/analysis"
	"lectern/internal/analytics"
	"lectern/internal/config"
	"lectern/internal/daemon"
	"lectern/internal/httpapi"
	"lectern/internal/ingest"
	"lectern/internal/lectures"
	"lectern/internal/logging"
	"lectern/internal/notes"
	"lectern/internal/notifications"
	"lectern/internal/observability"
	"lectern/internal/preflight"
	"lectern/internal/syllabus"
	"lectern/internal/topicmodel"
	"lectern/internal/transcription"
	"lectern/internal/workflow"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel    string
	Development bool
}

// Run starts the lectern daemon runtime loop and blocks until a signal or a
// fatal subsystem error.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	runID := time.Now().UTC().Format("20060102T150405.000Z")
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("lectern-%s.log", runID))

	level := opts.LogLevel
	if strings.TrimSpace(level) == "" {
		level = cfg.Logging.Level
	}
	logger, err := logging.New(logging.Options{
		Level:            level,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{"stdout", logPath},
		ErrorOutputPaths: []string{"stderr", logPath},
		Development:      opts.Development,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	if err := ensureCurrentLogPointer(cfg.Paths.LogDir, logPath); err != nil {
		fmt.Fprintf(os.Stderr, "warn: unable to update lectern.log link: %v\n", err)
	}
	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays,
		logging.RetentionTarget{Dir: cfg.Paths.LogDir, Pattern: "lectern-*.log", Exclude: []string{logPath}},
	)

	pidPath := filepath.Join(cfg.Paths.LogDir, "lecternd.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	if err := runPreflight(signalCtx, cfg, logger); err != nil {
		return err
	}

	shutdownTracing, err := observability.SetupTracing(signalCtx, cfg.Telemetry, logger)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("trace shutdown failed", logging.Error(err))
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(registry)

	store, err := lectures.Open(signalCtx, cfg)
	if err != nil {
		logger.Error("open lecture store", logging.Error(err))
		return err
	}
	defer store.Close()

	if reset, err := store.ResetStuckProcessing(signalCtx); err != nil {
		logger.Warn("reset stuck lectures failed", logging.Error(err))
	} else if reset > 0 {
		logger.Info("reset stuck lectures from previous run", logging.Int64("count", reset))
	}

	aiClient, err := ai.New(signalCtx, cfg.AI, logger, ai.WithMetrics(metrics))
	if err != nil {
		logger.Error("create ai client", logging.Error(err))
		return err
	}

	notifier := notifications.NewService(cfg)
	manager := workflow.NewManager(cfg, store, logger,
		workflow.WithNotifier(notifier),
		workflow.WithMetrics(metrics),
	)
	manager.ConfigureStages(workflow.StageSet{
		Transcriber:    transcription.NewTranscriber(cfg, store, aiClient.Transcriber(), logger),
		Analyzer:       analysis.NewAnalyzer(cfg, store, aiClient.Chat(cfg.AI.AnalysisModel), logger),
		Modeler:        topicmodel.NewModeler(cfg, store, logger),
		NotesGenerator: notes.NewGenerator(cfg, store, aiClient.Chat(cfg.NotesModel()), logger),
	})

	d, err := daemon.New(cfg, store, logger, manager)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		logger.Error("daemon start failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "daemon_start_failed"),
			logging.String(logging.FieldErrorHint, "check for another running instance and database access"),
			logging.String(logging.FieldImpact, "no lectures will be processed"),
		)
		return err
	}

	apiServer := httpapi.New(cfg, httpapi.Deps{
		Store:     store,
		Workflow:  manager,
		Analytics: analytics.NewService(store, logger),
		Syllabus:  syllabus.NewService(cfg, store, aiClient.Chat(cfg.AI.RoadmapModel), logger),
		Notifier:  notifier,
		Metrics:   metrics,
		Gatherer:  registry,
		LogPath:   logPath,
	}, logger)
	watcher := ingest.NewWatcher(cfg, store, logger, ingest.WithNotifier(notifier))

	group, groupCtx := errgroup.WithContext(signalCtx)
	group.Go(func() error {
		return apiServer.Run(groupCtx)
	})
	group.Go(func() error {
		if err := watcher.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	err = group.Wait()
	logger.Info("lectern daemon shutting down")
	d.Stop()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// runPreflight fails startup when a local readiness check does not pass.
func runPreflight(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	results := preflight.RunAll(ctx, cfg)
	failed := 0
	for _, result := range results {
		if result.Passed {
			logger.Debug("preflight check passed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail),
			)
			continue
		}
		failed++
		logger.Error("preflight check failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
		)
	}
	if failed > 0 {
		return fmt.Errorf("%d preflight check(s) failed", failed)
	}
	return nil
}

func ensureCurrentLogPointer(logDir, target string) error {
	if logDir == "" || target == "" {
		return nil
	}
	current := filepath.Join(logDir, "lectern.log")
	if err := os.Remove(current); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing log pointer: %w", err)
	}
	if err := os.Symlink(target, current); err == nil {
		return nil
	}
	if err := os.Link(target, current); err != nil {
		return fmt.Errorf("link log pointer: %w", err)
	}
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
