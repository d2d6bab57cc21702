package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"lectern/internal/ai"
	"lectern/internal/config"
	"lectern/internal/lectures"
	"lectern/internal/logging"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckAIConfig validates the AI section without touching the network.
func CheckAIConfig(cfg *config.Config) Result {
	const name = "AI configuration"
	if strings.TrimSpace(cfg.AI.APIKey) == "" {
		return Result{Name: name, Detail: "api key missing"}
	}
	missing := make([]string, 0, 3)
	if strings.TrimSpace(cfg.AI.TranscriptionModel) == "" {
		missing = append(missing, "transcription_model")
	}
	if strings.TrimSpace(cfg.AI.AnalysisModel) == "" {
		missing = append(missing, "analysis_model")
	}
	if strings.TrimSpace(cfg.AI.RoadmapModel) == "" {
		missing = append(missing, "roadmap_model")
	}
	if len(missing) > 0 {
		return Result{Name: name, Detail: "missing " + strings.Join(missing, ", ")}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("provider %s", cfg.AI.Provider)}
}

// CheckDatabase opens the lecture store and probes it with a trivial query.
func CheckDatabase(ctx context.Context, cfg *config.Config) Result {
	const name = "Database"
	store, err := lectures.Open(ctx, cfg)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("open failed: %v", err)}
	}
	defer store.Close()

	health := store.CheckHealth(ctx)
	if !health.Healthy {
		return Result{Name: name, Detail: health.ErrorMessage}
	}
	return Result{Name: name, Passed: true, Detail: cfg.DatabasePath()}
}

// CheckAI verifies the provider credentials with a single completion ping.
// It uses a 30-second timeout and one attempt, no retries.
func CheckAI(ctx context.Context, cfg *config.Config) Result {
	const name = "AI provider"
	if strings.TrimSpace(cfg.AI.APIKey) == "" {
		return Result{Name: name, Detail: "api key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pingCfg := cfg.AI
	pingCfg.MaxAttempts = 1
	client, err := ai.New(checkCtx, pingCfg, logging.NewNop())
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeAIError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

// summarizeAIError produces a human-readable summary for provider ping failures.
func summarizeAIError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (AI API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (AI API unreachable)"
	}
	return err.Error()
}
