package preflight

import (
	"context"

	"lectern/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every local preflight check for the given config. The AI
// provider ping is excluded; it costs a billable request, so only the CLI
// health command runs it on demand.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Upload directory", cfg.Paths.UploadDir),
		CheckDirectoryAccess("Syllabus directory", cfg.Paths.SyllabusDir),
		CheckDirectoryAccess("Ingest directory", cfg.Paths.IngestDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckAIConfig(cfg),
	}
	results = append(results, CheckDatabase(ctx, cfg))
	return results
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
