package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration. Every empty directory defaults to
// a subdirectory of data_dir during normalization.
type Paths struct {
	DataDir     string `toml:"data_dir" validate:"required"`
	UploadDir   string `toml:"upload_dir"`
	SyllabusDir string `toml:"syllabus_dir"`
	IngestDir   string `toml:"ingest_dir"`
	LogDir      string `toml:"log_dir"`
}

// API contains HTTP server configuration.
type API struct {
	Bind                string `toml:"bind" validate:"required,hostname_port"`
	ReadTimeoutSeconds  int    `toml:"read_timeout_seconds" validate:"min=1"`
	WriteTimeoutSeconds int    `toml:"write_timeout_seconds" validate:"min=1"`
	MaxUploadMB         int64  `toml:"max_upload_mb" validate:"min=1"`
}

// AI contains connection settings for the transcription and completion
// provider. The same credentials serve every pipeline stage.
type AI struct {
	Provider              string `toml:"provider" validate:"required,oneof=openai gemini"`
	BaseURL               string `toml:"base_url"`
	APIKey                string `toml:"api_key"`
	TranscriptionModel    string `toml:"transcription_model" validate:"required"`
	AnalysisModel         string `toml:"analysis_model" validate:"required"`
	RoadmapModel          string `toml:"roadmap_model" validate:"required"`
	NotesModel            string `toml:"notes_model"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds" validate:"min=1"`
	RequestsPerMinute     int    `toml:"requests_per_minute" validate:"min=1"`
	Burst                 int    `toml:"burst" validate:"min=1"`
	MaxAttempts           int    `toml:"max_attempts" validate:"min=1"`
}

// Pipeline contains daemon timing configuration.
type Pipeline struct {
	PollIntervalSeconds      int `toml:"poll_interval_seconds" validate:"min=1"`
	HeartbeatIntervalSeconds int `toml:"heartbeat_interval_seconds" validate:"min=1"`
	StaleProcessingMinutes   int `toml:"stale_processing_minutes" validate:"min=1"`
}

// Topics contains settings for the in-process topic model trainer.
type Topics struct {
	Count         int   `toml:"count" validate:"min=1"`
	TermsPerTopic int   `toml:"terms_per_topic" validate:"min=1"`
	Passes        int   `toml:"passes" validate:"min=1"`
	Seed          int64 `toml:"seed"`
}

// Workspace contains upload retention policy.
type Workspace struct {
	KeepUploads bool `toml:"keep_uploads"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic             string `toml:"ntfy_topic"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds" validate:"min=1"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days" validate:"min=0"`
}

// Telemetry contains OpenTelemetry export configuration. Prometheus metrics
// are always served; tracing is opt-in.
type Telemetry struct {
	Enabled      bool   `toml:"enabled"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
	ServiceName  string `toml:"service_name"`
}

// Config encapsulates all configuration values for lectern.
//
// Configuration sections by subsystem:
//   - Paths: data, upload, syllabus, ingest, and log directories
//   - API: HTTP bind address, timeouts, and upload size cap
//   - AI: provider credentials and per-stage model names
//   - Pipeline: polling, heartbeat, and stale reclaim intervals
//   - Topics: LDA trainer parameters
//   - Workspace: upload retention after processing
//   - Notifications: ntfy push notification settings
//   - Logging: log format, level, and retention
//   - Telemetry: OTLP trace export
type Config struct {
	Paths         Paths         `toml:"paths"`
	API           API           `toml:"api"`
	AI            AI            `toml:"ai"`
	Pipeline      Pipeline      `toml:"pipeline"`
	Topics        Topics        `toml:"topics"`
	Workspace     Workspace     `toml:"workspace"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
	Telemetry     Telemetry     `toml:"telemetry"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/lectern/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. A missing file is not
// an error; defaults apply and exists reports false.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/lectern/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("lectern.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{
		c.Paths.DataDir,
		c.Paths.UploadDir,
		c.Paths.SyllabusDir,
		c.Paths.IngestDir,
		c.Paths.LogDir,
	} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the location of the lecture database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "lectern.db")
}

// PollInterval returns the queue polling interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Pipeline.PollIntervalSeconds) * time.Second
}

// HeartbeatInterval returns how often in-flight lectures are stamped.
func (c *Config) HeartbeatInterval() time.Duration {
	return time.Duration(c.Pipeline.HeartbeatIntervalSeconds) * time.Second
}

// StaleProcessingCutoff returns the heartbeat age after which an in-flight
// lecture is reclaimed.
func (c *Config) StaleProcessingCutoff() time.Duration {
	return time.Duration(c.Pipeline.StaleProcessingMinutes) * time.Minute
}

// AIRequestTimeout returns the per-request timeout for AI calls.
func (c *Config) AIRequestTimeout() time.Duration {
	return time.Duration(c.AI.RequestTimeoutSeconds) * time.Second
}

// NotesModel returns the model used for lecture notes, falling back to the
// analysis model when not configured separately.
func (c *Config) NotesModel() string {
	if strings.TrimSpace(c.AI.NotesModel) != "" {
		return c.AI.NotesModel
	}
	return c.AI.AnalysisModel
}

// MaxUploadBytes returns the upload size cap in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.API.MaxUploadMB << 20
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
