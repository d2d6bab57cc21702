package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAPI()
	c.normalizeAI()
	c.normalizeNotifications()
	c.normalizeLogging()
	c.normalizeTelemetry()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	fill := func(value, fallback string) string {
		if strings.TrimSpace(value) == "" {
			return filepath.Join(c.Paths.DataDir, fallback)
		}
		return value
	}
	c.Paths.UploadDir = fill(c.Paths.UploadDir, "uploads")
	c.Paths.SyllabusDir = fill(c.Paths.SyllabusDir, "syllabus_results")
	c.Paths.IngestDir = fill(c.Paths.IngestDir, "ingest")
	c.Paths.LogDir = fill(c.Paths.LogDir, "logs")

	if c.Paths.UploadDir, err = expandPath(c.Paths.UploadDir); err != nil {
		return fmt.Errorf("paths.upload_dir: %w", err)
	}
	if c.Paths.SyllabusDir, err = expandPath(c.Paths.SyllabusDir); err != nil {
		return fmt.Errorf("paths.syllabus_dir: %w", err)
	}
	if c.Paths.IngestDir, err = expandPath(c.Paths.IngestDir); err != nil {
		return fmt.Errorf("paths.ingest_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAPI() {
	c.API.Bind = strings.TrimSpace(c.API.Bind)
	if c.API.Bind == "" {
		c.API.Bind = defaultAPIBind
	}
	if c.API.ReadTimeoutSeconds <= 0 {
		c.API.ReadTimeoutSeconds = defaultAPIReadTimeout
	}
	if c.API.WriteTimeoutSeconds <= 0 {
		c.API.WriteTimeoutSeconds = defaultAPIWriteTimeout
	}
	if c.API.MaxUploadMB <= 0 {
		c.API.MaxUploadMB = defaultMaxUploadMB
	}
}

func (c *Config) normalizeAI() {
	c.AI.Provider = strings.ToLower(strings.TrimSpace(c.AI.Provider))
	if c.AI.Provider == "" {
		c.AI.Provider = defaultAIProvider
	}
	c.AI.BaseURL = strings.TrimSpace(c.AI.BaseURL)
	if c.AI.BaseURL == "" && c.AI.Provider == "openai" {
		c.AI.BaseURL = defaultAIBaseURL
	}
	c.AI.APIKey = strings.TrimSpace(c.AI.APIKey)
	if c.AI.APIKey == "" {
		if value, ok := os.LookupEnv("LECTERN_AI_API_KEY"); ok {
			c.AI.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok && c.AI.Provider == "openai" {
			c.AI.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("GEMINI_API_KEY"); ok && c.AI.Provider == "gemini" {
			c.AI.APIKey = strings.TrimSpace(value)
		}
	}
	c.AI.TranscriptionModel = strings.TrimSpace(c.AI.TranscriptionModel)
	c.AI.AnalysisModel = strings.TrimSpace(c.AI.AnalysisModel)
	c.AI.RoadmapModel = strings.TrimSpace(c.AI.RoadmapModel)
	c.AI.NotesModel = strings.TrimSpace(c.AI.NotesModel)
	if c.AI.RequestTimeoutSeconds <= 0 {
		c.AI.RequestTimeoutSeconds = defaultAIRequestTimeout
	}
	if c.AI.RequestsPerMinute <= 0 {
		c.AI.RequestsPerMinute = defaultAIRequestsPerMinute
	}
	if c.AI.Burst <= 0 {
		c.AI.Burst = defaultAIBurst
	}
	if c.AI.MaxAttempts <= 0 {
		c.AI.MaxAttempts = defaultAIMaxAttempts
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeoutSeconds <= 0 {
		c.Notifications.RequestTimeoutSeconds = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "auto":
		c.Logging.Format = "auto"
	case "console", "json":
	default:
		c.Logging.Format = "auto"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

func (c *Config) normalizeTelemetry() {
	c.Telemetry.OTLPEndpoint = strings.TrimSpace(c.Telemetry.OTLPEndpoint)
	if c.Telemetry.OTLPEndpoint == "" {
		c.Telemetry.OTLPEndpoint = defaultOTLPEndpoint
	}
	c.Telemetry.ServiceName = strings.TrimSpace(c.Telemetry.ServiceName)
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = defaultServiceName
	}
}
