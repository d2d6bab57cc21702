package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"lectern/internal/config"
)

func TestLoadDefaultConfigUsesEnvAPIKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("LECTERN_AI_API_KEY", "test-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "lectern")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.UploadDir != filepath.Join(wantData, "uploads") {
		t.Fatalf("unexpected upload dir: %q", cfg.Paths.UploadDir)
	}
	if cfg.Paths.SyllabusDir != filepath.Join(wantData, "syllabus_results") {
		t.Fatalf("unexpected syllabus dir: %q", cfg.Paths.SyllabusDir)
	}
	if cfg.API.Bind != "127.0.0.1:8080" {
		t.Fatalf("unexpected api bind: %q", cfg.API.Bind)
	}
	if cfg.AI.APIKey != "test-key" {
		t.Fatalf("expected AI key from env, got %q", cfg.AI.APIKey)
	}
	if cfg.AI.Provider != "openai" {
		t.Fatalf("unexpected provider: %q", cfg.AI.Provider)
	}
	if cfg.AI.TranscriptionModel != "whisper-large-v3" {
		t.Fatalf("unexpected transcription model: %q", cfg.AI.TranscriptionModel)
	}
	if cfg.Topics.Count != 3 || cfg.Topics.TermsPerTopic != 5 || cfg.Topics.Passes != 10 {
		t.Fatalf("unexpected topic defaults: %+v", cfg.Topics)
	}
	if cfg.NotesModel() != cfg.AI.AnalysisModel {
		t.Fatalf("expected notes model fallback to analysis model, got %q", cfg.NotesModel())
	}
	if cfg.DatabasePath() != filepath.Join(wantData, "lectern.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.UploadDir, cfg.Paths.SyllabusDir, cfg.Paths.IngestDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "lectern.toml")

	type payload struct {
		AI struct {
			APIKey        string `toml:"api_key"`
			Provider      string `toml:"provider"`
			AnalysisModel string `toml:"analysis_model"`
		} `toml:"ai"`
		API struct {
			Bind string `toml:"bind"`
		} `toml:"api"`
		Topics struct {
			Count int `toml:"count"`
		} `toml:"topics"`
	}
	custom := payload{}
	custom.AI.APIKey = "abc123"
	custom.AI.Provider = "gemini"
	custom.AI.AnalysisModel = "gemini-2.0-flash"
	custom.API.Bind = "0.0.0.0:9090"
	custom.Topics.Count = 5
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.AI.APIKey != "abc123" {
		t.Fatalf("expected AI key from file, got %q", cfg.AI.APIKey)
	}
	if cfg.AI.Provider != "gemini" {
		t.Fatalf("expected gemini provider, got %q", cfg.AI.Provider)
	}
	if cfg.API.Bind != "0.0.0.0:9090" {
		t.Fatalf("unexpected bind: %q", cfg.API.Bind)
	}
	if cfg.Topics.Count != 5 {
		t.Fatalf("expected topic count 5, got %d", cfg.Topics.Count)
	}
}

func TestEnvVarOverridesConfigFileForAPIKey(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "lectern.toml")

	type payload struct {
		AI struct {
			APIKey string `toml:"api_key"`
		} `toml:"ai"`
	}
	custom := payload{}
	custom.AI.APIKey = "file-key"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.AI.APIKey != "file-key" {
		t.Fatalf("expected file key, got %q", cfg.AI.APIKey)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "your_ai_api_key_here") {
		t.Fatalf("sample config missing placeholder AI key: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	base := func() config.Config {
		cfg := config.Default()
		cfg.AI.APIKey = "key"
		return cfg
	}

	cfg := base()
	cfg.AI.Provider = "mystery"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown provider")
	} else if !strings.Contains(err.Error(), "ai.provider") {
		t.Fatalf("expected ai.provider in error, got %v", err)
	}

	cfg = base()
	cfg.Topics.Count = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero topic count")
	} else if !strings.Contains(err.Error(), "topics.count") {
		t.Fatalf("expected topics.count in error, got %v", err)
	}

	cfg = base()
	cfg.API.Bind = "not-an-address"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for malformed bind address")
	}

	cfg = base()
	cfg.AI.APIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing API key")
	} else if !strings.Contains(err.Error(), "LECTERN_AI_API_KEY") {
		t.Fatalf("expected env hint in error, got %v", err)
	}

	cfg = base()
	cfg.Pipeline.StaleProcessingMinutes = 1
	cfg.Pipeline.HeartbeatIntervalSeconds = 120
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when stale cutoff is within heartbeat interval")
	}
}

func TestValidatePassesWithDefaultsAndKey(t *testing.T) {
	cfg := config.Default()
	cfg.AI.APIKey = "key"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}
