package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"lectern/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckAIConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	result := CheckAIConfig(cfg)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}

	cfg.AI.APIKey = ""
	result = CheckAIConfig(cfg)
	if result.Passed {
		t.Fatal("expected failure for missing api key")
	}

	cfg.AI.APIKey = "test"
	cfg.AI.AnalysisModel = ""
	result = CheckAIConfig(cfg)
	if result.Passed {
		t.Fatal("expected failure for missing model")
	}
}

func TestCheckDatabase(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	result := CheckDatabase(context.Background(), cfg)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	results := RunAll(context.Background(), cfg)
	if len(results) != 7 {
		t.Fatalf("expected 7 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
	if !AllPassed(results) {
		t.Fatal("AllPassed should report true")
	}
}

func TestAllPassedDetectsFailure(t *testing.T) {
	results := []Result{{Name: "a", Passed: true}, {Name: "b"}}
	if AllPassed(results) {
		t.Fatal("AllPassed should report false")
	}
}
