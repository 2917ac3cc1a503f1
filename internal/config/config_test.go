package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(groqAPIKeyEnv, "")
	t.Setenv(databaseDSNEnv, "")

	cfg := Load()

	if cfg.Logging.Level != "info" {
		t.Fatalf("log level = %q", cfg.Logging.Level)
	}
	if cfg.Pipeline.JudgeWorkers != 1 || cfg.Pipeline.DedupThreshold != 0.8 {
		t.Fatalf("pipeline defaults = %+v", cfg.Pipeline)
	}
	if cfg.Scheduler.Enabled {
		t.Fatal("scheduling must be off by default")
	}
	if cfg.LLM.JudgeModel == "" || cfg.LLM.SummaryModel == "" {
		t.Fatalf("llm defaults = %+v", cfg.LLM)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
logging:
  level: debug
scheduler:
  enabled: true
  intervalHours: 6
pipeline:
  judgeWorkers: 4
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configPathEnv, path)

	cfg := Load()

	if cfg.Logging.Level != "debug" {
		t.Fatalf("log level = %q", cfg.Logging.Level)
	}
	if !cfg.Scheduler.Enabled || cfg.Scheduler.IntervalHours != 6 {
		t.Fatalf("scheduler = %+v", cfg.Scheduler)
	}
	if cfg.Pipeline.JudgeWorkers != 4 {
		t.Fatalf("judge workers = %d", cfg.Pipeline.JudgeWorkers)
	}
	// Untouched sections keep their defaults.
	if cfg.Pipeline.DedupThreshold != 0.8 {
		t.Fatalf("dedup threshold = %v", cfg.Pipeline.DedupThreshold)
	}
}

func TestLoadEnvOverridesWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("llm:\n  apiKey: from-file\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configPathEnv, path)
	t.Setenv(groqAPIKeyEnv, "from-env")
	t.Setenv(databaseDSNEnv, "postgres://example")

	cfg := Load()

	if cfg.LLM.APIKey != "from-env" {
		t.Fatalf("api key = %q, env must win", cfg.LLM.APIKey)
	}
	if cfg.Database.DSN != "postgres://example" {
		t.Fatalf("dsn = %q", cfg.Database.DSN)
	}
}

func TestLoadSurvivesBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\n  - not yaml {{"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configPathEnv, path)

	cfg := Load()

	if cfg.Logging.Level != "info" {
		t.Fatalf("broken file must fall back to defaults, got %+v", cfg.Logging)
	}
}
