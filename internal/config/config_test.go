package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
storage:
  backend: memory
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.App.Name != "lobx-feature-lab" {
		t.Errorf("expected default app name, got %q", cfg.App.Name)
	}
	if cfg.App.LogLevel != "info" {
		t.Errorf("expected default log level info, got %q", cfg.App.LogLevel)
	}
	if cfg.Label.HorizonSeconds != 30 {
		t.Errorf("expected default horizon 30, got %d", cfg.Label.HorizonSeconds)
	}
	if cfg.Rolling.MaxGapMinutes != 5 {
		t.Errorf("expected default max gap 5, got %d", cfg.Rolling.MaxGapMinutes)
	}
	if cfg.Rolling.ResetOnGap {
		t.Error("gap reset must default to off")
	}
	if cfg.Output.Dir != "./output" || cfg.Output.Format != "both" {
		t.Errorf("unexpected output defaults: %+v", cfg.Output)
	}
	if cfg.Output.MatrixName != "features" || cfg.Output.SchemaName != "schema.json" {
		t.Errorf("unexpected artifact name defaults: %+v", cfg.Output)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
app:
  name: features-nightly
  log_level: debug
storage:
  backend: clickhouse
  dsn: clickhouse://default:@localhost:9000/lobx
  migrate: true
label:
  horizon_seconds: 60
rolling:
  reset_on_gap: true
  max_gap_minutes: 10
output:
  dir: /data/out
  format: parquet
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Storage.Backend != "clickhouse" || !cfg.Storage.Migrate {
		t.Errorf("unexpected storage config: %+v", cfg.Storage)
	}
	if cfg.Label.HorizonSeconds != 60 {
		t.Errorf("expected horizon 60, got %d", cfg.Label.HorizonSeconds)
	}
	if !cfg.Rolling.ResetOnGap || cfg.Rolling.MaxGapMinutes != 10 {
		t.Errorf("unexpected rolling config: %+v", cfg.Rolling)
	}
	if cfg.Output.Format != "parquet" {
		t.Errorf("expected parquet format, got %q", cfg.Output.Format)
	}
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	path := writeConfig(t, `
storage:
  backend: sqlite
  dsn: file.db
`)

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "storage.backend") {
		t.Errorf("expected backend validation error, got %v", err)
	}
}

func TestLoad_RequiresDSNForDatabaseBackends(t *testing.T) {
	path := writeConfig(t, `
storage:
  backend: postgres
`)

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "storage.dsn") {
		t.Errorf("expected dsn validation error, got %v", err)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	path := writeConfig(t, `
app:
  log_level: loud
storage:
  backend: memory
label:
  horizon_seconds: -1
output:
  format: xml
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"app.log_level", "label.horizon_seconds", "output.format"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %s, got %v", want, err)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
