package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	pkgconfig "github.com/starford/labkit/pkg/config"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
}

func TestDataConfig_MissingDirFails(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Data.Protocols = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty protocols dir should fail validation")
	}
}

func TestSQLiteConfig_MissingPathFails(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.SQLite.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty sqlite path should fail validation")
	}
}

func TestLedgerPath(t *testing.T) {
	cfg := DataConfig{Samples: filepath.Join("data", "samples")}
	want := filepath.Join("data", "samples", "inventory.json")
	if got := cfg.LedgerPath(); got != want {
		t.Errorf("LedgerPath() = %q, want %q", got, want)
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	t.Setenv("LABKIT_DATA", "/srv/lab")
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
app:
  log_level: -4
data:
  protocols: ${LABKIT_DATA}/protocols
  experiments: ${LABKIT_DATA}/experiments
  samples: ${LABKIT_DATA}/samples
  templates: ${LABKIT_DATA}/templates
  reports: ${LABKIT_DATA}/reports
sqlite:
  path: ${LABKIT_DATA}/labkit.db
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Data.Protocols != "/srv/lab/protocols" {
		t.Errorf("protocols = %q, env not expanded", cfg.Data.Protocols)
	}
	if cfg.SQLite.Path != "/srv/lab/labkit.db" {
		t.Errorf("sqlite path = %q", cfg.SQLite.Path)
	}
	if cfg.App.LogLevel != slog.LevelDebug {
		t.Errorf("log level = %v, want debug", cfg.App.LogLevel)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("data:\n  protocols: ''\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err == nil {
		t.Fatal("invalid config should fail to load")
	}
}

func TestLoadOptionalMissingFileKeepsDefaults(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := pkgconfig.LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"), cfg); err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if cfg.Data.Protocols != "./protocols" {
		t.Errorf("defaults clobbered: %q", cfg.Data.Protocols)
	}
}
