package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	flags := Flags()
	if err := flags.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != ":8080" || cfg.DBPath != "pult.db" || cfg.SyncOnStart {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFlagOverrides(t *testing.T) {
	flags := Flags()
	if err := flags.Parse([]string{"--listen", ":9000", "--sync_on_start"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != ":9000" {
		t.Errorf("expected listen :9000, got %s", cfg.Listen)
	}
	if !cfg.SyncOnStart {
		t.Error("expected sync_on_start true")
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("PULT_LISTEN", ":6060")
	t.Setenv("PULT_DB", "env.db")

	flags := Flags()
	if err := flags.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != ":6060" {
		t.Errorf("expected listen :6060 from environment, got %s", cfg.Listen)
	}
	if cfg.DBPath != "env.db" {
		t.Errorf("expected db env.db from environment, got %s", cfg.DBPath)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pult.yaml")
	content := "listen: \":7070\"\ndb: custom.db\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	flags := Flags()
	if err := flags.Parse([]string{"--config", path}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != ":7070" || cfg.DBPath != "custom.db" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	flags := Flags()
	if err := flags.Parse([]string{"--config", "/does/not/exist.yaml"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := Load(flags); err == nil {
		t.Error("expected an error for a missing config file")
	}
}
