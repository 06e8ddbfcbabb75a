package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file was not written: %v", err)
	}
	if cfg.DBPath != filepath.Join(dir, "sub", DefaultDBName) {
		t.Errorf("DBPath = %s", cfg.DBPath)
	}
	if cfg.DeferDays != 7 || cfg.Keys.Complete != "c" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}

	again, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if again != cfg {
		t.Errorf("reloaded config differs:\n%+v\n%+v", again, cfg)
	}
}

func TestLoadOrCreateFillsGaps(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	content := `db_path = "/var/lib/fourd/tasks.db"
log_path = "-"
defer_days = 0
read_only = true

[keys]
quit = "x"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate failed: %v", err)
	}
	if cfg.DBPath != "/var/lib/fourd/tasks.db" {
		t.Errorf("absolute db path rewritten: %s", cfg.DBPath)
	}
	if cfg.LogPath != "-" {
		t.Errorf("LogPath = %s", cfg.LogPath)
	}
	if cfg.DeferDays != DefaultDeferDays {
		t.Errorf("DeferDays = %d", cfg.DeferDays)
	}
	if !cfg.ReadOnly {
		t.Errorf("read_only not honoured")
	}
	if cfg.Keys.Quit != "x" || cfg.Keys.Defer != "f" {
		t.Errorf("Keys = %+v", cfg.Keys)
	}
}

func TestLoadOrCreateRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	if err := os.WriteFile(path, []byte("db_path = ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOrCreate(path); err == nil {
		t.Errorf("expected a parse error")
	}
}

func TestResolveConfigPathEnv(t *testing.T) {
	t.Setenv(envConfig, "/etc/fourd.toml")
	if got := ResolveConfigPath(); got != "/etc/fourd.toml" {
		t.Errorf("ResolveConfigPath = %s", got)
	}
}
