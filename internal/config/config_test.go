package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	root := t.TempDir()
	content := "ignore:\n  - fixtures\n  - testdata\nchecks:\n  - port\nmax_files: 100\n"
	if err := os.WriteFile(filepath.Join(root, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Load(root)

	if len(cfg.Ignore) != 2 || cfg.Ignore[0] != "fixtures" {
		t.Errorf("Ignore = %v, want [fixtures testdata]", cfg.Ignore)
	}
	if len(cfg.Checks) != 1 || cfg.Checks[0] != "port" {
		t.Errorf("Checks = %v, want [port]", cfg.Checks)
	}
	if cfg.MaxFiles != 100 {
		t.Errorf("MaxFiles = %d, want 100", cfg.MaxFiles)
	}
}

func TestLoadAbsent(t *testing.T) {
	cfg := Load(t.TempDir())

	if cfg.Ignore != nil || cfg.Checks != nil || cfg.MaxFiles != 0 {
		t.Errorf("Load on empty dir = %+v, want zero config", cfg)
	}
}

func TestLoadMalformed(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("{not yaml: ["), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Load(root)
	if cfg.Ignore != nil || cfg.Checks != nil || cfg.MaxFiles != 0 {
		t.Errorf("Load on malformed file = %+v, want zero config", cfg)
	}
}
