package main

import (
	"os"
	"path/filepath"
	"testing"

	"railcheck"
)

func TestParseChecks(t *testing.T) {
	cases := []struct {
		raw     string
		want    railcheck.Check
		wantErr bool
	}{
		{"all", railcheck.ChecksAll, false},
		{"port", railcheck.CheckPort, false},
		{"port,host", railcheck.CheckPort | railcheck.CheckHost, false},
		{" port , database ", railcheck.CheckPort | railcheck.CheckDatabase, false},
		{"", railcheck.ChecksAll, false},
		{"port,,host", railcheck.CheckPort | railcheck.CheckHost, false},
		{"bogus", 0, true},
	}

	for _, tc := range cases {
		got, err := parseChecks(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseChecks(%q) = %v, want error", tc.raw, got)
			}

			continue
		}

		if err != nil {
			t.Errorf("parseChecks(%q): %v", tc.raw, err)

			continue
		}

		if got != tc.want {
			t.Errorf("parseChecks(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestBuildOptionsConfigFile(t *testing.T) {
	root := t.TempDir()
	cfg := "checks:\n  - port\n  - host\nignore:\n  - fixtures\nmax_files: 50\n"
	if err := os.WriteFile(filepath.Join(root, ".railcheck.yaml"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := buildOptions(root, "all")
	if err != nil {
		t.Fatal(err)
	}

	if opts.Checks != railcheck.CheckPort|railcheck.CheckHost {
		t.Errorf("Checks = %v, want port|host from config", opts.Checks)
	}
	if opts.MaxFiles != 50 {
		t.Errorf("MaxFiles = %d, want 50", opts.MaxFiles)
	}
	if len(opts.IgnoreDirs) != 1 || opts.IgnoreDirs[0] != "fixtures" {
		t.Errorf("IgnoreDirs = %v, want [fixtures]", opts.IgnoreDirs)
	}
}

func TestBuildOptionsFlagWinsOverConfig(t *testing.T) {
	root := t.TempDir()
	cfg := "checks:\n  - port\n"
	if err := os.WriteFile(filepath.Join(root, ".railcheck.yaml"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := buildOptions(root, "database")
	if err != nil {
		t.Fatal(err)
	}

	if opts.Checks != railcheck.CheckDatabase {
		t.Errorf("Checks = %v, want database from the explicit flag", opts.Checks)
	}
}

func TestBuildOptionsNoConfig(t *testing.T) {
	opts, err := buildOptions(t.TempDir(), "all")
	if err != nil {
		t.Fatal(err)
	}

	if opts.Checks != railcheck.ChecksAll {
		t.Errorf("Checks = %v, want all", opts.Checks)
	}
	if opts.MaxFiles != 0 {
		t.Errorf("MaxFiles = %d, want 0 so the library default applies", opts.MaxFiles)
	}
}
