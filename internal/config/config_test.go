package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Classifier.DaemonBaseURL != defaultDaemonBaseURL {
		t.Fatalf("unexpected daemon URL %q", cfg.Classifier.DaemonBaseURL)
	}
	if cfg.Organizer.TemplatePath == "" {
		t.Fatal("expected template path to default under data dir")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if resolved != path {
		t.Fatalf("expected resolved path %q, got %q", path, resolved)
	}
	if cfg.Matching.MinFuzzyLength != defaultMinFuzzyLength {
		t.Fatalf("expected default fuzzy length, got %d", cfg.Matching.MinFuzzyLength)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[projects]
roots = ["` + dir + `/work"]

[organizer]
preset = "Flat"
music_subfolder_by = "GENRE"

[classifier]
daemon_base_url = "http://127.0.0.1:9999/"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.Organizer.Preset != "flat" {
		t.Fatalf("preset not normalized: %q", cfg.Organizer.Preset)
	}
	if cfg.Organizer.MusicSubfolderBy != "genre" {
		t.Fatalf("music_subfolder_by not normalized: %q", cfg.Organizer.MusicSubfolderBy)
	}
	if strings.HasSuffix(cfg.Classifier.DaemonBaseURL, "/") {
		t.Fatalf("daemon URL should be trimmed: %q", cfg.Classifier.DaemonBaseURL)
	}
	if len(cfg.Projects.Roots) != 1 || !filepath.IsAbs(cfg.Projects.Roots[0]) {
		t.Fatalf("roots not normalized: %v", cfg.Projects.Roots)
	}
}

func TestValidateRejectsBadPreset(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatal(err)
	}
	cfg.Organizer.Preset = "fancy"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown preset")
	}
}

func TestValidateRejectsTinyFuzzyLength(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatal(err)
	}
	cfg.Matching.MinFuzzyLength = 1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for min_fuzzy_length below 2")
	}
}

func TestIsConfiguredRoot(t *testing.T) {
	cfg := Default()
	cfg.Projects.Roots = []string{"/srv/projects"}
	cfg.Projects.ApprovedRoots = []string{"/mnt/scratch"}

	cases := []struct {
		path string
		want bool
	}{
		{"/srv/projects/ClientA", true},
		{"/srv/projects", true},
		{"/srv/projectsentry", false},
		{"/mnt/scratch/tmp", true},
		{"/home/other", false},
	}
	for _, tc := range cases {
		if got := cfg.IsConfiguredRoot(tc.path); got != tc.want {
			t.Errorf("IsConfiguredRoot(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if _, err := WriteSample(path); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if _, err := WriteSample(path); err == nil {
		t.Fatal("expected overwrite refusal")
	}
}
