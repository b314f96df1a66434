// Package testsupport provides shared fixtures for package tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"curator/internal/config"
	"curator/internal/queue"
)

// NewConfig returns a config rooted in per-test temp directories with
// external services and gates disabled.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Projects.Roots = []string{filepath.Join(base, "projects")}
	cfg.Thermal.Enabled = false
	cfg.Classifier.WebEnrichment = false
	cfg.Classifier.DaemonBaseURL = ""
	cfg.Notifications.NtfyTopic = ""
	cfg.Organizer.MinFreeSpaceMB = 0
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	if err := os.MkdirAll(cfg.Projects.Roots[0], 0o755); err != nil {
		t.Fatalf("create projects root: %v", err)
	}
	return &cfg
}

// NewStore opens a queue store inside the config's data directory.
func NewStore(t *testing.T, cfg *config.Config) *queue.Store {
	t.Helper()
	store, err := queue.OpenPath(filepath.Join(cfg.Paths.DataDir, "queue.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// WriteFile creates a file (and parents) with the given content and
// returns its path.
func WriteFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
