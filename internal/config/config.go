package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StagingDir string `toml:"staging_dir"`
	LogDir     string `toml:"log_dir"`
	DataDir    string `toml:"data_dir"`
}

// Projects describes where production projects are allowed to live.
type Projects struct {
	// Roots bounds the upward directory walk during main-folder detection.
	Roots []string `toml:"roots"`
	// ApprovedRoots lists roots the user accepted via "proceed and remember".
	ApprovedRoots []string `toml:"approved_roots"`
}

// Classifier contains settings for the classification strategy chain.
type Classifier struct {
	DaemonBaseURL         string `toml:"daemon_base_url"`
	HealthTimeoutSeconds  int    `toml:"health_timeout_seconds"`
	HealthCacheSeconds    int    `toml:"health_cache_seconds"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	MaxTokens             int    `toml:"max_tokens"`
	WebEnrichment         bool   `toml:"web_enrichment"`
	ResultCacheSeconds    int    `toml:"result_cache_seconds"`
}

// Subprocess configures the one-shot local-model fallback.
type Subprocess struct {
	Runtime                string `toml:"runtime"`
	ModelPath              string `toml:"model_path"`
	ModelDownloadURL       string `toml:"model_download_url"`
	DownloadTimeoutSeconds int    `toml:"download_timeout_seconds"`
	RunTimeoutSeconds      int    `toml:"run_timeout_seconds"`
}

// Thermal configures the resource gate in front of the local-model tiers.
type Thermal struct {
	Enabled          bool    `toml:"enabled"`
	MaxCelsius       float64 `toml:"max_celsius"`
	MaxLoadRatio     float64 `toml:"max_load_ratio"`
	SustainedSamples int     `toml:"sustained_samples"`
	SampleSeconds    int     `toml:"sample_seconds"`
}

// Matching contains folder-name matching thresholds.
type Matching struct {
	MinFuzzyLength int `toml:"min_fuzzy_length"`
}

// Organizer contains destination resolution and queue housekeeping settings.
type Organizer struct {
	Preset           string `toml:"preset"`
	TemplatePath     string `toml:"template_path"`
	MusicSubfolderBy string `toml:"music_subfolder_by"`
	RetentionMinutes int    `toml:"retention_minutes"`
	MinFreeSpaceMB   int64  `toml:"min_free_space_mb"`
}

// Mapper configures the external template-analysis service.
type Mapper struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Completed      bool   `toml:"completed"`
	Failed         bool   `toml:"failed"`
	NeedsReview    bool   `toml:"needs_review"`
}

// Workflow contains daemon timing configuration.
type Workflow struct {
	QueuePollInterval  int `toml:"queue_poll_interval"`
	ErrorRetryInterval int `toml:"error_retry_interval"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for curator.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Projects      Projects      `toml:"projects"`
	Classifier    Classifier    `toml:"classifier"`
	Subprocess    Subprocess    `toml:"subprocess"`
	Thermal       Thermal       `toml:"thermal"`
	Matching      Matching      `toml:"matching"`
	Organizer     Organizer     `toml:"organizer"`
	Mapper        Mapper        `toml:"mapper"`
	Notifications Notifications `toml:"notifications"`
	Workflow      Workflow      `toml:"workflow"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path of the default config file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/curator/config.toml")
}

// Load locates, parses, normalizes, and validates a configuration file. When
// the file does not exist the defaults are returned with exists=false.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// WriteSample writes the embedded sample configuration to the given path,
// refusing to overwrite an existing file.
func WriteSample(path string) (string, error) {
	expanded, err := expandPath(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(expanded); err == nil {
		return "", fmt.Errorf("config already exists at %s", expanded)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return "", fmt.Errorf("write sample config: %w", err)
	}
	return expanded, nil
}

// EnsureDirectories creates the directories curator needs at runtime.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.LogDir, c.Paths.DataDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// IsConfiguredRoot reports whether path sits beneath any configured or approved
// project root.
func (c *Config) IsConfiguredRoot(path string) bool {
	cleaned := filepath.Clean(path)
	for _, root := range c.Projects.Roots {
		if underRoot(cleaned, root) {
			return true
		}
	}
	for _, root := range c.Projects.ApprovedRoots {
		if underRoot(cleaned, root) {
			return true
		}
	}
	return false
}

func underRoot(path, root string) bool {
	root = filepath.Clean(root)
	if root == "" || root == "." {
		return false
	}
	if path == root {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !hasDotDotPrefix(rel)
}

func hasDotDotPrefix(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}
