package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeProjects(); err != nil {
		return err
	}
	c.normalizeClassifier()
	if err := c.normalizeSubprocess(); err != nil {
		return err
	}
	c.normalizeThermal()
	if err := c.normalizeOrganizer(); err != nil {
		return err
	}
	c.normalizeMapper()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeProjects() error {
	for i, root := range c.Projects.Roots {
		expanded, err := expandPath(root)
		if err != nil {
			return fmt.Errorf("projects.roots[%d]: %w", i, err)
		}
		c.Projects.Roots[i] = expanded
	}
	for i, root := range c.Projects.ApprovedRoots {
		expanded, err := expandPath(root)
		if err != nil {
			return fmt.Errorf("projects.approved_roots[%d]: %w", i, err)
		}
		c.Projects.ApprovedRoots[i] = expanded
	}
	return nil
}

func (c *Config) normalizeClassifier() {
	c.Classifier.DaemonBaseURL = strings.TrimRight(strings.TrimSpace(c.Classifier.DaemonBaseURL), "/")
	if c.Classifier.DaemonBaseURL == "" {
		c.Classifier.DaemonBaseURL = defaultDaemonBaseURL
	}
	if c.Classifier.HealthTimeoutSeconds <= 0 {
		c.Classifier.HealthTimeoutSeconds = defaultHealthTimeoutSeconds
	}
	if c.Classifier.HealthCacheSeconds <= 0 {
		c.Classifier.HealthCacheSeconds = defaultHealthCacheSeconds
	}
	if c.Classifier.RequestTimeoutSeconds <= 0 {
		c.Classifier.RequestTimeoutSeconds = defaultRequestTimeoutSeconds
	}
	if c.Classifier.MaxTokens <= 0 {
		c.Classifier.MaxTokens = defaultMaxTokens
	}
	if c.Classifier.ResultCacheSeconds <= 0 {
		c.Classifier.ResultCacheSeconds = defaultResultCacheSeconds
	}
}

func (c *Config) normalizeSubprocess() error {
	c.Subprocess.Runtime = strings.TrimSpace(c.Subprocess.Runtime)
	if c.Subprocess.Runtime == "" {
		c.Subprocess.Runtime = defaultRuntime
	}
	var err error
	if c.Subprocess.ModelPath, err = expandPath(c.Subprocess.ModelPath); err != nil {
		return fmt.Errorf("subprocess.model_path: %w", err)
	}
	if c.Subprocess.DownloadTimeoutSeconds <= 0 {
		c.Subprocess.DownloadTimeoutSeconds = defaultDownloadTimeoutSeconds
	}
	if c.Subprocess.RunTimeoutSeconds <= 0 {
		c.Subprocess.RunTimeoutSeconds = defaultRunTimeoutSeconds
	}
	return nil
}

func (c *Config) normalizeThermal() {
	if c.Thermal.MaxCelsius <= 0 {
		c.Thermal.MaxCelsius = defaultThermalMaxCelsius
	}
	if c.Thermal.MaxLoadRatio <= 0 {
		c.Thermal.MaxLoadRatio = defaultThermalMaxLoadRatio
	}
	if c.Thermal.SustainedSamples <= 0 {
		c.Thermal.SustainedSamples = defaultThermalSustainedCount
	}
	if c.Thermal.SampleSeconds <= 0 {
		c.Thermal.SampleSeconds = defaultThermalSampleSeconds
	}
}

func (c *Config) normalizeOrganizer() error {
	c.Organizer.Preset = strings.ToLower(strings.TrimSpace(c.Organizer.Preset))
	if c.Organizer.Preset == "" {
		c.Organizer.Preset = defaultPreset
	}
	c.Organizer.MusicSubfolderBy = strings.ToLower(strings.TrimSpace(c.Organizer.MusicSubfolderBy))
	if c.Organizer.MusicSubfolderBy == "" {
		c.Organizer.MusicSubfolderBy = defaultMusicSubfolderBy
	}
	if c.Matching.MinFuzzyLength <= 0 {
		c.Matching.MinFuzzyLength = defaultMinFuzzyLength
	}
	if c.Organizer.RetentionMinutes <= 0 {
		c.Organizer.RetentionMinutes = defaultRetentionMinutes
	}
	if c.Organizer.MinFreeSpaceMB <= 0 {
		c.Organizer.MinFreeSpaceMB = defaultMinFreeSpaceMB
	}
	if strings.TrimSpace(c.Organizer.TemplatePath) == "" {
		c.Organizer.TemplatePath = filepath.Join(c.Paths.DataDir, "custom_template.json")
		return nil
	}
	var err error
	if c.Organizer.TemplatePath, err = expandPath(c.Organizer.TemplatePath); err != nil {
		return fmt.Errorf("organizer.template_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeMapper() {
	c.Mapper.BaseURL = strings.TrimRight(strings.TrimSpace(c.Mapper.BaseURL), "/")
	if c.Mapper.TimeoutSeconds <= 0 {
		c.Mapper.TimeoutSeconds = defaultMapperTimeoutSeconds
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.QueuePollInterval <= 0 {
		c.Workflow.QueuePollInterval = defaultQueuePollInterval
	}
	if c.Workflow.ErrorRetryInterval <= 0 {
		c.Workflow.ErrorRetryInterval = defaultErrorRetryInterval
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// ExpandPath resolves ~ prefixes and relative segments in user-supplied paths.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if path == "~" {
			return home, nil
		}
		path = filepath.Join(home, path[2:])
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return filepath.Clean(abs), nil
}
