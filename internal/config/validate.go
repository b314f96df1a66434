package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateClassifier(); err != nil {
		return err
	}
	if err := c.validateThermal(); err != nil {
		return err
	}
	if err := c.validateOrganizer(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateClassifier() error {
	parsed, err := url.Parse(c.Classifier.DaemonBaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("classifier.daemon_base_url is not a valid URL: %q", c.Classifier.DaemonBaseURL)
	}
	return nil
}

func (c *Config) validateThermal() error {
	if c.Thermal.MaxLoadRatio > 1 {
		return errors.New("thermal.max_load_ratio must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateOrganizer() error {
	switch c.Organizer.Preset {
	case "standard", "flat", "custom":
	default:
		return fmt.Errorf("organizer.preset must be one of standard, flat, custom (got %q)", c.Organizer.Preset)
	}
	switch c.Organizer.MusicSubfolderBy {
	case "mood", "genre":
	default:
		return fmt.Errorf("organizer.music_subfolder_by must be mood or genre (got %q)", c.Organizer.MusicSubfolderBy)
	}
	if c.Matching.MinFuzzyLength < 2 {
		return errors.New("matching.min_fuzzy_length must be at least 2")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.NtfyTopic == "" {
		return nil
	}
	parsed, err := url.Parse(c.Notifications.NtfyTopic)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("notifications.ntfy_topic must be a full ntfy URL: %q", c.Notifications.NtfyTopic)
	}
	return nil
}
