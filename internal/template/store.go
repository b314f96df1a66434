package template

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"curator/internal/services"
	"curator/internal/services/mapper"
)

// CustomTemplate is a persisted folder-tree snapshot plus its category
// mapping, written as a JSON artifact in the data directory.
type CustomTemplate struct {
	SourcePath    string          `json:"sourcePath"`
	Tree          FolderNode      `json:"folderTree"`
	Mapping       CategoryMapping `json:"mapping"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

const templateFileName = "custom_template.json"

// Store reads and writes the custom template artifact.
type Store struct {
	dataDir string
}

// NewStore builds a template store rooted at the data directory.
func NewStore(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

func (s *Store) path() string {
	return filepath.Join(s.dataDir, templateFileName)
}

// Load returns the stored template, or nil when none exists.
func (s *Store) Load() (*CustomTemplate, error) {
	data, err := os.ReadFile(s.path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "template", "load",
			"read custom template", err)
	}
	var tpl CustomTemplate
	if err := json.Unmarshal(data, &tpl); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "template", "load",
			"decode custom template", err)
	}
	return &tpl, nil
}

// Save writes the template atomically, preserving CreatedAt on update.
func (s *Store) Save(tpl *CustomTemplate) error {
	if tpl == nil {
		return services.Wrap(services.ErrValidation, "template", "save", "nil template", nil)
	}
	now := time.Now().UTC()
	if existing, err := s.Load(); err == nil && existing != nil {
		tpl.CreatedAt = existing.CreatedAt
	}
	if tpl.CreatedAt.IsZero() {
		tpl.CreatedAt = now
	}
	tpl.LastUpdatedAt = now

	data, err := json.MarshalIndent(tpl, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrValidation, "template", "save",
			"encode custom template", err)
	}
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "template", "save",
			fmt.Sprintf("create %s", s.dataDir), err)
	}
	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return services.Wrap(services.ErrConfiguration, "template", "save",
			"write custom template", err)
	}
	if err := os.Rename(tmp, s.path()); err != nil {
		return services.Wrap(services.ErrConfiguration, "template", "save",
			"install custom template", err)
	}
	return nil
}

// Remove deletes the stored template if present.
func (s *Store) Remove() error {
	err := os.Remove(s.path())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// analyzer is the slice of the mapper client Analyze needs.
type analyzer interface {
	Analyze(ctx context.Context, tree any, deviceID string) (*mapper.AnalyzeResponse, error)
}

// Analyze submits the tree to the analysis service and converts its
// verdict. Service errors are surfaced verbatim; there is no retry.
func Analyze(ctx context.Context, client analyzer, tree *FolderNode, deviceID string) (CategoryMapping, error) {
	resp, err := client.Analyze(ctx, tree, deviceID)
	if err != nil {
		return CategoryMapping{}, err
	}
	return mappingFromWire(resp.Paths, resp.Rationale, time.Now().UTC()), nil
}
