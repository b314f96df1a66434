// Package organizer moves classified assets into their resolved
// destination folders, guarding the move with root-sanity, conflict,
// and free-space gates.
package organizer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"curator/internal/classify"
	"curator/internal/config"
	"curator/internal/fileutil"
	"curator/internal/logging"
	"curator/internal/queue"
	"curator/internal/resolver"
	"curator/internal/services"
	"curator/internal/stage"
	"curator/internal/template"
)

// Stage resolves destinations lazily at processing time and performs
// the filesystem move.
type Stage struct {
	cfg       *config.Config
	store     *queue.Store
	templates *template.Store
	logger    *slog.Logger
}

// NewStage builds the organizer stage handler.
func NewStage(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Stage {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Stage{
		cfg:       cfg,
		store:     store,
		templates: template.NewStore(cfg.Paths.DataDir),
		logger:    logger,
	}
}

// SetLogger installs the stage-scoped logger provided by the manager.
func (s *Stage) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

func (s *Stage) Prepare(_ context.Context, item *queue.Item) error {
	if strings.TrimSpace(item.SourcePath) == "" {
		return services.Wrap(services.ErrValidation, "organize", "prepare",
			"item has no source path", nil)
	}
	if _, err := os.Stat(item.SourcePath); err != nil {
		return services.Wrap(services.ErrValidation, "organize", "prepare",
			fmt.Sprintf("source %s missing", item.SourcePath), err)
	}
	return nil
}

func (s *Stage) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, s.logger)

	category := classify.ParseCategory(item.Category)
	if !category.Known() {
		return services.Wrap(services.ErrUnknownAssetType, "organize", "resolve",
			fmt.Sprintf("item %d has no usable category", item.ID), nil)
	}
	if strings.TrimSpace(item.ProjectRoot) == "" {
		return services.Wrap(services.ErrValidation, "organize", "resolve",
			"item has no target project", nil)
	}

	if suspended, err := s.rootGate(ctx, item, logger); err != nil {
		return err
	} else if suspended {
		return nil
	}

	dest, err := s.resolveDestination(item, category)
	if err != nil {
		return err
	}

	suspended, err := s.conflictGate(item, &dest, logger)
	if err != nil {
		return err
	}
	if suspended {
		return nil
	}
	item.TargetPath = dest

	if err := s.checkFreeSpace(filepath.Dir(dest)); err != nil {
		return err
	}

	fileCount, err := fileutil.CountFiles(item.SourcePath)
	if err != nil || fileCount == 0 {
		fileCount = 1
	}

	if item.ConflictPolicy == queue.ConflictOverwrite {
		if _, statErr := os.Stat(dest); statErr == nil {
			if err := os.RemoveAll(dest); err != nil {
				return services.Wrap(services.ErrTransient, "organize", "move",
					fmt.Sprintf("clear existing %s", dest), err)
			}
		}
	}
	if err := fileutil.MovePath(item.SourcePath, dest); err != nil {
		return services.Wrap(services.ErrTransient, "organize", "move",
			fmt.Sprintf("move to %s", dest), err)
	}

	if err := s.store.Finalize(ctx, item, queue.StatusCompleted, fileCount, ""); err != nil {
		return err
	}
	logger.Info("asset organized",
		logging.String(logging.FieldCategory, item.Category),
		logging.String("target_path", dest),
		logging.Int("file_count", fileCount))
	return nil
}

func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	if _, err := fileutil.FreeSpace(s.cfg.Paths.StagingDir); err != nil {
		return stage.Unhealthy("organize", fmt.Sprintf("staging dir unavailable: %v", err))
	}
	return stage.Healthy("organize")
}

// rootGate suspends the item when its project root is neither
// configured nor previously approved.
func (s *Stage) rootGate(ctx context.Context, item *queue.Item, logger *slog.Logger) (bool, error) {
	if item.RootApproved || s.cfg.IsConfiguredRoot(item.ProjectRoot) {
		return false, nil
	}
	approved, err := s.store.IsRootApproved(ctx, item.ProjectRoot)
	if err != nil {
		return false, err
	}
	if approved {
		return false, nil
	}
	item.Status = queue.StatusAwaitingRoot
	logger.Info("awaiting unknown-root decision",
		logging.String("project_root", item.ProjectRoot))
	return true, nil
}

// resolveDestination runs the path resolver and returns the absolute
// destination path including the asset's base name.
func (s *Stage) resolveDestination(item *queue.Item, category classify.Category) (string, error) {
	var opts []resolver.Option
	if template.Preset(s.cfg.Organizer.Preset) == template.PresetCustom {
		tpl, err := s.templates.Load()
		if err != nil {
			return "", err
		}
		if tpl != nil {
			opts = append(opts, resolver.WithCustomTemplate(tpl))
		}
	}
	res := resolver.New(s.cfg.Matching.MinFuzzyLength, s.logger, opts...)

	subMode := "mood"
	if item.SubCategoryKind == queue.SubKindGenre {
		subMode = "genre"
	}
	target, err := res.ResolveTarget(resolver.Project{
		Name:            item.ProjectName,
		RootPath:        item.ProjectRoot,
		ProjectFilePath: item.ProjectFile,
	}, category, item.SubCategory, subMode, item.OriginSite)
	if err != nil {
		return "", err
	}
	item.TargetFolder = target.FolderName
	return filepath.Join(target.Dir, filepath.Base(item.SourcePath)), nil
}

// conflictGate suspends the item on an unresolved destination
// collision, or applies the already-chosen policy.
func (s *Stage) conflictGate(item *queue.Item, dest *string, logger *slog.Logger) (bool, error) {
	if _, err := os.Stat(*dest); err != nil {
		return false, nil
	}
	switch item.ConflictPolicy {
	case queue.ConflictOverwrite:
		return false, nil
	case queue.ConflictVersion:
		versioned, err := fileutil.VersionedPath(*dest)
		if err != nil {
			// A failed version probe must not fall through to a
			// destructive rename over the existing destination.
			return false, services.Wrap(services.ErrTransient, "organize", "version",
				fmt.Sprintf("pick versioned name for %s", *dest), err)
		}
		*dest = versioned
		return false, nil
	default:
		item.TargetPath = *dest
		item.Status = queue.StatusAwaitingConflict
		logger.Info("awaiting conflict decision",
			logging.String("target_path", *dest))
		return true, nil
	}
}

func (s *Stage) checkFreeSpace(dir string) error {
	minBytes := uint64(s.cfg.Organizer.MinFreeSpaceMB) * 1024 * 1024
	if minBytes == 0 {
		return nil
	}
	free, err := fileutil.FreeSpace(dir)
	if err != nil {
		return nil
	}
	if free < minBytes {
		return services.Wrap(services.ErrTransient, "organize", "preflight",
			fmt.Sprintf("destination has %d MB free, need %d MB", free/1024/1024, s.cfg.Organizer.MinFreeSpaceMB), nil)
	}
	return nil
}
