package resolver

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"curator/internal/classify"
	"curator/internal/logging"
	"curator/internal/services"
	"curator/internal/template"
	"curator/internal/textutil"
)

// Project identifies the target production project for one asset.
type Project struct {
	Name            string
	RootPath        string
	ProjectFilePath string
}

// Target is a resolved destination: the category folder's display name
// plus the absolute directory the asset should land in.
type Target struct {
	FolderName string
	Dir        string
}

// Resolver applies the category routing policy inside a project tree.
// When a custom template is active its mapping bypasses the policy.
type Resolver struct {
	matcher  *Matcher
	template *template.CustomTemplate
	logger   *slog.Logger
}

// Option adjusts resolver construction.
type Option func(*Resolver)

// WithCustomTemplate activates a stored template's category mapping.
func WithCustomTemplate(tpl *template.CustomTemplate) Option {
	return func(r *Resolver) { r.template = tpl }
}

// New builds a resolver with the given fuzzy-length floor.
func New(minFuzzy int, logger *slog.Logger, opts ...Option) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Resolver{matcher: NewMatcher(minFuzzy), logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveTarget computes (and creates, if needed) the destination
// directory for a classified asset inside the project's tree.
func (r *Resolver) ResolveTarget(project Project, category classify.Category, sub string, subMode string, originHint string) (Target, error) {
	if !category.Known() {
		return Target{}, services.ErrUnknownAssetType
	}
	if info, err := os.Stat(project.RootPath); err != nil || !info.IsDir() {
		return Target{}, services.Wrap(services.ErrInvalidTargetDirectory, "resolve", "project-root",
			fmt.Sprintf("project root %s is not a directory", project.RootPath), err)
	}

	if r.template != nil {
		if target, ok, err := r.resolveFromTemplate(project, category, sub); err != nil {
			return Target{}, err
		} else if ok {
			return target, nil
		}
	}

	projectFile := project.ProjectFilePath
	if strings.TrimSpace(projectFile) == "" {
		projectFile = filepath.Join(project.RootPath, project.Name)
	}
	main := r.matcher.FindMainFolder(projectFile, project.RootPath)

	var target Target
	var err error
	switch category {
	case classify.CategoryMusic:
		target, err = r.musicTarget(main, sub, subMode)
	case classify.CategoryVoiceOver:
		target, err = r.voiceOverTarget(main)
	case classify.CategorySFX:
		target, err = r.sfxTarget(main, sub)
	case classify.CategoryMotionGraphic, classify.CategoryGraphic:
		target, err = r.graphicsTarget(main)
	case classify.CategoryStockFootage:
		target, err = r.footageTarget(main, originHint)
	default:
		return Target{}, services.ErrUnknownAssetType
	}
	if err != nil {
		return Target{}, err
	}

	r.logger.Debug("destination resolved",
		logging.String(logging.FieldCategory, string(category)),
		logging.String("main_folder", main),
		logging.String("target_dir", target.Dir))
	return target, nil
}

func (r *Resolver) musicTarget(main, sub, subMode string) (Target, error) {
	audio, err := r.findOrCreate(main, audioVariants)
	if err != nil {
		return Target{}, err
	}
	dir := audio
	if sub = textutil.SanitizeFolderName(sub); sub != "" {
		modeFolder := "Mood"
		if strings.EqualFold(subMode, "genre") {
			modeFolder = "Genre"
		}
		dir = filepath.Join(audio, modeFolder, sub)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Target{}, wrapCreate(dir, err)
		}
	}
	return Target{FolderName: filepath.Base(audio), Dir: dir}, nil
}

func (r *Resolver) voiceOverTarget(main string) (Target, error) {
	audio, err := r.findOrCreate(main, audioVariants)
	if err != nil {
		return Target{}, err
	}
	dir := filepath.Join(audio, voiceOverFolder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Target{}, wrapCreate(dir, err)
	}
	return Target{FolderName: filepath.Base(audio), Dir: dir}, nil
}

// SFX lands in the main folder directly, never under Audio.
func (r *Resolver) sfxTarget(main, sub string) (Target, error) {
	sfx, err := r.findOrCreate(main, sfxVariants)
	if err != nil {
		return Target{}, err
	}
	dir := sfx
	if sub = textutil.SanitizeFolderName(sub); sub != "" {
		dir = filepath.Join(sfx, sub)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Target{}, wrapCreate(dir, err)
		}
	}
	return Target{FolderName: filepath.Base(sfx), Dir: dir}, nil
}

func (r *Resolver) graphicsTarget(main string) (Target, error) {
	visuals, err := r.findOrCreate(main, visualsVariants)
	if err != nil {
		return Target{}, err
	}
	dir := filepath.Join(visuals, graphicsFolder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Target{}, wrapCreate(dir, err)
	}
	return Target{FolderName: filepath.Base(visuals), Dir: dir}, nil
}

func (r *Resolver) footageTarget(main, originHint string) (Target, error) {
	visuals, err := r.findOrCreate(main, visualsVariants)
	if err != nil {
		return Target{}, err
	}
	subfolder := stockFootageFolder
	if strings.EqualFold(strings.TrimSpace(originHint), downloaderOrigin) {
		subfolder = downloaderFolder
	}
	dir := filepath.Join(visuals, subfolder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Target{}, wrapCreate(dir, err)
	}
	return Target{FolderName: filepath.Base(visuals), Dir: dir}, nil
}

// findOrCreate locates an existing child matching the variants or
// creates one named after the first variant.
func (r *Resolver) findOrCreate(parent string, variants []string) (string, error) {
	if name, ok := r.matcher.FindChild(parent, variants); ok {
		return filepath.Join(parent, name), nil
	}
	dir := filepath.Join(parent, variants[0])
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", wrapCreate(dir, err)
	}
	return dir, nil
}

// resolveFromTemplate re-bases the template's category path onto the
// current project root. A category without a mapping falls back to the
// routing policy.
func (r *Resolver) resolveFromTemplate(project Project, category classify.Category, sub string) (Target, bool, error) {
	rel := r.template.Mapping.PathFor(category)
	if rel == "" {
		return Target{}, false, nil
	}
	dir := filepath.Join(project.RootPath, filepath.FromSlash(rel))
	if sub = textutil.SanitizeFolderName(sub); sub != "" {
		dir = filepath.Join(dir, sub)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Target{}, false, wrapCreate(dir, err)
	}
	return Target{FolderName: filepath.Base(dir), Dir: dir}, true, nil
}

func wrapCreate(dir string, err error) error {
	return services.Wrap(services.ErrInvalidTargetDirectory, "resolve", "create-folder",
		fmt.Sprintf("create %s", dir), err)
}
