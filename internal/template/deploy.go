package template

import (
	"fmt"
	"os"
	"path/filepath"

	"curator/internal/services"
)

// Preset selects which folder structure new projects receive.
type Preset string

const (
	PresetStandard Preset = "standard"
	PresetFlat     Preset = "flat"
	PresetCustom   Preset = "custom"
)

// standardSkeleton is the fixed folder layout of the standard preset.
var standardSkeleton = []string{
	"01_Project",
	"02_Footage",
	"03_Audio",
	"03_Audio/Music",
	"03_Audio/SFX",
	"03_Audio/VO",
	"04_Graphics",
	"05_Render",
}

// Deploy creates the preset's folder structure beneath target and
// returns how many directories were newly created. Existing folders
// are skipped, so deployment is idempotent.
func Deploy(target string, preset Preset, custom *CustomTemplate) (int, error) {
	info, err := os.Stat(target)
	if err != nil || !info.IsDir() {
		return 0, services.Wrap(services.ErrInvalidTargetDirectory, "template", "deploy",
			fmt.Sprintf("%s is not a directory", target), err)
	}

	switch preset {
	case PresetFlat:
		return 0, nil
	case PresetStandard:
		return deployPaths(target, standardSkeleton)
	case PresetCustom:
		if custom == nil {
			return 0, services.Wrap(services.ErrConfiguration, "template", "deploy",
				"custom preset selected but no template stored", nil)
		}
		return deployNodes(target, custom.Tree.Children)
	default:
		return 0, services.Wrap(services.ErrConfiguration, "template", "deploy",
			fmt.Sprintf("unknown preset %q", preset), nil)
	}
}

func deployPaths(target string, relPaths []string) (int, error) {
	created := 0
	for _, rel := range relPaths {
		dir := filepath.Join(target, filepath.FromSlash(rel))
		if _, err := os.Stat(dir); err == nil {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return created, services.Wrap(services.ErrInvalidTargetDirectory, "template", "deploy",
				fmt.Sprintf("create %s", dir), err)
		}
		created++
	}
	return created, nil
}

// deployNodes replicates a stored tree's children (not its root)
// beneath target.
func deployNodes(target string, nodes []FolderNode) (int, error) {
	created := 0
	for i := range nodes {
		node := &nodes[i]
		dir := filepath.Join(target, node.Name)
		if _, err := os.Stat(dir); err != nil {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return created, services.Wrap(services.ErrInvalidTargetDirectory, "template", "deploy",
					fmt.Sprintf("create %s", dir), err)
			}
			created++
		}
		childCreated, err := deployNodes(dir, node.Children)
		created += childCreated
		if err != nil {
			return created, err
		}
	}
	return created, nil
}
