package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"curator/internal/config"
	"curator/internal/queue"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var projectRoot string
	var projectFile string
	var originSite string
	var metadataFile string

	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Queue a downloaded asset for classification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			info, err := os.Stat(source)
			if err != nil {
				return fmt.Errorf("inspect source %q: %w", args[0], err)
			}

			root := strings.TrimSpace(projectRoot)
			if root == "" {
				return fmt.Errorf("--project is required")
			}
			root, err = config.ExpandPath(root)
			if err != nil {
				return err
			}

			var childFiles []string
			if info.IsDir() {
				childFiles, err = collectChildFiles(source)
				if err != nil {
					return err
				}
			}

			var metadataJSON string
			if metadataFile != "" {
				raw, err := os.ReadFile(metadataFile)
				if err != nil {
					return fmt.Errorf("read metadata file: %w", err)
				}
				metadataJSON = string(raw)
			}

			file := strings.TrimSpace(projectFile)
			if file != "" {
				if file, err = config.ExpandPath(file); err != nil {
					return err
				}
			}

			return ctx.withStore(func(_ *config.Config, store *queue.Store) error {
				item, err := store.NewItem(cmd.Context(), queue.NewItemRequest{
					SourcePath:   source,
					ChildFiles:   childFiles,
					OriginSite:   strings.ToLower(strings.TrimSpace(originSite)),
					MetadataJSON: metadataJSON,
					ProjectName:  filepath.Base(root),
					ProjectRoot:  root,
					ProjectFile:  file,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Queued item %d (%s)\n", item.ID, item.DisplayName())
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&projectRoot, "project", "p", "", "Project root directory the asset belongs to")
	cmd.Flags().StringVar(&projectFile, "project-file", "", "Editing project file used for main-folder detection")
	cmd.Flags().StringVar(&originSite, "origin", "", "Provider site the asset was downloaded from")
	cmd.Flags().StringVar(&metadataFile, "metadata", "", "JSON file with origin metadata (title, artist, tags)")
	return cmd
}

func collectChildFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
