package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"curator/internal/classify"
	"curator/internal/config"
	"curator/internal/services/mapper"
	"curator/internal/template"
)

func newTemplateCommand(ctx *commandContext) *cobra.Command {
	templateCmd := &cobra.Command{
		Use:   "template",
		Short: "Manage folder templates",
	}

	templateCmd.AddCommand(newTemplateScanCommand(ctx))
	templateCmd.AddCommand(newTemplateShowCommand(ctx))
	templateCmd.AddCommand(newTemplateAnalyzeCommand(ctx))
	templateCmd.AddCommand(newTemplateDeployCommand(ctx))
	templateCmd.AddCommand(newTemplateRemoveCommand(ctx))

	return templateCmd
}

func templateStore(ctx *commandContext) (*config.Config, *template.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	return cfg, template.NewStore(cfg.Paths.DataDir), nil
}

func newTemplateScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <directory>",
		Short: "Capture a folder tree as the custom template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := templateStore(ctx)
			if err != nil {
				return err
			}

			source, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			tree, err := template.Scan(source)
			if err != nil {
				return err
			}

			existing, err := store.Load()
			if err != nil {
				return err
			}
			tpl := &template.CustomTemplate{SourcePath: source, Tree: *tree}
			if existing != nil {
				// A rescan keeps the previous category mapping until the
				// next analyze run replaces it.
				tpl.Mapping = existing.Mapping
				tpl.CreatedAt = existing.CreatedAt
			}
			if err := store.Save(tpl); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Captured %d folders from %s\n", tree.Count(), source)
			if tpl.Mapping.Paths == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Run `curator template analyze` to map categories onto the tree")
			}
			return nil
		},
	}
}

func newTemplateShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored custom template",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := templateStore(ctx)
			if err != nil {
				return err
			}
			tpl, err := store.Load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if tpl == nil {
				fmt.Fprintln(out, "No custom template stored")
				return nil
			}

			fmt.Fprintf(out, "Source: %s\n", tpl.SourcePath)
			fmt.Fprintf(out, "Folders: %d\n", tpl.Tree.Count())
			fmt.Fprintf(out, "Captured: %s\n", tpl.CreatedAt.Local().Format(time.DateTime))
			if len(tpl.Mapping.Paths) == 0 {
				fmt.Fprintln(out, "No category mapping yet")
				return nil
			}

			rows := make([][]string, 0, len(tpl.Mapping.Paths))
			for _, category := range mappingCategories(tpl.Mapping) {
				rows = append(rows, []string{category.Label(), tpl.Mapping.Paths[category]})
			}
			fmt.Fprintln(out, renderTable([]string{"Category", "Folder"}, rows, []columnAlignment{alignLeft, alignLeft}))
			if tpl.Mapping.Rationale != "" {
				fmt.Fprintf(out, "Rationale: %s\n", tpl.Mapping.Rationale)
			}
			return nil
		},
	}
}

func newTemplateAnalyzeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Map categories onto the stored template via the analysis service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := templateStore(ctx)
			if err != nil {
				return err
			}
			tpl, err := store.Load()
			if err != nil {
				return err
			}
			if tpl == nil {
				return fmt.Errorf("no custom template stored; run `curator template scan` first")
			}

			client := mapper.New(mapper.Config{
				BaseURL: cfg.Mapper.BaseURL,
				Timeout: time.Duration(cfg.Mapper.TimeoutSeconds) * time.Second,
			})
			mapping, err := template.Analyze(cmd.Context(), client, &tpl.Tree, deviceID())
			if err != nil {
				return err
			}

			tpl.Mapping = mapping
			if err := store.Save(tpl); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Mapped %d categories\n", len(mapping.Paths))
			return nil
		},
	}
}

func newTemplateDeployCommand(ctx *commandContext) *cobra.Command {
	var presetFlag string

	cmd := &cobra.Command{
		Use:   "deploy <directory>",
		Short: "Create the folder structure inside a project directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := templateStore(ctx)
			if err != nil {
				return err
			}

			target, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			preset := template.Preset(presetFlag)
			if presetFlag == "" {
				preset = template.Preset(cfg.Organizer.Preset)
			}

			var custom *template.CustomTemplate
			if preset == template.PresetCustom {
				if custom, err = store.Load(); err != nil {
					return err
				}
			}

			created, err := template.Deploy(target, preset, custom)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d folders in %s\n", created, target)
			return nil
		},
	}

	cmd.Flags().StringVar(&presetFlag, "preset", "", "Folder preset (standard, flat, custom); defaults to the configured preset")
	return cmd
}

func newTemplateRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Delete the stored custom template",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := templateStore(ctx)
			if err != nil {
				return err
			}
			if err := store.Remove(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Custom template removed")
			return nil
		},
	}
}

// mappingCategories returns the mapped categories in canonical order.
func mappingCategories(mapping template.CategoryMapping) []classify.Category {
	var ordered []classify.Category
	for _, category := range classify.Categories() {
		if _, ok := mapping.Paths[category]; ok {
			ordered = append(ordered, category)
		}
	}
	return ordered
}

func deviceID() string {
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return uuid.NewString()
}
