package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"curator/internal/classify"
	"curator/internal/config"
	"curator/internal/queue"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	resolveCmd := &cobra.Command{
		Use:   "resolve",
		Short: "Answer pending queue decisions",
	}

	resolveCmd.AddCommand(newResolveRootCommand(ctx))
	resolveCmd.AddCommand(newResolveConflictCommand(ctx))
	resolveCmd.AddCommand(newResolveCategoryCommand(ctx))

	return resolveCmd
}

func parseItemID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid item id %q", arg)
	}
	return id, nil
}

func newResolveRootCommand(ctx *commandContext) *cobra.Command {
	var approve bool
	var remember bool
	var skip bool

	cmd := &cobra.Command{
		Use:   "root <itemID>",
		Short: "Decide an unknown project root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}

			var decision queue.RootDecision
			switch {
			case skip:
				decision = queue.RootCancel
			case remember:
				decision = queue.RootApproveRemember
			case approve:
				decision = queue.RootApproveOnce
			default:
				return errors.New("specify one of --approve, --remember, or --skip")
			}

			return ctx.withStore(func(_ *config.Config, store *queue.Store) error {
				if err := store.ResolveRoot(cmd.Context(), id, decision); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Item %d: root decision %s applied\n", id, decision)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&approve, "approve", false, "Proceed with this root once")
	cmd.Flags().BoolVar(&remember, "remember", false, "Proceed and remember the root for future items")
	cmd.Flags().BoolVar(&skip, "skip", false, "Skip the item")
	return cmd
}

func newResolveConflictCommand(ctx *commandContext) *cobra.Command {
	var overwrite bool
	var version bool
	var skip bool

	cmd := &cobra.Command{
		Use:   "conflict <itemID>",
		Short: "Decide a destination conflict",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}

			var decision queue.ConflictDecision
			switch {
			case overwrite:
				decision = queue.ConflictDecideOverwrite
			case version:
				decision = queue.ConflictDecideVersion
			case skip:
				decision = queue.ConflictDecideSkip
			default:
				return errors.New("specify one of --overwrite, --version, or --skip")
			}

			return ctx.withStore(func(_ *config.Config, store *queue.Store) error {
				if err := store.ResolveConflict(cmd.Context(), id, decision); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Item %d: conflict decision %s applied\n", id, decision)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace the existing file")
	cmd.Flags().BoolVar(&version, "version", false, "Keep both by appending a version suffix")
	cmd.Flags().BoolVar(&skip, "skip", false, "Skip the item")
	return cmd
}

func newResolveCategoryCommand(ctx *commandContext) *cobra.Command {
	var subCategory string
	var skip bool

	cmd := &cobra.Command{
		Use:   "category <itemID> [category]",
		Short: "Pick a category for an unclassified item",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}

			if skip {
				return ctx.withStore(func(_ *config.Config, store *queue.Store) error {
					if err := store.ResolveCategory(cmd.Context(), id, "", "", queue.SubKindNone); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Item %d skipped\n", id)
					return nil
				})
			}

			if len(args) < 2 {
				return fmt.Errorf("category required; one of %s", strings.Join(categoryNames(), ", "))
			}
			category := classify.ParseCategory(args[1])
			if !category.Known() {
				return fmt.Errorf("unknown category %q; expected one of %s", args[1], strings.Join(categoryNames(), ", "))
			}

			sub := strings.TrimSpace(subCategory)
			kind := queue.SubKindNone
			if sub != "" {
				switch category {
				case classify.CategorySFX:
					kind = queue.SubKindSFX
				case classify.CategoryMusic:
					kind = queue.SubKindMood
				default:
					return fmt.Errorf("--sub is only valid for music and sfx")
				}
			}

			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				if kind == queue.SubKindMood && strings.EqualFold(cfg.Organizer.MusicSubfolderBy, "genre") {
					kind = queue.SubKindGenre
				}
				if err := store.ResolveCategory(cmd.Context(), id, category.String(), sub, kind); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Item %d classified as %s\n", id, category.Label())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&subCategory, "sub", "", "Sub-category folder (mood, genre, or SFX group)")
	cmd.Flags().BoolVar(&skip, "skip", false, "Skip the item instead of classifying it")
	return cmd
}

func categoryNames() []string {
	categories := classify.Categories()
	names := make([]string, 0, len(categories))
	for _, category := range categories {
		names = append(names, category.String())
	}
	return names
}
