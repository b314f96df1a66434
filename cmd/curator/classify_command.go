package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"curator/internal/classify"
	"curator/internal/logging"
	"curator/internal/services/modeld"
	"curator/internal/workflow"
)

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	var originURL string
	var metadataFile string
	var full bool

	cmd := &cobra.Command{
		Use:   "classify <file>",
		Short: "Classify a file without queueing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			req := classify.Request{
				Filename:  filepath.Base(args[0]),
				OriginURL: originURL,
			}
			if metadataFile != "" {
				raw, err := os.ReadFile(metadataFile)
				if err != nil {
					return fmt.Errorf("read metadata file: %w", err)
				}
				var meta modeld.Metadata
				if err := json.Unmarshal(raw, &meta); err != nil {
					return fmt.Errorf("parse metadata: %w", err)
				}
				req.Metadata = &meta
				if req.OriginURL == "" {
					req.OriginURL = meta.OriginURL
				}
			}

			chain := workflow.BuildChain(cfg, logging.NewNop())
			var result classify.Result
			if full {
				result = chain.ClassifyFull(cmd.Context(), req)
			} else {
				result = chain.Classify(cmd.Context(), req)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Category: %s\n", result.Category.Label())
			if sub := result.SubCategory(); sub != "" {
				fmt.Fprintf(out, "Sub-category: %s\n", sub)
			}
			if result.OriginSite != "" {
				fmt.Fprintf(out, "Origin: %s\n", result.OriginSite)
			}
			fmt.Fprintf(out, "Decided by: %s (%s)\n", result.Source, result.Latency.Round(time.Millisecond))
			if result.Declined() {
				fmt.Fprintln(out, "No strategy produced a confident category; the item would wait for a manual decision")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&originURL, "origin-url", "", "Download page URL for web enrichment")
	cmd.Flags().StringVar(&metadataFile, "metadata", "", "JSON file with origin metadata (title, artist, tags)")
	cmd.Flags().BoolVar(&full, "full", false, "Run every strategy even after an early verdict")
	return cmd
}
