package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"curator/internal/config"
	"curator/internal/queue"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently finished items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *queue.Store) error {
				records, err := store.History(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No history yet")
					return nil
				}

				rows := make([][]string, 0, len(records))
				for _, rec := range records {
					detail := rec.TargetPath
					if rec.Status != queue.StatusCompleted && rec.Detail != "" {
						detail = rec.Detail
					}
					rows = append(rows, []string{
						strconv.FormatInt(rec.ItemID, 10),
						rec.Category,
						string(rec.Status),
						rec.ProjectName,
						strconv.Itoa(rec.FileCount),
						detail,
						rec.CreatedAt.Local().Format(time.DateTime),
					})
				}
				table := renderTable(
					[]string{"Item", "Category", "Status", "Project", "Files", "Detail", "Finished"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum number of records")
	return cmd
}
