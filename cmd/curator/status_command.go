package main

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"curator/internal/config"
	"curator/internal/queue"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and queue status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				out := cmd.OutOrStdout()

				fmt.Fprintf(out, "Daemon running: %s\n", yesNo(daemonRunning(cfg)))
				fmt.Fprintf(out, "Queue database: %s\n", store.Path())

				health, err := store.Health(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Items: %d total, %d queued, %d processing, %d waiting on a decision\n",
					health.Total, health.Queued, health.Processing, health.Waiting)
				fmt.Fprintf(out, "Finished: %d completed, %d failed, %d skipped\n",
					health.Completed, health.Failed, health.Skipped)
				return nil
			})
		},
	}
}

// daemonRunning probes the daemon's instance lock without holding it.
func daemonRunning(cfg *config.Config) bool {
	lock := flock.New(filepath.Join(cfg.Paths.DataDir, "curatord.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return false
	}
	if ok {
		_ = lock.Unlock()
		return false
	}
	return true
}
