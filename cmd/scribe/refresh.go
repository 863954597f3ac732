package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"scribe/internal/palette"
	"scribe/internal/scheduler"
)

var refreshWatch bool

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Recompute the answers of proactive commands",
	Long: `Run one prefetch pass over all proactive commands so the palette
can show their answers instantly. With --watch, keep running and refresh
on the configured schedule until interrupted.`,
	RunE: runRefresh,
}

func init() {
	refreshCmd.Flags().BoolVar(&refreshWatch, "watch", false, "Keep refreshing on the configured schedule")
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	refresher := scheduler.NewRefresher(app.registry, func() []*palette.Command {
		return app.commands
	})

	fresh := refresher.RefreshAll(cmd.Context())
	fmt.Printf("Refreshed %d proactive commands.\n", fresh)

	if !refreshWatch {
		return nil
	}

	spec := app.cfg.Scheduler.Refresh
	if spec == "" {
		spec = "@every 10m"
	}
	if err := refresher.Start(spec); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	defer refresher.Stop()

	// Wait until interrupted.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	return nil
}
