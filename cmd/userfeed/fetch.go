package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/saturnines/userfeed/pkg/core"
	"github.com/saturnines/userfeed/pkg/ui"
)

var (
	fetchPages  int
	fetchLayout string
)

// fetchCmd prints a fixed number of pages and exits
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch pages of profiles and print them",
	Long: `Fetch one or more pages of generated profiles and print them.

Pages are requested one after another and appended, exactly as the
browser does while scrolling. A failed page stops the run; the profiles
already fetched are still printed.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().IntVarP(&fetchPages, "pages", "n", 1, "number of pages to fetch")
	fetchCmd.Flags().StringVarP(&fetchLayout, "layout", "l", "", "list or grid (default from config)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	if fetchPages < 1 {
		return fmt.Errorf("--pages must be at least 1, got %d", fetchPages)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	layoutName := cfg.Display.Layout
	if fetchLayout != "" {
		layoutName = fetchLayout
	}
	layout, err := ui.ParseLayout(layoutName)
	if err != nil {
		return err
	}

	log, closer, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ctrl := core.NewFeed(cfg, log)
	profiles, fetchErr := core.Collect(ctx, ctrl, fetchPages)

	out := cmd.OutOrStdout()
	if layout == ui.LayoutGrid {
		fmt.Fprintln(out, ui.RenderGrid(profiles, cfg.Display.GridColumns, -1))
	} else {
		fmt.Fprint(out, ui.RenderList(profiles, -1))
	}
	fmt.Fprintf(out, "\n%d profiles, next page %d\n", len(profiles), ctrl.Page())

	return fetchErr
}
