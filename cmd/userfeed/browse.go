package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/saturnines/userfeed/pkg/core"
	"github.com/saturnines/userfeed/pkg/pagination"
	"github.com/saturnines/userfeed/pkg/ui"
)

// browseCmd runs the interactive browser
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Scroll through profiles interactively",
	Long: `Open a full-screen profile browser.

The next page loads when the selection reaches the last profile.
Keys: up/down (j/k) move, g toggles list/grid, r reloads, enter shows
details, q quits.`,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	layout, err := ui.ParseLayout(cfg.Display.Layout)
	if err != nil {
		return err
	}

	log, closer, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()
	// the terminal belongs to the UI; only file logging stays on
	if cfg.Logger.OutputTarget != "file" {
		log = zerolog.Nop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctrl := core.NewFeed(cfg, log)
	program := tea.NewProgram(
		ui.NewModel(ctx, ctrl, layout, cfg.Display.GridColumns),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	unsubscribe := ctrl.Subscribe(func(s pagination.State) {
		program.Send(ui.StateMsg(s))
	})
	defer unsubscribe()

	_, err = program.Run()
	return err
}
