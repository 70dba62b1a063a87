package main

import (
	"github.com/spf13/cobra"

	"github.com/rasoi-labs/rasoi/internal/tui"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Open the interactive app (same as running rasoi with no arguments)",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
}

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	planner, err := newPlanner()
	if err != nil {
		return err
	}

	return tui.Run(ctx, tui.Config{
		Store:     a.store,
		Session:   a.session,
		Auth:      a.auth,
		Planner:   planner,
		Formatter: a.formatter,
		Theme:     a.theme,
	})
}
