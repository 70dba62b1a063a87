package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rasoi-labs/rasoi/internal/ai"
	"github.com/rasoi-labs/rasoi/internal/tui/components"
)

func askCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [question...]",
		Short: "One-shot AI query without the interactive app",
		Long: `Ask the grocery assistant a single question and print the answer.

Examples:
  rasoi ask "cheapest place to buy 5kg basmati rice online"
  rasoi ask "weekly vegetarian plan for a family of 4 under 2500"
  rasoi ask plan   # generate a plan from your saved household profile`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runAsk(c, strings.Join(args, " "))
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "plan",
		Short: "Generate a grocery plan from your household profile",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runAsk(c, "")
		},
	})

	return cmd
}

func runAsk(c *cobra.Command, query string) error {
	a, err := newApp(c.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	planner, err := newPlanner()
	if err != nil {
		return err
	}

	var result ai.Result
	if query == "" {
		result, err = planner.PlanGroceries(c.Context(), a.store.Profile())
	} else {
		result, err = planner.Ask(c.Context(), query)
	}
	if err != nil {
		return err
	}

	view := components.NewResult(a.theme, a.formatter)
	view.SetWidth(100)
	view.SetResult(&result)
	fmt.Println(view.View())
	return nil
}
