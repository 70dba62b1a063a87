package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rasoi-labs/rasoi/internal/ai"
	"github.com/rasoi-labs/rasoi/internal/tui/components"
)

func plansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "List and manage saved grocery plans",
	}

	cmd.AddCommand(plansListCmd())
	cmd.AddCommand(plansShowCmd())
	cmd.AddCommand(plansDeleteCmd())

	return cmd
}

func plansListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved plans",
		RunE: func(c *cobra.Command, _ []string) error {
			a, err := newApp(c.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			plans := a.store.Plans()
			if len(plans) == 0 {
				fmt.Println("No saved plans. Generate one with 'rasoi ask plan' or in the app.")
				return nil
			}
			for _, plan := range plans {
				fmt.Printf("%s  %s  %s  (%d items)  id=%s\n",
					plan.Date, plan.Title,
					a.formatter.Format(plan.EstimatedTotal),
					len(plan.Items), plan.ID)
			}
			return nil
		},
	}
}

func plansShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Print a saved plan with its price comparisons",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			a, err := newApp(c.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			for _, plan := range a.store.Plans() {
				if plan.ID != args[0] {
					continue
				}
				list := plan.List()
				view := components.NewResult(a.theme, a.formatter)
				view.SetWidth(100)
				view.SetResult(&ai.Result{Grocery: &list})
				fmt.Println(view.View())
				return nil
			}
			return fmt.Errorf("no plan with id %s", args[0])
		},
	}
}

func plansDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a saved plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			a, err := newApp(c.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.store.DeletePlan(c.Context(), args[0]) {
				return fmt.Errorf("no plan with id %s", args[0])
			}
			fmt.Println("Plan deleted.")
			return nil
		},
	}
}
