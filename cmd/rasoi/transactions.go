package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rasoi-labs/rasoi/internal/model"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"txn"},
		Short:   "List and record transactions",
	}

	cmd.AddCommand(transactionsListCmd())
	cmd.AddCommand(transactionsAddCmd())

	return cmd
}

func transactionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded transactions",
		RunE: func(c *cobra.Command, _ []string) error {
			a, err := newApp(c.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			transactions := a.store.Transactions()
			if len(transactions) == 0 {
				fmt.Println("No transactions recorded yet.")
				return nil
			}

			for _, txn := range transactions {
				sign := "-"
				if txn.IsIncome() {
					sign = "+"
				}
				fmt.Printf("%s  %s%s  %-12s  %s\n",
					txn.Date, sign, a.formatter.Format(txn.Amount), txn.Category, txn.Description)
			}

			income := model.SumByType(transactions, model.TypeIncome)
			expenses := model.SumByType(transactions, model.TypeExpense)
			fmt.Printf("\nIncome %s  Expenses %s  Balance %s\n",
				a.formatter.Format(income),
				a.formatter.Format(expenses),
				a.formatter.Format(income.Sub(expenses)))
			return nil
		},
	}
}

func transactionsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Long: `Record an income or expense transaction.

Examples:
  rasoi transactions add -d "Monthly groceries" -a 2800 -c Food
  rasoi transactions add -t income -d Salary -a 60000`,
		RunE: func(c *cobra.Command, _ []string) error {
			txType, _ := c.Flags().GetString("type")
			description, _ := c.Flags().GetString("description")
			amountStr, _ := c.Flags().GetString("amount")
			category, _ := c.Flags().GetString("category")

			if description == "" || amountStr == "" {
				return fmt.Errorf("--description and --amount are required")
			}
			amount, err := decimal.NewFromString(amountStr)
			if err != nil || !amount.IsPositive() {
				return fmt.Errorf("amount must be a positive number, got %q", amountStr)
			}

			kind := model.TypeExpense
			if txType == "income" {
				kind = model.TypeIncome
				category = "Income"
			}

			a, err := newApp(c.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			txn := a.store.AddTransaction(c.Context(), model.Transaction{
				Type:        kind,
				Description: description,
				Amount:      amount,
				Category:    category,
			})
			fmt.Printf("Recorded %s of %s (%s)\n", txn.Type, a.formatter.Format(txn.Amount), txn.ID)
			return nil
		},
	}

	cmd.Flags().StringP("type", "t", "expense", "transaction type (income, expense)")
	cmd.Flags().StringP("description", "d", "", "what the money was for")
	cmd.Flags().StringP("amount", "a", "", "amount in rupees")
	cmd.Flags().StringP("category", "c", "Other", "expense category")
	return cmd
}
