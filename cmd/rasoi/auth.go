package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rasoi-labs/rasoi/internal/common"
)

func authCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the sync account",
		Long: `Sign in, sign up, or sign out of the sync account.

Signing in enables cross-device sync: transactions, saved plans, and the
household profile are mirrored to the remote store. Everything keeps
working locally without an account.`,
	}

	cmd.AddCommand(authLoginCmd())
	cmd.AddCommand(authSignupCmd())
	cmd.AddCommand(authOAuthCmd())
	cmd.AddCommand(authLogoutCmd())
	cmd.AddCommand(authStatusCmd())

	return cmd
}

func authLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: func(c *cobra.Command, _ []string) error {
			email, _ := c.Flags().GetString("email")
			password, _ := c.Flags().GetString("password")
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password are required")
			}

			a, err := newApp(c.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			sess, err := a.auth.SignInWithPassword(c.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Printf("Signed in as %s\n", sess.Email)
			return nil
		},
	}
	cmd.Flags().StringP("email", "e", "", "account email")
	cmd.Flags().StringP("password", "p", "", "account password")
	return cmd
}

func authSignupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a sync account",
		RunE: func(c *cobra.Command, _ []string) error {
			email, _ := c.Flags().GetString("email")
			password, _ := c.Flags().GetString("password")
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password are required")
			}

			a, err := newApp(c.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			sess, err := a.auth.SignUp(c.Context(), email, password)
			if errors.Is(err, common.ErrConfirmEmail) {
				fmt.Println("Account created. Check your email to confirm, then run 'rasoi auth login'.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Printf("Signed up and signed in as %s\n", sess.Email)
			return nil
		},
	}
	cmd.Flags().StringP("email", "e", "", "account email")
	cmd.Flags().StringP("password", "p", "", "account password")
	return cmd
}

func authOAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "oauth [provider]",
		Short: "Sign in via an OAuth provider (e.g. google)",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			a, err := newApp(c.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			sess, err := a.auth.SignInWithOAuth(c.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Signed in as %s\n", sess.Email)
			return nil
		},
	}
}

func authLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear cached local data",
		RunE: func(c *cobra.Command, _ []string) error {
			a, err := newApp(c.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.auth.SignOut(c.Context()); err != nil {
				return err
			}
			a.store.Reset(c.Context())
			fmt.Println("Signed out. Remote data is untouched; local cache cleared.")
			return nil
		},
	}
}

func authStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current sign-in state",
		RunE: func(c *cobra.Command, _ []string) error {
			a, err := newApp(c.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			sess, ok := a.auth.GetSession()
			if !ok {
				fmt.Println("Not signed in.")
				return nil
			}

			account, err := a.auth.GetUser(c.Context())
			if err != nil {
				fmt.Printf("Signed in as %s (cached session, provider unreachable)\n", sess.Email)
				return nil
			}
			if account.Name != "" {
				fmt.Printf("Signed in as %s <%s>\n", account.Name, account.Email)
			} else {
				fmt.Printf("Signed in as %s\n", account.Email)
			}
			return nil
		},
	}
}
