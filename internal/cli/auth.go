package cli

import (
	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.bootstrap(); err != nil {
				return writeErr(err)
			}
			if err := app.session.Login(cmd.Context(), email, password); err != nil {
				return writeErr(err)
			}
			return writeOut(cmd, app, app.session.User())
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	return cmd
}

func newRegisterCmd(app *App) *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account (logs in on success)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.bootstrap(); err != nil {
				return writeErr(err)
			}
			if err := app.session.Register(cmd.Context(), email, password); err != nil {
				return writeErr(err)
			}
			return writeOut(cmd, app, app.session.User())
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.bootstrap(); err != nil {
				return writeErr(err)
			}
			// Purely local: drop memory + state file. Idempotent.
			app.session.Logout()
			return writeOut(cmd, app, map[string]string{"status": "logged out"})
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(cmd); err != nil {
				return writeErr(err)
			}
			return writeOut(cmd, app, app.session.User())
		},
	}
}
