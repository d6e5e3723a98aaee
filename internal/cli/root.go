package cli

import (
	"errors"
	"fmt"
	"strings"

	"todo-cli/internal/api"
	"todo-cli/internal/config"
	"todo-cli/internal/format"
	"todo-cli/internal/session"
	"todo-cli/internal/tui"

	"github.com/spf13/cobra"
)

// App is the explicit application context: configuration, the one session
// manager, and the request pipeline built on top of it. It is created per
// invocation and threaded through every command; nothing here is a global.
type App struct {
	APIBaseURL string
	ConfigDir  string
	PrettyJSON bool

	cfg     *config.Config
	session *session.Manager
	client  *api.Client
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "todo",
		Short:        "To-do list client (CLI + TUI) with an assistant chat",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  todo

  # Scriptable commands
  todo login --email you@example.com --password secret
  todo tasks list --status pending
  todo tasks add "Buy milk"
  todo chat "add a task to call mom tomorrow"
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.APIBaseURL, "api", "", "Backend base URL (overrides TODO_API_URL)")
	cmd.PersistentFlags().StringVar(&app.ConfigDir, "config-dir", "", "Session state dir (overrides TODO_CONFIG_DIR; default ~/.todo)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newRegisterCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newChatCmd(app))

	return cmd
}

// bootstrap resolves config and wires session manager + pipeline. It does
// not touch the network; rehydration is a separate, explicit step.
func (app *App) bootstrap() error {
	if app.client != nil {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if v := strings.TrimSpace(app.APIBaseURL); v != "" {
		cfg.APIBaseURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(app.ConfigDir); v != "" {
		cfg.ConfigDir = v
	}
	dir, err := cfg.Dir()
	if err != nil {
		return err
	}

	mgr := session.NewManager(session.Store{Dir: dir})
	client := api.New(cfg.APIBaseURL, mgr)
	client.OnUnauthorized(mgr.Invalidate)
	mgr.AttachAPI(client)

	app.cfg = cfg
	app.session = mgr
	app.client = client
	return nil
}

// requireAuth rehydrates the persisted session and verifies it against the
// backend. Commands that hit authenticated endpoints call this first.
func (app *App) requireAuth(cmd *cobra.Command) error {
	if err := app.bootstrap(); err != nil {
		return err
	}
	app.session.Initialize(cmd.Context())
	if app.session.Status() != session.Authenticated {
		return errors.New("not logged in; run `todo login`")
	}
	return nil
}

func runTUI(app *App) error {
	if err := app.bootstrap(); err != nil {
		return err
	}
	return tui.Run(app.cfg, app.session, app.client)
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.PrettyJSON)
}

// writeErr translates pipeline errors into actionable messages; cobra prints
// the returned error.
func writeErr(err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		return errors.New("session expired or rejected; it has been cleared, run `todo login` again")
	}
	var ne *api.NetworkError
	if errors.As(err, &ne) {
		return fmt.Errorf("%s (is the backend running and TODO_API_URL correct?)", ne.Error())
	}
	return err
}
