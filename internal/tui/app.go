// Package tui is the interactive client: a login view, the task list, and
// the assistant chat panel, all driven by one session manager and one
// request pipeline.
package tui

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"todo-cli/internal/api"
	"todo-cli/internal/config"
	"todo-cli/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the TUI and blocks until the user quits.
func Run(cfg *config.Config, sess *session.Manager, client *api.Client) error {
	if cfg.Debug {
		// A fullscreen program owns stdout; diagnostics go to a file.
		f, err := tea.LogToFile(filepath.Join(os.TempDir(), "todo-tui.log"), "tui")
		if err == nil {
			defer f.Close()
		}
	} else {
		// Stray log writes would be drawn over the alt screen.
		log.SetOutput(io.Discard)
	}

	m := newAppModel(cfg, sess, client)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
