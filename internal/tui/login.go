package tui

import (
	"errors"
	"strings"

	"todo-cli/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

// loginFields is 2 for sign-in, 3 when registering (confirm password).
func (m *appModel) loginFields() int {
	if m.registerMode {
		return 3
	}
	return 2
}

func (m *appModel) focusLogin(i int) {
	m.loginFocus = i
	m.emailInput.Blur()
	m.passInput.Blur()
	m.confirmInput.Blur()
	switch i {
	case 0:
		m.emailInput.Focus()
	case 1:
		m.passInput.Focus()
	default:
		m.confirmInput.Focus()
	}
}

func (m appModel) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, tea.Quit
		case "tab":
			m.focusLogin((m.loginFocus + 1) % m.loginFields())
			return m, nil
		case "shift+tab":
			m.focusLogin((m.loginFocus + m.loginFields() - 1) % m.loginFields())
			return m, nil
		case "ctrl+r":
			m.registerMode = !m.registerMode
			m.authErr = ""
			m.confirmInput.SetValue("")
			if m.loginFocus >= m.loginFields() {
				m.focusLogin(0)
			}
			return m, nil
		case "enter":
			if m.busy {
				return m, nil
			}
			if m.registerMode && m.confirmInput.Value() != m.passInput.Value() {
				m.authErr = "passwords do not match"
				m.focusLogin(2)
				return m, nil
			}
			m.busy = true
			m.authErr = ""
			m.notice = ""
			email := strings.TrimSpace(m.emailInput.Value())
			return m, tea.Batch(m.submitAuth(email, m.passInput.Value(), m.registerMode), m.spin.Tick)
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.emailInput, cmd = m.emailInput.Update(msg)
	cmds = append(cmds, cmd)
	m.passInput, cmd = m.passInput.Update(msg)
	cmds = append(cmds, cmd)
	m.confirmInput, cmd = m.confirmInput.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m appModel) onAuthDone(msg authDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		var ve *session.ValidationError
		if errors.As(msg.err, &ve) {
			// Local input problem: show it inline, nothing left the machine.
			m.authErr = ve.Error()
			if ve.Field == "password" {
				m.focusLogin(1)
			} else {
				m.focusLogin(0)
			}
			return m, nil
		}
		m.authErr = remoteErrText(msg.err)
		return m, nil
	}

	m.view = viewTasks
	m.authErr = ""
	m.passInput.SetValue("")
	m.confirmInput.SetValue("")
	m.allTasks = nil
	m.taskList.SetItems(nil)
	return m, m.loadTasks()
}

func (m appModel) viewLogin() string {
	var b strings.Builder

	title := "todo — sign in"
	action := "sign in"
	toggle := "switch to register"
	if m.registerMode {
		title = "todo — create account"
		action = "register"
		toggle = "switch to sign in"
	}
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString("  " + m.emailInput.View() + "\n")
	b.WriteString("  " + m.passInput.View() + "\n")
	if m.registerMode {
		b.WriteString("  " + m.confirmInput.View() + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.busy:
		b.WriteString("  " + m.spin.View() + mutedStyle.Render(action+"…") + "\n")
	case m.authErr != "":
		b.WriteString("  " + errorStyle.Render(m.authErr) + "\n")
	case m.notice != "":
		b.WriteString("  " + noticeStyle.Render(m.notice) + "\n")
	default:
		b.WriteString("\n")
	}

	b.WriteString("\n" + faintIfDark(mutedStyle).Render("  enter "+action+" · tab next field · ctrl+r "+toggle+" · esc quit"))
	return b.String()
}
