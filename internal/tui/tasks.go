package tui

import (
	"fmt"
	"strings"

	"todo-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// rebuildTaskItems projects allTasks through the active filter into the
// visible list. The filter partitions: every task is in `all`, and in exactly
// one of `pending`/`completed`.
func (m *appModel) rebuildTaskItems() {
	items := make([]list.Item, 0, len(m.allTasks))
	for _, t := range m.allTasks {
		if m.filter.Matches(t) {
			items = append(items, taskItem{task: t})
		}
	}
	m.taskList.SetItems(items)
	if m.taskList.Index() >= len(items) && len(items) > 0 {
		m.taskList.Select(len(items) - 1)
	}
}

func (m *appModel) selectedTask() (model.Task, bool) {
	it, ok := m.taskList.SelectedItem().(taskItem)
	if !ok {
		return model.Task{}, false
	}
	return it.task, true
}

func (m appModel) onTasksLoaded(msg tasksLoadedMsg) (tea.Model, tea.Cmd) {
	if consumed, errText := m.consumeRemote(msg.epoch, msg.err); consumed {
		if errText != "" {
			m.taskErr = errText
		}
		return m, nil
	}
	m.taskErr = ""
	m.allTasks = msg.tasks
	m.rebuildTaskItems()
	return m, nil
}

func (m appModel) onTaskCreated(msg taskCreatedMsg) (tea.Model, tea.Cmd) {
	if consumed, errText := m.consumeRemote(msg.epoch, msg.err); consumed {
		if errText != "" {
			m.taskErr = errText
		}
		return m, nil
	}
	m.taskErr = ""
	// New tasks go to the head; under the `completed` filter the new pending
	// task simply isn't visible.
	m.allTasks = append([]model.Task{*msg.task}, m.allTasks...)
	m.rebuildTaskItems()
	if m.filter.Matches(*msg.task) {
		m.taskList.Select(0)
	}
	return m, nil
}

func (m appModel) onTaskToggled(msg taskToggledMsg) (tea.Model, tea.Cmd) {
	if consumed, errText := m.consumeRemote(msg.epoch, msg.err); consumed {
		if errText != "" {
			m.taskErr = errText
		}
		return m, nil
	}
	m.taskErr = ""
	for i := range m.allTasks {
		if m.allTasks[i].ID == msg.task.ID {
			m.allTasks[i] = *msg.task
			break
		}
	}
	m.rebuildTaskItems()
	return m, nil
}

func (m appModel) onTaskDeleted(msg taskDeletedMsg) (tea.Model, tea.Cmd) {
	if consumed, errText := m.consumeRemote(msg.epoch, msg.err); consumed {
		if errText != "" {
			m.taskErr = errText
		}
		return m, nil
	}
	m.taskErr = ""
	out := m.allTasks[:0]
	for _, t := range m.allTasks {
		if t.ID != msg.id {
			out = append(out, t)
		}
	}
	m.allTasks = out
	m.rebuildTaskItems()
	return m, nil
}

func (m appModel) updateTasks(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.adding {
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "esc":
				m.adding = false
				m.addInput.SetValue("")
				m.addInput.Blur()
				return m, nil
			case "enter":
				title := strings.TrimSpace(m.addInput.Value())
				if title == "" {
					// Empty titles never leave the client.
					m.taskErr = "title is empty"
					return m, nil
				}
				m.adding = false
				m.addInput.SetValue("")
				m.addInput.Blur()
				m.taskErr = ""
				return m, m.createTask(title)
			}
		}
		var cmd tea.Cmd
		m.addInput, cmd = m.addInput.Update(msg)
		return m, cmd
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "esc":
			return m, tea.Quit
		case "a":
			m.adding = true
			m.taskErr = ""
			return m, m.addInput.Focus()
		case "f":
			m.filter = m.filter.Next()
			m.rebuildTaskItems()
			return m, nil
		case " ", "enter":
			if t, ok := m.selectedTask(); ok {
				return m, m.toggleTask(t)
			}
			return m, nil
		case "d":
			if t, ok := m.selectedTask(); ok {
				return m, m.deleteTask(t.ID)
			}
			return m, nil
		case "r":
			return m, m.loadTasks()
		case "c":
			m.view = viewChat
			m.chatVP.SetContent(m.renderTranscript())
			m.chatVP.GotoBottom()
			return m, m.chatInput.Focus()
		case "L":
			// Local, synchronous, idempotent. In-flight responses from the
			// old session are discarded by the epoch check.
			m.session.Logout()
			m.forceLogin("")
			m.notice = "logged out"
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.taskList, cmd = m.taskList.Update(msg)
	return m, cmd
}

func (m appModel) viewTasks() string {
	var b strings.Builder

	email := ""
	if u := m.session.User(); u != nil {
		email = u.Email
	}
	counts := fmt.Sprintf("%d/%d", len(m.taskList.Items()), len(m.allTasks))
	b.WriteString(headerStyle.Render("Tasks"))
	b.WriteString(mutedStyle.Render("  " + email))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("filter: %s (%s)", m.filter, counts)))
	b.WriteString("\n")
	b.WriteString(m.taskList.View())
	b.WriteString("\n")

	switch {
	case m.adding:
		b.WriteString("add: " + m.addInput.View() + "\n")
	case m.taskErr != "":
		b.WriteString(errorStyle.Render(m.taskErr) + "\n")
	default:
		b.WriteString("\n")
	}

	b.WriteString(faintIfDark(mutedStyle).Render("a add · space toggle · d delete · f filter · c chat · r reload · L logout · q quit"))
	return b.String()
}
