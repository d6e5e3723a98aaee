package tui

import (
	"encoding/json"
	"strings"
	"time"

	"todo-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) updateChat(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.view = viewTasks
			m.chatInput.Blur()
			// The assistant may have mutated tasks mid-conversation.
			return m, m.loadTasks()
		case "enter":
			if m.busy {
				return m, nil
			}
			text := strings.TrimSpace(m.chatInput.Value())
			if text == "" {
				return m, nil
			}
			m.messages = append(m.messages, model.ChatMessage{
				Role:   model.RoleUser,
				Body:   text,
				SentAt: time.Now(),
			})
			m.chatInput.SetValue("")
			m.chatErr = ""
			m.busy = true
			m.chatVP.SetContent(m.renderTranscript())
			m.chatVP.GotoBottom()
			return m, tea.Batch(m.sendChat(text), m.spin.Tick)
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	cmds = append(cmds, cmd)
	m.chatVP, cmd = m.chatVP.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m appModel) onChatReply(msg chatReplyMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if consumed, errText := m.consumeRemote(msg.epoch, msg.err); consumed {
		if errText != "" {
			m.chatErr = errText
		}
		return m, nil
	}

	m.conversationID = msg.resp.ConversationID
	m.messages = append(m.messages, model.ChatMessage{
		Role:      model.RoleAssistant,
		Body:      msg.resp.Response,
		ToolCalls: msg.resp.ToolCalls,
		SentAt:    time.Now(),
	})
	m.chatVP.SetContent(m.renderTranscript())
	m.chatVP.GotoBottom()

	// Tool calls mean the assistant changed the task list server-side.
	if len(msg.resp.ToolCalls) > 0 {
		return m, m.loadTasks()
	}
	return m, nil
}

func (m *appModel) renderTranscript() string {
	if len(m.messages) == 0 {
		return mutedStyle.Render("Ask the assistant to add, complete or list your tasks.")
	}

	width := m.chatVP.Width - 2
	if width < 10 {
		width = 10
	}

	var b strings.Builder
	for i, msg := range m.messages {
		if i > 0 {
			b.WriteString("\n")
		}
		switch msg.Role {
		case model.RoleUser:
			b.WriteString(titleStyle.Render("You") + "\n")
			b.WriteString(msg.Body + "\n")
		case model.RoleAssistant:
			b.WriteString(headerStyle.Render("Assistant") + "\n")
			b.WriteString(renderMarkdown(msg.Body, width) + "\n")
			for _, tc := range msg.ToolCalls {
				b.WriteString(mutedStyle.Render("· "+toolCallLine(tc)) + "\n")
			}
		}
	}
	return b.String()
}

func toolCallLine(tc model.ToolCall) string {
	if len(tc.Arguments) == 0 {
		return tc.Name
	}
	args, err := json.Marshal(tc.Arguments)
	if err != nil {
		return tc.Name
	}
	return tc.Name + " " + string(args)
}

func (m appModel) viewChat() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Assistant"))
	if m.conversationID != "" {
		b.WriteString(mutedStyle.Render("  conversation " + m.conversationID))
	}
	b.WriteString("\n")
	b.WriteString(m.chatVP.View())
	b.WriteString("\n")

	switch {
	case m.busy:
		b.WriteString(m.spin.View() + mutedStyle.Render("thinking…") + "\n")
	case m.chatErr != "":
		b.WriteString(errorStyle.Render(m.chatErr) + "\n")
	default:
		b.WriteString("\n")
	}

	b.WriteString("> " + m.chatInput.View() + "\n")
	b.WriteString(faintIfDark(mutedStyle).Render("enter send · esc back to tasks"))
	return b.String()
}
