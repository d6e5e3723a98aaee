package tui

import (
	"context"
	"errors"
	"log"

	"todo-cli/internal/api"
	"todo-cli/internal/config"
	"todo-cli/internal/model"
	"todo-cli/internal/session"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type appModel struct {
	cfg     *config.Config
	session *session.Manager
	client  *api.Client

	width  int
	height int
	view   view
	busy   bool
	spin   spinner.Model
	notice string

	// Login view.
	emailInput   textinput.Model
	passInput    textinput.Model
	confirmInput textinput.Model
	loginFocus   int
	registerMode bool
	authErr      string

	// Tasks view. allTasks is the unfiltered set; the visible list is
	// rebuilt from it whenever the filter changes.
	taskList list.Model
	allTasks []model.Task
	filter   model.TaskFilter
	taskErr  string
	adding   bool
	addInput textinput.Model

	// Chat view.
	chatVP         viewport.Model
	chatInput      textinput.Model
	messages       []model.ChatMessage
	conversationID string
	chatErr        string
}

func newAppModel(cfg *config.Config, sess *session.Manager, client *api.Client) appModel {
	m := appModel{
		cfg:     cfg,
		session: sess,
		client:  client,
		view:    viewLogin,
		filter:  model.FilterAll,
	}

	m.spin = spinner.New(spinner.WithSpinner(spinner.Dot))

	m.emailInput = textinput.New()
	m.emailInput.Placeholder = "email"
	m.emailInput.Focus()
	m.passInput = textinput.New()
	m.passInput.Placeholder = "password"
	m.passInput.EchoMode = textinput.EchoPassword
	m.confirmInput = textinput.New()
	m.confirmInput.Placeholder = "confirm password"
	m.confirmInput.EchoMode = textinput.EchoPassword

	m.taskList = newTaskList()

	m.addInput = textinput.New()
	m.addInput.Placeholder = "task title"

	m.chatInput = textinput.New()
	m.chatInput.Placeholder = "ask the assistant…"
	m.chatVP = viewport.New(0, 0)

	return m
}

func (m appModel) Init() tea.Cmd {
	// Rehydrate the persisted session before showing anything interactive.
	m.busy = true
	return tea.Batch(m.initSession(), m.spin.Tick)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case sessionReadyMsg:
		m.busy = false
		if m.session.Status() == session.Authenticated {
			m.view = viewTasks
			return m, m.loadTasks()
		}
		m.view = viewLogin
		return m, nil

	case authDoneMsg:
		return m.onAuthDone(msg)

	case tasksLoadedMsg:
		return m.onTasksLoaded(msg)

	case taskCreatedMsg:
		return m.onTaskCreated(msg)

	case taskToggledMsg:
		return m.onTaskToggled(msg)

	case taskDeletedMsg:
		return m.onTaskDeleted(msg)

	case chatReplyMsg:
		return m.onChatReply(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	switch m.view {
	case viewLogin:
		return m.updateLogin(msg)
	case viewTasks:
		return m.updateTasks(msg)
	case viewChat:
		return m.updateChat(msg)
	default:
		return m, nil
	}
}

func (m appModel) View() string {
	switch m.view {
	case viewLogin:
		return m.viewLogin()
	case viewTasks:
		return m.viewTasks()
	case viewChat:
		return m.viewChat()
	default:
		return ""
	}
}

func (m *appModel) resize() {
	h := m.height - 6 // header + filter line + help + error line
	if h < 1 {
		h = 1
	}
	m.taskList.SetSize(m.width, h)

	vpH := m.height - 5 // header + input + help
	if vpH < 1 {
		vpH = 1
	}
	m.chatVP.Width = m.width
	m.chatVP.Height = vpH
	m.chatVP.SetContent(m.renderTranscript())

	m.emailInput.Width = min(48, max(20, m.width-10))
	m.passInput.Width = m.emailInput.Width
	m.confirmInput.Width = m.emailInput.Width
	m.addInput.Width = max(20, m.width-10)
	m.chatInput.Width = max(20, m.width-4)
}

// stale reports whether a response belongs to a session that has since been
// logged out or replaced. Stale responses are discarded without touching
// any state.
func (m *appModel) stale(epoch uint64) bool {
	return epoch != m.session.Epoch()
}

// forceLogin is the single place that reacts to a rejected token: the
// pipeline has already cleared the session; the coordinator's job is only to
// navigate.
func (m *appModel) forceLogin(notice string) {
	m.view = viewLogin
	m.notice = ""
	m.authErr = notice
	m.allTasks = nil
	m.taskList.SetItems(nil)
	m.messages = nil
	m.conversationID = ""
	m.passInput.SetValue("")
	m.confirmInput.SetValue("")
	m.focusLogin(0)
}

// consumeRemote applies the two cross-cutting response rules and reports
// whether the message was fully handled. A rejected token navigates to the
// login view (the pipeline already cleared the session) — unless a newer
// login happened while the response was in flight, in which case it is
// dropped. Anything else from a dead epoch is discarded silently. Other
// errors are returned as display text for the active view.
func (m *appModel) consumeRemote(epoch uint64, err error) (consumed bool, errText string) {
	if err != nil && errors.Is(err, api.ErrUnauthorized) {
		if m.session.Status() != session.Authenticated {
			m.forceLogin("session expired — log in again")
		}
		return true, ""
	}
	if m.stale(epoch) {
		return true, ""
	}
	if err != nil {
		log.Printf("request failed: %v", err)
		return true, remoteErrText(err)
	}
	return false, ""
}

// remoteErrText maps pipeline errors to what the user should be told.
// Connectivity problems must not read like rejected input.
func remoteErrText(err error) string {
	var ne *api.NetworkError
	if errors.As(err, &ne) {
		return "cannot reach the server — check your connection"
	}
	return err.Error()
}

// Commands. Each captures the epoch at issue time; the session manager and
// pipeline read the token fresh themselves.

func (m appModel) initSession() tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		sess.Initialize(context.Background())
		return sessionReadyMsg{epoch: sess.Epoch()}
	}
}

func (m appModel) loadTasks() tea.Cmd {
	epoch := m.session.Epoch()
	c := m.client
	return func() tea.Msg {
		tasks, err := c.ListTasks(context.Background(), model.FilterAll)
		return tasksLoadedMsg{epoch: epoch, tasks: tasks, err: err}
	}
}

func (m appModel) submitAuth(email, password string, register bool) tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		var err error
		if register {
			err = sess.Register(context.Background(), email, password)
		} else {
			err = sess.Login(context.Background(), email, password)
		}
		return authDoneMsg{err: err}
	}
}

func (m appModel) createTask(title string) tea.Cmd {
	epoch := m.session.Epoch()
	c := m.client
	return func() tea.Msg {
		task, err := c.CreateTask(context.Background(), api.TaskCreate{Title: title})
		return taskCreatedMsg{epoch: epoch, task: task, err: err}
	}
}

func (m appModel) toggleTask(t model.Task) tea.Cmd {
	epoch := m.session.Epoch()
	c := m.client
	return func() tea.Msg {
		var task *model.Task
		var err error
		if t.Completed {
			task, err = c.IncompleteTask(context.Background(), t.ID)
		} else {
			task, err = c.CompleteTask(context.Background(), t.ID)
		}
		return taskToggledMsg{epoch: epoch, task: task, err: err}
	}
}

func (m appModel) deleteTask(id string) tea.Cmd {
	epoch := m.session.Epoch()
	c := m.client
	return func() tea.Msg {
		err := c.DeleteTask(context.Background(), id)
		return taskDeletedMsg{epoch: epoch, id: id, err: err}
	}
}

func (m appModel) sendChat(message string) tea.Cmd {
	epoch := m.session.Epoch()
	c := m.client
	userID := ""
	if u := m.session.User(); u != nil {
		userID = u.ID
	}
	convID := m.conversationID
	return func() tea.Msg {
		resp, err := c.SendChat(context.Background(), userID, api.ChatRequest{
			Message:        message,
			ConversationID: convID,
		})
		return chatReplyMsg{epoch: epoch, resp: resp, err: err}
	}
}
