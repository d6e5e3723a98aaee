package tui

import (
	"context"
	"testing"

	"todo-cli/internal/api"
	"todo-cli/internal/config"
	"todo-cli/internal/model"
	"todo-cli/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeAuth struct {
	user model.User
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	return &api.AuthResponse{AccessToken: "tok", TokenType: "bearer", User: f.user}, nil
}

func (f *fakeAuth) Register(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	return &api.AuthResponse{AccessToken: "tok", TokenType: "bearer", User: f.user}, nil
}

func (f *fakeAuth) Me(ctx context.Context) (*model.User, error) {
	u := f.user
	return &u, nil
}

func newTestApp(t *testing.T) (appModel, *session.Manager) {
	t.Helper()
	mgr := session.NewManager(session.Store{Dir: t.TempDir()})
	mgr.AttachAPI(&fakeAuth{user: model.User{ID: "u1", Email: "a@b.com"}})
	client := api.New("http://127.0.0.1:1", mgr)
	client.OnUnauthorized(mgr.Invalidate)
	cfg := &config.Config{APIBaseURL: "http://127.0.0.1:1"}
	m := newAppModel(cfg, mgr, client)
	m.width = 80
	m.height = 24
	m.resize()
	return m, mgr
}

func loggedInApp(t *testing.T) (appModel, *session.Manager) {
	t.Helper()
	m, mgr := newTestApp(t)
	if err := mgr.Login(context.Background(), "a@b.com", "x"); err != nil {
		t.Fatalf("login: %v", err)
	}
	m.view = viewTasks
	return m, mgr
}

func asApp(t *testing.T, tm tea.Model) appModel {
	t.Helper()
	m, ok := tm.(appModel)
	if !ok {
		t.Fatalf("unexpected model type %T", tm)
	}
	return m
}

func visibleIDs(m appModel) []string {
	var ids []string
	for _, it := range m.taskList.Items() {
		ids = append(ids, it.(taskItem).task.ID)
	}
	return ids
}

func TestCreatedTaskInsertsAtHeadAndRespectsFilter(t *testing.T) {
	m, mgr := loggedInApp(t)
	m.allTasks = []model.Task{
		{ID: "t1", Title: "Old", Completed: false},
		{ID: "t2", Title: "Done", Completed: true},
	}
	m.rebuildTaskItems()

	created := model.Task{ID: "t9", Title: "Buy milk", Completed: false}
	tm, _ := m.onTaskCreated(taskCreatedMsg{epoch: mgr.Epoch(), task: &created})
	m = asApp(t, tm)

	if ids := visibleIDs(m); len(ids) != 3 || ids[0] != "t9" {
		t.Fatalf("visible under all = %v, want t9 first", ids)
	}

	m.filter = model.FilterPending
	m.rebuildTaskItems()
	if ids := visibleIDs(m); len(ids) != 2 || ids[0] != "t9" {
		t.Fatalf("visible under pending = %v, want t9 first", ids)
	}

	m.filter = model.FilterCompleted
	m.rebuildTaskItems()
	for _, id := range visibleIDs(m) {
		if id == "t9" {
			t.Fatal("new pending task must be invisible under completed")
		}
	}
}

func TestStaleResponseDiscardedAfterLogout(t *testing.T) {
	m, mgr := loggedInApp(t)
	epoch := mgr.Epoch()

	// Logout fires while the list request is in flight.
	mgr.Logout()
	m.forceLogin("")

	tm, _ := m.onTasksLoaded(tasksLoadedMsg{
		epoch: epoch,
		tasks: []model.Task{{ID: "t1", Title: "ghost"}},
	})
	m = asApp(t, tm)

	if len(m.allTasks) != 0 || len(m.taskList.Items()) != 0 {
		t.Fatal("a response from a logged-out session must not resurrect task data")
	}
	if m.view != viewLogin {
		t.Fatalf("view = %v, want login", m.view)
	}
}

func TestUnauthorizedNavigatesToLogin(t *testing.T) {
	m, mgr := loggedInApp(t)
	epoch := mgr.Epoch()
	m.allTasks = []model.Task{{ID: "t1", Title: "secret"}}
	m.rebuildTaskItems()

	// The pipeline hook has already cleared the session by the time the
	// message is delivered.
	mgr.Invalidate()
	tm, _ := m.onTasksLoaded(tasksLoadedMsg{epoch: epoch, err: api.ErrUnauthorized})
	m = asApp(t, tm)

	if m.view != viewLogin {
		t.Fatalf("view = %v, want login", m.view)
	}
	if len(m.allTasks) != 0 || len(m.taskList.Items()) != 0 {
		t.Fatal("no task data may survive a forced logout")
	}

	// A second in-flight 401 arriving later changes nothing.
	tm, _ = m.onTasksLoaded(tasksLoadedMsg{epoch: epoch, err: api.ErrUnauthorized})
	m = asApp(t, tm)
	if m.view != viewLogin {
		t.Fatal("repeated unauthorized must be a no-op")
	}
}

func TestUnauthorizedFromOldSessionIgnoredAfterRelogin(t *testing.T) {
	m, mgr := loggedInApp(t)
	oldEpoch := mgr.Epoch()

	// The stale 401 cleared the session, but the user logged in again before
	// its message was delivered.
	mgr.Invalidate()
	if err := mgr.Login(context.Background(), "a@b.com", "x"); err != nil {
		t.Fatal(err)
	}

	tm, _ := m.onTasksLoaded(tasksLoadedMsg{epoch: oldEpoch, err: api.ErrUnauthorized})
	m = asApp(t, tm)

	if m.view != viewTasks {
		t.Fatal("an old session's 401 must not kick out a fresh login")
	}
}

func TestChatReplyAppendsAndRefreshesOnToolCalls(t *testing.T) {
	m, mgr := loggedInApp(t)
	m.view = viewChat
	m.messages = []model.ChatMessage{{Role: model.RoleUser, Body: "add a task"}}

	tm, cmd := m.onChatReply(chatReplyMsg{
		epoch: mgr.Epoch(),
		resp: &api.ChatResponse{
			Response:       "Added **Buy milk**.",
			ConversationID: "c1",
			ToolCalls:      []model.ToolCall{{Name: "create_task", Arguments: map[string]any{"title": "Buy milk"}}},
		},
	})
	m = asApp(t, tm)

	if len(m.messages) != 2 || m.messages[1].Role != model.RoleAssistant {
		t.Fatalf("messages = %+v", m.messages)
	}
	if m.conversationID != "c1" {
		t.Fatalf("conversationID = %q", m.conversationID)
	}
	if cmd == nil {
		t.Fatal("tool calls mutate tasks server-side; a refresh must be scheduled")
	}
}

func TestChatReplyWithoutToolCallsDoesNotRefresh(t *testing.T) {
	m, mgr := loggedInApp(t)
	m.view = viewChat

	tm, cmd := m.onChatReply(chatReplyMsg{
		epoch: mgr.Epoch(),
		resp:  &api.ChatResponse{Response: "You have 2 pending tasks.", ConversationID: "c1"},
	})
	m = asApp(t, tm)

	if cmd != nil {
		t.Fatal("a read-only reply should not trigger a task reload")
	}
	if len(m.messages) != 1 {
		t.Fatalf("messages = %+v", m.messages)
	}
}

func TestLogoutKeyClearsAndShowsLogin(t *testing.T) {
	m, mgr := loggedInApp(t)
	m.allTasks = []model.Task{{ID: "t1", Title: "secret"}}
	m.rebuildTaskItems()

	tm, _ := m.updateTasks(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("L")})
	m = asApp(t, tm)

	if m.view != viewLogin {
		t.Fatalf("view = %v, want login", m.view)
	}
	if mgr.Status() != session.Unauthenticated || mgr.Token() != "" {
		t.Fatal("logout key must clear the session")
	}
	if len(m.taskList.Items()) != 0 {
		t.Fatal("task data must not survive logout")
	}
}

func TestRegisterPasswordMismatchStaysLocal(t *testing.T) {
	m, mgr := newTestApp(t)
	m.registerMode = true
	m.emailInput.SetValue("a@b.com")
	m.passInput.SetValue("secret1")
	m.confirmInput.SetValue("secret2")

	tm, cmd := m.updateLogin(tea.KeyMsg{Type: tea.KeyEnter})
	m = asApp(t, tm)

	if cmd != nil {
		t.Fatal("mismatched passwords must not leave the machine")
	}
	if m.authErr != "passwords do not match" {
		t.Fatalf("authErr = %q", m.authErr)
	}
	if mgr.Status() != session.Unauthenticated {
		t.Fatalf("status = %v", mgr.Status())
	}
}

func TestFilterKeyCycles(t *testing.T) {
	m, _ := loggedInApp(t)
	m.allTasks = []model.Task{
		{ID: "t1", Completed: false},
		{ID: "t2", Completed: true},
	}
	m.rebuildTaskItems()

	tm, _ := m.updateTasks(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	m = asApp(t, tm)
	if m.filter != model.FilterPending {
		t.Fatalf("filter = %v", m.filter)
	}
	if ids := visibleIDs(m); len(ids) != 1 || ids[0] != "t1" {
		t.Fatalf("pending shows %v", ids)
	}

	tm, _ = m.updateTasks(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	m = asApp(t, tm)
	if m.filter != model.FilterCompleted {
		t.Fatalf("filter = %v", m.filter)
	}
	if ids := visibleIDs(m); len(ids) != 1 || ids[0] != "t2" {
		t.Fatalf("completed shows %v", ids)
	}
}
