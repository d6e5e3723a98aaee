package tui

import (
	"todo-cli/internal/api"
	"todo-cli/internal/model"
)

type view int

const (
	viewLogin view = iota
	viewTasks
	viewChat
)

// Messages carrying backend results also carry the session epoch captured
// when the request was issued. A message whose epoch no longer matches the
// session is from a previous login and is dropped without being applied.

type sessionReadyMsg struct {
	epoch uint64
}

type authDoneMsg struct {
	err error
}

type tasksLoadedMsg struct {
	epoch uint64
	tasks []model.Task
	err   error
}

type taskCreatedMsg struct {
	epoch uint64
	task  *model.Task
	err   error
}

type taskToggledMsg struct {
	epoch uint64
	task  *model.Task
	err   error
}

type taskDeletedMsg struct {
	epoch uint64
	id    string
	err   error
}

type chatReplyMsg struct {
	epoch uint64
	resp  *api.ChatResponse
	err   error
}
