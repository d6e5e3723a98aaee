package api

import (
	"context"
	"net/http"
	"net/url"

	"todo-cli/internal/model"
)

type TaskCreate struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type TaskUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// ListTasks returns the user's tasks, optionally filtered by status.
// The endpoint returns a bare JSON array; the unfiltered view sends no
// status param at all.
func (c *Client) ListTasks(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	path := "/api/tasks"
	if filter == model.FilterPending || filter == model.FilterCompleted {
		path += "?status=" + url.QueryEscape(string(filter))
	}
	var out []model.Task
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTask(ctx context.Context, in TaskCreate) (*model.Task, error) {
	var out model.Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, in TaskUpdate) (*model.Task, error) {
	var out model.Task
	if err := c.do(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteTask and IncompleteTask are status-only toggles; the backend
// exposes them as dedicated PATCH routes rather than a partial update.
func (c *Client) CompleteTask(ctx context.Context, id string) (*model.Task, error) {
	return c.patchStatus(ctx, id, "complete")
}

func (c *Client) IncompleteTask(ctx context.Context, id string) (*model.Task, error) {
	return c.patchStatus(ctx, id, "incomplete")
}

func (c *Client) patchStatus(ctx context.Context, id, action string) (*model.Task, error) {
	var out model.Task
	if err := c.do(ctx, http.MethodPatch, "/api/tasks/"+url.PathEscape(id)+"/"+action, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTask removes a task. The backend replies 204 with no body.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil)
}
