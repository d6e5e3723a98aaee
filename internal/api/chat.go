package api

import (
	"context"
	"net/http"
	"net/url"

	"todo-cli/internal/model"
)

type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type ChatResponse struct {
	Response       string           `json:"response"`
	ConversationID string           `json:"conversation_id"`
	ToolCalls      []model.ToolCall `json:"tool_calls"`
}

// SendChat posts a message to the assistant. ToolCalls in the reply mean the
// assistant mutated the task list server-side and callers should refresh.
func (c *Client) SendChat(ctx context.Context, userID string, in ChatRequest) (*ChatResponse, error) {
	var out ChatResponse
	path := "/api/v1/" + url.PathEscape(userID) + "/chat"
	if err := c.do(ctx, http.MethodPost, path, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
