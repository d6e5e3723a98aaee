package api

import (
	"context"
	"net/http"

	"todo-cli/internal/model"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the login/register payload. TokenType is always "bearer".
type AuthResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	User        model.User `json:"user"`
}

// Login exchanges credentials for a token. Bad credentials surface as a
// RequestFailedError, not ErrUnauthorized: no session exists to invalidate.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.doPublic(ctx, http.MethodPost, "/auth/login", credentials{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account. The session manager chains into Login on
// success; registration itself never logs in.
func (c *Client) Register(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.doPublic(ctx, http.MethodPost, "/auth/register", credentials{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me fetches the authoritative identity for the current token.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
