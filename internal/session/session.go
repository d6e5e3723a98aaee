// Package session owns the authentication token and the current user
// identity. It is the single source of truth for "who is logged in" and the
// only writer of the persisted session state.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"todo-cli/internal/api"
	"todo-cli/internal/model"
)

type Status int

const (
	Unauthenticated Status = iota
	Authenticating
	Authenticated
)

func (s Status) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// ValidationError rejects malformed input before any network call. The UI
// surfaces it inline next to the offending field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Msg }

// AuthAPI is the slice of the request pipeline the manager needs.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	Register(ctx context.Context, email, password string) (*api.AuthResponse, error)
	Me(ctx context.Context) (*model.User, error)
}

// Manager holds the one session of a running client. In-memory state and the
// persisted state file are always updated together: memory first, then disk,
// so a concurrent read never observes a token without its identity epoch.
type Manager struct {
	store Store

	mu     sync.Mutex
	apic   AuthAPI
	token  string
	user   *model.User
	status Status
	epoch  uint64
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// AttachAPI wires the request pipeline. The pipeline is constructed after
// the manager (it needs the manager as its token source), hence a setter
// rather than a constructor argument.
func (m *Manager) AttachAPI(a AuthAPI) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apic = a
}

// Token implements api.TokenSource.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// User returns the current identity, nil when unauthenticated. While status
// is Authenticating this may be a provisional identity from the cached
// email; it is overwritten once /auth/me confirms.
func (m *Manager) User() *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// Epoch increments on every login and logout. Response handlers capture it
// when a request starts and discard the response if it changed, so an
// in-flight request finishing after logout cannot resurrect session state.
func (m *Manager) Epoch() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.epoch
}

// Initialize rehydrates the session from disk, once, at startup. A missing
// token is the common case and costs no network call. A present token is
// verified against /auth/me; any failure leaves the client exactly as if no
// token had ever been stored. Failures are absorbed into state, never
// returned.
func (m *Manager) Initialize(ctx context.Context) {
	st, err := m.store.Load()
	if err != nil || st.AccessToken == "" {
		m.mu.Lock()
		m.status = Unauthenticated
		m.mu.Unlock()
		return
	}

	m.mu.Lock()
	m.token = st.AccessToken
	m.status = Authenticating
	if st.Email != "" {
		m.user = &model.User{Email: st.Email}
	}
	apic := m.apic
	epoch := m.epoch
	m.mu.Unlock()

	user, err := apic.Me(ctx)
	if err != nil {
		// Rejected or unreachable: either way the stored token is useless.
		m.Invalidate()
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch {
		// Logged out (or re-logged-in) while /auth/me was in flight.
		return
	}
	m.user = user
	m.status = Authenticated
}

// Login exchanges credentials for a token and persists it. On failure the
// session is left unchanged and the error carries the backend's reason when
// one was given.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	if err := validateCredentials(email, password); err != nil {
		return err
	}

	m.mu.Lock()
	apic := m.apic
	m.mu.Unlock()

	resp, err := apic.Login(ctx, email, password)
	if err != nil {
		return surfaceAuthError(err, "login failed")
	}

	user := resp.User
	m.mu.Lock()
	m.token = resp.AccessToken
	m.user = &user
	m.status = Authenticated
	m.epoch++
	m.mu.Unlock()

	if err := m.store.Save(State{AccessToken: resp.AccessToken, Email: user.Email}); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Register creates an account and, only on success, chains into Login with
// the same credentials.
func (m *Manager) Register(ctx context.Context, email, password string) error {
	if err := validateCredentials(email, password); err != nil {
		return err
	}

	m.mu.Lock()
	apic := m.apic
	m.mu.Unlock()

	if _, err := apic.Register(ctx, email, password); err != nil {
		return surfaceAuthError(err, "registration failed")
	}
	return m.Login(ctx, email, password)
}

// Logout clears memory and disk together, synchronously, with no network
// effect. Safe to call when already logged out.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.status = Unauthenticated
	m.epoch++
	m.mu.Unlock()
	_ = m.store.Clear()
}

// Invalidate is the forced-logout side effect for a rejected token. It is
// what the pipeline's unauthorized hook calls.
func (m *Manager) Invalidate() { m.Logout() }

func validateCredentials(email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return &ValidationError{Field: "email", Msg: "is required"}
	}
	if !strings.Contains(email, "@") {
		return &ValidationError{Field: "email", Msg: "is not a valid address"}
	}
	if password == "" {
		return &ValidationError{Field: "password", Msg: "is required"}
	}
	return nil
}

// surfaceAuthError keeps backend-provided reasons verbatim and substitutes a
// generic message only when the response carried no usable detail. Network
// errors pass through untouched so the UI can distinguish "unreachable" from
// "rejected".
func surfaceAuthError(err error, generic string) error {
	var rf *api.RequestFailedError
	if errors.As(err, &rf) && rf.Detail == "" {
		return errors.New(generic)
	}
	return err
}
