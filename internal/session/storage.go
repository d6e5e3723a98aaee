package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

const stateFile = "session.json"

// State is the only thing persisted between runs: the bearer token plus a
// cached email used as a provisional identity until /auth/me confirms it.
type State struct {
	AccessToken string `json:"accessToken"`
	Email       string `json:"email,omitempty"`
}

// Store reads and writes the session state file under Dir.
type Store struct {
	Dir string
}

// Load returns the persisted state, or a zero state when none exists.
func (s Store) Load() (State, error) {
	b, err := os.ReadFile(filepath.Join(s.Dir, stateFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return State{}, nil
		}
		return State{}, err
	}
	var st State
	if err := json.Unmarshal(b, &st); err != nil {
		return State{}, err
	}
	return st, nil
}

// Save writes the state atomically. The token is a credential, so the file
// is not group/world readable.
func (s Store) Save(st State) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(s.Dir, stateFile+".*.tmp", filepath.Join(s.Dir, stateFile), b, 0o600)
}

// Clear removes the state file; clearing an absent file is not an error.
func (s Store) Clear() error {
	err := os.Remove(filepath.Join(s.Dir, stateFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
