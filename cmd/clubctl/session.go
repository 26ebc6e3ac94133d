package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/yigit/cyberclub/internal/client"
)

// sessionStore persists the AuthContext between invocations
type sessionStore struct {
	path string
}

// Load returns the saved session, or an anonymous one when none exists
func (s *sessionStore) Load() (client.AuthContext, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return client.AuthContext{}, nil
	}
	if err != nil {
		return client.AuthContext{}, fmt.Errorf("failed to read session: %w", err)
	}

	var a client.AuthContext
	if err := json.Unmarshal(raw, &a); err != nil {
		return client.AuthContext{}, fmt.Errorf("corrupt session file %s: %w", s.path, err)
	}
	return a, nil
}

// Save writes the session readable by the owner only
func (s *sessionStore) Save(a client.AuthContext) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	raw, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Clear removes the session
func (s *sessionStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}
