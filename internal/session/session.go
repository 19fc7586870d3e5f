// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session persists the signed-in account between runs.
//
// The session file lives at ~/.parley/session.json with owner-only
// permissions. Guests have no session file.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jeranaias/parley-tui/internal/config"
	"github.com/jeranaias/parley-tui/internal/util"
)

// ErrNoSession indicates no persisted session exists.
var ErrNoSession = errors.New("session: not signed in")

// Session is a persisted sign-in.
type Session struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// path returns the session file location.
func path() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.json"), nil
}

// Load reads the persisted session. Returns ErrNoSession when the user has
// never signed in or has logged out.
func Load() (*Session, error) {
	p, err := path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("session: read %s: %w", p, err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("session: parse %s: %w", p, err)
	}
	if s.Token == "" {
		return nil, ErrNoSession
	}
	return &s, nil
}

// Save persists the session atomically with owner-only permissions.
func Save(s *Session) error {
	if err := config.EnsureDir(); err != nil {
		return err
	}
	p, err := path()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	if err := util.AtomicWriteFile(p, data, 0600); err != nil {
		return fmt.Errorf("session: write %s: %w", p, err)
	}
	return nil
}

// Clear removes the persisted session. Clearing an absent session is a no-op.
func Clear() error {
	p, err := path()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: remove %s: %w", p, err)
	}
	return nil
}
