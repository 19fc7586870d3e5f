// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"testing"
	"time"
)

func TestSaveLoadClear(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if _, err := Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("Load before save: err = %v, want ErrNoSession", err)
	}

	want := &Session{
		Token:     "tok-abc",
		Email:     "alice@example.com",
		UserID:    7,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Token != want.Token || got.Email != want.Email || got.UserID != want.UserID {
		t.Errorf("Load = %+v, want %+v", got, want)
	}

	if err := Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := Load(); !errors.Is(err, ErrNoSession) {
		t.Errorf("Load after clear: err = %v, want ErrNoSession", err)
	}

	// Clearing twice is fine.
	if err := Clear(); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}

func TestLoadEmptyTokenIsNoSession(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := Save(&Session{Email: "x@y.z"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := Load(); !errors.Is(err, ErrNoSession) {
		t.Errorf("err = %v, want ErrNoSession", err)
	}
}
