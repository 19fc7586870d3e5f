// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the SQLite-backed store for users and saved
// chats.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("storage: not found")

	// ErrEmailTaken is returned when signing up with a registered email.
	ErrEmailTaken = errors.New("storage: email already registered")
)

// =============================================================================
// ROW TYPES
// =============================================================================

// User is a registered account.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ChatMessage is one message of a saved chat. Only raw text is persisted;
// rendered blocks are always recomputed on display.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat is a saved conversation.
type Chat struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"user_id"`
	Title     string        `json:"title"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// =============================================================================
// STORE
// =============================================================================

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	name          TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS chats (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id    INTEGER NOT NULL REFERENCES users(id),
	title      TEXT NOT NULL DEFAULT '',
	messages   TEXT NOT NULL DEFAULT '[]',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chats_user ON chats(user_id, created_at DESC);
`

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the database at path and applies the
// schema. The parent directory is created when missing.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: create dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open: %w", err)
	}
	// modernc sqlite serializes writes; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// USERS
// =============================================================================

// CreateUser inserts a new account and returns its id. Returns ErrEmailTaken
// when the email is already registered.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash, name string) (int64, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM users WHERE email = ?`, email).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("storage: check email: %w", err)
	}
	if exists > 0 {
		return 0, ErrEmailTaken
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, name, created_at) VALUES (?, ?, ?, ?)`,
		email, passwordHash, name, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("storage: insert user: %w", err)
	}
	return res.LastInsertId()
}

// UserByEmail looks up an account. Returns ErrNotFound when absent.
func (s *Store) UserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name, created_at FROM users WHERE email = ?`,
		email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: user by email: %w", err)
	}
	return &u, nil
}

// =============================================================================
// CHATS
// =============================================================================

// SaveChat persists a conversation for a user and returns the stored row.
func (s *Store) SaveChat(ctx context.Context, userID int64, title string, messages []ChatMessage) (*Chat, error) {
	blob, err := json.Marshal(messages)
	if err != nil {
		return nil, fmt.Errorf("storage: encode messages: %w", err)
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO chats (user_id, title, messages, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		userID, title, string(blob), now, now)
	if err != nil {
		return nil, fmt.Errorf("storage: insert chat: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Chat{
		ID:        id,
		UserID:    userID,
		Title:     title,
		Messages:  messages,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ChatsByUser returns a user's saved chats, newest first.
func (s *Store) ChatsByUser(ctx context.Context, userID int64) ([]Chat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, messages, created_at, updated_at
		 FROM chats WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("storage: list chats: %w", err)
	}
	defer rows.Close()

	var chats []Chat
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, *c)
	}
	return chats, rows.Err()
}

// ChatByID returns a single saved chat. Returns ErrNotFound when absent.
func (s *Store) ChatByID(ctx context.Context, id int64) (*Chat, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, messages, created_at, updated_at
		 FROM chats WHERE id = ?`, id)
	c, err := scanChat(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanChat(sc scanner) (*Chat, error) {
	var c Chat
	var blob string
	if err := sc.Scan(&c.ID, &c.UserID, &c.Title, &blob, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(blob), &c.Messages); err != nil {
		return nil, fmt.Errorf("storage: decode messages: %w", err)
	}
	return &c, nil
}
