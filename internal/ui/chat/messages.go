// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines the typed Bubble Tea messages the chat view exchanges
// with its commands. Network results, reveal ticks, and sidebar loads all
// arrive as messages so the update loop stays single-threaded.
package chat

import (
	"time"

	"github.com/jeranaias/parley-tui/internal/storage"
)

// =============================================================================
// COMPLETION MESSAGES
// =============================================================================

// ReplyMsg carries the assistant's complete response. MessageID names the
// placeholder message the reveal will fill.
type ReplyMsg struct {
	MessageID string
	Response  string
}

// ReplyErrMsg reports a failed completion request.
type ReplyErrMsg struct {
	MessageID string
	Err       error
}

// =============================================================================
// REVEAL MESSAGES
// =============================================================================

// RevealTickMsg advances the word-by-word reveal. MessageID guards against
// stale ticks from an abandoned reveal.
type RevealTickMsg struct {
	MessageID string
	At        time.Time
}

// =============================================================================
// SIDEBAR MESSAGES
// =============================================================================

// HistoryLoadedMsg delivers the saved chat list.
type HistoryLoadedMsg struct {
	Chats []storage.Chat
}

// HistoryErrMsg reports a failed history fetch.
type HistoryErrMsg struct {
	Err error
}

// ChatLoadedMsg delivers one saved chat picked from the sidebar.
type ChatLoadedMsg struct {
	Chat *storage.Chat
}

// ChatSavedMsg confirms the conversation was persisted.
type ChatSavedMsg struct {
	Chat *storage.Chat
}

// ChatSaveErrMsg reports a failed save.
type ChatSaveErrMsg struct {
	Err error
}

// =============================================================================
// STATUS MESSAGES
// =============================================================================

// StatusClearMsg removes a transient status line. Seq guards against a newer
// status being wiped by an older timer.
type StatusClearMsg struct {
	Seq int
}

// LogoutMsg asks the application to sign out and return to the login view.
type LogoutMsg struct{}
