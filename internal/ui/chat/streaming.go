// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file drives the word-by-word reveal. The complete reply is already in
// hand; the reveal is purely presentational. Each tick shows one more word,
// re-parses the visible prefix, and re-renders the viewport, so markdown
// structure forms live as the text grows.
package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/parley-tui/internal/stream"
)

// newRevealer builds the reveal state for one reply.
func newRevealer(response string) *stream.Revealer {
	return stream.New(response)
}

// handleRevealTick advances the reveal by one word. Ticks carry the message
// ID they were scheduled for; a tick that outlives its reveal (new chat,
// loaded chat, newer reply) is dropped.
func (m Model) handleRevealTick(msg RevealTickMsg) (Model, tea.Cmd) {
	if m.revealer == nil || msg.MessageID != m.revealID {
		return m, nil
	}

	state, ok := m.revealer.Next()
	if !ok {
		// Revealer exhausted; finalize defensively.
		m.finishReveal()
		return m, nil
	}

	m.conversation.SetLastContent(state.Content, state.Streaming)
	m.refreshViewport()
	m.viewport.GotoBottom()

	if state.Streaming {
		return m, m.revealTickCmd(msg.MessageID)
	}

	m.finishReveal()
	return m, nil
}

// finishReveal returns the view to the ready state.
func (m *Model) finishReveal() {
	m.revealer = nil
	m.revealID = ""
	m.state = StateReady
}

// stopReveal abandons an in-flight reveal, leaving whatever was shown.
func (m *Model) stopReveal() {
	if m.revealer == nil {
		return
	}
	m.conversation.SetLastContent(m.conversation.GetLastMessage().Content, false)
	m.revealer = nil
	m.revealID = ""
}
