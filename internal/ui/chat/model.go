// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/parley-tui/internal/api"
	"github.com/jeranaias/parley-tui/internal/config"
	"github.com/jeranaias/parley-tui/internal/model"
	"github.com/jeranaias/parley-tui/internal/storage"
	"github.com/jeranaias/parley-tui/internal/stream"
	"github.com/jeranaias/parley-tui/internal/ui/components"
	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State is the current mode of the chat view.
type State int

const (
	StateReady     State = iota // Composer focused, ready for input
	StateWaiting                // Request in flight, typing indicator up
	StateRevealing              // Reply arriving word by word
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// State
	state State

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Conversation
	conversation *model.Conversation

	// Word-by-word reveal of the current reply. revealID names the message
	// being revealed so stale ticks from an abandoned reveal are dropped.
	revealer *stream.Revealer
	revealID string

	// Server access
	client *api.Client
	cfg    *config.Config

	// UI components
	viewport viewport.Model
	input    textinput.Model
	typing   components.TypingIndicator
	copied   components.CopyState

	// Sidebar
	sidebarOpen     bool
	history         []storage.Chat
	historySelected int

	// Suggestion highlight on the welcome screen, -1 for none.
	suggestionPick int

	// Key bindings
	keyMap KeyMap

	// Transient status line
	statusMsg string
	statusSeq int
}

// New creates the chat view.
func New(client *api.Client, cfg *config.Config, theme *styles.Theme) Model {
	input := textinput.New()
	input.Placeholder = "Type your message..."
	input.Prompt = theme.InputPrompt.Render("> ")
	input.CharLimit = 4000
	input.Focus()

	vp := viewport.New(80, 20)

	return Model{
		state:          StateReady,
		theme:          theme,
		conversation:   model.NewConversation(),
		client:         client,
		cfg:            cfg,
		viewport:       vp,
		input:          input,
		typing:         components.NewTypingIndicator(theme),
		suggestionPick: -1,
		keyMap:         DefaultKeyMap(),
	}
}

// Init starts the view. Signed-in users get their history loaded up front.
func (m Model) Init() tea.Cmd {
	if m.client.Authenticated() {
		return m.loadHistoryCmd()
	}
	return nil
}

// SetSize lays out the view for the given terminal dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	contentWidth := width
	if m.sidebarVisible() {
		contentWidth -= sidebarWidth
	}
	m.viewport.Width = contentWidth
	m.viewport.Height = height - composerHeight - statusHeight
	m.input.Width = contentWidth - 6
	m.refreshViewport()
}

// SetConfig swaps in a reloaded configuration. The reveal pace and chat
// parameters take effect on the next request.
func (m *Model) SetConfig(cfg *config.Config) {
	m.cfg = cfg
}

// Conversation exposes the active conversation.
func (m *Model) Conversation() *model.Conversation {
	return m.conversation
}

// revealInterval returns the configured word reveal pace.
func (m *Model) revealInterval() time.Duration {
	ms := m.cfg.UI.RevealIntervalMs
	if ms < 1 {
		ms = 40
	}
	return time.Duration(ms) * time.Millisecond
}

func (m *Model) sidebarVisible() bool {
	return m.sidebarOpen && m.theme.SidebarVisible()
}

const (
	sidebarWidth   = 32
	composerHeight = 3
	statusHeight   = 1
)
