// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

// =============================================================================
// TYPING INDICATOR
// =============================================================================

// TypingIndicator shows while the assistant reply is in flight, before the
// first word appears.
type TypingIndicator struct {
	spinner  spinner.Model
	active   bool
	started  time.Time
	theme    *styles.Theme
}

// NewTypingIndicator creates an idle typing indicator.
func NewTypingIndicator(theme *styles.Theme) TypingIndicator {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.Spinner
	return TypingIndicator{spinner: s, theme: theme}
}

// Start activates the indicator and returns its tick command.
func (t *TypingIndicator) Start() tea.Cmd {
	t.active = true
	t.started = time.Now()
	return t.spinner.Tick
}

// Stop deactivates the indicator.
func (t *TypingIndicator) Stop() {
	t.active = false
}

// Active reports whether the indicator is showing.
func (t *TypingIndicator) Active() bool {
	return t.active
}

// Update advances the spinner animation.
func (t *TypingIndicator) Update(msg tea.Msg) tea.Cmd {
	if !t.active {
		return nil
	}
	var cmd tea.Cmd
	t.spinner, cmd = t.spinner.Update(msg)
	return cmd
}

// View renders the indicator, empty when idle.
func (t *TypingIndicator) View() string {
	if !t.active {
		return ""
	}
	return t.spinner.View() + " " + t.theme.ThinkingText.Render("Assistant is thinking...")
}
