// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/parley-tui/internal/ui/components"
	"github.com/jeranaias/parley-tui/internal/util"
)

// View renders the chat screen: optional sidebar, transcript viewport,
// composer, and status bar.
func (m Model) View() string {
	main := lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.composerView(),
		m.statusView(),
	)

	if m.sidebarVisible() {
		return lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarView(), main)
	}
	return main
}

// refreshViewport rebuilds the transcript. Called whenever a message changes,
// including every reveal tick; assistant markdown is re-parsed from scratch
// each time so partially revealed structure is always current.
func (m *Model) refreshViewport() {
	if m.conversation.IsEmpty() {
		m.viewport.SetContent(components.RenderSuggestions(m.theme, m.viewport.Width, m.suggestionPick))
		return
	}

	var parts []string
	for _, msg := range m.conversation.History() {
		bubble := components.NewMessageBubble(msg, m.theme)
		bubble.SetWidth(m.viewport.Width)
		bubble.CopiedBlock = m.copied.CopiedIndex(msg.ID)
		parts = append(parts, bubble.View())
	}

	if m.typing.Active() {
		parts = append(parts, m.typing.View())
	}

	m.viewport.SetContent(strings.Join(parts, "\n\n"))
}

func (m Model) composerView() string {
	return m.theme.InputContainer.Width(m.viewport.Width - 2).Render(m.input.View())
}

func (m Model) statusView() string {
	if m.statusMsg != "" {
		return m.theme.StatusBar.Width(m.viewport.Width).Render(
			m.theme.StatusError.Render(m.statusMsg))
	}

	help := []string{
		m.theme.ShortcutKey.Render("Enter") + " send",
		m.theme.ShortcutKey.Render("C-n") + " new",
		m.theme.ShortcutKey.Render("C-s") + " save",
		m.theme.ShortcutKey.Render("C-y") + " copy",
		m.theme.ShortcutKey.Render("C-b") + " history",
		m.theme.ShortcutKey.Render("C-c") + " quit",
	}
	return m.theme.StatusBar.Width(m.viewport.Width).Render(strings.Join(help, "  "))
}

func (m Model) sidebarView() string {
	var lines []string
	lines = append(lines, m.theme.SidebarTitle.Render("Chat History"), "")

	if len(m.history) == 0 {
		lines = append(lines, m.theme.SidebarMeta.Render("no saved chats"))
	}
	for i, chat := range m.history {
		title := util.TruncateRunes(chat.Title, sidebarWidth-6)
		if title == "" {
			title = "(untitled)"
		}
		style := m.theme.SidebarItem
		if i == m.historySelected {
			style = m.theme.SidebarSelected
		}
		lines = append(lines,
			style.Render(title),
			m.theme.SidebarMeta.Render(chat.CreatedAt.Format("Jan 2 15:04")))
	}

	return m.theme.Sidebar.
		Width(sidebarWidth - 2).
		Height(m.viewport.Height + composerHeight + statusHeight).
		Render(strings.Join(lines, "\n"))
}
