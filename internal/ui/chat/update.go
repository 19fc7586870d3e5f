// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/parley-tui/internal/model"
	"github.com/jeranaias/parley-tui/internal/ui/components"
)

// Update routes messages to their handlers.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ReplyMsg:
		return m.handleReply(msg)

	case ReplyErrMsg:
		return m.handleReplyErr(msg)

	case RevealTickMsg:
		return m.handleRevealTick(msg)

	case HistoryLoadedMsg:
		m.history = msg.Chats
		if m.historySelected >= len(m.history) {
			m.historySelected = 0
		}
		return m, nil

	case HistoryErrMsg:
		return m, m.setStatus("history: " + msg.Err.Error())

	case ChatLoadedMsg:
		return m.handleChatLoaded(msg)

	case ChatSavedMsg:
		m.conversation.RemoteID = msg.Chat.ID
		return m, tea.Batch(m.setStatus("chat saved"), m.loadHistoryCmd())

	case ChatSaveErrMsg:
		return m, m.setStatus("save failed: " + msg.Err.Error())

	case components.CopyResetMsg:
		if m.copied.HandleReset(msg) {
			m.refreshViewport()
		}
		return m, nil

	case StatusClearMsg:
		if msg.Seq == m.statusSeq {
			m.statusMsg = ""
		}
		return m, nil

	case spinner.TickMsg:
		return m, m.typing.Update(msg)
	}

	return m.updateComponents(msg)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Submit):
		if m.sidebarVisible() {
			return m.openSelectedChat()
		}
		return m.submit()

	case key.Matches(msg, m.keyMap.NewChat):
		return m.newChat()

	case key.Matches(msg, m.keyMap.Save):
		return m.saveChat()

	case key.Matches(msg, m.keyMap.Copy):
		return m.copyCode()

	case key.Matches(msg, m.keyMap.Sidebar):
		m.sidebarOpen = !m.sidebarOpen
		m.SetSize(m.width, m.height)
		if m.sidebarOpen && m.client.Authenticated() {
			return m, m.loadHistoryCmd()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Logout):
		return m, func() tea.Msg { return LogoutMsg{} }

	case key.Matches(msg, m.keyMap.Up):
		if m.sidebarVisible() {
			if m.historySelected > 0 {
				m.historySelected--
			}
			return m, nil
		}

	case key.Matches(msg, m.keyMap.Down):
		if m.sidebarVisible() {
			if m.historySelected < len(m.history)-1 {
				m.historySelected++
			}
			return m, nil
		}
	}

	// Suggestion shortcuts only apply on the welcome screen with an empty
	// composer, so typing "1" into a message still works.
	if m.conversation.IsEmpty() && m.input.Value() == "" {
		if n := suggestionKey(msg.String()); n >= 0 {
			m.suggestionPick = n
			m.input.SetValue(components.PromptSuggestions[n])
			m.input.CursorEnd()
			return m, nil
		}
	}

	return m.updateComponents(msg)
}

func suggestionKey(k string) int {
	if len(k) == 1 && k[0] >= '1' && k[0] <= '4' {
		return int(k[0] - '1')
	}
	return -1
}

// =============================================================================
// SUBMIT AND REPLY
// =============================================================================

// submit sends the composer content. One request runs at a time; submit is
// ignored while a reply is pending or revealing.
func (m Model) submit() (Model, tea.Cmd) {
	if m.state != StateReady {
		return m, nil
	}
	content := m.input.Value()
	if content == "" {
		return m, nil
	}

	m.conversation.AddUserMessage(content)
	placeholder := m.conversation.AddAssistantMessage()

	m.input.Reset()
	m.suggestionPick = -1
	m.state = StateWaiting
	m.refreshViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(m.typing.Start(), m.sendChatCmd(placeholder.ID))
}

func (m Model) handleReply(msg ReplyMsg) (Model, tea.Cmd) {
	last := m.conversation.GetLastMessage()
	if last == nil || last.ID != msg.MessageID || !last.IsStreaming {
		// The conversation moved on; drop the orphaned reply.
		return m, nil
	}

	m.typing.Stop()
	m.state = StateRevealing
	m.revealer = newRevealer(msg.Response)
	m.revealID = msg.MessageID

	return m, m.revealTickCmd(msg.MessageID)
}

func (m Model) handleReplyErr(msg ReplyErrMsg) (Model, tea.Cmd) {
	m.typing.Stop()
	m.state = StateReady

	last := m.conversation.GetLastMessage()
	if last != nil && last.ID == msg.MessageID && last.IsStreaming {
		m.conversation.SetLastContent("Error: "+msg.Err.Error(), false)
	}
	m.refreshViewport()
	m.viewport.GotoBottom()
	return m, nil
}

// =============================================================================
// CONVERSATION MANAGEMENT
// =============================================================================

func (m Model) newChat() (Model, tea.Cmd) {
	m.stopReveal()
	m.typing.Stop()
	m.state = StateReady
	m.conversation = model.NewConversation()
	m.copied = components.CopyState{}
	m.suggestionPick = -1
	m.refreshViewport()
	return m, nil
}

func (m Model) saveChat() (Model, tea.Cmd) {
	if !m.client.Authenticated() {
		return m, m.setStatus("sign in to save chats")
	}
	if m.conversation.IsEmpty() {
		return m, m.setStatus("nothing to save")
	}
	return m, m.saveChatCmd()
}

func (m Model) openSelectedChat() (Model, tea.Cmd) {
	if len(m.history) == 0 {
		return m, nil
	}
	return m, m.loadChatCmd(m.history[m.historySelected].ID)
}

func (m Model) handleChatLoaded(msg ChatLoadedMsg) (Model, tea.Cmd) {
	m.stopReveal()
	m.typing.Stop()
	m.state = StateReady

	conv := model.NewConversation()
	conv.Title = msg.Chat.Title
	conv.RemoteID = msg.Chat.ID
	for _, wire := range msg.Chat.Messages {
		conv.AddMessage(model.NewMessage(model.Role(wire.Role), wire.Content))
	}
	m.conversation = conv
	m.sidebarOpen = false
	m.SetSize(m.width, m.height)
	m.viewport.GotoBottom()
	return m, nil
}

// =============================================================================
// COPY
// =============================================================================

// copyCode copies a code block from the last assistant message. Pressing the
// key again while the confirmation shows advances to the next block.
func (m Model) copyCode() (Model, tea.Cmd) {
	target := m.lastAssistantMessage()
	if target == nil {
		return m, nil
	}

	count := components.CodeBlockCount(target.Content)
	if count == 0 {
		return m, m.setStatus("no code block to copy")
	}

	index := 0
	if m.copied.MessageID == target.ID {
		index = (m.copied.BlockIndex + 1) % count
	}

	content, ok := components.CodeBlockContent(target.Content, index)
	if !ok {
		return m, nil
	}

	cmd := m.copied.Copy(target.ID, index, content)
	if cmd == nil {
		return m, m.setStatus("clipboard unavailable")
	}
	m.refreshViewport()
	return m, cmd
}

func (m *Model) lastAssistantMessage() *model.Message {
	history := m.conversation.History()
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == model.RoleAssistant && !history[i].IsStreaming {
			return history[i]
		}
	}
	return nil
}

// =============================================================================
// COMPONENT FANOUT
// =============================================================================

func (m Model) updateComponents(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}
