// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file holds the Bubble Tea commands: every network call and timer the
// chat view issues lives here and reports back through a typed message.
package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/parley-tui/internal/model"
	"github.com/jeranaias/parley-tui/internal/storage"
)

// requestTimeout bounds one completion round trip from the client side.
const requestTimeout = 150 * time.Second

// wireMessages converts conversation history to the API message shape.
// The streaming placeholder at the tail is excluded.
func wireMessages(messages []*model.Message) []storage.ChatMessage {
	wire := make([]storage.ChatMessage, 0, len(messages))
	for _, msg := range messages {
		if msg.IsStreaming || msg.IsEmpty() {
			continue
		}
		wire = append(wire, storage.ChatMessage{
			Role:    msg.Role.String(),
			Content: msg.Content,
		})
	}
	return wire
}

// sendChatCmd requests a completion for the current history. messageID names
// the placeholder the reveal will fill.
func (m *Model) sendChatCmd(messageID string) tea.Cmd {
	history := wireMessages(m.conversation.History())
	temperature := m.cfg.Chat.Temperature
	maxTokens := m.cfg.Chat.MaxTokens
	client := m.client

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		response, err := client.Chat(ctx, history, temperature, maxTokens)
		if err != nil {
			return ReplyErrMsg{MessageID: messageID, Err: err}
		}
		return ReplyMsg{MessageID: messageID, Response: response}
	}
}

// revealTickCmd schedules the next word of the reveal.
func (m *Model) revealTickCmd(messageID string) tea.Cmd {
	return tea.Tick(m.revealInterval(), func(t time.Time) tea.Msg {
		return RevealTickMsg{MessageID: messageID, At: t}
	})
}

// loadHistoryCmd fetches the saved chat list for the sidebar.
func (m *Model) loadHistoryCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		chats, err := client.History(ctx)
		if err != nil {
			return HistoryErrMsg{Err: err}
		}
		return HistoryLoadedMsg{Chats: chats}
	}
}

// loadChatCmd fetches one saved chat.
func (m *Model) loadChatCmd(id int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		chat, err := client.GetChat(ctx, id)
		if err != nil {
			return HistoryErrMsg{Err: err}
		}
		return ChatLoadedMsg{Chat: chat}
	}
}

// saveChatCmd persists the current conversation.
func (m *Model) saveChatCmd() tea.Cmd {
	title := m.conversation.Title
	messages := wireMessages(m.conversation.History())
	client := m.client

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		chat, err := client.SaveChat(ctx, title, messages)
		if err != nil {
			return ChatSaveErrMsg{Err: err}
		}
		return ChatSavedMsg{Chat: chat}
	}
}

// setStatus installs a transient status line that clears itself.
func (m *Model) setStatus(text string) tea.Cmd {
	m.statusMsg = text
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return StatusClearMsg{Seq: seq}
	})
}
