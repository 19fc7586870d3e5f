// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
)

func TestNewConversation(t *testing.T) {
	c := NewConversation()
	if c.ID == "" {
		t.Error("conversation should get a generated ID")
	}
	if !c.IsEmpty() {
		t.Error("new conversation should be empty")
	}
}

func TestAddUserMessage(t *testing.T) {
	c := NewConversation()
	msg := c.AddUserMessage("hello")

	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
	if msg.Role != RoleUser || msg.Content != "hello" {
		t.Errorf("message = %+v", msg)
	}
	if msg.IsStreaming {
		t.Error("user messages are never streaming")
	}
}

func TestAddAssistantMessage(t *testing.T) {
	c := NewConversation()
	msg := c.AddAssistantMessage()

	if !msg.IsStreaming {
		t.Error("new assistant message should be streaming")
	}
	if msg.Content != "" {
		t.Error("new assistant message should be empty")
	}
}

func TestSetLastContent(t *testing.T) {
	c := NewConversation()
	c.AddUserMessage("q")
	c.AddAssistantMessage()

	c.SetLastContent("partial", true)
	last := c.GetLastMessage()
	if last.Content != "partial" || !last.IsStreaming {
		t.Errorf("last = %+v", last)
	}

	c.SetLastContent("partial done", false)
	last = c.GetLastMessage()
	if last.Content != "partial done" || last.IsStreaming {
		t.Errorf("last = %+v", last)
	}

	// Finalized messages are immutable: a late write must not land.
	c.SetLastContent("stale overwrite", true)
	if c.GetLastMessage().Content != "partial done" {
		t.Error("SetLastContent mutated a finalized message")
	}
}

func TestSetLastContent_EmptyConversation(t *testing.T) {
	c := NewConversation()
	c.SetLastContent("x", true) // must not panic
	if !c.IsEmpty() {
		t.Error("SetLastContent on empty conversation should be a no-op")
	}
}

func TestTitleFromFirstUserMessage(t *testing.T) {
	c := NewConversation()
	c.AddSystemMessage("sys")
	c.AddUserMessage("What is the capital of France?")
	c.AddUserMessage("second question")

	if c.Title != "What is the capital of France?" {
		t.Errorf("Title = %q", c.Title)
	}
}

func TestTitleTruncation(t *testing.T) {
	c := NewConversation()
	long := strings.Repeat("q", 80)
	c.AddUserMessage(long)

	if len([]rune(c.Title)) != titlePreviewLen {
		t.Errorf("title length = %d, want %d", len([]rune(c.Title)), titlePreviewLen)
	}
	if !strings.HasSuffix(c.Title, "...") {
		t.Errorf("truncated title should end with ellipsis: %q", c.Title)
	}
}

func TestClear(t *testing.T) {
	c := NewConversation()
	c.AddUserMessage("a")
	id := c.ID
	c.Clear()

	if !c.IsEmpty() {
		t.Error("Clear should remove all messages")
	}
	if c.ID != id {
		t.Error("Clear should keep conversation identity")
	}
}

func TestPruneOldMessages(t *testing.T) {
	c := NewConversation()
	for i := 0; i < MaxMessages+10; i++ {
		c.AddMessage(NewUserMessage("m"))
	}
	if c.Len() != MaxMessages {
		t.Errorf("Len = %d, want %d", c.Len(), MaxMessages)
	}
}

func TestPreview_Unicode(t *testing.T) {
	m := NewUserMessage("héllo wörld")
	if got := m.Preview(8); got != "héllo..." {
		t.Errorf("Preview = %q", got)
	}
}

func TestRoleDisplayName(t *testing.T) {
	if RoleUser.DisplayName() != "You" {
		t.Error("RoleUser display name")
	}
	if RoleAssistant.DisplayName() != "Assistant" {
		t.Error("RoleAssistant display name")
	}
}
