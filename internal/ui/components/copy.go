// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// copyResetDelay is how long the copy confirmation stays visible.
const copyResetDelay = 2000 * time.Millisecond

// CopyResetMsg clears the copy confirmation when its sequence number is
// still current. A stale sequence means the user copied again meanwhile and
// the newer reset owns the indicator.
type CopyResetMsg struct {
	Seq int
}

// CopyState tracks which code block of which message is showing the copy
// confirmation.
type CopyState struct {
	// MessageID is the message whose code block was copied, empty when idle.
	MessageID string
	// BlockIndex counts code blocks within the message, top to bottom.
	BlockIndex int

	seq int
}

// Active reports whether a confirmation is currently showing.
func (c *CopyState) Active() bool {
	return c.MessageID != ""
}

// CopiedIndex returns the confirmed code block index for the given message,
// or -1 when that message shows no confirmation.
func (c *CopyState) CopiedIndex(messageID string) int {
	if c.MessageID != messageID {
		return -1
	}
	return c.BlockIndex
}

// Copy places content on the system clipboard and arms the confirmation.
// Copying again before the reset fires extends the indicator: the new
// sequence number invalidates the pending reset.
func (c *CopyState) Copy(messageID string, blockIndex int, content string) tea.Cmd {
	if err := clipboard.WriteAll(content); err != nil {
		return nil
	}

	c.MessageID = messageID
	c.BlockIndex = blockIndex
	c.seq++

	seq := c.seq
	return tea.Tick(copyResetDelay, func(time.Time) tea.Msg {
		return CopyResetMsg{Seq: seq}
	})
}

// HandleReset clears the confirmation if the reset is still current.
// Returns true when the view should be refreshed.
func (c *CopyState) HandleReset(msg CopyResetMsg) bool {
	if msg.Seq != c.seq || !c.Active() {
		return false
	}
	c.MessageID = ""
	c.BlockIndex = 0
	return true
}
