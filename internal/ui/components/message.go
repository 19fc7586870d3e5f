// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the parley TUI.
package components

import (
	"strings"

	"github.com/jeranaias/parley-tui/internal/markdown"
	"github.com/jeranaias/parley-tui/internal/model"
	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one chat message. Assistant content is re-parsed and
// re-rendered on every view so partially revealed markdown always reflects
// the current text.
type MessageBubble struct {
	Message *model.Message
	Width   int

	// CopiedBlock is the code block index showing the copy confirmation,
	// -1 for none.
	CopiedBlock int

	theme *styles.Theme
}

// NewMessageBubble creates a message bubble.
func NewMessageBubble(msg *model.Message, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{
		Message:     msg,
		Width:       80,
		CopiedBlock: -1,
		theme:       theme,
	}
}

// SetWidth sets the bubble width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	switch b.Message.Role {
	case model.RoleUser:
		return b.renderUser()
	case model.RoleAssistant:
		return b.renderAssistant()
	default:
		return b.renderSystem()
	}
}

// User messages are shown verbatim: what was typed is what appears.
func (b *MessageBubble) renderUser() string {
	content := b.Message.Content
	if content == "" {
		content = "..."
	}

	sender := b.theme.MessageSender.Render(b.Message.Role.DisplayName())
	stamp := b.theme.MessageTime.Render(b.Message.Timestamp.Format("15:04"))
	bubble := b.theme.UserBubble.MaxWidth(b.contentWidth()).Render(wordWrap(content, b.contentWidth()-4))

	return sender + " " + stamp + "\n" + bubble
}

// Assistant messages go through the markdown pipeline. During streaming the
// text grows word by word and each view re-parses the current prefix.
func (b *MessageBubble) renderAssistant() string {
	sender := b.theme.MessageSender.Render(b.Message.Role.DisplayName())
	stamp := b.theme.MessageTime.Render(b.Message.Timestamp.Format("15:04"))
	if b.Message.IsStreaming {
		stamp += " " + b.theme.ThinkingText.Render("▌")
	}

	blocks := markdown.Parse(b.Message.Content)
	body := RenderBlocksCopied(blocks, b.theme, b.contentWidth(), b.CopiedBlock)
	bubble := b.theme.AssistantBubble.MaxWidth(b.contentWidth()).Render(body)

	return sender + " " + stamp + "\n" + bubble
}

func (b *MessageBubble) renderSystem() string {
	return b.theme.SystemBubble.MaxWidth(b.contentWidth()).Render(b.Message.Content)
}

func (b *MessageBubble) contentWidth() int {
	w := b.Width - 8
	if w < 20 {
		w = 20
	}
	return w
}

// CodeBlockContent returns the source of the n'th code block in the message,
// counting top to bottom. ok is false when the message has fewer blocks.
func CodeBlockContent(content string, n int) (string, bool) {
	if n < 0 {
		return "", false
	}
	idx := 0
	for _, block := range markdown.Parse(content) {
		cb, isCode := block.(markdown.CodeBlock)
		if !isCode {
			continue
		}
		if idx == n {
			return cb.Content, true
		}
		idx++
	}
	return "", false
}

// CodeBlockCount returns how many fenced code blocks the message contains.
func CodeBlockCount(content string) int {
	count := 0
	for _, block := range markdown.Parse(content) {
		if _, isCode := block.(markdown.CodeBlock); isCode {
			count++
		}
	}
	return count
}

// wordWrap breaks text on spaces to fit maxWidth columns.
func wordWrap(text string, maxWidth int) string {
	if maxWidth < 1 {
		return text
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		out = append(out, wrapLine(line, maxWidth)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, maxWidth int) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{line}
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) > maxWidth {
			lines = append(lines, current)
			current = word
			continue
		}
		current += " " + word
	}
	return append(lines, current)
}
