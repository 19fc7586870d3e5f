// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

// =============================================================================
// PROMPT SUGGESTIONS
// =============================================================================

// PromptSuggestions are offered on an empty conversation. Picking one fills
// the composer; it is not sent automatically.
var PromptSuggestions = []string{
	"Explain quantum computing in simple terms",
	"Write a Python function to sort a list",
	"What are the benefits of meditation?",
	"Help me plan a weekend trip",
}

// RenderSuggestions renders the welcome suggestions, one numbered box per
// prompt. selected highlights that entry, -1 for none.
func RenderSuggestions(theme *styles.Theme, width, selected int) string {
	title := theme.HeaderTitle.Render("Start a conversation")
	hint := theme.FormHint.Render("pick a suggestion with 1-4, or just start typing")

	boxes := make([]string, len(PromptSuggestions))
	for i, prompt := range PromptSuggestions {
		box := theme.SuggestionBox
		if i == selected {
			box = box.BorderForeground(styles.Purple)
		}
		num := theme.ShortcutKey.Render(string(rune('1' + i)))
		boxes[i] = box.MaxWidth(width - 4).Render(num + "  " + prompt)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title, "", strings.Join(boxes, "\n"), "", hint)
}
