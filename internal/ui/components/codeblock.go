// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the parley TUI.
package components

import (
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

// =============================================================================
// CODE BLOCK VIEW
// =============================================================================

// CodeView renders one fenced code block: a language badge, the highlighted
// source with line numbers, and a copy hint (or confirmation) in the footer.
type CodeView struct {
	Language string
	Code     string
	MaxWidth int

	// Copied switches the footer hint to a confirmation.
	Copied bool

	theme *styles.Theme
}

// NewCodeView creates a code view for the given language and source.
func NewCodeView(language, code string, theme *styles.Theme) CodeView {
	return CodeView{
		Language: language,
		Code:     code,
		MaxWidth: 80,
		theme:    theme,
	}
}

// SetMaxWidth sets the maximum width for the block.
func (c *CodeView) SetMaxWidth(width int) {
	c.MaxWidth = width
}

// Render renders the code block with syntax highlighting.
func (c CodeView) Render() string {
	lines := strings.Split(highlightCode(c.Code, c.Language), "\n")

	lineNumStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Width(4).
		Align(lipgloss.Right).
		MarginRight(1)

	rendered := make([]string, len(lines))
	for i, line := range lines {
		rendered[i] = lineNumStyle.Render(strconv.Itoa(i+1)) + line
	}

	header := c.theme.CodeLangBadge.Render(c.Language)

	footer := c.theme.CodeCopyHint.Render("ctrl+y to copy")
	if c.Copied {
		footer = c.theme.CodeCopied.Render("✓ copied")
	}

	maxWidth := c.MaxWidth - 4
	if maxWidth < 20 {
		maxWidth = 20
	}

	body := header + "\n" + strings.Join(rendered, "\n") + "\n" + footer
	return c.theme.CodeBlock.MaxWidth(maxWidth).Render(body)
}

// =============================================================================
// SYNTAX HIGHLIGHTING
// =============================================================================

// highlightCode applies ANSI syntax highlighting via chroma. Unknown
// languages fall back to content analysis, then to plain text.
func highlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}
