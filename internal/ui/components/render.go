// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the parley TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/parley-tui/internal/markdown"
	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

// =============================================================================
// BLOCK RENDERER
// =============================================================================

// RenderBlocks renders parsed markdown blocks for terminal display.
// Each block owns its visual treatment; spans inside flow blocks are styled
// individually so bold, italic, code, and links keep their emphasis.
func RenderBlocks(blocks []markdown.Block, theme *styles.Theme, width int) string {
	return RenderBlocksCopied(blocks, theme, width, -1)
}

// RenderBlocksCopied is RenderBlocks with the copy confirmation shown on one
// code block. copiedIndex counts code blocks top to bottom; -1 shows none.
func RenderBlocksCopied(blocks []markdown.Block, theme *styles.Theme, width, copiedIndex int) string {
	if width < 20 {
		width = 20
	}

	var out []string
	codeIndex := 0
	for _, block := range blocks {
		switch b := block.(type) {
		case markdown.Heading:
			out = append(out, renderHeading(b, theme))
		case markdown.CodeBlock:
			cb := NewCodeView(b.Language, b.Content, theme)
			cb.SetMaxWidth(width)
			cb.Copied = codeIndex == copiedIndex
			codeIndex++
			out = append(out, cb.Render())
		case markdown.Table:
			out = append(out, renderTable(b, theme))
		case markdown.List:
			out = append(out, renderList(b, theme))
		case markdown.OrderedList:
			out = append(out, renderOrderedList(b, theme))
		case markdown.Quote:
			out = append(out, renderQuote(b, theme))
		case markdown.Paragraph:
			out = append(out, renderSpans(b.Spans, theme))
		case markdown.Spacer:
			out = append(out, "")
		}
	}
	return strings.Join(out, "\n")
}

// renderSpans styles one tokenized line of inline content.
func renderSpans(spans []markdown.Span, theme *styles.Theme) string {
	var sb strings.Builder
	for _, span := range spans {
		switch s := span.(type) {
		case markdown.Text:
			sb.WriteString(s.Content)
		case markdown.Bold:
			sb.WriteString(theme.BoldText.Render(s.Content))
		case markdown.Italic:
			sb.WriteString(theme.ItalicText.Render(s.Content))
		case markdown.Code:
			sb.WriteString(theme.InlineCode.Render(s.Content))
		case markdown.Link:
			sb.WriteString(theme.LinkText.Render(s.Label) +
				theme.QuoteBar.Render(" ("+s.URL+")"))
		}
	}
	return sb.String()
}

func renderHeading(h markdown.Heading, theme *styles.Theme) string {
	text := renderSpans(h.Spans, theme)
	switch h.Level {
	case 1:
		return theme.Heading1.Render(text)
	case 2:
		return theme.Heading2.Render(text)
	default:
		return theme.Heading3.Render(text)
	}
}

func renderList(l markdown.List, theme *styles.Theme) string {
	lines := make([]string, len(l.Items))
	for i, item := range l.Items {
		lines[i] = theme.ListBullet.Render("•") + " " + renderSpans(item, theme)
	}
	return strings.Join(lines, "\n")
}

func renderOrderedList(l markdown.OrderedList, theme *styles.Theme) string {
	lines := make([]string, len(l.Items))
	for i, item := range l.Items {
		lines[i] = theme.ListBullet.Render(item.Number+".") + " " + renderSpans(item.Spans, theme)
	}
	return strings.Join(lines, "\n")
}

func renderQuote(q markdown.Quote, theme *styles.Theme) string {
	lines := make([]string, len(q.Lines))
	for i, line := range q.Lines {
		lines[i] = theme.QuoteBar.Render("│") + " " + theme.QuoteText.Render(renderSpans(line, theme))
	}
	return strings.Join(lines, "\n")
}

// renderTable lays header and rows out in width-aligned columns. Cell widths
// use the plain text so ANSI styling does not skew alignment.
func renderTable(t markdown.Table, theme *styles.Theme) string {
	cols := len(t.Header)
	if cols == 0 {
		return ""
	}

	widths := make([]int, cols)
	measure := func(cells [][]markdown.Span) {
		for i, cell := range cells {
			if i >= cols {
				break
			}
			if w := runewidth.StringWidth(markdown.PlainText(cell)); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.Header)
	for _, row := range t.Rows {
		measure(row)
	}

	renderRow := func(cells [][]markdown.Span, style lipgloss.Style) string {
		parts := make([]string, cols)
		for i := range parts {
			var text, plain string
			if i < len(cells) {
				text = style.Render(renderSpans(cells[i], theme))
				plain = markdown.PlainText(cells[i])
			}
			pad := widths[i] - runewidth.StringWidth(plain)
			parts[i] = text + strings.Repeat(" ", pad)
		}
		return strings.Join(parts, "  ")
	}

	rule := make([]string, cols)
	for i, w := range widths {
		rule[i] = strings.Repeat("─", w)
	}

	lines := []string{
		renderRow(t.Header, theme.TableHead),
		theme.QuoteBar.Render(strings.Join(rule, "  ")),
	}
	for _, row := range t.Rows {
		lines = append(lines, renderRow(row, theme.TableCell))
	}
	return strings.Join(lines, "\n")
}
