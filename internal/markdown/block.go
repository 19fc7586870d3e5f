// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markdown implements the incremental message renderer's parsing
// core: a line-oriented block parser and an inline span tokenizer.
package markdown

import (
	"regexp"
	"strings"

	"github.com/jeranaias/parley-tui/internal/detect"
)

// =============================================================================
// BLOCK TYPES
// =============================================================================

// Block is one structural unit of rendered message content.
type Block interface {
	block()
}

// Heading is a # .. ###### line.
type Heading struct {
	Level int // 1..6
	Spans []Span
}

// CodeBlock is the verbatim content between triple-backtick fences. Content
// is never inline-tokenized. Language is the declared fence tag when present,
// otherwise the sniffer's guess.
type CodeBlock struct {
	Language string
	Content  string
}

// Table is a pipe-delimited table. The alignment separator row is consumed
// and discarded during parsing.
type Table struct {
	Header []([]Span)
	Rows   [][][]Span
}

// List is a contiguous run of bullet items.
type List struct {
	Items [][]Span
}

// OrderedList is a contiguous run of numbered items. Numbers are kept as
// written; they are not validated or renumbered.
type OrderedList struct {
	Items []OrderedItem
}

// OrderedItem is one numbered list entry.
type OrderedItem struct {
	Number string
	Spans  []Span
}

// Quote is a contiguous run of > lines, one span slice per quoted line.
type Quote struct {
	Lines [][]Span
}

// Paragraph is the fallback block for any line no other branch claims.
type Paragraph struct {
	Spans []Span
}

// Spacer marks a blank line. It carries no content but keeps vertical rhythm.
type Spacer struct{}

func (Heading) block()     {}
func (CodeBlock) block()   {}
func (Table) block()       {}
func (List) block()        {}
func (OrderedList) block() {}
func (Quote) block()       {}
func (Paragraph) block()   {}
func (Spacer) block()      {}

// =============================================================================
// BLOCK PARSER
// =============================================================================

var (
	headingRe = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	bulletRe  = regexp.MustCompile(`^[-*]\s+(.*)$`)
	orderedRe = regexp.MustCompile(`^(\d+)\.\s+(.*)$`)
)

// Parse splits text into lines and classifies them into blocks in a single
// left-to-right pass. Branch priority at each cursor position: blank line,
// heading, table, fenced code, bullet list, ordered list, quote, paragraph.
// Table detection runs before list detection so a row whose first cell is a
// dash is not consumed as a bullet; the fence branch runs before inline-aware
// branches so code content stays verbatim. Once a branch consumes lines they
// are permanently assigned: there is no backtracking.
func Parse(text string) []Block {
	lines := strings.Split(text, "\n")
	var blocks []Block

	for i := 0; i < len(lines); {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		// Blank line.
		if trimmed == "" {
			blocks = append(blocks, Spacer{})
			i++
			continue
		}

		// Heading. Seven or more # characters fall through to paragraph.
		if m := headingRe.FindStringSubmatch(trimmed); m != nil {
			blocks = append(blocks, Heading{
				Level: len(m[1]),
				Spans: Tokenize(m[2]),
			})
			i++
			continue
		}

		// Table. Commits only when at least a header and separator row are
		// present; a lone pipe line falls through so its content is not
		// silently dropped.
		if strings.Contains(line, "|") {
			n := i
			for n < len(lines) && strings.Contains(lines[n], "|") {
				n++
			}
			if n-i >= 2 {
				blocks = append(blocks, parseTable(lines[i:n]))
				i = n
				continue
			}
		}

		// Fenced code. Consumes through the closing fence, or to end of
		// input when the fence is never closed.
		if strings.HasPrefix(trimmed, "```") {
			tag := strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			j := i + 1
			for j < len(lines) && !strings.HasPrefix(strings.TrimSpace(lines[j]), "```") {
				j++
			}
			content := strings.Join(lines[i+1:j], "\n")
			blocks = append(blocks, CodeBlock{
				Language: detect.Language(content, tag),
				Content:  content,
			})
			if j < len(lines) {
				j++ // closing fence
			}
			i = j
			continue
		}

		// Bullet list. The marker must be followed by whitespace so a line
		// opening with **bold** is not read as a bullet, and a --- rule is
		// never a one-item list.
		if trimmed != "---" && bulletRe.MatchString(trimmed) {
			var items [][]Span
			for i < len(lines) {
				t := strings.TrimSpace(lines[i])
				m := bulletRe.FindStringSubmatch(t)
				if t == "---" || m == nil {
					break
				}
				items = append(items, Tokenize(m[1]))
				i++
			}
			blocks = append(blocks, List{Items: items})
			continue
		}

		// Ordered list.
		if orderedRe.MatchString(trimmed) {
			var items []OrderedItem
			for i < len(lines) {
				m := orderedRe.FindStringSubmatch(strings.TrimSpace(lines[i]))
				if m == nil {
					break
				}
				items = append(items, OrderedItem{Number: m[1], Spans: Tokenize(m[2])})
				i++
			}
			blocks = append(blocks, OrderedList{Items: items})
			continue
		}

		// Block quote. Strips the > and one following space per line.
		if strings.HasPrefix(trimmed, ">") {
			var quoted [][]Span
			for i < len(lines) {
				t := strings.TrimSpace(lines[i])
				if !strings.HasPrefix(t, ">") {
					break
				}
				t = strings.TrimPrefix(t, ">")
				t = strings.TrimPrefix(t, " ")
				quoted = append(quoted, Tokenize(t))
				i++
			}
			blocks = append(blocks, Quote{Lines: quoted})
			continue
		}

		// Paragraph fallback.
		blocks = append(blocks, Paragraph{Spans: Tokenize(trimmed)})
		i++
	}

	return blocks
}

// parseTable builds a Table from a contiguous run of pipe lines. The first
// line is the header, the second is assumed to be the alignment separator and
// is discarded, the rest are body rows.
func parseTable(lines []string) Table {
	t := Table{Header: splitCells(lines[0])}
	for _, row := range lines[2:] {
		t.Rows = append(t.Rows, splitCells(row))
	}
	return t
}

// splitCells splits a table row on pipes, trims each cell, and drops the
// empty leading/trailing cells produced by outer pipes.
func splitCells(line string) [][]Span {
	parts := strings.Split(line, "|")
	if len(parts) > 0 && strings.TrimSpace(parts[0]) == "" {
		parts = parts[1:]
	}
	if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}

	cells := make([][]Span, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, Tokenize(strings.TrimSpace(p)))
	}
	return cells
}
