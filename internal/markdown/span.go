// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markdown implements the incremental message renderer's parsing
// core: a line-oriented block parser and an inline span tokenizer.
//
// The parser is deliberately not a CommonMark implementation. It is a
// single-pass classifier with a fixed branch priority and no backtracking,
// which keeps rendering deterministic while a reply is still being revealed
// word by word. Every input line is assigned to exactly one block; malformed
// input falls through to a paragraph instead of failing.
package markdown

import (
	"regexp"
)

// =============================================================================
// SPAN TYPES
// =============================================================================

// Span is one inline-formatted fragment of a single line. Spans never cross
// line boundaries.
type Span interface {
	span()
}

// Text is an unformatted run of characters.
type Text struct {
	Content string
}

// Bold is text delimited by ** or __.
type Bold struct {
	Content string
}

// Italic is text delimited by * or _.
type Italic struct {
	Content string
}

// Code is text delimited by backticks.
type Code struct {
	Content string
}

// Link is a [label](url) pair. The destination must immediately follow the
// label's closing bracket; otherwise the text is left plain.
type Link struct {
	Label string
	URL   string
}

func (Text) span()   {}
func (Bold) span()   {}
func (Italic) span() {}
func (Code) span()   {}
func (Link) span()   {}

// =============================================================================
// INLINE TOKENIZER
// =============================================================================

// inlineRe matches the next inline entity. Alternative order is the priority
// order: both bold forms are tried before the single-character italic forms so
// that **x** is never read as two adjacent italics. Go's regexp engine keeps
// leftmost-first alternation semantics, which makes the order binding.
var inlineRe = regexp.MustCompile(
	`\*\*(.+?)\*\*` + // 1: bold
		`|__(.+?)__` + // 2: bold
		`|_(.+?)_` + // 3: italic
		`|\*(.+?)\*` + // 4: italic
		"|`(.+?)`" + // 5: inline code
		`|\[([^\]]+)\]\(([^)]+)\)`) // 6, 7: link label + destination

// Tokenize scans a single line left to right and returns its spans. Text
// before and between entity matches is emitted as Text spans; a line with no
// entities yields a single Text span (possibly empty).
func Tokenize(line string) []Span {
	var spans []Span
	rest := line

	for {
		loc := inlineRe.FindStringSubmatchIndex(rest)
		if loc == nil {
			break
		}
		if loc[0] > 0 {
			spans = append(spans, Text{Content: rest[:loc[0]]})
		}
		spans = append(spans, spanAt(rest, loc))
		rest = rest[loc[1]:]
	}

	if rest != "" || len(spans) == 0 {
		spans = append(spans, Text{Content: rest})
	}
	return spans
}

// spanAt converts a submatch index vector into the typed span for whichever
// alternative matched.
func spanAt(s string, loc []int) Span {
	group := func(n int) (string, bool) {
		if loc[2*n] < 0 {
			return "", false
		}
		return s[loc[2*n]:loc[2*n+1]], true
	}

	if v, ok := group(1); ok {
		return Bold{Content: v}
	}
	if v, ok := group(2); ok {
		return Bold{Content: v}
	}
	if v, ok := group(3); ok {
		return Italic{Content: v}
	}
	if v, ok := group(4); ok {
		return Italic{Content: v}
	}
	if v, ok := group(5); ok {
		return Code{Content: v}
	}
	label, _ := group(6)
	url, _ := group(7)
	return Link{Label: label, URL: url}
}

// PlainText flattens spans back into unformatted text. Used for previews and
// for copying table cells.
func PlainText(spans []Span) string {
	var out string
	for _, sp := range spans {
		switch v := sp.(type) {
		case Text:
			out += v.Content
		case Bold:
			out += v.Content
		case Italic:
			out += v.Content
		case Code:
			out += v.Content
		case Link:
			out += v.Label
		}
	}
	return out
}
