// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package detect provides heuristic code-language detection for fenced code
// blocks.
package detect

import (
	"regexp"
	"strings"
)

// DefaultLanguage is returned when no pattern matches.
const DefaultLanguage = "xml"

// languagePattern pairs a display label with its detection pattern. Patterns
// use (?m) so ^ anchors to the start of any line in the block, not just the
// start of the string.
type languagePattern struct {
	name string
	re   *regexp.Regexp
}

// languageTable is tried in declared order; the first match wins. Order is
// part of the contract: moving an entry changes detection results.
var languageTable = []languagePattern{
	{"python", regexp.MustCompile(`(?m)^\s*(def |class \w+.*:|import \w|from \w+ import|print\()`)},
	{"javascript", regexp.MustCompile(`(?m)^\s*(const |let |var |function |console\.|=>)`)},
	{"typescript", regexp.MustCompile(`(?m)^\s*(interface \w|type \w+ =|enum \w|declare )`)},
	{"java", regexp.MustCompile(`(?m)^\s*(public (class|static)|import java\.|System\.out)`)},
	{"sql", regexp.MustCompile(`(?mi)^\s*(select |insert into|update \w+ set|delete from|create table)`)},
	{"php", regexp.MustCompile(`(?m)^\s*(<\?php|\$\w+\s*=|echo )`)},
	{"cpp", regexp.MustCompile(`(?m)^\s*(#include\s*[<"]|std::|int main\s*\()`)},
	{"csharp", regexp.MustCompile(`(?m)^\s*(using System|namespace \w|Console\.Write)`)},
	{"go", regexp.MustCompile(`(?m)^\s*(package \w+$|func \w|import \(|fmt\.)`)},
	{"rust", regexp.MustCompile(`(?m)^\s*(fn \w|let mut |use \w+::|impl )`)},
	{"ruby", regexp.MustCompile(`(?m)^\s*(require ['"]|puts |\w+\.each do)`)},
	{"bash", regexp.MustCompile(`(?m)^\s*(#!/bin/(ba)?sh|echo |sudo |curl |\$\{\w)`)},
	{"html", regexp.MustCompile(`(?m)^\s*<(!DOCTYPE|!doctype|html|head|body|div|span|p|a)[\s>]`)},
	{"css", regexp.MustCompile(`(?m)^\s*[.#]?[\w-]+\s*\{\s*$`)},
	{"json", regexp.MustCompile(`(?m)^\s*[{\[]\s*$|^\s*"[\w-]+"\s*:`)},
	{"xml", regexp.MustCompile(`(?m)^\s*<\?xml|^\s*<[\w-]+( [\w-]+=|>|/>)`)},
}

// Language returns the display label for a code block. A non-empty declared
// tag wins verbatim (trimmed, lowercased); otherwise the content is tested
// against the language table and the first matching entry's name is returned,
// falling back to DefaultLanguage.
func Language(code, declaredTag string) string {
	if tag := strings.TrimSpace(declaredTag); tag != "" {
		return strings.ToLower(tag)
	}

	for _, lp := range languageTable {
		if lp.re.MatchString(code) {
			return lp.name
		}
	}
	return DefaultLanguage
}
