// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package detect provides heuristic code-language detection for fenced code
// blocks.
package detect

import "testing"

func TestLanguage_DeclaredTagWins(t *testing.T) {
	// The tag wins no matter what the content looks like.
	if got := Language("def f(): pass", "rust"); got != "rust" {
		t.Errorf("Language with tag = %q, want rust", got)
	}

	// Tag is trimmed and lowercased.
	if got := Language("def f(): pass", "  PyThOn "); got != "python" {
		t.Errorf("Language with mixed-case tag = %q, want python", got)
	}
}

func TestLanguage_Sniffing(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"python def", "def f(): pass", "python"},
		{"python import", "import os\nos.getcwd()", "python"},
		{"javascript const", "const a = 1;", "javascript"},
		{"typescript interface", "interface Point { x: number }", "typescript"},
		{"java class", "public class Main {}", "java"},
		{"sql select", "SELECT id FROM users;", "sql"},
		{"sql lowercase", "select * from chats", "sql"},
		{"php open tag", "<?php echo 1;", "php"},
		{"cpp include", `#include <stdio.h>`, "cpp"},
		{"csharp using", "using System;", "csharp"},
		{"go package", "package main\n\nfunc main() {}", "go"},
		{"rust fn", "fn main() {}", "rust"},
		{"ruby require", "require 'json'", "ruby"},
		{"shell shebang", "#!/bin/bash\nls", "bash"},
		{"html doctype", "<!DOCTYPE html>\n<html>", "html"},
		{"css rule", "body {\n  color: red;\n}", "css"},
		{"json object", "{\n  \"a\": 1\n}", "json"},
		{"unknown falls back", "???", "xml"},
		{"empty falls back", "", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Language(tt.code, ""); got != tt.want {
				t.Errorf("Language(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestLanguage_MidBlockAnchor(t *testing.T) {
	// Patterns anchor to the start of any line, not just the first.
	code := "# notes about the function\ndef handler(event):\n    return event"
	if got := Language(code, ""); got != "python" {
		t.Errorf("Language = %q, want python", got)
	}
}

func TestLanguage_Deterministic(t *testing.T) {
	// Identical input always yields the identical label.
	code := "const x = require('fs')\nimport os"
	first := Language(code, "")
	for i := 0; i < 5; i++ {
		if got := Language(code, ""); got != first {
			t.Fatalf("Language not stable: %q then %q", first, got)
		}
	}
}
