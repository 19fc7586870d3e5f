// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package detect provides heuristic code-language detection for fenced code
// blocks.
//
// A fence tag declared by the author always wins. Otherwise the block's
// content is tested against an ordered table of per-language patterns and the
// first match decides the label. The heuristic is deliberately low precision:
// the label only drives syntax highlighting and the badge shown above a code
// block, so being deterministic and stable matters more than being right.
//
// # Usage
//
//	label := detect.Language("def main(): pass", "")   // "python"
//	label := detect.Language("anything", "RuSt")       // "rust"
package detect
