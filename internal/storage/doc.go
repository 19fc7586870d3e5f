// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the SQLite-backed store for users and saved
// chats.
//
// Chat messages are persisted as raw text in a JSON column. Rendered blocks
// are never stored: the renderer recomputes them from message text on every
// display.
package storage
