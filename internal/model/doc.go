// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// A Conversation is the transcript: an ordered, chronological list of
// Messages owned by a single controller. Streaming is modeled in place — an
// assistant Message is created empty with IsStreaming set, its Content is
// replaced step by step while the reveal runs, and the flag drops to false
// on the final state, after which the message is immutable.
package model
