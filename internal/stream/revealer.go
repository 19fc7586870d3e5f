// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package stream implements the simulated streaming driver.
//
// The completion endpoint returns a finished string; the chat view replays it
// word by word to give the feel of live generation. Revealer owns the word
// arithmetic and nothing else: pacing, transcript mutation and cancellation
// belong to the view layer, which calls Next once per tick and stops when the
// final state is reached.
package stream

import "strings"

// State is one observable step of the reveal: the content shown so far and
// whether more is coming.
type State struct {
	Content   string
	Streaming bool
}

// Revealer replays a complete response incrementally. The zero value is not
// usable; construct with New.
type Revealer struct {
	words []string
	pos   int
}

// New creates a revealer over a complete response. The response is split on
// single spaces so that newlines survive inside words: the block renderer
// downstream depends on line structure, and the final revealed state must be
// byte-identical to the response.
func New(response string) *Revealer {
	return &Revealer{words: strings.Split(response, " ")}
}

// Next returns the next reveal state. The final state carries
// Streaming=false; every earlier state carries Streaming=true. An empty
// response produces exactly one state: empty content, not streaming. The
// second return is false once the reveal is exhausted.
func (r *Revealer) Next() (State, bool) {
	if r.pos >= len(r.words) {
		return State{}, false
	}

	r.pos++
	return State{
		Content:   strings.Join(r.words[:r.pos], " "),
		Streaming: r.pos < len(r.words),
	}, true
}

// Remaining reports how many reveal steps are left.
func (r *Revealer) Remaining() int {
	return len(r.words) - r.pos
}
