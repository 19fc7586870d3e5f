// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package login

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/parley-tui/internal/api"
	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

func newTestLogin() Model {
	return New(api.New("http://localhost:0"), styles.NewTheme())
}

func TestSubmitRequiresCredentials(t *testing.T) {
	m := newTestLogin()

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("empty form should not issue a request")
	}
	if m.errText == "" {
		t.Error("expected validation error")
	}
}

func TestSubmitRejectsBadEmail(t *testing.T) {
	m := newTestLogin()
	m.inputs[fieldEmail].SetValue("not-an-email")
	m.inputs[fieldPassword].SetValue("pw")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || m.errText == "" {
		t.Errorf("bad email accepted: cmd=%v err=%q", cmd, m.errText)
	}
}

func TestModeToggleShowsNameField(t *testing.T) {
	m := newTestLogin()
	if m.fieldCount() != 2 {
		t.Fatalf("login fields = %d, want 2", m.fieldCount())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.mode != modeSignup || m.fieldCount() != 3 {
		t.Errorf("mode = %v, fields = %d", m.mode, m.fieldCount())
	}
	if !strings.Contains(m.View(), "Name") {
		t.Error("signup form should show the name field")
	}
}

func TestTabCyclesFocus(t *testing.T) {
	m := newTestLogin()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focused != fieldPassword {
		t.Errorf("focused = %d, want password", m.focused)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focused != fieldEmail {
		t.Errorf("focused = %d, want wrap to email", m.focused)
	}
}

func TestEscapeContinuesAsGuest(t *testing.T) {
	m := newTestLogin()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc should produce a command")
	}
	msg, ok := cmd().(DoneMsg)
	if !ok || msg.Session != nil {
		t.Errorf("msg = %#v, want guest DoneMsg", msg)
	}
}

func TestAuthErrorShownAndUnblocks(t *testing.T) {
	m := newTestLogin()
	m.busy = true

	m, _ = m.Update(authErrMsg{Err: errFake("Invalid email or password")})
	if m.busy {
		t.Error("error should clear the busy flag")
	}
	if !strings.Contains(m.View(), "Invalid email or password") {
		t.Error("error text not rendered")
	}
}

type errFake string

func (e errFake) Error() string { return string(e) }
