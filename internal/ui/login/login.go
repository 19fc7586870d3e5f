// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package login provides the sign-in and sign-up view for the TUI.
//
// The view hosts both forms; tab cycles fields, ctrl+t flips between login
// and signup, and esc skips straight to guest mode.
package login

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/parley-tui/internal/api"
	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// DoneMsg reports a finished authentication. Session is nil for guests.
type DoneMsg struct {
	Session *api.Session
	Email   string
}

// authErrMsg carries a failed login or signup.
type authErrMsg struct {
	Err error
}

// =============================================================================
// MODEL
// =============================================================================

// mode selects which form is showing.
type mode int

const (
	modeLogin mode = iota
	modeSignup
)

// field indices into the inputs slice.
const (
	fieldEmail = iota
	fieldPassword
	fieldName
)

// Model is the Bubble Tea model for the login view.
type Model struct {
	mode    mode
	inputs  []textinput.Model
	focused int
	busy    bool
	errText string

	client *api.Client
	theme  *styles.Theme

	width  int
	height int
}

// New creates the login view.
func New(client *api.Client, theme *styles.Theme) Model {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128

	name := textinput.New()
	name.Placeholder = "display name (optional)"
	name.CharLimit = 64

	return Model{
		mode:   modeLogin,
		inputs: []textinput.Model{email, password, name},
		client: client,
		theme:  theme,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize records the terminal dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// fieldCount returns how many fields the active form shows.
func (m Model) fieldCount() int {
	if m.mode == modeSignup {
		return 3
	}
	return 2
}

// =============================================================================
// UPDATE
// =============================================================================

// Update routes messages for the login view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case authErrMsg:
		m.busy = false
		m.errText = msg.Err.Error()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		// Continue as guest.
		return m, func() tea.Msg { return DoneMsg{} }

	case "ctrl+t":
		if m.mode == modeLogin {
			m.mode = modeSignup
		} else {
			m.mode = modeLogin
		}
		m.errText = ""
		if m.focused >= m.fieldCount() {
			m.setFocus(0)
		}
		return m, nil

	case "tab", "down":
		m.setFocus((m.focused + 1) % m.fieldCount())
		return m, nil

	case "shift+tab", "up":
		m.setFocus((m.focused + m.fieldCount() - 1) % m.fieldCount())
		return m, nil

	case "enter":
		return m.submit()
	}

	return m.updateInputs(msg)
}

func (m *Model) setFocus(i int) {
	m.focused = i
	for idx := range m.inputs {
		if idx == i {
			m.inputs[idx].Focus()
		} else {
			m.inputs[idx].Blur()
		}
	}
}

func (m Model) submit() (Model, tea.Cmd) {
	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	password := m.inputs[fieldPassword].Value()

	if email == "" || password == "" {
		m.errText = "email and password are required"
		return m, nil
	}
	if !strings.Contains(email, "@") {
		m.errText = "enter a valid email address"
		return m, nil
	}

	m.busy = true
	m.errText = ""

	creds := api.Credentials{
		Email:    email,
		Password: password,
		Name:     strings.TrimSpace(m.inputs[fieldName].Value()),
	}
	signup := m.mode == modeSignup
	client := m.client

	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var sess *api.Session
		var err error
		if signup {
			sess, err = client.Signup(ctx, creds)
		} else {
			sess, err = client.Login(ctx, creds)
		}
		if err != nil {
			return authErrMsg{Err: err}
		}
		return DoneMsg{Session: sess, Email: creds.Email}
	}
}

func (m Model) updateInputs(msg tea.Msg) (Model, tea.Cmd) {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the centered login form.
func (m Model) View() string {
	title := "Sign in to parley"
	switchHint := "ctrl+t: create an account"
	if m.mode == modeSignup {
		title = "Create your parley account"
		switchHint = "ctrl+t: sign in instead"
	}

	var rows []string
	rows = append(rows, m.theme.FormTitle.Render(title), "")

	labels := []string{"Email", "Password", "Name"}
	for i := 0; i < m.fieldCount(); i++ {
		rows = append(rows,
			m.theme.FormLabel.Render(labels[i]),
			m.inputs[i].View(),
			"")
	}

	if m.errText != "" {
		rows = append(rows, m.theme.FormError.Render(m.errText), "")
	}
	if m.busy {
		rows = append(rows, m.theme.FormHint.Render("signing in..."), "")
	}

	rows = append(rows, m.theme.FormHint.Render(switchHint))
	rows = append(rows, m.theme.FormHint.Render("esc: continue as guest"))

	box := m.theme.FormBox.Render(strings.Join(rows, "\n"))
	if m.width == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
