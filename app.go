// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/parley-tui/internal/api"
	"github.com/jeranaias/parley-tui/internal/config"
	"github.com/jeranaias/parley-tui/internal/session"
	"github.com/jeranaias/parley-tui/internal/ui/chat"
	"github.com/jeranaias/parley-tui/internal/ui/login"
	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

// view selects the active screen.
type view int

const (
	viewLogin view = iota
	viewChat
)

// configReloadedMsg delivers a hot-reloaded configuration.
type configReloadedMsg struct {
	cfg *config.Config
}

// appModel routes between the login and chat views.
type appModel struct {
	view  view
	login login.Model
	chat  chat.Model

	client *api.Client
	cfg    *config.Config
	theme  *styles.Theme

	width  int
	height int
}

// newApp builds the root model. A restored session skips the login screen.
func newApp(client *api.Client, cfg *config.Config, theme *styles.Theme, email string) appModel {
	app := appModel{
		view:   viewLogin,
		login:  login.New(client, theme),
		chat:   chat.New(client, cfg, theme),
		client: client,
		cfg:    cfg,
		theme:  theme,
	}
	if client.Authenticated() && email != "" {
		app.view = viewChat
	}
	return app
}

func (a appModel) Init() tea.Cmd {
	if a.view == viewChat {
		return a.chat.Init()
	}
	return a.login.Init()
}

func (a appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.login.SetSize(msg.Width, msg.Height)
		a.chat.SetSize(msg.Width, msg.Height)
		return a, nil

	case configReloadedMsg:
		a.cfg = msg.cfg
		a.chat.SetConfig(msg.cfg)
		return a, nil

	case login.DoneMsg:
		if msg.Session != nil {
			_ = session.Save(&session.Session{
				Token:     msg.Session.AccessToken,
				Email:     msg.Email,
				UserID:    msg.Session.UserID,
				CreatedAt: time.Now(),
			})
		}
		a.view = viewChat
		a.chat.SetSize(a.width, a.height)
		return a, a.chat.Init()

	case chat.LogoutMsg:
		_ = session.Clear()
		logoutCmd := a.logoutCmd()
		a.client.SetToken("")
		a.view = viewLogin
		a.login = login.New(a.client, a.theme)
		a.login.SetSize(a.width, a.height)
		a.chat = chat.New(a.client, a.cfg, a.theme)
		a.chat.SetSize(a.width, a.height)
		return a, tea.Batch(a.login.Init(), logoutCmd)
	}

	var cmd tea.Cmd
	switch a.view {
	case viewLogin:
		a.login, cmd = a.login.Update(msg)
	case viewChat:
		a.chat, cmd = a.chat.Update(msg)
	}
	return a, cmd
}

// logoutCmd tells the server; the local token is already discarded.
func (a appModel) logoutCmd() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = client.Logout(ctx)
		return nil
	}
}

func (a appModel) View() string {
	if a.view == viewChat {
		return a.chat.View()
	}
	return a.login.View()
}
