// parley TUI - a terminal chat client with live markdown rendering.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/jeranaias/parley-tui/internal/api"
	"github.com/jeranaias/parley-tui/internal/auth"
	"github.com/jeranaias/parley-tui/internal/config"
	"github.com/jeranaias/parley-tui/internal/server"
	"github.com/jeranaias/parley-tui/internal/session"
	"github.com/jeranaias/parley-tui/internal/storage"
	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	args := os.Args[1:]
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "serve":
		runServe()
	case "version", "--version", "-v":
		fmt.Printf("parley-tui %s (%s, built %s)\n", Version, GitCommit, BuildDate)
	case "", "tui":
		runTUI()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\nusage: parley-tui [serve|version]\n", cmd)
		os.Exit(1)
	}
}

// =============================================================================
// TUI
// =============================================================================

func runTUI() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "parley: %v\n", err)
		os.Exit(1)
	}

	client := api.New(cfg.API.BaseURL)

	// Resume a persisted sign-in when one exists.
	var email string
	if sess, err := session.Load(); err == nil {
		client.SetToken(sess.Token)
		email = sess.Email
	}

	app := newApp(client, cfg, styles.NewTheme(), email)
	p := tea.NewProgram(app, tea.WithAltScreen())

	// Config edits land in the running program as messages.
	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go watchConfig(watchCtx, p)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "parley: %v\n", err)
		os.Exit(1)
	}
}

// watchConfig forwards config file changes into the program.
func watchConfig(ctx context.Context, p *tea.Program) {
	path, err := config.Path()
	if err != nil {
		return
	}
	_ = config.Watch(ctx, path, func(cfg *config.Config) {
		p.Send(configReloadedMsg{cfg: cfg})
	})
}

// =============================================================================
// SERVER
// =============================================================================

func runServe() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "parley serve: %v\n", err)
		os.Exit(1)
	}
	if cfg.Server.TokenSecret == "" {
		fmt.Fprintln(os.Stderr, "parley serve: server.token_secret is not set (config or PARLEY_TOKEN_SECRET)")
		os.Exit(1)
	}

	dir, err := config.Dir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "parley serve: %v\n", err)
		os.Exit(1)
	}

	// Rotating server log; stderr stays quiet for service managers.
	logPath := cfg.Server.LogPath
	if logPath == "" {
		logPath = filepath.Join(dir, "server.log")
	}
	log.SetOutput(&lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	})

	dbPath := cfg.Server.DatabasePath
	if dbPath == "" {
		dbPath = filepath.Join(dir, "parley.db")
	}
	store, err := storage.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parley serve: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	upstream := server.NewUpstreamClient(
		cfg.Server.UpstreamURL,
		cfg.Server.UpstreamKey,
		cfg.Server.Model,
	)

	srv := server.New(store, auth.NewSigner(cfg.Server.TokenSecret), upstream)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("parley server listening on :%d (log: %s)\n", cfg.Server.Port, logPath)
	if err := srv.ListenAndServe(ctx, cfg.Server.Port); err != nil {
		fmt.Fprintf(os.Stderr, "parley serve: %v\n", err)
		os.Exit(1)
	}
}
