// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the parley TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER AND STATUS BAR STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	StatusBar   lipgloss.Style
	ShortcutKey lipgloss.Style
	StatusError lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	SystemBubble    lipgloss.Style
	MessageSender   lipgloss.Style
	MessageTime     lipgloss.Style

	// ==========================================================================
	// MARKDOWN ELEMENT STYLES
	// ==========================================================================

	Heading1   lipgloss.Style
	Heading2   lipgloss.Style
	Heading3   lipgloss.Style
	BoldText   lipgloss.Style
	ItalicText lipgloss.Style
	InlineCode lipgloss.Style
	LinkText   lipgloss.Style
	QuoteBar   lipgloss.Style
	QuoteText  lipgloss.Style
	ListBullet lipgloss.Style
	TableHead  lipgloss.Style
	TableCell  lipgloss.Style

	// ==========================================================================
	// CODE BLOCK STYLES
	// ==========================================================================

	CodeBlock     lipgloss.Style
	CodeLangBadge lipgloss.Style
	CodeCopyHint  lipgloss.Style
	CodeCopied    lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar          lipgloss.Style
	SidebarTitle     lipgloss.Style
	SidebarItem      lipgloss.Style
	SidebarSelected  lipgloss.Style
	SidebarMeta      lipgloss.Style

	// ==========================================================================
	// SUGGESTION AND SPINNER STYLES
	// ==========================================================================

	SuggestionBox lipgloss.Style
	Spinner       lipgloss.Style
	ThinkingText  lipgloss.Style

	// ==========================================================================
	// LOGIN FORM STYLES
	// ==========================================================================

	FormBox     lipgloss.Style
	FormTitle   lipgloss.Style
	FormLabel   lipgloss.Style
	FormError   lipgloss.Style
	FormHint    lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header and status bar
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceDim).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.StatusError = lipgloss.NewStyle().
		Bold(true).
		Foreground(Rose)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 2).
		MarginLeft(4)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Background(AssistantBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 2).
		MarginRight(4)

	t.SystemBubble = lipgloss.NewStyle().
		Foreground(SystemBubbleFg).
		Background(SystemBubbleBg).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(SystemBubbleBorder).
		Padding(0, 2).
		Align(lipgloss.Center)

	t.MessageSender = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary)

	t.MessageTime = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Markdown elements
	t.Heading1 = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple).
		Underline(true)

	t.Heading2 = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.Heading3 = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.BoldText = lipgloss.NewStyle().Bold(true)
	t.ItalicText = lipgloss.NewStyle().Italic(true)

	t.InlineCode = lipgloss.NewStyle().
		Foreground(Amber).
		Background(SurfaceBright).
		Padding(0, 1)

	t.LinkText = lipgloss.NewStyle().
		Foreground(Cyan).
		Underline(true)

	t.QuoteBar = lipgloss.NewStyle().
		Foreground(Overlay)

	t.QuoteText = lipgloss.NewStyle().
		Italic(true).
		Foreground(TextSecondary)

	t.ListBullet = lipgloss.NewStyle().
		Foreground(Purple)

	t.TableHead = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.TableCell = lipgloss.NewStyle().
		Foreground(TextPrimary)

	// Code blocks
	t.CodeBlock = lipgloss.NewStyle().
		Background(SurfaceBright).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.CodeLangBadge = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Purple).
		Padding(0, 1)

	t.CodeCopyHint = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.CodeCopied = lipgloss.NewStyle().
		Bold(true).
		Foreground(Emerald)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.SidebarTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.SidebarItem = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.SidebarSelected = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Purple)

	t.SidebarMeta = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Suggestions and spinner
	t.SuggestionBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Foreground(TextSecondary).
		Padding(0, 2)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)

	t.ThinkingText = lipgloss.NewStyle().
		Italic(true).
		Foreground(TextMuted)

	// Login form
	t.FormBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(1, 3)

	t.FormTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.FormLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.FormError = lipgloss.NewStyle().
		Bold(true).
		Foreground(Rose)

	t.FormHint = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// SetSize records the terminal dimensions for layout decisions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// SidebarVisible reports whether the terminal is wide enough for the sidebar.
func (t *Theme) SidebarVisible() bool {
	return t.Width >= 100
}
