// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "testing"

func TestNewThemeInitializesStyles(t *testing.T) {
	theme := NewTheme()
	if theme == nil {
		t.Fatal("NewTheme returned nil")
	}
	// Spot-check a few styles carry their configured attributes.
	if !theme.Heading1.GetBold() {
		t.Error("Heading1 should be bold")
	}
	if !theme.LinkText.GetUnderline() {
		t.Error("LinkText should be underlined")
	}
	if !theme.ItalicText.GetItalic() {
		t.Error("ItalicText should be italic")
	}
}

func TestSidebarVisible(t *testing.T) {
	theme := NewTheme()

	theme.SetSize(80, 24)
	if theme.SidebarVisible() {
		t.Error("sidebar should be hidden at width 80")
	}

	theme.SetSize(120, 40)
	if !theme.SidebarVisible() {
		t.Error("sidebar should be visible at width 120")
	}
	if theme.Width != 120 || theme.Height != 40 {
		t.Errorf("size = %dx%d", theme.Width, theme.Height)
	}
}
