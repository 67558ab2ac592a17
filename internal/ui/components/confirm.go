// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/texsnap/internal/ui/styles"
)

// =============================================================================
// CONFIRM DIALOG
// =============================================================================

// ConfirmDialog is a yes/no prompt drawn over the editor.
type ConfirmDialog struct {
	Title   string
	Message string
	Width   int
	theme   *styles.Theme
}

// NewConfirmDialog creates a dialog.
func NewConfirmDialog(theme *styles.Theme, title, message string) *ConfirmDialog {
	return &ConfirmDialog{Title: title, Message: message, Width: 60, theme: theme}
}

// View renders the dialog box.
func (c *ConfirmDialog) View() string {
	t := c.theme
	width := max(min(c.Width, 60), 24)
	body := lipgloss.JoinVertical(lipgloss.Left,
		t.WarningStyle.Render(styles.StatusIndicators.Warning+" "+c.Title),
		"",
		lipgloss.NewStyle().Width(width-6).Render(c.Message),
		"",
		t.ShortcutKey.Render("y")+" "+t.ShortcutDesc.Render("confirm")+"   "+
			t.ShortcutKey.Render("n/esc")+" "+t.ShortcutDesc.Render("cancel"),
	)
	return t.ConfirmBox.Width(width - 2).Render(body)
}
