// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared lipgloss styles for one-shot command and shell output.

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/texsnap/internal/diff"
	"github.com/jeranaias/texsnap/internal/ui/styles"
)

func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// TitleStyle is used for command titles and headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Cyan)

	// LabelStyle is used for left-aligned field labels
	LabelStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Width(24)

	// ValueStyle is used for regular values
	ValueStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

	// SuccessStyle is used for success messages
	SuccessStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)

	// ErrorStyle is used for error messages
	ErrorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	// WarningStyle is used for warnings
	WarningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	// DimStyle is used for secondary information and hints
	DimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	// PromptStyle colours the shell prompt
	PromptStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	insertStyle = lipgloss.NewStyle().Foreground(styles.DiffAddedFg)
	deleteStyle = lipgloss.NewStyle().Foreground(styles.DiffRemovedFg).Strikethrough(true)
	hunkStyle   = lipgloss.NewStyle().Foreground(styles.Cyan)
)

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// RenderConditional renders text with style if colours are enabled.
func RenderConditional(style lipgloss.Style, text string) string {
	if !ColorsEnabled() {
		return text
	}
	return style.Render(text)
}

// RenderSeparator renders a horizontal rule of the given width.
func RenderSeparator(width int) string {
	return RenderConditional(DimStyle, strings.Repeat("─", width))
}

// RenderField renders a "label value" row.
func RenderField(label, value string) string {
	if !ColorsEnabled() {
		return label + ": " + value
	}
	return LabelStyle.Render(label) + ValueStyle.Render(value)
}

// RenderSegments renders a character diff inline. Without colours the
// [-deleted-]{+inserted+} markers are used.
func RenderSegments(segs []diff.Segment) string {
	if !ColorsEnabled() {
		return diff.FormatInline(segs)
	}
	var sb strings.Builder
	for _, s := range segs {
		switch s.Kind {
		case diff.Insert:
			sb.WriteString(insertStyle.Render(s.Text))
		case diff.Delete:
			sb.WriteString(deleteStyle.Render(s.Text))
		default:
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}

// RenderUnified renders a unified diff with coloured +/- lines.
func RenderUnified(u *diff.Unified) string {
	text := diff.FormatUnified(u)
	if !ColorsEnabled() || text == "" {
		return text
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "@@"):
			lines[i] = hunkStyle.Render(line)
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = TitleStyle.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = insertStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = deleteStyle.UnsetStrikethrough().Render(line)
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
