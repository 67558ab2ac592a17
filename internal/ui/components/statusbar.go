// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/texsnap/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT - Bottom bar with compile state and shortcuts
// =============================================================================

// CompileState is the state of the most recent compile.
type CompileState int

const (
	CompileIdle CompileState = iota
	CompileRunning
	CompileSucceeded
	CompileFailed
)

// String returns the display string for the state.
func (s CompileState) String() string {
	switch s {
	case CompileIdle:
		return "Ready"
	case CompileRunning:
		return "Compiling..."
	case CompileSucceeded:
		return "Compiled"
	case CompileFailed:
		return "Compile failed"
	default:
		return "Unknown"
	}
}

// Icon returns a shape indicator for the state.
// ACCESSIBILITY: Uses distinct shapes alongside colors for colorblind users
func (s CompileState) Icon() string {
	switch s {
	case CompileRunning:
		return styles.StatusIndicators.Pending
	case CompileSucceeded:
		return styles.StatusIndicators.Success
	case CompileFailed:
		return styles.StatusIndicators.Error
	default:
		return "-"
	}
}

// Shortcut is one key hint shown in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// DefaultShortcuts are the hints shown when the bar has room.
var DefaultShortcuts = []Shortcut{
	{"^S", "snap"},
	{"^R", "restore"},
	{"^D", "diff"},
	{"^B", "compile"},
	{"^W", "write"},
	{"Tab", "focus"},
	{"^Q", "quit"},
}

// StatusBar is the bottom status line.
type StatusBar struct {
	State         CompileState
	Spinner       string // Current spinner frame while compiling
	Message       string // Last action result
	MessageIsErr  bool
	Selected      string // Selected file
	Dirty         bool
	Width         int
	ShowShortcuts bool
	Shortcuts     []Shortcut
	theme         *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		State:         CompileIdle,
		Width:         80,
		ShowShortcuts: true,
		Shortcuts:     DefaultShortcuts,
		theme:         theme,
	}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetTheme switches the theme used for rendering.
func (s *StatusBar) SetTheme(theme *styles.Theme) {
	s.theme = theme
}

// SetMessage shows an informational message.
func (s *StatusBar) SetMessage(msg string) {
	s.Message = msg
	s.MessageIsErr = false
}

// SetError shows an error message.
func (s *StatusBar) SetError(msg string) {
	s.Message = msg
	s.MessageIsErr = true
}

// View renders the status bar.
func (s *StatusBar) View() string {
	t := s.theme
	width := max(s.Width, 20)
	inner := width - 2

	var left []string

	file := s.Selected
	if s.Dirty {
		file += t.Dirty.Render(" " + styles.StatusIndicators.Dirty)
	}
	if file != "" {
		left = append(left, file)
	}
	left = append(left, s.stateView())

	if s.Message != "" {
		style := t.Muted
		if s.MessageIsErr {
			style = t.ErrorStyle
		}
		left = append(left, style.Render(s.Message))
	}

	separator := t.Muted.Render(" | ")
	line := strings.Join(left, separator)

	if s.ShowShortcuts && width >= 100 {
		hints := s.shortcutsView()
		if gap := inner - lipgloss.Width(line) - lipgloss.Width(hints); gap >= 2 {
			line += strings.Repeat(" ", gap) + hints
		}
	}

	return t.StatusBar.Width(width).MaxWidth(width).Render(line)
}

func (s *StatusBar) stateView() string {
	t := s.theme
	icon := s.State.Icon()
	if s.State == CompileRunning && s.Spinner != "" {
		icon = s.Spinner
	}

	style := t.Muted
	switch s.State {
	case CompileRunning:
		style = t.WarningStyle
	case CompileSucceeded:
		style = t.SuccessStyle
	case CompileFailed:
		style = t.ErrorStyle
	}
	return style.Render(icon + " " + s.State.String())
}

func (s *StatusBar) shortcutsView() string {
	parts := make([]string, 0, len(s.Shortcuts))
	for _, sc := range s.Shortcuts {
		parts = append(parts, s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDesc.Render(sc.Desc))
	}
	return strings.Join(parts, "  ")
}
