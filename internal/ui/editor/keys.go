// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the editor key bindings. Global bindings work in every
// pane; the rest apply to the focused pane only.
type KeyMap struct {
	// Global
	Snapshot    key.Binding
	Restore     key.Binding
	Diff        key.Binding
	Compile     key.Binding
	Export      key.Binding
	NewFile     key.Binding
	Write       key.Binding
	ToggleTheme key.Binding
	Quit        key.Binding
	NextPane    key.Binding
	PrevPane    key.Binding

	// Snippets, inserted at the editor cursor
	Bold      key.Binding
	Italic    key.Binding
	Underline key.Binding
	Math      key.Binding
	List      key.Binding

	// Lists and diff pane
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Open       key.Binding
	Rename     key.Binding
	Delete     key.Binding
	ToggleDiff key.Binding
	Close      key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Snapshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "take snapshot"),
		),
		Restore: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "restore selected snapshot"),
		),
		Diff: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("C-d", "diff selected snapshot"),
		),
		Compile: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("C-b", "compile"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("C-e", "export selected snapshot"),
		),
		NewFile: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "new file"),
		),
		Write: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("C-w", "write files to disk"),
		),
		ToggleTheme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "toggle light/dark"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q", "ctrl+c"),
			key.WithHelp("C-q", "quit"),
		),
		NextPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next pane"),
		),
		PrevPane: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-Tab", "previous pane"),
		),

		Bold: key.NewBinding(
			key.WithKeys("alt+b"),
			key.WithHelp("M-b", "bold"),
		),
		Italic: key.NewBinding(
			key.WithKeys("alt+i"),
			key.WithHelp("M-i", "italic"),
		),
		Underline: key.NewBinding(
			key.WithKeys("alt+u"),
			key.WithHelp("M-u", "underline"),
		),
		Math: key.NewBinding(
			key.WithKeys("alt+m"),
			key.WithHelp("M-m", "inline math"),
		),
		List: key.NewBinding(
			key.WithKeys("alt+l"),
			key.WithHelp("M-l", "itemize"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "move down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", " "),
			key.WithHelp("PgDn", "page down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "open"),
		),
		Rename: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rename file"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "delete file"),
		),
		ToggleDiff: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "inline/unified"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "close"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y", "enter"),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "cancel"),
		),
	}
}

// snippetKeys maps snippet bindings to document snippet keys.
func (k KeyMap) snippetKeys() []struct {
	binding key.Binding
	key     string
} {
	return []struct {
		binding key.Binding
		key     string
	}{
		{k.Bold, "b"},
		{k.Italic, "i"},
		{k.Underline, "u"},
		{k.Math, "m"},
		{k.List, "l"},
	}
}
