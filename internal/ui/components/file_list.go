// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"unicode/utf8"

	"github.com/jeranaias/texsnap/internal/document"
	"github.com/jeranaias/texsnap/internal/ui/styles"
)

// =============================================================================
// FILE LIST
// =============================================================================

// FileList is the project file panel.
type FileList struct {
	Files    []document.File
	Selected string
	Primary  string
	Focused  bool
	Width    int
	Height   int
	theme    *styles.Theme
}

// NewFileList creates an empty file list.
func NewFileList(theme *styles.Theme) *FileList {
	return &FileList{Width: 24, Height: 10, theme: theme}
}

// SetTheme switches the theme used for rendering.
func (l *FileList) SetTheme(theme *styles.Theme) {
	l.theme = theme
}

// SetFiles replaces the listed files.
func (l *FileList) SetFiles(files []document.File, selected, primary string) {
	l.Files = files
	l.Selected = selected
	l.Primary = document.NormalizeName(primary)
}

// cursor is the position of the selected file, or 0.
func (l *FileList) cursor() int {
	for i, f := range l.Files {
		if f.Name == l.Selected {
			return i
		}
	}
	return 0
}

// Next returns the name after the selected one, wrapping around.
func (l *FileList) Next() string {
	if len(l.Files) == 0 {
		return ""
	}
	return l.Files[(l.cursor()+1)%len(l.Files)].Name
}

// Prev returns the name before the selected one, wrapping around.
func (l *FileList) Prev() string {
	if len(l.Files) == 0 {
		return ""
	}
	return l.Files[(l.cursor()+len(l.Files)-1)%len(l.Files)].Name
}

// View renders the panel.
func (l *FileList) View() string {
	t := l.theme
	inner := max(l.Width-2, 1)
	rows := max(l.Height-3, 1)

	var lines []string
	start, end := visibleWindow(len(l.Files), l.cursor(), rows)
	for _, f := range l.Files[start:end] {
		name := f.Name
		style := t.ListItem
		if f.Name == l.Primary {
			name += " *"
			style = t.PrimaryMarker
		}
		if f.Name == l.Selected {
			style = t.ListItemSelected
		}
		meta := fmtNumber(utf8.RuneCountInString(f.Content))
		name = fitLine(name, max(inner-len(meta)-1, 1))
		lines = append(lines, style.Render(name)+" "+t.ListItemMeta.Render(meta))
	}

	title := "Files (" + toStr(len(l.Files)) + ")"
	return panel(title, strings.Join(lines, "\n"), l.Width, l.Height, l.Focused, t.Panel, t.PanelFocused, t.PanelTitle)
}
