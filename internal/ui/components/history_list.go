// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/texsnap/internal/snapshot"
	"github.com/jeranaias/texsnap/internal/ui/styles"
)

// =============================================================================
// SNAPSHOT HISTORY
// =============================================================================

// HistoryList is the snapshot history panel. The newest snapshot is shown
// first and selected after each capture.
type HistoryList struct {
	Items   []snapshot.Meta
	Cursor  int // Index into Items
	Focused bool
	Width   int
	Height  int
	theme   *styles.Theme
}

// NewHistoryList creates an empty history panel.
func NewHistoryList(theme *styles.Theme) *HistoryList {
	return &HistoryList{Width: 28, Height: 10, theme: theme}
}

// SetTheme switches the theme used for rendering.
func (h *HistoryList) SetTheme(theme *styles.Theme) {
	h.theme = theme
}

// SetItems replaces the listed snapshots. When the list grew, the newest
// snapshot becomes selected.
func (h *HistoryList) SetItems(items []snapshot.Meta) {
	grew := len(items) > len(h.Items)
	h.Items = items
	if grew {
		h.Cursor = len(items) - 1
	}
	h.Cursor = max(0, min(h.Cursor, len(items)-1))
}

// Selected returns the snapshot under the cursor.
func (h *HistoryList) Selected() (snapshot.Meta, bool) {
	if len(h.Items) == 0 {
		return snapshot.Meta{}, false
	}
	return h.Items[h.Cursor], true
}

// MoveUp moves towards newer snapshots.
func (h *HistoryList) MoveUp() {
	if h.Cursor < len(h.Items)-1 {
		h.Cursor++
	}
}

// MoveDown moves towards older snapshots.
func (h *HistoryList) MoveDown() {
	if h.Cursor > 0 {
		h.Cursor--
	}
}

// View renders the panel.
func (h *HistoryList) View() string {
	t := h.theme
	inner := max(h.Width-2, 1)
	rows := max(h.Height-3, 1)

	var lines []string
	if len(h.Items) == 0 {
		lines = append(lines, t.Muted.Render(fitLine("ctrl+s to snapshot", inner)))
	}

	// Rows are drawn newest first, so positions are mirrored.
	n := len(h.Items)
	start, end := visibleWindow(n, n-1-h.Cursor, rows)
	for pos := start; pos < end; pos++ {
		i := n - 1 - pos
		m := h.Items[i]
		label := fmt.Sprintf("#%d %s", m.Index, m.Timestamp)
		meta := plural(m.FileCount, "file")
		label = fitLine(label, max(inner-len(meta)-1, 1))

		style := t.ListItem
		if i == h.Cursor {
			style = t.ListItemSelected
		}
		lines = append(lines, style.Render(label)+" "+t.ListItemMeta.Render(meta))
	}

	return panel("Snapshots", strings.Join(lines, "\n"), h.Width, h.Height, h.Focused, t.Panel, t.PanelFocused, t.PanelTitle)
}
