// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/texsnap/internal/ui/components"
	"github.com/jeranaias/texsnap/internal/ui/styles"
	"github.com/jeranaias/texsnap/internal/util"
)

// =============================================================================
// LAYOUT
// =============================================================================

const (
	headerHeight = 1
	statusHeight = 1
	sideWide     = 30 // Side column in wide layouts
	sideMedium   = 26 // Side column in medium layouts
)

// geometry is the width of each visible column. Zero means hidden.
type geometry struct {
	side   int
	editor int
	diff   int
	body   int // Body height
}

// geometry computes column widths for the current size and focus.
//
//	wide:   files/history | editor | diff (when loaded)
//	medium: files/history | editor or diff (focused one)
//	narrow: the focused pane only
func (m *Model) geometry() geometry {
	g := geometry{body: max(m.height-headerHeight-statusHeight, 3)}
	width := max(m.width, 20)
	showDiff := m.diffView.HasDiff()

	switch m.theme.GetLayoutMode() {
	case styles.LayoutWide:
		g.side = sideWide
		rest := width - g.side
		if showDiff {
			g.diff = rest * 2 / 5
		}
		g.editor = rest - g.diff

	case styles.LayoutMedium:
		g.side = sideMedium
		if showDiff && m.focus == paneDiff {
			g.diff = width - g.side
		} else {
			g.editor = width - g.side
		}

	default:
		switch m.focus {
		case paneFiles, paneHistory:
			g.side = width
		case paneDiff:
			g.diff = width
		default:
			g.editor = width
		}
	}
	return g
}

// layout sizes every component for the current geometry.
func (m *Model) layout() {
	g := m.geometry()

	m.header.SetWidth(m.width)
	m.status.SetWidth(m.width)
	m.input.Width = max(m.width-lipgloss.Width(m.input.Prompt)-4, 10)

	filesH := g.body / 2
	if m.theme.GetLayoutMode() == styles.LayoutNarrow {
		// One list at a time, full height.
		filesH = g.body
	}
	m.files.Width, m.files.Height = g.side, filesH
	m.history.Width, m.history.Height = g.side, g.body-filesH
	if m.theme.GetLayoutMode() == styles.LayoutNarrow {
		m.history.Height = g.body
	}

	// Panels have a border on each side and a title row.
	if g.editor > 0 {
		m.textarea.SetWidth(max(g.editor-2, 10))
		m.textarea.SetHeight(max(g.body-3, 1))
	}
	if g.diff > 0 {
		m.diffView.SetSize(max(g.diff-2, 10), max(g.body-3, 1))
	}
}

// =============================================================================
// RENDERING
// =============================================================================

func (m Model) render() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	g := m.geometry()

	var body string
	if m.confirm != confirmNone {
		body = lipgloss.Place(m.width, g.body, lipgloss.Center, lipgloss.Center, m.confirmView())
	} else {
		body = m.renderBody(g)
	}

	bottom := m.status.View()
	if m.prompt != promptNone {
		bottom = m.theme.StatusBar.Width(m.width).MaxWidth(m.width).Render(m.input.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, bottom)
}

func (m Model) renderBody(g geometry) string {
	var cols []string

	if g.side > 0 {
		narrow := m.theme.GetLayoutMode() == styles.LayoutNarrow
		switch {
		case narrow && m.focus == paneHistory:
			cols = append(cols, m.history.View())
		case narrow:
			cols = append(cols, m.files.View())
		default:
			cols = append(cols, lipgloss.JoinVertical(lipgloss.Left, m.files.View(), m.history.View()))
		}
	}
	if g.editor > 0 {
		cols = append(cols, m.editorPanel(g.editor, g.body))
	}
	if g.diff > 0 {
		cols = append(cols, m.framed("Diff", m.diffView.View(), g.diff, g.body, m.focus == paneDiff))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m Model) editorPanel(width, height int) string {
	title := m.loaded
	if m.ctrl.IsDirty() {
		title += " " + styles.StatusIndicators.Dirty
	}
	return m.framed(title, m.textarea.View(), width, height, m.focus == paneEditor)
}

// framed draws body inside a bordered panel of the given outer size.
func (m Model) framed(title, body string, width, height int, focused bool) string {
	style := m.theme.Panel
	if focused {
		style = m.theme.PanelFocused
	}
	inner := max(width-2, 1)
	head := m.theme.PanelTitle.Render(util.PadWidth(title, inner))
	return style.
		Width(inner).
		Height(max(height-2, 1)).
		MaxHeight(height).
		Render(head + "\n" + body)
}

func (m Model) confirmView() string {
	var d *components.ConfirmDialog
	switch m.confirm {
	case confirmRestore:
		d = components.NewConfirmDialog(m.theme,
			fmt.Sprintf("Restore snapshot %d?", m.confirmIndex),
			"The live files are replaced by the snapshot. Changes made since the last snapshot are lost unless you snapshot them first.")
	case confirmDelete:
		d = components.NewConfirmDialog(m.theme,
			"Delete "+m.confirmName+"?",
			"The file is removed from the session. Snapshots keep their copies.")
	case confirmQuit:
		d = components.NewConfirmDialog(m.theme,
			"Quit without writing?",
			"There are changes that were not written to disk. Press ctrl+w first to keep them.")
	default:
		return ""
	}
	d.Width = m.width
	return d.View()
}
