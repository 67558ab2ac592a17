// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/texsnap/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT - Title bar with project summary
// =============================================================================

// Header is the single-line title bar of the editor.
type Header struct {
	Title         string // Brand title (default: "texsnap")
	Project       string // Project directory
	FileCount     int
	SnapshotCount int
	Dirty         bool
	Width         int
	theme         *styles.Theme
}

// NewHeader creates a header with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "texsnap",
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetTheme switches the theme used for rendering.
func (h *Header) SetTheme(theme *styles.Theme) {
	h.theme = theme
}

// View renders the header. Narrow widths drop the project path first and
// then the counters.
func (h *Header) View() string {
	width := max(h.Width, 20)
	inner := width - 2 // Header padding

	brand := h.theme.HeaderTitle.Render(h.Title)
	if h.Dirty {
		brand += h.theme.Dirty.Render(" " + styles.StatusIndicators.Dirty)
	}

	counts := plural(h.FileCount, "file") + " | " + plural(h.SnapshotCount, "snapshot")

	var meta string
	switch {
	case inner >= lipgloss.Width(brand)+len(counts)+len(h.Project)+6 && h.Project != "":
		meta = h.Project + " | " + counts
	case inner >= lipgloss.Width(brand)+len(counts)+3:
		meta = counts
	case h.Project != "":
		meta = filepath.Base(h.Project)
	}

	gap := inner - lipgloss.Width(brand) - lipgloss.Width(meta)
	if gap < 1 {
		meta = ""
		gap = max(inner-lipgloss.Width(brand), 0)
	}

	line := brand + strings.Repeat(" ", gap) + h.theme.HeaderMeta.Render(meta)
	return h.theme.Header.Width(width).MaxWidth(width).Render(line)
}
