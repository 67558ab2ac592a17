// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the texsnap editor.

# Key Types

  - Theme: resolved lipgloss styles for one editor, dark or light
  - Mode: auto, dark or light as spelled in the config file
  - LayoutMode: narrow, medium or wide panel layout

# Color System (colors.go)

All palette entries are lipgloss.AdaptiveColor values. A Theme resolves
them explicitly through Theme.Color, so two editors in one process can use
different palettes and ctrl+t can flip one without touching the other.

	Purple, Cyan, Emerald  - accents
	Rose, Amber            - errors and warnings
	DiffAdded*, DiffRemoved* - inserted and deleted text

# Usage

	theme := styles.NewTheme(styles.ModeAuto)
	title := theme.HeaderTitle.Render("texsnap")
	theme.Toggle()
*/
package styles
