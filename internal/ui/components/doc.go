// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the rendering pieces of the texsnap editor.

Components hold plain state and render with a *styles.Theme. They do not
own a Bubble Tea loop; the editor model updates their fields and calls
View on each frame.

# Key Types

Display components:

	Header (header.go)          - Title bar with project, file and snapshot counts
	StatusBar (statusbar.go)    - Compile state, last message and key hints
	ConfirmDialog (confirm.go)  - Yes/no prompt before a restore

Panels:

	FileList (file_list.go)       - Project files, primary marked with *
	HistoryList (history_list.go) - Snapshots, newest first
	DiffViewer (diff_viewer.go)   - Inline or unified snapshot diff

# Usage

	theme := styles.NewTheme(styles.ModeAuto)
	dv := components.NewDiffViewer(theme)
	dv.SetSize(60, 20)
	dv.SetDiff(0, diff.ComputeFile("main.tex", old, new))
	view := dv.View()

# Helper Functions

helpers.go holds number formatting, width fitting and the shared panel
frame used by the list components.
*/
package components
