// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package editor provides the full-screen texsnap editor built on Bubble Tea.

The model drives a session.Controller: keystrokes in the editor pane are
pushed into the session as edits, and the file list, snapshot history and
diff pane are redrawn from session state after every action. Slow work
(compiles, restores that compile, exports, writes) runs in tea.Cmds and
reports back through messages.

# Key Types

	Model          - The tea.Model for the editor
	Options        - Session, theme and the disk callbacks the model may call
	KeyMap         - Key bindings (DefaultKeyMap)
	ExternalEditMsg - Delivered on Options.Events when a file changes on disk

# Usage

	m := editor.New(editor.Options{
		Session:        project.Session,
		ProjectDir:     project.Dir,
		ConfirmRestore: cfg.Editor.ConfirmRestore,
		Save:           project.Save,
		WritePDF:       project.WritePDF,
		Export:         project.Export,
	})
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()

# Keys

	ctrl+s  snapshot          ctrl+r  restore selected snapshot
	ctrl+d  diff snapshot     ctrl+b  compile
	ctrl+e  export snapshot   ctrl+n  new file
	ctrl+w  write to disk     ctrl+t  toggle theme
	tab     next pane         ctrl+q  quit
	alt+b/i/u/m/l             insert bold, italic, underline, math, itemize

In the file list, r renames and x deletes. In the diff pane, u switches
between inline and unified output.
*/
package editor
