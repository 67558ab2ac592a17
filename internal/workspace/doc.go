// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package workspace maps a project directory onto a document set.
//
// Only top-level regular files with a tracked extension belong to the
// project. Hidden files are skipped. The Watcher reports edits made by other
// programs so the session can pick them up; it uses fsnotify and falls back
// to polling when fsnotify is unavailable.
//
// # Key Types
//
//   - Watcher: debounced change notifications for a project directory
//   - Change: new content of one project file
//
// # Usage
//
//	set, err := workspace.Load(dir, nil, "main.tex")
//	...
//	w, err := workspace.NewWatcher(dir, nil, func(c workspace.Change) {
//	    _ = ctrl.ApplyExternalEdit(c.Name, c.Content)
//	})
//	if err := w.Start(ctx); err != nil { ... }
//	defer w.Close()
package workspace
