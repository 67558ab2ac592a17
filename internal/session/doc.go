// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session drives one editing session.
//
// A Controller owns the live document set, the selected file and the
// snapshot history, and turns user actions (edit, take snapshot, restore,
// view diff, compile) into operations on them. Every action is
// all-or-nothing: a failed action leaves both the document set and the
// history exactly as they were.
//
// # Key Types
//
//   - Controller: the session state and its actions
//   - Config: primary file and restore behaviour
//   - Compiler: anything that turns source into an artifact
//   - CompileResult: outcome of the most recent compile
//   - Status: a point-in-time summary for status bars
//
// # Usage
//
//	ctrl := session.New(session.DefaultConfig(), document.Default(),
//	    snapshot.NewStore(), compile.NewClient(url))
//
//	meta := ctrl.TakeSnapshot()
//	_ = ctrl.Edit("...")
//	d, _ := ctrl.ViewDiff(meta.Index)
//
//	restored, err := ctrl.RestoreSnapshot(ctx, meta.Index, func(m snapshot.Meta) bool {
//	    return askUser("Restore snapshot from " + m.Timestamp + "?")
//	})
package session
