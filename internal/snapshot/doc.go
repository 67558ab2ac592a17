// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package snapshot keeps the in-memory version history of a document set.
//
// A Store is an append-only list of Snapshots. Capturing deep-copies every
// file so later edits to the live set never reach a stored Snapshot, and
// restoring hands back a fresh copy so the stored Snapshot stays immutable
// after restoration too. History lives for the lifetime of the process only.
//
// # Key Types
//
//   - Snapshot: immutable, timestamped copy of a document set
//   - Meta: display metadata for one history entry
//   - Store: the ordered history
//   - IndexError: out-of-range access, matches ErrOutOfRange
//
// # Usage
//
//	store := snapshot.NewStore()
//	store.Capture(docs)
//
//	restored, err := store.Restore(0)
//	if errors.Is(err, snapshot.ErrOutOfRange) {
//	    // nothing changed
//	}
package snapshot
