// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"time"

	"github.com/jeranaias/texsnap/internal/compile"
)

// =============================================================================
// COMPILE MESSAGES
// =============================================================================

// compileDoneMsg carries the result of a compile started from the editor.
type compileDoneMsg struct {
	artifact *compile.Artifact
	err      error
	duration time.Duration
}

// =============================================================================
// SNAPSHOT MESSAGES
// =============================================================================

// exportDoneMsg reports a snapshot export.
type exportDoneMsg struct {
	index int
	dir   string
	files int
	err   error
}

// =============================================================================
// WORKSPACE MESSAGES
// =============================================================================

// ExternalEditMsg reports a file changed on disk by another program and
// already applied to the session. Err is set when the change was rejected.
type ExternalEditMsg struct {
	Name string
	Err  error
}

// savedMsg reports a write of the project to disk.
type savedMsg struct {
	err error
}

// clearMessageMsg clears the status message if it is still the one with id.
type clearMessageMsg struct {
	id int
}
