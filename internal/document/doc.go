// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package document models the editable LaTeX project.
//
// A Set is an ordered collection of uniquely named text files. Files are
// identified by name: renaming changes identity in place, keeping the file's
// position and content. A Set always holds at least one file, and every
// mutation either succeeds completely or leaves the Set untouched.
//
// # Key Types
//
//   - File: a name and its text content
//   - Set: the ordered, validated collection
//   - Snippet: a toolbar insertion (bold, italic, math, ...)
//
// # Usage
//
//	set := document.Default()
//	if err := set.Add("intro.tex", ""); err != nil {
//	    // ErrDuplicateName, ErrEmptyName or ErrInvalidName
//	}
//	_ = set.Rename("intro.tex", "chapter1.tex")
package document
