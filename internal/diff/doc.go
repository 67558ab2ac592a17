// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package diff compares two revisions of a text file.
//
// The character view (Compute) aligns both texts with diff-match-patch and
// runs a semantic cleanup pass, so edits land on word and punctuation
// boundaries instead of scattered single characters. The line view
// (LineDiff) groups changed lines into unified-diff hunks.
//
// Segments always reconstruct their inputs: Source keeps Equal and Delete
// text and yields the old revision, Target keeps Equal and Insert text and
// yields the new one.
//
// # Key Types
//
//   - Kind: Equal, Insert or Delete
//   - Segment: a tagged run of text
//   - Diff: segments of one file plus rune statistics
//   - Unified: line hunks of one file
//
// # Usage
//
//	segs := diff.Compute("Hello, world!", "Hello, there, world!")
//	// [equal "Hello, "] [insert "there, "] [equal "world!"]
//
//	d := diff.ComputeFile("main.tex", old, new)
//	fmt.Println(d.Summary())
//
//	fmt.Print(diff.FormatUnified(diff.LineDiff("main.tex", old, new)))
package diff
