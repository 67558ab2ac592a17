// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// =============================================================================
// SEGMENT TYPES
// =============================================================================

// Kind classifies a segment relative to the old revision.
type Kind int

const (
	// Equal text is present in both revisions.
	Equal Kind = iota
	// Insert text is only in the new revision.
	Insert
	// Delete text is only in the old revision.
	Delete
)

// String returns the string representation of a segment kind.
func (k Kind) String() string {
	switch k {
	case Equal:
		return "equal"
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// Segment is a run of text with a single kind.
type Segment struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// =============================================================================
// COMPUTATION
// =============================================================================

// Compute returns the character-level segments turning old into new, after
// semantic cleanup. Identical inputs give one Equal segment, or none when
// both are empty.
//
// Inputs that are not valid UTF-8 are compared byte by byte, since
// diffmatchpatch would turn every invalid byte into U+FFFD.
func Compute(old, new string) []Segment {
	dmp := diffmatchpatch.New()
	if utf8.ValidString(old) && utf8.ValidString(new) {
		diffs := dmp.DiffMain(old, new, false)
		return fromDMP(dmp.DiffCleanupSemantic(diffs))
	}

	diffs := dmp.DiffMainRunes(byteRunes(old), byteRunes(new), false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	for i := range diffs {
		diffs[i].Text = runeBytes(diffs[i].Text)
	}
	return fromDMP(diffs)
}

// byteRunes maps every byte of s to the rune with the same value.
func byteRunes(s string) []rune {
	out := make([]rune, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = rune(s[i])
	}
	return out
}

// runeBytes reverses byteRunes.
func runeBytes(s string) string {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		out = append(out, byte(r))
	}
	return string(out)
}

// fromDMP converts diffmatchpatch output, dropping empty runs and merging
// neighbours of the same kind.
func fromDMP(diffs []diffmatchpatch.Diff) []Segment {
	segs := make([]Segment, 0, len(diffs))
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		kind := kindOf(d.Type)
		if n := len(segs); n > 0 && segs[n-1].Kind == kind {
			segs[n-1].Text += d.Text
			continue
		}
		segs = append(segs, Segment{Kind: kind, Text: d.Text})
	}
	return segs
}

func kindOf(op diffmatchpatch.Operation) Kind {
	switch op {
	case diffmatchpatch.DiffInsert:
		return Insert
	case diffmatchpatch.DiffDelete:
		return Delete
	default:
		return Equal
	}
}

// =============================================================================
// RECONSTRUCTION
// =============================================================================

// Source rebuilds the old revision from Equal and Delete segments.
func Source(segs []Segment) string {
	return join(segs, Delete)
}

// Target rebuilds the new revision from Equal and Insert segments.
func Target(segs []Segment) string {
	return join(segs, Insert)
}

func join(segs []Segment, keep Kind) string {
	var sb strings.Builder
	for _, s := range segs {
		if s.Kind == Equal || s.Kind == keep {
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}

// Identical reports whether segs contain no insertions or deletions.
func Identical(segs []Segment) bool {
	for _, s := range segs {
		if s.Kind != Equal {
			return false
		}
	}
	return true
}

// FormatInline renders segments as plain text, marking deletions with
// [-...-] and insertions with {+...+}.
func FormatInline(segs []Segment) string {
	var sb strings.Builder
	for _, s := range segs {
		switch s.Kind {
		case Insert:
			sb.WriteString("{+")
			sb.WriteString(s.Text)
			sb.WriteString("+}")
		case Delete:
			sb.WriteString("[-")
			sb.WriteString(s.Text)
			sb.WriteString("-]")
		default:
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}
