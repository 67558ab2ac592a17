// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// contextLines is the number of unchanged lines kept around each change.
const contextLines = 3

// NoNewlineMarker follows a line that ends its file without a newline.
const NoNewlineMarker = `\ No newline at end of file`

// =============================================================================
// LINE TYPES
// =============================================================================

// LineType represents the type of a diff line.
type LineType int

const (
	// LineContext represents unchanged context lines
	LineContext LineType = iota
	// LineAdded represents added lines
	LineAdded
	// LineRemoved represents removed lines
	LineRemoved
)

// String returns the string representation of a line type.
func (t LineType) String() string {
	switch t {
	case LineContext:
		return "context"
	case LineAdded:
		return "added"
	case LineRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Prefix returns the unified diff prefix character for this line type.
func (t LineType) Prefix() string {
	switch t {
	case LineAdded:
		return "+"
	case LineRemoved:
		return "-"
	default:
		return " "
	}
}

// Line represents a single line in a diff.
type Line struct {
	Type    LineType // Type of line (added, removed, context)
	Content string   // Line text without the trailing newline
	OldLine int      // Line number in old file (0 if added)
	NewLine int      // Line number in new file (0 if removed)

	// NoNewline marks the last line of a side that lacks a trailing newline
	NoNewline bool
}

// Hunk represents a contiguous section of changes.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// Unified is the line-level comparison of one file.
type Unified struct {
	Name      string
	Hunks     []Hunk
	Additions int
	Deletions int
}

// =============================================================================
// LINE DIFF
// =============================================================================

// LineDiff compares old and new line by line and groups the changes into
// hunks with surrounding context.
func LineDiff(name, old, new string) *Unified {
	u := &Unified{Name: name}

	lines := diffLines(old, new)
	for _, l := range lines {
		switch l.Type {
		case LineAdded:
			u.Additions++
		case LineRemoved:
			u.Deletions++
		}
	}
	u.Hunks = groupIntoHunks(lines)

	return u
}

// diffLines runs diffmatchpatch in line mode and numbers the result.
func diffLines(old, new string) []Line {
	dmp := diffmatchpatch.New()
	chars1, chars2, lineArray := dmp.DiffLinesToChars(old, new)
	diffs := dmp.DiffMain(chars1, chars2, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var result []Line
	oldN, newN := 0, 0
	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			line := Line{Content: text}
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				newN++
				line.Type, line.NewLine = LineAdded, newN
			case diffmatchpatch.DiffDelete:
				oldN++
				line.Type, line.OldLine = LineRemoved, oldN
			default:
				oldN++
				newN++
				line.Type, line.OldLine, line.NewLine = LineContext, oldN, newN
			}
			result = append(result, line)
		}
	}

	oldOpen := old != "" && !strings.HasSuffix(old, "\n")
	newOpen := new != "" && !strings.HasSuffix(new, "\n")
	for i := range result {
		l := &result[i]
		if (oldOpen && l.OldLine == oldN) || (newOpen && l.NewLine == newN) {
			l.NoNewline = true
		}
	}
	return result
}

// splitLines splits text into lines without their newline characters.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\n")
	}
	return lines
}

// groupIntoHunks groups lines into hunks with context. Changes separated by
// at most twice the context size share a hunk.
func groupIntoHunks(lines []Line) []Hunk {
	var hunks []Hunk

	for i := 0; i < len(lines); {
		if lines[i].Type == LineContext {
			i++
			continue
		}

		start := max(0, i-contextLines)
		end := i + 1
		for j := i + 1; j < len(lines); j++ {
			if lines[j].Type == LineContext {
				continue
			}
			if j-end > 2*contextLines {
				break
			}
			end = j + 1
		}
		stop := min(len(lines), end+contextLines)

		hunks = append(hunks, newHunk(lines, start, stop))
		i = stop
	}

	return hunks
}

func newHunk(lines []Line, start, stop int) Hunk {
	oldBefore, newBefore := 0, 0
	for _, l := range lines[:start] {
		if l.OldLine > 0 {
			oldBefore++
		}
		if l.NewLine > 0 {
			newBefore++
		}
	}

	h := Hunk{Lines: append([]Line(nil), lines[start:stop]...)}
	for _, l := range h.Lines {
		if l.OldLine > 0 {
			h.OldCount++
		}
		if l.NewLine > 0 {
			h.NewCount++
		}
	}

	// An empty side points at the line it follows.
	h.OldStart, h.NewStart = oldBefore, newBefore
	if h.OldCount > 0 {
		h.OldStart++
	}
	if h.NewCount > 0 {
		h.NewStart++
	}
	return h
}

// =============================================================================
// UNIFIED DIFF FORMAT
// =============================================================================

// FormatUnified returns the diff in standard unified diff format, or an
// empty string when nothing changed.
func FormatUnified(u *Unified) string {
	if len(u.Hunks) == 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n", u.Name)
	fmt.Fprintf(&sb, "+++ b/%s\n", u.Name)

	for _, hunk := range u.Hunks {
		fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@\n",
			hunk.OldStart, hunk.OldCount,
			hunk.NewStart, hunk.NewCount)

		for _, line := range hunk.Lines {
			sb.WriteString(line.Type.Prefix())
			sb.WriteString(line.Content)
			sb.WriteString("\n")
			if line.NoNewline {
				sb.WriteString(NoNewlineMarker)
				sb.WriteString("\n")
			}
		}
	}

	return sb.String()
}
