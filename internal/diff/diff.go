// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// =============================================================================
// FILE DIFF
// =============================================================================

// Stats counts runes per segment kind.
type Stats struct {
	Inserted  int    `json:"inserted"`
	Deleted   int    `json:"deleted"`
	Unchanged int    `json:"unchanged"`
	FileMode  string `json:"file_mode"` // "new", "deleted", "modified", "unchanged"
}

// Diff is the character-level comparison of one file.
type Diff struct {
	Name     string    `json:"name"`
	Old      string    `json:"old"`
	New      string    `json:"new"`
	Segments []Segment `json:"segments"`
	Stats    Stats     `json:"stats"`
}

// ComputeFile diffs two revisions of the file called name.
func ComputeFile(name, old, new string) *Diff {
	d := &Diff{
		Name:     name,
		Old:      old,
		New:      new,
		Segments: Compute(old, new),
	}

	for _, s := range d.Segments {
		n := utf8.RuneCountInString(s.Text)
		switch s.Kind {
		case Insert:
			d.Stats.Inserted += n
		case Delete:
			d.Stats.Deleted += n
		default:
			d.Stats.Unchanged += n
		}
	}

	switch {
	case old == new:
		d.Stats.FileMode = "unchanged"
	case old == "":
		d.Stats.FileMode = "new"
	case new == "":
		d.Stats.FileMode = "deleted"
	default:
		d.Stats.FileMode = "modified"
	}

	return d
}

// Identical reports whether both revisions are the same.
func (d *Diff) Identical() bool {
	return Identical(d.Segments)
}

// Summary returns a human-readable summary of the diff.
func (d *Diff) Summary() string {
	var parts []string

	switch d.Stats.FileMode {
	case "unchanged":
		return "No changes"
	case "new":
		parts = append(parts, "New file")
	case "deleted":
		parts = append(parts, "File deleted")
	default:
		parts = append(parts, "Modified")
	}

	if d.Stats.Inserted > 0 {
		parts = append(parts, fmt.Sprintf("+%d", d.Stats.Inserted))
	}
	if d.Stats.Deleted > 0 {
		parts = append(parts, fmt.Sprintf("-%d", d.Stats.Deleted))
	}
	parts = append(parts, "chars")

	return strings.Join(parts, " ")
}
