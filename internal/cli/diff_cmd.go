// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// diff_cmd.go - Diff command implementation.
//
// Command: diff <old> <new>
// Short:   Compare two files character by character
//
// Flags:
//   --unified, -u    Line-oriented unified output
//   --stat           Only print the change summary
//   --json           Output segments and stats as JSON
//
// Examples:
//   texsnap diff snapshots/snapshot-000/main.tex main.tex
//   texsnap diff old.tex new.tex --unified

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jeranaias/texsnap/internal/diff"
)

const diffUsage = "texsnap diff <old> <new> [--unified|--stat|--json]"

// diffSwitches are the diff flags that never take a value.
var diffSwitches = []string{"unified", "u", "stat", "json"}

// jsonDiff is the --json output shape.
type jsonDiff struct {
	Name     string        `json:"name"`
	Summary  string        `json:"summary"`
	Inserted int           `json:"inserted"`
	Deleted  int           `json:"deleted"`
	Segments []jsonSegment `json:"segments"`
}

type jsonSegment struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// HandleDiff compares two files on disk and writes the result to out.
func HandleDiff(args Args, out io.Writer) error {
	p := NewArgParser(args.Raw, diffSwitches...)
	if p.PositionalCount() != 2 {
		return &UsageError{Reason: "diff needs exactly two files", Example: diffUsage}
	}
	oldPath, newPath := p.Positional(0), p.Positional(1)

	oldText, err := readInput(oldPath)
	if err != nil {
		return err
	}
	newText, err := readInput(newPath)
	if err != nil {
		return err
	}
	name := filepath.Base(newPath)

	switch {
	case p.BoolFlag("unified", "u"):
		u := diff.LineDiff(name, oldText, newText)
		if len(u.Hunks) == 0 {
			fmt.Fprintln(out, "No changes")
			return nil
		}
		fmt.Fprint(out, RenderUnified(u))
		return nil

	case args.JSON || p.BoolFlag("json"):
		d := diff.ComputeFile(name, oldText, newText)
		doc := jsonDiff{
			Name:     d.Name,
			Summary:  d.Summary(),
			Inserted: d.Stats.Inserted,
			Deleted:  d.Stats.Deleted,
			Segments: make([]jsonSegment, 0, len(d.Segments)),
		}
		for _, s := range d.Segments {
			doc.Segments = append(doc.Segments, jsonSegment{Kind: s.Kind.String(), Text: s.Text})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	d := diff.ComputeFile(name, oldText, newText)
	fmt.Fprintln(out, RenderConditional(TitleStyle, d.Name+": "+d.Summary()))
	if p.BoolFlag("stat") || d.Identical() {
		return nil
	}
	fmt.Fprintln(out, RenderSegments(d.Segments))
	return nil
}

// readInput reads a file named on the command line.
func readInput(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound("file", path)
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
