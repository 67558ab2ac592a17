// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/texsnap/internal/diff"
	"github.com/jeranaias/texsnap/internal/ui/styles"
)

// =============================================================================
// DIFF VIEWER
// =============================================================================

// DiffMode selects how a diff is drawn.
type DiffMode int

const (
	// DiffInline draws character segments in place.
	DiffInline DiffMode = iota
	// DiffUnified draws line hunks with line numbers.
	DiffUnified
)

// String returns the display name of the mode.
func (m DiffMode) String() string {
	if m == DiffUnified {
		return "unified"
	}
	return "inline"
}

// newlineMark stands in for an inserted or deleted line break.
const newlineMark = "¶"

// DiffViewer displays a snapshot diff with scrolling.
type DiffViewer struct {
	diff      *diff.Diff
	unified   *diff.Unified
	index     int
	mode      DiffMode
	width     int
	height    int
	scrollPos int
	theme     *styles.Theme
}

// NewDiffViewer creates an empty diff viewer.
func NewDiffViewer(theme *styles.Theme) *DiffViewer {
	return &DiffViewer{
		width:  80,
		height: 24,
		theme:  theme,
	}
}

// SetDiff shows d, the comparison against snapshot index.
func (dv *DiffViewer) SetDiff(index int, d *diff.Diff) {
	dv.diff = d
	dv.unified = nil
	dv.index = index
	dv.scrollPos = 0
}

// Clear removes the current diff.
func (dv *DiffViewer) Clear() {
	dv.diff = nil
	dv.unified = nil
	dv.scrollPos = 0
}

// HasDiff reports whether a diff is loaded.
func (dv *DiffViewer) HasDiff() bool {
	return dv.diff != nil
}

// Diff returns the loaded diff, or nil.
func (dv *DiffViewer) Diff() *diff.Diff {
	return dv.diff
}

// Index returns the snapshot index of the loaded diff.
func (dv *DiffViewer) Index() int {
	return dv.index
}

// Mode returns the drawing mode.
func (dv *DiffViewer) Mode() DiffMode {
	return dv.mode
}

// ToggleMode switches between inline and unified drawing.
func (dv *DiffViewer) ToggleMode() {
	if dv.mode == DiffInline {
		dv.mode = DiffUnified
	} else {
		dv.mode = DiffInline
	}
	dv.scrollPos = 0
}

// SetSize sets the viewer dimensions.
func (dv *DiffViewer) SetSize(width, height int) {
	dv.width = width
	dv.height = height
	dv.clampScroll()
}

// SetTheme switches the theme used for rendering.
func (dv *DiffViewer) SetTheme(theme *styles.Theme) {
	dv.theme = theme
}

// ScrollUp scrolls the view up.
func (dv *DiffViewer) ScrollUp(lines int) {
	dv.scrollPos -= lines
	dv.clampScroll()
}

// ScrollDown scrolls the view down.
func (dv *DiffViewer) ScrollDown(lines int) {
	dv.scrollPos += lines
	dv.clampScroll()
}

func (dv *DiffViewer) clampScroll() {
	maxScroll := max(len(dv.bodyLines())-dv.bodyHeight(), 0)
	dv.scrollPos = max(0, min(dv.scrollPos, maxScroll))
}

// bodyHeight is the number of rows left after the title and stats rows.
func (dv *DiffViewer) bodyHeight() int {
	return max(dv.height-2, 1)
}

// =============================================================================
// RENDERING
// =============================================================================

// View renders the diff viewer.
func (dv *DiffViewer) View() string {
	t := dv.theme
	if dv.diff == nil {
		return t.Muted.Render("No diff. Select a snapshot and press ctrl+d.")
	}

	title := fmt.Sprintf("%s vs snapshot %d", dv.diff.Name, dv.index)
	rows := []string{
		t.DiffHeader.Render(fitLine(title, dv.width)),
		dv.renderStats(),
	}

	body := dv.bodyLines()
	end := min(dv.scrollPos+dv.bodyHeight(), len(body))
	rows = append(rows, body[dv.scrollPos:end]...)
	return strings.Join(rows, "\n")
}

// renderStats renders the summary row.
func (dv *DiffViewer) renderStats() string {
	t := dv.theme
	stats := dv.diff.Stats

	var parts []string
	switch stats.FileMode {
	case "unchanged":
		return t.Muted.Italic(true).Render("No changes")
	case "new":
		parts = append(parts, t.Muted.Render("New file"))
	case "deleted":
		parts = append(parts, t.Muted.Render("File deleted"))
	default:
		parts = append(parts, t.Muted.Render("Modified"))
	}
	if stats.Inserted > 0 {
		parts = append(parts, t.SuccessStyle.Render("+"+fmtNumber(stats.Inserted)))
	}
	if stats.Deleted > 0 {
		parts = append(parts, t.ErrorStyle.Render("-"+fmtNumber(stats.Deleted)))
	}
	parts = append(parts, t.Muted.Render("chars ["+dv.mode.String()+"]"))
	return strings.Join(parts, " ")
}

// bodyLines renders the whole diff body for the current mode.
func (dv *DiffViewer) bodyLines() []string {
	if dv.diff == nil || dv.diff.Identical() {
		return nil
	}
	if dv.mode == DiffUnified {
		return dv.unifiedLines()
	}
	return dv.inlineLines()
}

// piece is a run of text with one segment kind, never containing a newline.
type piece struct {
	kind diff.Kind
	text string
}

// inlineLines lays the segments out as wrapped rows.
func (dv *DiffViewer) inlineLines() []string {
	var rows [][]piece
	var cur []piece

	for _, seg := range dv.diff.Segments {
		parts := strings.Split(seg.Text, "\n")
		for i, part := range parts {
			if part != "" {
				cur = append(cur, piece{seg.Kind, part})
			}
			if i < len(parts)-1 {
				if seg.Kind != diff.Equal {
					cur = append(cur, piece{seg.Kind, newlineMark})
				}
				rows = append(rows, cur)
				cur = nil
			}
		}
	}
	if len(cur) > 0 {
		rows = append(rows, cur)
	}

	width := max(dv.width, 1)
	var out []string
	for _, row := range rows {
		for _, wrapped := range wrapPieces(row, width) {
			out = append(out, dv.renderPieces(wrapped))
		}
	}
	return out
}

// wrapPieces splits a row into rows no wider than width cells.
func wrapPieces(row []piece, width int) [][]piece {
	if len(row) == 0 {
		return [][]piece{nil}
	}
	var out [][]piece
	var cur []piece
	used := 0
	for _, p := range row {
		var b strings.Builder
		for _, r := range p.text {
			w := runewidth.RuneWidth(r)
			if used+w > width && used > 0 {
				if b.Len() > 0 {
					cur = append(cur, piece{p.kind, b.String()})
					b.Reset()
				}
				out = append(out, cur)
				cur = nil
				used = 0
			}
			b.WriteRune(r)
			used += w
		}
		if b.Len() > 0 {
			cur = append(cur, piece{p.kind, b.String()})
		}
	}
	return append(out, cur)
}

func (dv *DiffViewer) renderPieces(row []piece) string {
	var b strings.Builder
	for _, p := range row {
		b.WriteString(dv.kindStyle(p.kind).Render(p.text))
	}
	return b.String()
}

func (dv *DiffViewer) kindStyle(k diff.Kind) lipgloss.Style {
	switch k {
	case diff.Insert:
		return dv.theme.DiffInsert
	case diff.Delete:
		return dv.theme.DiffDelete
	default:
		return dv.theme.DiffEqual
	}
}

// unifiedLines renders line hunks.
func (dv *DiffViewer) unifiedLines() []string {
	if dv.unified == nil {
		dv.unified = diff.LineDiff(dv.diff.Name, dv.diff.Old, dv.diff.New)
	}
	var out []string
	for i, hunk := range dv.unified.Hunks {
		if i > 0 {
			out = append(out, "")
		}
		header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", hunk.OldStart, hunk.OldCount, hunk.NewStart, hunk.NewCount)
		out = append(out, dv.theme.DiffHunk.Render(header))
		for _, line := range hunk.Lines {
			out = append(out, dv.renderLine(line))
			if line.NoNewline {
				out = append(out, dv.theme.Muted.Render(fitLine(diff.NoNewlineMarker, max(dv.width, 1))))
			}
		}
	}
	return out
}

// renderLine renders a single diff line with old and new line numbers.
func (dv *DiffViewer) renderLine(line diff.Line) string {
	var lineNumStr string
	var lineStyle lipgloss.Style

	switch line.Type {
	case diff.LineAdded:
		lineStyle = dv.theme.DiffInsert.Strikethrough(false)
		lineNumStr = fmt.Sprintf("    %4d", line.NewLine)
	case diff.LineRemoved:
		lineStyle = dv.theme.DiffDelete.Strikethrough(false)
		lineNumStr = fmt.Sprintf("%4d    ", line.OldLine)
	default:
		lineStyle = dv.theme.DiffEqual
		lineNumStr = fmt.Sprintf("%4d %4d", line.OldLine, line.NewLine)
	}

	const gutter = 10 // "1234 1234 "
	text := line.Type.Prefix() + line.Content
	text = fitLine(text, max(dv.width-gutter, 1))
	return dv.theme.Muted.Render(lineNumStr) + " " + lineStyle.Render(strings.TrimRight(text, " "))
}
