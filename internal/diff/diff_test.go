// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// SEGMENTS
// =============================================================================

func TestCompute_InsertedClause(t *testing.T) {
	segs := Compute("Hello, world!", "Hello, there, world!")

	assert.Equal(t, []Segment{
		{Kind: Equal, Text: "Hello, "},
		{Kind: Insert, Text: "there, "},
		{Kind: Equal, Text: "world!"},
	}, segs)
}

func TestCompute_EdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
		want     []Segment
	}{
		{"both empty", "", "", []Segment{}},
		{"identical", "same text", "same text", []Segment{{Equal, "same text"}}},
		{"disjoint", "abc", "xyz", []Segment{{Delete, "abc"}, {Insert, "xyz"}}},
		{"from empty", "", "new", []Segment{{Insert, "new"}}},
		{"to empty", "old", "", []Segment{{Delete, "old"}}},
		// a lone shared character is folded into the surrounding edit
		{"semantic cleanup", "abc", "b", []Segment{{Delete, "abc"}, {Insert, "b"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compute(tt.old, tt.new))
		})
	}
}

func TestCompute_Reconstruction(t *testing.T) {
	pairs := [][2]string{
		{"", ""},
		{"Hello, world!", "Hello, there, world!"},
		{"\\section{Intro}\nText.", "\\section{Introduction}\nMore text."},
		{"héllo wörld", "hello world ✓"},
		{"line1\nline2\nline3\n", "line1\nline3\nline4\n"},
		{"aaaa", "aaaaaaaa"},
	}

	rng := rand.New(rand.NewSource(7))
	alphabet := []rune("ab \n{}é")
	randText := func() string {
		n := rng.Intn(40)
		r := make([]rune, n)
		for i := range r {
			r[i] = alphabet[rng.Intn(len(alphabet))]
		}
		return string(r)
	}
	for i := 0; i < 200; i++ {
		pairs = append(pairs, [2]string{randText(), randText()})
	}

	for _, p := range pairs {
		segs := Compute(p[0], p[1])
		require.Equal(t, p[0], Source(segs), "source of %q -> %q", p[0], p[1])
		require.Equal(t, p[1], Target(segs), "target of %q -> %q", p[0], p[1])

		for i, s := range segs {
			require.NotEmpty(t, s.Text)
			if i > 0 {
				require.NotEqual(t, segs[i-1].Kind, s.Kind)
			}
		}
	}
}

func TestCompute_InvalidUTF8(t *testing.T) {
	segs := Compute("ab\xffcd", "ab\xfecd")

	assert.False(t, Identical(segs))
	assert.Equal(t, "ab\xffcd", Source(segs))
	assert.Equal(t, "ab\xfecd", Target(segs))
	require.NotEmpty(t, segs)
	assert.Equal(t, Segment{Kind: Equal, Text: "ab"}, segs[0])

	d := ComputeFile("latin1.tex", "caf\xe9", "caf\xe9s")
	assert.False(t, d.Identical())
	assert.Equal(t, 1, d.Stats.Inserted)

	// mixed: valid multibyte on one side, raw bytes on the other
	rng := rand.New(rand.NewSource(11))
	alphabet := []string{"a", " ", "\n", "é", "\xe9", "\xff", "\xc3"}
	randBytes := func() string {
		var sb strings.Builder
		for n := rng.Intn(30); n > 0; n-- {
			sb.WriteString(alphabet[rng.Intn(len(alphabet))])
		}
		return sb.String()
	}
	for i := 0; i < 200; i++ {
		a, b := randBytes(), randBytes()
		segs := Compute(a, b)
		require.Equal(t, a, Source(segs), "source of %q -> %q", a, b)
		require.Equal(t, b, Target(segs), "target of %q -> %q", a, b)
		require.Equal(t, a == b, Identical(segs), "identical %q -> %q", a, b)
	}
}

func TestIdentical(t *testing.T) {
	for _, text := range []string{"", "x", "Hello, world!"} {
		assert.True(t, Identical(Compute(text, text)))
	}
	assert.False(t, Identical(Compute("a", "b")))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "equal", Equal.String())
	assert.Equal(t, "insert", Insert.String())
	assert.Equal(t, "delete", Delete.String())
	assert.Equal(t, "unknown", Kind(9).String())
}

func TestFormatInline(t *testing.T) {
	segs := []Segment{{Equal, "a "}, {Delete, "old"}, {Insert, "new"}, {Equal, " b"}}
	assert.Equal(t, "a [-old-]{+new+} b", FormatInline(segs))
}

// =============================================================================
// FILE DIFF
// =============================================================================

func TestComputeFile_Stats(t *testing.T) {
	d := ComputeFile("main.tex", "Hello, world!", "Hello, there, world!")

	assert.Equal(t, "main.tex", d.Name)
	assert.Equal(t, 7, d.Stats.Inserted)
	assert.Equal(t, 0, d.Stats.Deleted)
	assert.Equal(t, 13, d.Stats.Unchanged)
	assert.Equal(t, "modified", d.Stats.FileMode)
	assert.False(t, d.Identical())
}

func TestComputeFile_CountsRunes(t *testing.T) {
	d := ComputeFile("a.tex", "", "héllo")
	assert.Equal(t, 5, d.Stats.Inserted)
}

func TestDiff_Summary(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
		expected string
	}{
		{"unchanged", "abc", "abc", "No changes"},
		{"new file", "", "abc", "New file +3 chars"},
		{"deleted file", "abc", "", "File deleted -3 chars"},
		{"modified", "Hello, world!", "Hello, there, world!", "Modified +7 chars"},
		{"replaced", "abc", "xyz", "Modified +3 -3 chars"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeFile("f.tex", tt.old, tt.new).Summary())
		})
	}
}

// =============================================================================
// LINE DIFF
// =============================================================================

func TestLineDiff_Counts(t *testing.T) {
	tests := []struct {
		name      string
		old, new  string
		additions int
		deletions int
	}{
		{"new file", "", "line1\nline2\nline3\n", 3, 0},
		{"deleted file", "line1\nline2\nline3\n", "", 0, 3},
		{"modified", "line1\nline2\nline3\n", "line1\nmodified\nline3\nline4\n", 2, 1},
		{"unchanged", "line1\nline2\n", "line1\nline2\n", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := LineDiff("test.txt", tt.old, tt.new)
			assert.Equal(t, tt.additions, u.Additions)
			assert.Equal(t, tt.deletions, u.Deletions)
		})
	}
}

func TestLineDiff_SeparateHunks(t *testing.T) {
	var oldLines, newLines []string
	for i := 1; i <= 20; i++ {
		line := "line" + string(rune('a'+i))
		oldLines = append(oldLines, line)
		newLines = append(newLines, line)
	}
	newLines[1] = "changed early"
	newLines[17] = "changed late"

	u := LineDiff("f.tex", strings.Join(oldLines, "\n")+"\n", strings.Join(newLines, "\n")+"\n")
	require.Len(t, u.Hunks, 2)

	first := u.Hunks[0]
	assert.Equal(t, 1, first.OldStart)
	assert.Equal(t, 5, first.OldCount)
	assert.Equal(t, 5, first.NewCount)

	second := u.Hunks[1]
	assert.Equal(t, 15, second.OldStart)
	assert.Equal(t, 6, second.OldCount)
}

func TestLineDiff_CloseChangesShareHunk(t *testing.T) {
	old := "a\nb\nc\nd\ne\nf\ng\n"
	new := "A\nb\nc\nd\ne\nf\nG\n"

	u := LineDiff("f.tex", old, new)
	require.Len(t, u.Hunks, 1)
	assert.Equal(t, 7, u.Hunks[0].OldCount)
}

func TestFormatUnified(t *testing.T) {
	u := LineDiff("file.txt", "line1\nline2\nline3", "line1\nmodified\nline3")

	expected := "--- a/file.txt\n" +
		"+++ b/file.txt\n" +
		"@@ -1,3 +1,3 @@\n" +
		" line1\n" +
		"-line2\n" +
		"+modified\n" +
		" line3\n" +
		"\\ No newline at end of file\n"
	assert.Equal(t, expected, FormatUnified(u))
}

func TestFormatUnified_MissingFinalNewline(t *testing.T) {
	u := LineDiff("a.tex", "a", "a\n")

	expected := "--- a/a.tex\n" +
		"+++ b/a.tex\n" +
		"@@ -1,1 +1,1 @@\n" +
		"-a\n" +
		"\\ No newline at end of file\n" +
		"+a\n"
	assert.Equal(t, expected, FormatUnified(u))

	u = LineDiff("a.tex", "x\ny\n", "x\nz")
	assert.Equal(t, "--- a/a.tex\n+++ b/a.tex\n@@ -1,2 +1,2 @@\n x\n-y\n+z\n"+NoNewlineMarker+"\n", FormatUnified(u))
}

func TestFormatUnified_AddToEmpty(t *testing.T) {
	u := LineDiff("new.tex", "", "a\nb\n")
	assert.Equal(t, "--- a/new.tex\n+++ b/new.tex\n@@ -0,0 +1,2 @@\n+a\n+b\n", FormatUnified(u))
}

func TestFormatUnified_NoChanges(t *testing.T) {
	assert.Empty(t, FormatUnified(LineDiff("f", "same\n", "same\n")))
}

func TestLineType(t *testing.T) {
	assert.Equal(t, "+", LineAdded.Prefix())
	assert.Equal(t, "-", LineRemoved.Prefix())
	assert.Equal(t, " ", LineContext.Prefix())
	assert.Equal(t, "context", LineContext.String())
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []string
	}{
		{"empty", "", nil},
		{"single line no newline", "line1", []string{"line1"}},
		{"single line with newline", "line1\n", []string{"line1"}},
		{"multiple lines", "line1\nline2\nline3", []string{"line1", "line2", "line3"}},
		{"blank line kept", "a\n\nb\n", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitLines(tt.content))
		})
	}
}
