// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoFiles(t *testing.T) *Set {
	t.Helper()
	set, err := NewSet(
		File{Name: "main.tex", Content: "Hello, world!"},
		File{Name: "refs.bib", Content: "@book{knuth}"},
	)
	require.NoError(t, err)
	return set
}

// =============================================================================
// CONSTRUCTION
// =============================================================================

func TestDefault(t *testing.T) {
	set := Default()

	require.Equal(t, 1, set.Len())
	f, ok := set.Get(DefaultFileName)
	require.True(t, ok)
	assert.Contains(t, f.Content, "Hello, world!")
}

func TestNewSet_Validation(t *testing.T) {
	tests := []struct {
		name  string
		files []File
		want  error
	}{
		{"no files", nil, ErrNoFiles},
		{"empty name", []File{{Name: "  "}}, ErrEmptyName},
		{"separator", []File{{Name: "a/b.tex"}}, ErrInvalidName},
		{"duplicate", []File{{Name: "a.tex"}, {Name: "a.tex"}}, ErrDuplicateName},
		{"duplicate after trim", []File{{Name: "a.tex"}, {Name: " a.tex "}}, ErrDuplicateName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSet(tt.files...)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewSet_NormalizesUnicode(t *testing.T) {
	// "é" precomposed vs e + combining acute
	_, err := NewSet(File{Name: "r\u00e9sum\u00e9.tex"}, File{Name: "re\u0301sume\u0301.tex"})
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestNewSet_CopiesInput(t *testing.T) {
	files := []File{{Name: "main.tex", Content: "a"}}
	set, err := NewSet(files...)
	require.NoError(t, err)

	files[0].Content = "changed"
	f, _ := set.Get("main.tex")
	assert.Equal(t, "a", f.Content)
}

// =============================================================================
// READ ACCESS
// =============================================================================

func TestFiles_ReturnsCopy(t *testing.T) {
	set := twoFiles(t)

	files := set.Files()
	files[0].Content = "mutated"

	f, _ := set.Get("main.tex")
	assert.Equal(t, "Hello, world!", f.Content)
}

func TestClone_NoAliasing(t *testing.T) {
	set := twoFiles(t)
	clone := set.Clone()
	require.True(t, set.Equal(clone))

	require.NoError(t, set.SetContent("main.tex", "edited"))
	require.NoError(t, set.Rename("refs.bib", "library.bib"))

	f, _ := clone.Get("main.tex")
	assert.Equal(t, "Hello, world!", f.Content)
	assert.Equal(t, []string{"main.tex", "refs.bib"}, clone.Names())
	assert.False(t, set.Equal(clone))
}

// =============================================================================
// MUTATIONS
// =============================================================================

func TestAdd(t *testing.T) {
	set := Default()

	require.NoError(t, set.Add("intro.tex", ""))
	assert.Equal(t, []string{"main.tex", "intro.tex"}, set.Names())

	err := set.Add("intro.tex", "x")
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.Equal(t, 2, set.Len())

	assert.ErrorIs(t, set.Add("", "x"), ErrEmptyName)
	assert.Equal(t, 2, set.Len())
}

func TestNextUntitledName(t *testing.T) {
	set := Default()
	assert.Equal(t, "untitled2.tex", set.NextUntitledName())

	require.NoError(t, set.Add("untitled2.tex", ""))
	// Two files now: untitled3 is free
	assert.Equal(t, "untitled3.tex", set.NextUntitledName())

	require.NoError(t, set.Add("untitled4.tex", ""))
	// Three files: untitled4 is taken, so bump to 5
	assert.Equal(t, "untitled5.tex", set.NextUntitledName())
}

func TestRename(t *testing.T) {
	set := twoFiles(t)

	require.NoError(t, set.Rename("refs.bib", "library.bib"))
	assert.Equal(t, []string{"main.tex", "library.bib"}, set.Names())
	f, _ := set.Get("library.bib")
	assert.Equal(t, "@book{knuth}", f.Content)

	// same name is a no-op
	require.NoError(t, set.Rename("main.tex", "main.tex"))

	assert.ErrorIs(t, set.Rename("main.tex", "library.bib"), ErrDuplicateName)
	assert.ErrorIs(t, set.Rename("missing.tex", "x.tex"), ErrNotFound)
	assert.ErrorIs(t, set.Rename("main.tex", ""), ErrEmptyName)
	assert.Equal(t, []string{"main.tex", "library.bib"}, set.Names())
}

func TestRemove(t *testing.T) {
	set := twoFiles(t)

	require.NoError(t, set.Remove("main.tex"))
	assert.Equal(t, []string{"refs.bib"}, set.Names())

	assert.ErrorIs(t, set.Remove("refs.bib"), ErrLastFile)
	assert.Equal(t, 1, set.Len())

	assert.ErrorIs(t, set.Remove("missing.tex"), ErrNotFound)
}

func TestRemove_DoesNotDisturbClone(t *testing.T) {
	set := twoFiles(t)
	require.NoError(t, set.Add("c.tex", "c"))
	clone := set.Clone()

	require.NoError(t, set.Remove("main.tex"))
	assert.Equal(t, []string{"main.tex", "refs.bib", "c.tex"}, clone.Names())
}

func TestSetContent(t *testing.T) {
	set := Default()
	require.NoError(t, set.SetContent("main.tex", "new"))
	f, _ := set.Get("main.tex")
	assert.Equal(t, "new", f.Content)

	assert.ErrorIs(t, set.SetContent("nope.tex", ""), ErrNotFound)
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		start, end int
		text       string
		want       string
		wantErr    error
	}{
		{"at cursor", "Hello world", 6, 6, `\textbf{}`, `Hello \textbf{}world`, nil},
		{"replace selection", "Hello world", 6, 11, "$x$", "Hello $x$", nil},
		{"at end", "ab", 2, 2, "c", "abc", nil},
		{"unicode offsets", "héllo", 2, 2, "-", "hé-llo", nil},
		{"past end", "ab", 3, 3, "c", "ab", ErrInvalidRange},
		{"inverted", "abc", 2, 1, "c", "abc", ErrInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := NewSet(File{Name: "main.tex", Content: tt.content})
			require.NoError(t, err)

			err = set.Insert("main.tex", tt.start, tt.end, tt.text)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			f, _ := set.Get("main.tex")
			assert.Equal(t, tt.want, f.Content)
		})
	}
}

func TestRejectsInvalidUTF8(t *testing.T) {
	latin1 := "caf\xe9"

	_, err := NewSet(File{Name: "main.tex", Content: latin1})
	assert.ErrorIs(t, err, ErrInvalidEncoding)

	set := twoFiles(t)
	assert.ErrorIs(t, set.Add("extra.tex", latin1), ErrInvalidEncoding)
	assert.ErrorIs(t, set.SetContent("main.tex", latin1), ErrInvalidEncoding)
	assert.ErrorIs(t, set.Insert("main.tex", 0, 0, "\xff"), ErrInvalidEncoding)

	assert.Equal(t, 2, set.Len())
	f, _ := set.Get("main.tex")
	assert.Equal(t, "Hello, world!", f.Content)
}

func TestReplace_AllOrNothing(t *testing.T) {
	set := twoFiles(t)

	err := set.Replace([]File{{Name: "a.tex"}, {Name: "a.tex"}})
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.Equal(t, []string{"main.tex", "refs.bib"}, set.Names())

	require.NoError(t, set.Replace([]File{{Name: "only.tex", Content: "x"}}))
	assert.Equal(t, []string{"only.tex"}, set.Names())
}

func TestSnippetByKey(t *testing.T) {
	s, ok := SnippetByKey("b")
	require.True(t, ok)
	assert.Equal(t, `\textbf{}`, s.Text)

	_, ok = SnippetByKey("z")
	assert.False(t, ok)
}
