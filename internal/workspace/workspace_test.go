// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/texsnap/internal/document"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

// =============================================================================
// PROJECT TESTS
// =============================================================================

func TestTracked(t *testing.T) {
	tests := []struct {
		name string
		exts []string
		want bool
	}{
		{"main.tex", nil, true},
		{"refs.BIB", nil, true},
		{"notes.txt", nil, false},
		{".hidden.tex", nil, false},
		{".tmp-123", nil, false},
		{"notes.txt", []string{".txt"}, true},
		{"main.tex", []string{".txt"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tracked(tt.name, tt.exts))
		})
	}
}

func TestLoad_OrdersPrimaryFirst(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "zeta.tex", "z")
	writeFile(t, dir, "main.tex", "m")
	writeFile(t, dir, "alpha.bib", "a")
	writeFile(t, dir, "README.md", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.tex"), 0755))

	set, err := Load(dir, nil, "main.tex")
	require.NoError(t, err)
	assert.Equal(t, []string{"main.tex", "alpha.bib", "zeta.tex"}, set.Names())

	f, _ := set.Get("zeta.tex")
	assert.Equal(t, "z", f.Content)
}

func TestLoad_EmptyOrMissingDir(t *testing.T) {
	set, err := Load(t.TempDir(), nil, "main.tex")
	require.NoError(t, err)
	assert.True(t, set.Equal(document.Default()))

	set, err = Load(filepath.Join(t.TempDir(), "nope"), nil, "main.tex")
	require.NoError(t, err)
	assert.True(t, set.Equal(document.Default()))
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	set, err := document.NewSet(
		document.File{Name: "main.tex", Content: "body"},
		document.File{Name: "refs.bib", Content: "@book{}"},
	)
	require.NoError(t, err)

	require.NoError(t, Save(dir, set))

	loaded, err := Load(dir, nil, "main.tex")
	require.NoError(t, err)
	assert.True(t, loaded.Equal(set))
}

func TestSave_KeepsDecomposedName(t *testing.T) {
	dir := t.TempDir()
	nfd := "re\u0301sume\u0301.tex"
	writeFile(t, dir, nfd, "old")

	set, err := Load(dir, nil, "main.tex")
	require.NoError(t, err)
	require.Equal(t, []string{"r\u00e9sum\u00e9.tex"}, set.Names())
	require.NoError(t, set.SetContent("r\u00e9sum\u00e9.tex", "new"))

	require.NoError(t, Save(dir, set))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestLoad_RejectsInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.tex", "caf\xe9")

	_, err := Load(dir, nil, "main.tex")
	assert.ErrorIs(t, err, document.ErrInvalidEncoding)
}

// =============================================================================
// WATCHER TESTS
// =============================================================================

type changeLog struct {
	mu      sync.Mutex
	changes []Change
}

func (l *changeLog) add(c Change) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.changes = append(l.changes, c)
}

func (l *changeLog) find(name string) (Change, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.changes) - 1; i >= 0; i-- {
		if l.changes[i].Name == name {
			return l.changes[i], true
		}
	}
	return Change{}, false
}

func TestNewWatcher_RequiresCallback(t *testing.T) {
	_, err := NewWatcher(t.TempDir(), nil, nil)
	assert.Error(t, err)
}

func TestWatcher_ReportsExternalEdits(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.tex", "v1")

	log := &changeLog{}
	w, err := NewWatcher(dir, nil, log.add, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Close()

	assert.ErrorIs(t, w.Start(context.Background()), ErrAlreadyStarted)

	writeFile(t, dir, "main.tex", "v2")
	writeFile(t, dir, "notes.txt", "ignored")

	require.Eventually(t, func() bool {
		c, ok := log.find("main.tex")
		return ok && c.Content == "v2"
	}, 3*time.Second, 10*time.Millisecond)

	_, ok := log.find("notes.txt")
	assert.False(t, ok)
}

func TestWatcher_StartMissingDir(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "missing"), nil, func(Change) {})
	require.NoError(t, err)
	assert.Error(t, w.Start(context.Background()))
}

func TestWatcher_CloseIdempotent(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), nil, func(Change) {})
	require.NoError(t, err)
	assert.NoError(t, w.Close())

	require.NoError(t, w.Start(context.Background()))
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

func TestWatcher_ScanDetectsChanges(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.tex", "v1")

	w, err := NewWatcher(dir, nil, func(Change) {})
	require.NoError(t, err)

	assert.Empty(t, w.scan(), "first scan only records")

	writeFile(t, dir, "intro.tex", "new")
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "main.tex"), later, later))

	changed := w.scan()
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "intro.tex"),
		filepath.Join(dir, "main.tex"),
	}, changed)

	assert.Empty(t, w.scan())
}
