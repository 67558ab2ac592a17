// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jeranaias/texsnap/internal/document"
	"github.com/jeranaias/texsnap/internal/util"
)

// DefaultExtensions are the file types loaded into a project.
var DefaultExtensions = []string{".tex", ".bib", ".sty", ".cls"}

// MaxFileSize is the largest file Load accepts.
const MaxFileSize = 8 * 1024 * 1024

// ErrFileTooLarge is returned for project files above MaxFileSize.
var ErrFileTooLarge = errors.New("file too large")

// Tracked reports whether name belongs to a project with the given
// extensions. Nil extensions means DefaultExtensions.
func Tracked(name string, exts []string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	if exts == nil {
		exts = DefaultExtensions
	}
	ext := strings.ToLower(filepath.Ext(base))
	for _, e := range exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// Load reads the project in dir. The primary file comes first and the rest
// follow in name order. A directory without project files, or one that does
// not exist yet, yields document.Default().
func Load(dir string, exts []string, primary string) (*document.Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return document.Default(), nil
		}
		return nil, fmt.Errorf("read project directory: %w", err)
	}

	var files []document.File
	for _, e := range entries {
		if !e.Type().IsRegular() || !Tracked(e.Name(), exts) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		if info.Size() > MaxFileSize {
			return nil, fmt.Errorf("%w: %s (%d bytes)", ErrFileTooLarge, e.Name(), info.Size())
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		files = append(files, document.File{Name: e.Name(), Content: string(data)})
	}

	if len(files) == 0 {
		return document.Default(), nil
	}

	primary = document.NormalizeName(primary)
	sort.SliceStable(files, func(i, j int) bool {
		pi, pj := document.NormalizeName(files[i].Name) == primary, document.NormalizeName(files[j].Name) == primary
		if pi != pj {
			return pi
		}
		return files[i].Name < files[j].Name
	})

	return document.NewSet(files...)
}

// Save writes every file of set into dir. A file already on disk under a
// differently normalised name (NFD on macOS) keeps its on-disk name.
func Save(dir string, set *document.Set) error {
	onDisk := diskNames(dir)
	for _, f := range set.Files() {
		name := f.Name
		if existing, ok := onDisk[name]; ok {
			name = existing
		}
		if err := util.AtomicWriteFile(filepath.Join(dir, name), []byte(f.Content), 0644); err != nil {
			return fmt.Errorf("save %s: %w", f.Name, err)
		}
	}
	return nil
}

// diskNames maps the normalised name of every regular file in dir to the
// name it has on disk.
func diskNames(dir string) map[string]string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	names := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names[document.NormalizeName(e.Name())] = e.Name()
		}
	}
	return names
}
