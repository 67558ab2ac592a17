// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package document

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// DefaultFileName is the file every new project starts with.
const DefaultFileName = "main.tex"

// DefaultContent is the starter document placed in DefaultFileName.
const DefaultContent = `\documentclass{article}
\begin{document}
Hello, world!
\end{document}`

var (
	// ErrEmptyName is returned for blank file names.
	ErrEmptyName = errors.New("file name is empty")

	// ErrInvalidName is returned for names containing path separators.
	ErrInvalidName = errors.New("file name must not contain path separators")

	// ErrDuplicateName is returned when a name is already used in the set.
	ErrDuplicateName = errors.New("file name already exists")

	// ErrNotFound is returned when no file has the requested name.
	ErrNotFound = errors.New("file not found")

	// ErrLastFile is returned when removing the only remaining file.
	ErrLastFile = errors.New("you must have at least one file")

	// ErrNoFiles is returned when building a set without files.
	ErrNoFiles = errors.New("document set requires at least one file")

	// ErrInvalidRange is returned by Insert for ranges outside the content.
	ErrInvalidRange = errors.New("insert range outside file content")

	// ErrInvalidEncoding is returned for content that is not UTF-8 text.
	ErrInvalidEncoding = errors.New("content is not valid UTF-8")
)

// File is a single named source file.
type File struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Set is an ordered collection of uniquely named files.
// The zero value is not usable; construct with NewSet or Default.
type Set struct {
	files []File
}

// NormalizeName trims surrounding whitespace and applies Unicode NFC so that
// visually identical names compare equal.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// ValidateName normalizes name and reports whether it can be used as a file
// name. It does not check uniqueness.
func ValidateName(name string) (string, error) {
	name = NormalizeName(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return name, nil
}

// checkContent rejects content the editor cannot hold without replacing
// bytes with U+FFFD.
func checkContent(name, content string) error {
	if !utf8.ValidString(content) {
		return fmt.Errorf("%w: %q (convert it to UTF-8)", ErrInvalidEncoding, name)
	}
	return nil
}

// NewSet builds a set from files, validating names and uniqueness.
// The files are copied.
func NewSet(files ...File) (*Set, error) {
	checked, err := validateFiles(files)
	if err != nil {
		return nil, err
	}
	return &Set{files: checked}, nil
}

// Default returns the starter project: a single main.tex.
func Default() *Set {
	return &Set{files: []File{{Name: DefaultFileName, Content: DefaultContent}}}
}

func validateFiles(files []File) ([]File, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	out := make([]File, 0, len(files))
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		name, err := ValidateName(f.Name)
		if err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		if err := checkContent(name, f.Content); err != nil {
			return nil, err
		}
		seen[name] = true
		out = append(out, File{Name: name, Content: f.Content})
	}
	return out, nil
}

// =============================================================================
// READ ACCESS
// =============================================================================

// Len returns the number of files.
func (s *Set) Len() int {
	return len(s.files)
}

// Files returns a copy of the files in order.
func (s *Set) Files() []File {
	out := make([]File, len(s.files))
	copy(out, s.files)
	return out
}

// Names returns the file names in order.
func (s *Set) Names() []string {
	names := make([]string, len(s.files))
	for i, f := range s.files {
		names[i] = f.Name
	}
	return names
}

// Index returns the position of name, or -1.
func (s *Set) Index(name string) int {
	name = NormalizeName(name)
	for i, f := range s.files {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Get returns the file called name.
func (s *Set) Get(name string) (File, bool) {
	i := s.Index(name)
	if i < 0 {
		return File{}, false
	}
	return s.files[i], true
}

// First returns the first file. A valid set always has one.
func (s *Set) First() File {
	return s.files[0]
}

// Clone returns a deep copy that shares no state with s.
func (s *Set) Clone() *Set {
	return &Set{files: s.Files()}
}

// Equal reports whether both sets hold the same files in the same order.
func (s *Set) Equal(other *Set) bool {
	if other == nil || len(s.files) != len(other.files) {
		return false
	}
	for i := range s.files {
		if s.files[i] != other.files[i] {
			return false
		}
	}
	return true
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Add appends a new file.
func (s *Set) Add(name, content string) error {
	name, err := ValidateName(name)
	if err != nil {
		return err
	}
	if s.Index(name) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	if err := checkContent(name, content); err != nil {
		return err
	}
	s.files = append(s.files, File{Name: name, Content: content})
	return nil
}

// NextUntitledName suggests a free name of the form untitledN.tex, starting
// from the file count plus one.
func (s *Set) NextUntitledName() string {
	for n := len(s.files) + 1; ; n++ {
		name := fmt.Sprintf("untitled%d.tex", n)
		if s.Index(name) < 0 {
			return name
		}
	}
}

// Rename changes a file's name in place. Renaming a file to its current name
// is a no-op.
func (s *Set) Rename(oldName, newName string) error {
	i := s.Index(oldName)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, oldName)
	}
	newName, err := ValidateName(newName)
	if err != nil {
		return err
	}
	if newName == s.files[i].Name {
		return nil
	}
	if s.Index(newName) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateName, newName)
	}
	s.files[i].Name = newName
	return nil
}

// Remove deletes a file. The last remaining file cannot be removed.
func (s *Set) Remove(name string) error {
	i := s.Index(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if len(s.files) == 1 {
		return ErrLastFile
	}
	s.files = append(s.files[:i:i], s.files[i+1:]...)
	return nil
}

// SetContent replaces a file's content.
func (s *Set) SetContent(name, content string) error {
	i := s.Index(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err := checkContent(name, content); err != nil {
		return err
	}
	s.files[i].Content = content
	return nil
}

// Insert replaces the rune range [start, end) of a file with text. With
// start == end it is a plain insertion at the cursor.
func (s *Set) Insert(name string, start, end int, text string) error {
	i := s.Index(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	runes := []rune(s.files[i].Content)
	if start < 0 || end < start || end > len(runes) {
		return fmt.Errorf("%w: [%d,%d) of %d", ErrInvalidRange, start, end, len(runes))
	}
	if err := checkContent(name, text); err != nil {
		return err
	}
	var b strings.Builder
	b.WriteString(string(runes[:start]))
	b.WriteString(text)
	b.WriteString(string(runes[end:]))
	s.files[i].Content = b.String()
	return nil
}

// Replace swaps the whole contents of the set for files after validating
// them. On error the set is unchanged.
func (s *Set) Replace(files []File) error {
	checked, err := validateFiles(files)
	if err != nil {
		return err
	}
	s.files = checked
	return nil
}
