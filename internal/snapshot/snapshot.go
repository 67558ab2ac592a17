// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package snapshot

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/texsnap/internal/document"
	"github.com/jeranaias/texsnap/internal/util"
)

// DefaultTimestampLayout renders capture times like "Mar 4, 2025 2:07:31 PM".
const DefaultTimestampLayout = "Jan 2, 2006 3:04:05 PM"

// ErrOutOfRange is matched by every IndexError.
var ErrOutOfRange = errors.New("snapshot index out of range")

// IndexError reports access to a snapshot that does not exist.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	if e.Len == 0 {
		return fmt.Sprintf("snapshot %d does not exist: history is empty", e.Index)
	}
	return fmt.Sprintf("snapshot %d does not exist: valid range is 0-%d", e.Index, e.Len-1)
}

// Is makes errors.Is(err, ErrOutOfRange) hold for any IndexError.
func (e *IndexError) Is(target error) bool {
	return target == ErrOutOfRange
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is an immutable copy of a document set. Its fields are only
// reachable through accessors that return copies.
type Snapshot struct {
	index      int
	id         string
	timestamp  string
	capturedAt time.Time

	files []document.File
}

// Index is the snapshot's position in the history.
func (s *Snapshot) Index() int { return s.index }

// ID is the snapshot's UUID.
func (s *Snapshot) ID() string { return s.id }

// Timestamp is the human readable capture time.
func (s *Snapshot) Timestamp() string { return s.timestamp }

// CapturedAt is the capture time.
func (s *Snapshot) CapturedAt() time.Time { return s.capturedAt }

// Files returns a copy of the captured files in order.
func (s *Snapshot) Files() []document.File {
	out := make([]document.File, len(s.files))
	copy(out, s.files)
	return out
}

// File returns the captured file called name.
func (s *Snapshot) File(name string) (document.File, bool) {
	name = document.NormalizeName(name)
	for _, f := range s.files {
		if f.Name == name {
			return f, true
		}
	}
	return document.File{}, false
}

// Names returns the captured file names.
func (s *Snapshot) Names() []string {
	names := make([]string, len(s.files))
	for i, f := range s.files {
		names[i] = f.Name
	}
	return names
}

// Set rebuilds a fresh document set from the snapshot.
func (s *Snapshot) Set() *document.Set {
	// Captured files came from a valid set, so this cannot fail.
	set, err := document.NewSet(s.files...)
	if err != nil {
		panic(fmt.Sprintf("snapshot %s holds an invalid document set: %v", s.id, err))
	}
	return set
}

// Meta returns the display information for the snapshot.
func (s *Snapshot) Meta() Meta {
	return Meta{
		Index:      s.index,
		ID:         s.id,
		Timestamp:  s.timestamp,
		CapturedAt: s.capturedAt,
		FileCount:  len(s.files),
	}
}

// Meta is the display information for one history entry.
type Meta struct {
	Index      int       `json:"index"`
	ID         string    `json:"id"`
	Timestamp  string    `json:"timestamp"`
	CapturedAt time.Time `json:"captured_at"`
	FileCount  int       `json:"file_count"`
}

// =============================================================================
// STORE
// =============================================================================

// Store is the append-only snapshot history. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	snapshots []*Snapshot

	now    func() time.Time
	layout string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTimestampLayout sets the time.Format layout used for snapshot timestamps.
func WithTimestampLayout(layout string) Option {
	return func(s *Store) {
		if layout != "" {
			s.layout = layout
		}
	}
}

// NewStore creates an empty history.
func NewStore(opts ...Option) *Store {
	s := &Store{
		now:    time.Now,
		layout: DefaultTimestampLayout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Capture deep-copies set, stamps it with the current time and appends it.
func (s *Store) Capture(set *document.Set) *Snapshot {
	now := s.now()
	snap := &Snapshot{
		id:         uuid.NewString(),
		timestamp:  now.Format(s.layout),
		capturedAt: now,
		files:      set.Files(),
	}

	s.mu.Lock()
	snap.index = len(s.snapshots)
	s.snapshots = append(s.snapshots, snap)
	s.mu.Unlock()
	return snap
}

// Get returns the snapshot at index.
func (s *Store) Get(index int) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.snapshots) {
		return nil, &IndexError{Index: index, Len: len(s.snapshots)}
	}
	return s.snapshots[index], nil
}

// Restore returns a fresh document set equal to the snapshot at index.
func (s *Store) Restore(index int) (*document.Set, error) {
	snap, err := s.Get(index)
	if err != nil {
		return nil, err
	}
	return snap.Set(), nil
}

// List returns metadata for every snapshot in capture order.
func (s *Store) List() []Meta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Meta, len(s.snapshots))
	for i, snap := range s.snapshots {
		out[i] = snap.Meta()
	}
	return out
}

// Len returns the number of snapshots.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}

// =============================================================================
// EXPORT
// =============================================================================

// WriteFile writes one file of a snapshot to w as plain text.
func (s *Store) WriteFile(index int, name string, w io.Writer) error {
	snap, err := s.Get(index)
	if err != nil {
		return err
	}
	f, ok := snap.File(name)
	if !ok {
		return fmt.Errorf("%w: %q in snapshot %d", document.ErrNotFound, name, index)
	}
	_, err = io.WriteString(w, f.Content)
	return err
}

// Export writes every file of a snapshot into dir, each under its own name,
// and returns the written paths.
func (s *Store) Export(index int, dir string) ([]string, error) {
	snap, err := s.Get(index)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(snap.files))
	for _, f := range snap.files {
		path := filepath.Join(dir, f.Name)
		if err := util.AtomicWriteFile(path, []byte(f.Content), 0644); err != nil {
			return paths, fmt.Errorf("export %s: %w", f.Name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
