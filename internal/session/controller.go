// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/jeranaias/texsnap/internal/compile"
	"github.com/jeranaias/texsnap/internal/diff"
	"github.com/jeranaias/texsnap/internal/document"
	"github.com/jeranaias/texsnap/internal/snapshot"
)

// Error variables for session actions.
var (
	// ErrPrimaryMissing indicates the primary file is not in the document set.
	ErrPrimaryMissing = errors.New("primary file not found")

	// ErrNoCompiler indicates the session has no compile service configured.
	ErrNoCompiler = errors.New("no compile service configured")
)

// Compiler turns document source into a rendered artifact.
type Compiler interface {
	Compile(ctx context.Context, source string) (*compile.Artifact, error)
}

// ConfirmFunc is asked before a restore replaces the live document set.
type ConfirmFunc func(snapshot.Meta) bool

// Config holds configuration for a session.
type Config struct {
	// PrimaryFile is compiled and diffed by default (default: main.tex)
	PrimaryFile string

	// AutoCompileOnRestore recompiles after a snapshot is restored
	AutoCompileOnRestore bool
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		PrimaryFile:          document.DefaultFileName,
		AutoCompileOnRestore: true,
	}
}

// CompileResult is the outcome of one compile.
type CompileResult struct {
	Artifact *compile.Artifact
	Err      error
	At       time.Time
	Duration time.Duration
}

// OK reports whether the compile produced an artifact.
func (r CompileResult) OK() bool {
	return r.Err == nil && r.Artifact != nil
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller tracks the live document set, selection and history of one
// session. It is safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	sessionID string
	startTime time.Time
	cfg       Config

	docs     *document.Set
	selected string
	isDirty  bool

	store    *snapshot.Store
	compiler Compiler

	lastCompile *CompileResult

	logger *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a session over docs. A nil store starts an empty history; a
// nil compiler disables compiling.
func New(cfg Config, docs *document.Set, store *snapshot.Store, compiler Compiler, opts ...Option) *Controller {
	if cfg.PrimaryFile == "" {
		cfg.PrimaryFile = document.DefaultFileName
	}
	cfg.PrimaryFile = document.NormalizeName(cfg.PrimaryFile)
	if docs == nil {
		docs = document.Default()
	}
	if store == nil {
		store = snapshot.NewStore()
	}

	c := &Controller{
		sessionID: generateSessionID(),
		startTime: time.Now(),
		cfg:       cfg,
		docs:      docs,
		store:     store,
		compiler:  compiler,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.selected = c.docs.First().Name
	if _, ok := c.docs.Get(cfg.PrimaryFile); ok {
		c.selected = cfg.PrimaryFile
	}
	return c
}

// =============================================================================
// SESSION STATE
// =============================================================================

// SessionID returns the current session ID.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// Config returns the session configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// Documents returns a copy of the live document set.
func (c *Controller) Documents() *document.Set {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.docs.Clone()
}

// Selected returns the name of the selected file.
func (c *Controller) Selected() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// SelectedFile returns the selected file.
func (c *Controller) SelectedFile() document.File {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, _ := c.docs.Get(c.selected)
	return f
}

// IsDirty reports whether the live set changed since the last MarkClean.
func (c *Controller) IsDirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isDirty
}

// MarkClean records that the live set has been written to disk.
func (c *Controller) MarkClean() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isDirty = false
}

// LastCompile returns the most recent compile outcome.
func (c *Controller) LastCompile() (CompileResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastCompile == nil {
		return CompileResult{}, false
	}
	return *c.lastCompile, true
}

// =============================================================================
// FILE ACTIONS
// =============================================================================

// Select makes name the selected file.
func (c *Controller) Select(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.docs.Get(name)
	if !ok {
		return fmt.Errorf("%w: %q", document.ErrNotFound, name)
	}
	c.selected = f.Name
	return nil
}

// AddFile adds an empty file and selects it. An empty name picks the next
// free untitledN.tex. It returns the name used.
func (c *Controller) AddFile(name string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if document.NormalizeName(name) == "" {
		name = c.docs.NextUntitledName()
	}
	if err := c.docs.Add(name, ""); err != nil {
		return "", err
	}
	c.selected = document.NormalizeName(name)
	c.isDirty = true
	c.logger.Info("file added", "name", c.selected)
	return c.selected, nil
}

// RenameFile renames a file in place. The selection follows the file.
func (c *Controller) RenameFile(oldName, newName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	oldName = document.NormalizeName(oldName)
	if err := c.docs.Rename(oldName, newName); err != nil {
		return err
	}
	newName = document.NormalizeName(newName)
	if c.selected == oldName {
		c.selected = newName
	}
	if oldName != newName {
		c.isDirty = true
		c.logger.Info("file renamed", "from", oldName, "to", newName)
	}
	return nil
}

// DeleteFile removes a file. Deleting the selected file selects the first
// remaining one.
func (c *Controller) DeleteFile(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	name = document.NormalizeName(name)
	if err := c.docs.Remove(name); err != nil {
		return err
	}
	if c.selected == name {
		c.selected = c.docs.First().Name
	}
	c.isDirty = true
	c.logger.Info("file deleted", "name", name)
	return nil
}

// Edit replaces the content of the selected file.
func (c *Controller) Edit(content string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.docs.SetContent(c.selected, content); err != nil {
		return err
	}
	c.isDirty = true
	return nil
}

// InsertSnippet replaces the rune range [start, end) of the selected file
// with text.
func (c *Controller) InsertSnippet(start, end int, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.docs.Insert(c.selected, start, end, text); err != nil {
		return err
	}
	c.isDirty = true
	return nil
}

// ApplyExternalEdit brings in a change made outside the session, adding the
// file when it is new.
func (c *Controller) ApplyExternalEdit(name, content string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.docs.Get(name); ok {
		if f.Content == content {
			return nil
		}
		c.logger.Debug("external edit", "name", f.Name)
		return c.docs.SetContent(name, content)
	}
	c.logger.Debug("external file", "name", name)
	return c.docs.Add(name, content)
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

// TakeSnapshot captures the live document set.
func (c *Controller) TakeSnapshot() snapshot.Meta {
	c.mu.Lock()
	snap := c.store.Capture(c.docs)
	c.mu.Unlock()

	meta := snap.Meta()
	c.logger.Info("snapshot captured", "index", meta.Index, "id", meta.ID, "files", meta.FileCount)
	return meta
}

// Snapshots lists the history in capture order.
func (c *Controller) Snapshots() []snapshot.Meta {
	return c.store.List()
}

// RestoreSnapshot replaces the live document set with the snapshot at
// index after confirm agrees. A nil confirm always agrees. It reports
// whether the restore happened. When configured, a compile follows; its
// outcome is recorded in LastCompile and never undoes the restore.
func (c *Controller) RestoreSnapshot(ctx context.Context, index int, confirm ConfirmFunc) (bool, error) {
	ok, err := c.Restore(index, confirm)
	if !ok || err != nil {
		return ok, err
	}
	if c.CompileAfterRestore() {
		if _, err := c.Compile(ctx); err != nil {
			c.logger.Warn("compile after restore failed", "error", err)
		}
	}
	return true, nil
}

// Restore swaps in a fresh copy of the snapshot at index without
// compiling. Callers that compile asynchronously check
// CompileAfterRestore themselves.
func (c *Controller) Restore(index int, confirm ConfirmFunc) (bool, error) {
	snap, err := c.store.Get(index)
	if err != nil {
		return false, err
	}

	meta := snap.Meta()
	if confirm != nil && !confirm(meta) {
		c.logger.Debug("restore declined", "index", index)
		return false, nil
	}

	restored := snap.Set()

	c.mu.Lock()
	c.docs = restored
	if _, ok := c.docs.Get(c.selected); !ok {
		c.selected = c.docs.First().Name
	}
	c.isDirty = true
	c.mu.Unlock()

	c.logger.Info("snapshot restored", "index", index, "id", meta.ID)
	return true, nil
}

// CompileAfterRestore reports whether a restore is followed by a compile.
func (c *Controller) CompileAfterRestore() bool {
	return c.cfg.AutoCompileOnRestore && c.compiler != nil
}

// ViewDiff compares the primary file in the snapshot at index against the
// live primary file. A file missing on either side counts as empty.
func (c *Controller) ViewDiff(index int) (*diff.Diff, error) {
	return c.ViewDiffFile(index, c.cfg.PrimaryFile)
}

// ViewDiffFile compares one file of the snapshot at index against the live
// file of the same name.
func (c *Controller) ViewDiffFile(index int, name string) (*diff.Diff, error) {
	snap, err := c.store.Get(index)
	if err != nil {
		return nil, err
	}
	name = document.NormalizeName(name)
	old, _ := snap.File(name)

	c.mu.Lock()
	live, _ := c.docs.Get(name)
	c.mu.Unlock()

	return diff.ComputeFile(name, old.Content, live.Content), nil
}

// ExportSnapshot writes every file of the snapshot at index into dir.
func (c *Controller) ExportSnapshot(index int, dir string) ([]string, error) {
	paths, err := c.store.Export(index, dir)
	if err != nil {
		return paths, err
	}
	c.logger.Info("snapshot exported", "index", index, "dir", dir, "files", len(paths))
	return paths, nil
}

// WriteSnapshotFile writes a single file of the snapshot at index to w.
func (c *Controller) WriteSnapshotFile(index int, name string, w io.Writer) error {
	return c.store.WriteFile(index, name, w)
}

// =============================================================================
// COMPILE
// =============================================================================

// Compile sends the primary file to the compile service and records the
// outcome. The session lock is not held during the request.
func (c *Controller) Compile(ctx context.Context) (*compile.Artifact, error) {
	if c.compiler == nil {
		return nil, ErrNoCompiler
	}

	c.mu.Lock()
	primary, ok := c.docs.Get(c.cfg.PrimaryFile)
	c.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPrimaryMissing, c.cfg.PrimaryFile)
	}

	start := time.Now()
	art, err := c.compiler.Compile(ctx, primary.Content)
	result := &CompileResult{
		Artifact: art,
		Err:      err,
		At:       start,
		Duration: time.Since(start),
	}

	c.mu.Lock()
	c.lastCompile = result
	c.mu.Unlock()

	if err != nil {
		return nil, err
	}
	c.logger.Info("compiled", "file", primary.Name, "bytes", art.Size(), "duration", result.Duration)
	return art, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateSessionID creates a unique session ID.
func generateSessionID() string {
	return "sess_" + formatTimestamp(time.Now())
}

// formatTimestamp formats a time for use in IDs.
func formatTimestamp(t time.Time) string {
	return t.Format("20060102_150405")
}

// =============================================================================
// SESSION STATUS
// =============================================================================

// Status represents the current session status.
type Status struct {
	SessionID     string
	StartTime     time.Time
	Duration      time.Duration
	PrimaryFile   string
	Selected      string
	FileCount     int
	SnapshotCount int
	IsDirty       bool
	LastCompileOK bool
	LastCompileAt time.Time
}

// Status returns the current session status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := Status{
		SessionID:     c.sessionID,
		StartTime:     c.startTime,
		Duration:      time.Since(c.startTime),
		PrimaryFile:   c.cfg.PrimaryFile,
		Selected:      c.selected,
		FileCount:     c.docs.Len(),
		SnapshotCount: c.store.Len(),
		IsDirty:       c.isDirty,
	}
	if c.lastCompile != nil {
		st.LastCompileOK = c.lastCompile.OK()
		st.LastCompileAt = c.lastCompile.At
	}
	return st
}
