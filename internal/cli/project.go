// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// project.go - Wiring of config, workspace, compile client and session for
// the editor surfaces.

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/jeranaias/texsnap/internal/compile"
	"github.com/jeranaias/texsnap/internal/config"
	"github.com/jeranaias/texsnap/internal/session"
	"github.com/jeranaias/texsnap/internal/snapshot"
	"github.com/jeranaias/texsnap/internal/workspace"
)

// Project is an open project directory with its editing session.
type Project struct {
	Dir     string
	Config  *config.Config
	Session *session.Controller
	Client  *compile.Client
	Logger  *slog.Logger
}

// NewCompileClient builds a compile client from the [compile] section.
func NewCompileClient(cfg *config.Config, logger *slog.Logger) *compile.Client {
	return compile.NewClient(cfg.Compile.URL,
		compile.WithTimeout(time.Duration(cfg.Compile.TimeoutSecs)*time.Second),
		compile.WithRateLimit(cfg.Compile.MaxPerMinute),
		compile.WithPDFValidation(cfg.Compile.ValidatePDF),
		compile.WithLogger(logger),
	)
}

// OpenProject loads dir and starts a session over it.
func OpenProject(cfg *config.Config, dir string, logger *slog.Logger) (*Project, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve project directory: %w", err)
	}

	docs, err := workspace.Load(abs, cfg.Editor.Extensions, cfg.Editor.PrimaryFile)
	if err != nil {
		return nil, err
	}

	client := NewCompileClient(cfg, logger)
	store := snapshot.NewStore(snapshot.WithTimestampLayout(cfg.Snapshot.TimestampLayout))
	ctrl := session.New(session.Config{
		PrimaryFile:          cfg.Editor.PrimaryFile,
		AutoCompileOnRestore: cfg.Editor.AutoCompileOnRestore,
	}, docs, store, client, session.WithLogger(logger))

	logger.Info("project opened", "dir", abs, "files", docs.Len(), "session", ctrl.SessionID())
	return &Project{
		Dir:     abs,
		Config:  cfg,
		Session: ctrl,
		Client:  client,
		Logger:  logger,
	}, nil
}

// Save writes the live document set into the project directory.
func (p *Project) Save() error {
	if err := workspace.Save(p.Dir, p.Session.Documents()); err != nil {
		return err
	}
	p.Session.MarkClean()
	p.Logger.Info("project saved", "dir", p.Dir)
	return nil
}

// resolve makes path relative to the project directory.
func (p *Project) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Dir, path)
}

// ExportDir is where the snapshot described by meta is exported.
func (p *Project) ExportDir(meta snapshot.Meta) string {
	name := fmt.Sprintf("snapshot-%03d-%s", meta.Index, meta.CapturedAt.Format("20060102-150405"))
	return filepath.Join(p.resolve(p.Config.Snapshot.ExportDir), name)
}

// Export writes snapshot index into its export directory.
func (p *Project) Export(index int) (string, []string, error) {
	for _, meta := range p.Session.Snapshots() {
		if meta.Index == index {
			dir := p.ExportDir(meta)
			paths, err := p.Session.ExportSnapshot(index, dir)
			return dir, paths, err
		}
	}
	return "", nil, &snapshot.IndexError{Index: index, Len: len(p.Session.Snapshots())}
}

// WritePDF stores a compiled artifact at the configured output path.
func (p *Project) WritePDF(art *compile.Artifact) (string, error) {
	path := p.resolve(p.Config.Compile.OutputFile)
	if err := art.WriteFile(path); err != nil {
		return "", err
	}
	return path, nil
}

// Watch starts a watcher that feeds external edits into the session.
// notify, when non-nil, is called after each applied change.
func (p *Project) Watch(ctx context.Context, notify func(workspace.Change, error)) (*workspace.Watcher, error) {
	w, err := workspace.NewWatcher(p.Dir, p.Config.Editor.Extensions, func(c workspace.Change) {
		err := p.Session.ApplyExternalEdit(c.Name, c.Content)
		if err != nil {
			p.Logger.Warn("external edit rejected", "name", c.Name, "error", err)
		}
		if notify != nil {
			notify(c, err)
		}
	}, workspace.WithWatcherLogger(p.Logger))
	if err != nil {
		return nil, err
	}
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return w, nil
}
