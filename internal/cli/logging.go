// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// logging.go - slog setup. Logs go to a file so the TUI screen is never
// written to.

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeranaias/texsnap/internal/config"
)

// ParseLevel maps a config level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// SetupLogger opens the configured log file and returns a text logger
// writing to it. The returned closer must be called on exit. A verbose
// logger always logs at debug level.
func SetupLogger(cfg *config.Config, verbose bool) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, &ConfigError{Err: err}
	}
	if verbose {
		level = slog.LevelDebug
	}

	path := cfg.Log.File
	if path == "" {
		if path, err = config.DefaultLogPath(); err != nil {
			return nil, nil, &ConfigError{Err: err}
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	return NewLogger(f, level), f, nil
}

// NewLogger returns a text logger at level writing to w.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
