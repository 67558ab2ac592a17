// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for texsnap.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, .env files and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - CompileConfig: Compile service endpoint, timeout and rate limit
//   - EditorConfig: Primary file, restore behavior and tracked extensions
//   - SnapshotConfig: Snapshot labels and export location
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (TEXSNAP_*), including those from ./.env
//   - ~/.texsnap/config.toml
//   - ~/.texsnap/config.json
//   - Built-in defaults
//
// TEXSNAP_HOME relocates the ~/.texsnap directory.
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Change a setting by key:
//
//	_ = cfg.Set("compile.max_per_minute", "10")
//	_ = config.Save(cfg)
package config
