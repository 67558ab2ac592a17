// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config command implementation.
//
// Command: config [subcommand]
// Short:   View and modify configuration
//
// Subcommands:
//   show (default)      Display current configuration
//   get <key>           Print one value
//   set <key> <value>   Set a value and save
//   reset               Reset to default configuration
//   path                Show configuration file path
//
// Examples:
//   texsnap config set compile.url http://latex.lan:8080
//   texsnap config set editor.extensions .tex,.bib
//   texsnap config set ui.theme light
//   texsnap config get compile.max_per_minute
//
// Flags:
//   --json              Output in JSON format

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jeranaias/texsnap/internal/config"
)

const configUsage = "texsnap config [show|get <key>|set <key> <value>|reset|path]"

// HandleConfig handles the "config" command.
func HandleConfig(args Args, out io.Writer) error {
	p := NewArgParser(args.Raw, "json")
	jsonMode := args.JSON || p.BoolFlag("json")

	switch p.Subcommand() {
	case "", "show":
		return handleConfigShow(out, jsonMode)

	case "get":
		key := p.Positional(1)
		if key == "" {
			return ErrMissingArgument("key", configUsage)
		}
		return handleConfigGet(out, key)

	case "set":
		if p.PositionalCount() < 3 {
			return ErrMissingArgument("key and value", configUsage)
		}
		return handleConfigSet(out, p.Positional(1), strings.Join(p.PositionalFrom(2), " "))

	case "reset":
		return handleConfigReset(out)

	case "path":
		return handleConfigPath(out, jsonMode)

	default:
		return &UsageError{Reason: "unknown config subcommand: " + p.Subcommand(), Example: configUsage}
	}
}

// handleConfigShow lists every key with its current value.
func handleConfigShow(out io.Writer, jsonMode bool) error {
	cfg, err := config.Load()
	if cfg == nil {
		return &ConfigError{Err: err}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s (using defaults)\n", err)
	}

	if jsonMode {
		return outputJSON(out, cfg)
	}

	fmt.Fprintln(out, RenderConditional(TitleStyle, "texsnap configuration"))
	section := ""
	for _, key := range config.GetAllKeys() {
		if s, _, _ := strings.Cut(key, "."); s != section {
			section = s
			fmt.Fprintln(out)
			fmt.Fprintln(out, RenderConditional(DimStyle, "["+section+"]"))
		}
		val, _ := cfg.Get(key)
		fmt.Fprintln(out, "  "+RenderField(key, formatConfigValue(val)))
	}
	fmt.Fprintln(out)

	path, _ := config.ConfigPathTOML()
	fmt.Fprintln(out, RenderConditional(DimStyle, "Config file: "+path))
	return nil
}

func handleConfigGet(out io.Writer, key string) error {
	cfg, err := config.Load()
	if cfg == nil {
		return &ConfigError{Err: err}
	}
	val, err := cfg.Get(key)
	if err != nil {
		return &UsageError{Reason: err.Error(), Example: "texsnap config get compile.url"}
	}
	fmt.Fprintln(out, formatConfigValue(val))
	return nil
}

func handleConfigSet(out io.Writer, key, value string) error {
	cfg, err := config.Load()
	if err != nil {
		// Never overwrite a file we could not read.
		return &ConfigError{Err: err}
	}

	if err := cfg.Set(key, value); err != nil {
		return &UsageError{Reason: err.Error(), Example: configUsage}
	}
	if err := cfg.Migrate(); err != nil {
		return &ConfigError{Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return &ConfigError{Err: err}
	}

	if err := config.EnsureConfigDir(); err != nil {
		return &ConfigError{Err: err}
	}
	if err := config.Save(cfg); err != nil {
		return &ConfigError{Err: err}
	}

	val, _ := cfg.Get(key)
	fmt.Fprintln(out, RenderConditional(SuccessStyle, fmt.Sprintf("Set %s = %s", key, formatConfigValue(val))))
	return nil
}

func handleConfigReset(out io.Writer) error {
	if err := config.EnsureConfigDir(); err != nil {
		return &ConfigError{Err: err}
	}
	if err := config.Save(config.Default()); err != nil {
		return &ConfigError{Err: err}
	}
	fmt.Fprintln(out, RenderConditional(SuccessStyle, "Configuration reset to defaults"))
	return nil
}

func handleConfigPath(out io.Writer, jsonMode bool) error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return &ConfigError{Err: err}
	}
	_, statErr := os.Stat(path)
	exists := statErr == nil

	if jsonMode {
		return outputJSON(out, map[string]interface{}{
			"path":   path,
			"exists": exists,
		})
	}
	fmt.Fprintln(out, path)
	return nil
}

// formatConfigValue renders a config value the way Set accepts it.
func formatConfigValue(val interface{}) string {
	switch v := val.(type) {
	case []string:
		return strings.Join(v, ",")
	case string:
		if v == "" {
			return `""`
		}
		return v
	default:
		return fmt.Sprint(v)
	}
}
