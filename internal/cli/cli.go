// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command-line parsing and top-level help for texsnap.

package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdShell
	CmdDiff
	CmdCompile
	CmdConfig
	CmdVersion
	CmdHelp
)

// String returns the command name as typed.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdShell:
		return "shell"
	case CmdDiff:
		return "diff"
	case CmdCompile:
		return "compile"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	default:
		return "help"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet      bool
	Verbose    bool
	JSON       bool
	ConfigFile string // --config: load this file instead of ~/.texsnap

	// Dir is the project directory for tui and shell (default ".")
	Dir string

	// Raw holds the arguments after the command name, minus global flags
	Raw []string
}

const usageText = `texsnap - LaTeX editor with snapshots, diffs and remote compile

Usage:
  texsnap [tui] [dir]               Full-screen editor (default)
  texsnap shell [dir]               Line shell with history
  texsnap diff <old> <new>          Character diff of two files
  texsnap compile <file>            Compile a file to PDF
  texsnap config [subcommand]       Show or change configuration
  texsnap version                   Version information
  texsnap help                      This help

Editor keys:
  ctrl+s  snapshot          ctrl+r  restore selected snapshot
  ctrl+d  diff selected     ctrl+e  export selected snapshot
  ctrl+b  compile           ctrl+w  write project to disk
  ctrl+n  new file          ctrl+t  toggle theme
  tab     cycle focus       ctrl+q  quit
  alt+b/i/u/m/l  insert bold/italic/underline/math/list snippet

Diff flags:
  -u, --unified     Line-oriented unified diff
  --stat            Summary only

Compile flags:
  -o, --output FILE PDF destination (default: compile.output_file)
  --url URL         Compile service base URL
  --log             Print the LaTeX log on failure

Config:
  texsnap config show               All settings
  texsnap config get <key>          One setting
  texsnap config set <key> <value>  Change and save a setting
  texsnap config reset              Restore defaults
  texsnap config path               Config file location

Global flags:
  --config FILE     Use FILE instead of ~/.texsnap/config.toml
  -q, --quiet       Minimal output
  -v, --verbose     Debug logging
  --json            JSON output where supported

Environment:
  TEXSNAP_COMPILE_URL, TEXSNAP_PRIMARY_FILE, TEXSNAP_THEME,
  TEXSNAP_LOG_LEVEL, TEXSNAP_LOG_FILE, TEXSNAP_HOME, NO_COLOR
  A .env file in the working directory is read first.

Version: %s
`

// PrintUsage writes the usage/help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion writes version information.
func PrintVersion(w io.Writer, jsonMode bool) error {
	if jsonMode {
		return outputJSON(w, map[string]string{
			"version":    Version,
			"git_commit": GitCommit,
			"build_date": BuildDate,
			"go_version": runtime.Version(),
		})
	}
	fmt.Fprintf(w, "texsnap version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "  Go:         %s\n", runtime.Version())
	return nil
}

// Parse parses command-line arguments (without the program name).
func Parse(argv []string) (Command, Args, error) {
	remaining, args, err := parseGlobalFlags(argv)
	if err != nil {
		return CmdHelp, args, err
	}
	args.Dir = "."

	if len(remaining) == 0 {
		return CmdTUI, args, nil
	}

	cmd := strings.ToLower(remaining[0])
	args.Raw = remaining[1:]

	switch cmd {
	case "tui", "edit":
		return CmdTUI, args, parseDirArg(&args)

	case "shell", "sh":
		return CmdShell, args, parseDirArg(&args)

	case "diff":
		return CmdDiff, args, nil

	case "compile":
		return CmdCompile, args, nil

	case "config":
		return CmdConfig, args, nil

	case "version", "--version":
		return CmdVersion, args, nil

	case "help", "-h", "--help":
		return CmdHelp, args, nil
	}

	// "texsnap paper/" opens the editor on a directory.
	if !strings.HasPrefix(cmd, "-") {
		args.Raw = remaining
		return CmdTUI, args, parseDirArg(&args)
	}
	return CmdHelp, args, &UsageError{Reason: "unknown flag: " + remaining[0], Example: "texsnap help"}
}

// parseGlobalFlags extracts global flags from args and returns the rest.
func parseGlobalFlags(argv []string) ([]string, Args, error) {
	var remaining []string
	var args Args

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "-q" || arg == "--quiet":
			args.Quiet = true
		case arg == "-v" || arg == "--verbose":
			args.Verbose = true
		case arg == "--json":
			args.JSON = true
		case arg == "--config":
			if i+1 >= len(argv) {
				return nil, args, ErrMissingArgument("--config", "--config FILE")
			}
			i++
			args.ConfigFile = argv[i]
		case strings.HasPrefix(arg, "--config="):
			args.ConfigFile = strings.TrimPrefix(arg, "--config=")
		default:
			remaining = append(remaining, arg)
		}
	}
	return remaining, args, nil
}

// parseDirArg takes the optional project directory from Raw.
func parseDirArg(args *Args) error {
	switch len(args.Raw) {
	case 0:
		return nil
	case 1:
		args.Dir = args.Raw[0]
		return nil
	}
	return &UsageError{Reason: "expected at most one project directory", Example: "texsnap [tui|shell] [dir]"}
}
