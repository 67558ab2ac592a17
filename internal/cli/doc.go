// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-TUI surfaces of
// texsnap: one-shot diff, compile and config commands plus the line shell.
//
// # Key Types
//
//   - Command: Enumeration of the texsnap commands
//   - Args: Parsed global flags, project directory and remaining arguments
//   - ArgParser: Flag and positional splitting shared by every command
//   - Project: An opened project directory bound to a session
//   - Shell: The liner-backed command loop
//
// # Usage
//
// Parse and dispatch:
//
//	cmd, args, err := cli.Parse(os.Args[1:])
//	if err != nil {
//	    cli.DisplayError(os.Stderr, err, false)
//	    os.Exit(cli.ExitCode(err))
//	}
//	switch cmd {
//	case cli.CmdDiff:
//	    err = cli.HandleDiff(args, os.Stdout)
//	// ... other commands
//	}
//
// Errors map to exit codes through ExitCode: usage 2, configuration 3,
// compile service unreachable 5, missing file or snapshot 7.
package cli
