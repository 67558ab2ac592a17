// texsnap - A LaTeX editor with snapshots, character diffs and remote compile.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/texsnap/internal/cli"
	"github.com/jeranaias/texsnap/internal/config"
	"github.com/jeranaias/texsnap/internal/ui/editor"
	"github.com/jeranaias/texsnap/internal/ui/styles"
	"github.com/jeranaias/texsnap/internal/workspace"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args, err := cli.Parse(os.Args[1:])
	if err == nil {
		err = run(cmd, args)
	}
	if err != nil {
		cli.DisplayError(os.Stderr, err, args.JSON)
		os.Exit(cli.ExitCode(err))
	}
}

// run dispatches one command. Commands that need no configuration run
// before the config file is read.
func run(cmd cli.Command, args cli.Args) error {
	switch cmd {
	case cli.CmdHelp:
		cli.PrintUsage(os.Stdout)
		return nil
	case cli.CmdVersion:
		return cli.PrintVersion(os.Stdout, args.JSON)
	case cli.CmdDiff:
		return cli.HandleDiff(args, os.Stdout)
	case cli.CmdConfig:
		if err := config.LoadDotEnv(); err != nil {
			return &cli.ConfigError{Err: err}
		}
		return cli.HandleConfig(args, os.Stdout)
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	logger, closer, err := cli.SetupLogger(cfg, args.Verbose)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger.Info("texsnap starting", "version", Version, "command", cmd.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case cli.CmdShell:
		return runShell(ctx, cfg, args, logger)
	case cli.CmdCompile:
		return cli.HandleCompile(ctx, cfg, args, logger, os.Stdout)
	default:
		return runTUI(ctx, cfg, args, logger)
	}
}

// loadConfig reads .env, then the config file named by --config or the
// default config file.
func loadConfig(args cli.Args) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, &cli.ConfigError{Err: err}
	}

	if args.ConfigFile != "" {
		cfg, err := config.LoadFromPath(args.ConfigFile)
		if err != nil {
			return nil, &cli.ConfigError{Err: err}
		}
		config.SetGlobal(cfg)
		return cfg, nil
	}

	cfg, err := config.Load()
	if cfg == nil {
		return nil, &cli.ConfigError{Err: err}
	}
	if err != nil && !args.Quiet {
		fmt.Fprintf(os.Stderr, "%s %v (using defaults)\n",
			cli.RenderConditional(cli.WarningStyle, "[WARN]"), err)
	}
	config.SetGlobal(cfg)
	return cfg, nil
}

// runShell starts the line shell over the project directory.
func runShell(ctx context.Context, cfg *config.Config, args cli.Args, logger *slog.Logger) error {
	p, err := cli.OpenProject(cfg, args.Dir, logger)
	if err != nil {
		return err
	}
	interactive := cli.IsTTY()

	if interactive && cfg.Editor.Watch {
		w, err := p.Watch(ctx, func(c workspace.Change, err error) {
			if err == nil {
				fmt.Fprintf(os.Stdout, "\n%s changed on disk\n", c.Name)
			}
		})
		if err != nil {
			logger.Warn("file watcher unavailable", "error", err)
		} else {
			defer w.Close()
		}
	}

	return cli.NewShell(p, os.Stdin, os.Stdout).Run(ctx, interactive)
}

// runTUI starts the full-screen editor.
func runTUI(ctx context.Context, cfg *config.Config, args cli.Args, logger *slog.Logger) error {
	if !cli.IsTTY() || !cli.IsStdoutTTY() {
		return cli.RequiresTTY("the editor")
	}

	mode, err := styles.ParseMode(cfg.UI.Theme)
	if err != nil {
		return &cli.ConfigError{Err: err}
	}

	p, err := cli.OpenProject(cfg, args.Dir, logger)
	if err != nil {
		return err
	}

	var events chan editor.ExternalEditMsg
	if cfg.Editor.Watch {
		events = make(chan editor.ExternalEditMsg, 16)
		w, err := p.Watch(ctx, func(c workspace.Change, err error) {
			select {
			case events <- editor.ExternalEditMsg{Name: c.Name, Err: err}:
			case <-ctx.Done():
			}
		})
		if err != nil {
			logger.Warn("file watcher unavailable", "error", err)
		} else {
			defer w.Close()
		}
	}

	m := editor.New(editor.Options{
		Session:        p.Session,
		Theme:          styles.NewTheme(mode),
		ProjectDir:     p.Dir,
		ConfirmRestore: cfg.Editor.ConfirmRestore,
		Save:           p.Save,
		WritePDF:       p.WritePDF,
		Export:         p.Export,
		Events:         events,
		Context:        ctx,
		Logger:         logger,
	})

	prog := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := prog.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run editor: %w", err)
	}
	logger.Info("editor closed", "dirty", p.Session.IsDirty())
	return nil
}
