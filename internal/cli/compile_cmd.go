// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// compile_cmd.go - One-shot compile command.
//
// Command: compile <file>
// Short:   Send a LaTeX file to the compile service and save the PDF
//
// Flags:
//   --output, -o FILE   Where to write the PDF (default: compile.output_file)
//   --url URL           Override compile.url
//   --log               Print the LaTeX log when compilation fails
//
// Examples:
//   texsnap compile main.tex
//   texsnap compile paper.tex -o paper.pdf --url http://latex.lan:8080

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jeranaias/texsnap/internal/compile"
	"github.com/jeranaias/texsnap/internal/config"
)

const compileUsage = "texsnap compile <file> [--output out.pdf] [--url URL] [--log]"

// HandleCompile compiles one file and writes the artifact to disk.
func HandleCompile(ctx context.Context, cfg *config.Config, args Args, logger *slog.Logger, out io.Writer) error {
	p := NewArgParser(args.Raw, "log")
	if p.PositionalCount() != 1 {
		return &UsageError{Reason: "compile needs exactly one file", Example: compileUsage}
	}
	source, err := readInput(p.Positional(0))
	if err != nil {
		return err
	}

	cfg = cfg.Clone()
	if u := p.Flag("url"); u != "" {
		cfg.Compile.URL = u
		if err := cfg.Validate(); err != nil {
			return &ConfigError{Err: err}
		}
	}
	output := p.FlagOrDefault("output", "")
	if output == "" {
		output = p.FlagOrDefault("o", cfg.Compile.OutputFile)
	}

	client := NewCompileClient(cfg, logger)
	if !args.Quiet {
		fmt.Fprintln(out, RenderConditional(DimStyle, "Compiling "+p.Positional(0)+" via "+client.BaseURL()+"..."))
	}

	art, err := client.Compile(ctx, source)
	if err != nil {
		var svcErr *compile.ServiceError
		if errors.As(err, &svcErr) && svcErr.Log != "" && p.BoolFlag("log") {
			fmt.Fprintln(out, svcErr.Log)
		}
		return err
	}

	if err := art.WriteFile(output); err != nil {
		return err
	}

	msg := fmt.Sprintf("Wrote %s (%s", output, formatBytes(int64(art.Size())))
	if art.Pages > 0 {
		msg += fmt.Sprintf(", %d pages", art.Pages)
	}
	msg += ")"
	fmt.Fprintln(out, RenderConditional(SuccessStyle, msg))
	return nil
}
