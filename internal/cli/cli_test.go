// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/texsnap/internal/compile"
	"github.com/jeranaias/texsnap/internal/config"
	"github.com/jeranaias/texsnap/internal/document"
	"github.com/jeranaias/texsnap/internal/snapshot"
)

func TestMain(m *testing.M) {
	// Plain output keeps assertions independent of the terminal.
	ForceColorsEnabled(false)
	os.Exit(m.Run())
}

// =============================================================================
// PARSE TESTS (cli.go)
// =============================================================================

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		argv    []string
		want    Command
		dir     string
		raw     []string
		wantErr bool
	}{
		{name: "no args opens editor", argv: nil, want: CmdTUI, dir: "."},
		{name: "tui with dir", argv: []string{"tui", "paper"}, want: CmdTUI, dir: "paper"},
		{name: "bare dir", argv: []string{"paper"}, want: CmdTUI, dir: "paper"},
		{name: "shell", argv: []string{"shell", "thesis"}, want: CmdShell, dir: "thesis"},
		{name: "diff keeps args", argv: []string{"diff", "a.tex", "b.tex", "-u"}, want: CmdDiff, dir: ".", raw: []string{"a.tex", "b.tex", "-u"}},
		{name: "compile", argv: []string{"compile", "main.tex"}, want: CmdCompile, dir: ".", raw: []string{"main.tex"}},
		{name: "config", argv: []string{"config", "get", "ui.theme"}, want: CmdConfig, dir: ".", raw: []string{"get", "ui.theme"}},
		{name: "version", argv: []string{"version"}, want: CmdVersion, dir: "."},
		{name: "help flag", argv: []string{"--help"}, want: CmdHelp, dir: "."},
		{name: "too many dirs", argv: []string{"shell", "a", "b"}, want: CmdShell, wantErr: true},
		{name: "unknown flag", argv: []string{"--frobnicate"}, want: CmdHelp, wantErr: true},
		{name: "config flag without value", argv: []string{"--config"}, want: CmdHelp, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args, err := Parse(tt.argv)
			assert.Equal(t, tt.want, cmd)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, ExitUsageError, ExitCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.dir, args.Dir)
			if tt.raw != nil {
				assert.Equal(t, tt.raw, args.Raw)
			}
		})
	}
}

func TestParse_GlobalFlagsAnywhere(t *testing.T) {
	cmd, args, err := Parse([]string{"-v", "config", "show", "--json", "--config=/tmp/x.toml", "-q"})
	require.NoError(t, err)
	assert.Equal(t, CmdConfig, cmd)
	assert.True(t, args.Verbose)
	assert.True(t, args.JSON)
	assert.True(t, args.Quiet)
	assert.Equal(t, "/tmp/x.toml", args.ConfigFile)
	assert.Equal(t, []string{"show"}, args.Raw)
}

// =============================================================================
// ARG PARSER TESTS (args.go)
// =============================================================================

func TestArgParser(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		switches []string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name: "flag with value",
			args: []string{"main.tex", "--output", "out.pdf"},
			validate: func(t *testing.T, p *ArgParser) {
				assert.Equal(t, "main.tex", p.Subcommand())
				assert.Equal(t, "out.pdf", p.Flag("output"))
			},
		},
		{
			name: "flag with equals",
			args: []string{"--url=http://x:1", "a"},
			validate: func(t *testing.T, p *ArgParser) {
				assert.Equal(t, "http://x:1", p.Flag("url"))
				assert.Equal(t, 1, p.PositionalCount())
			},
		},
		{
			name:     "switch does not swallow positional",
			args:     []string{"--unified", "a.tex", "b.tex"},
			switches: []string{"unified"},
			validate: func(t *testing.T, p *ArgParser) {
				assert.True(t, p.BoolFlag("unified"))
				assert.Equal(t, []string{"a.tex", "b.tex"}, p.PositionalFrom(0))
			},
		},
		{
			name: "unknown flag takes next value",
			args: []string{"--unified", "a.tex", "b.tex"},
			validate: func(t *testing.T, p *ArgParser) {
				assert.Equal(t, "a.tex", p.Flag("unified"))
				assert.Equal(t, 1, p.PositionalCount())
			},
		},
		{
			name:     "explicit switch value",
			args:     []string{"--stat=false"},
			switches: []string{"stat"},
			validate: func(t *testing.T, p *ArgParser) {
				assert.False(t, p.BoolFlag("stat"))
				assert.True(t, p.HasFlag("stat"))
			},
		},
		{
			name: "double dash ends flags",
			args: []string{"--", "-weird.tex"},
			validate: func(t *testing.T, p *ArgParser) {
				assert.Equal(t, "-weird.tex", p.Positional(0))
			},
		},
		{
			name: "trailing flag is boolean",
			args: []string{"x", "-y"},
			validate: func(t *testing.T, p *ArgParser) {
				assert.True(t, p.BoolFlag("y", "yes"))
				assert.Equal(t, "", p.Positional(5))
				assert.Nil(t, p.PositionalFrom(5))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, NewArgParser(tt.args, tt.switches...))
		})
	}
}

func TestParseIndex(t *testing.T) {
	n, err := ParseIndex("3")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, bad := range []string{"", "x", "-1"} {
		_, err := ParseIndex(bad)
		assert.Error(t, err, bad)
		assert.Equal(t, ExitUsageError, ExitCode(err), bad)
	}
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"y", "YES", " true "} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v)
	}
	v, err := ParseBoolString("n")
	require.NoError(t, err)
	assert.False(t, v)
	_, err = ParseBoolString("maybe")
	assert.Error(t, err)
}

// =============================================================================
// ERROR TESTS (errors.go)
// =============================================================================

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"usage", &UsageError{Reason: "bad"}, ExitUsageError},
		{"config wrapper", &ConfigError{Err: errors.New("broken")}, ExitConfigError},
		{"validation", fmt.Errorf("invalid config: %w", config.ValidateErrors{{Field: "ui.theme"}}), ExitConfigError},
		{"unreachable", fmt.Errorf("%w: dial tcp", compile.ErrUnreachable), ExitNetworkError},
		{"deadline", fmt.Errorf("wait: %w", context.DeadlineExceeded), ExitTimeoutError},
		{"missing file", fmt.Errorf("%w: x.tex", document.ErrNotFound), ExitNotFoundError},
		{"missing snapshot", &snapshot.IndexError{Index: 4, Len: 1}, ExitNotFoundError},
		{"not found type", ErrNotFound("file", "x"), ExitNotFoundError},
		{"compile failure", &compile.ServiceError{Status: 500, Message: "LaTeX compilation failed."}, ExitGeneralError},
		{"other", errors.New("boom"), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestDisplayError_JSON(t *testing.T) {
	buf := new(bytes.Buffer)
	DisplayError(buf, &compile.ServiceError{Status: 500, Message: "LaTeX compilation failed.", Log: "! Undefined control sequence."}, true)
	out := buf.String()
	assert.Contains(t, out, `"error_type": "compile_error"`)
	assert.Contains(t, out, `"status": 500`)
	assert.Contains(t, out, "Undefined control sequence")

	buf.Reset()
	DisplayError(buf, errors.New("boom"), false)
	assert.Equal(t, "[ERROR] boom\n", buf.String())
}

// =============================================================================
// TERMINAL AND LOGGING TESTS
// =============================================================================

func TestDetectColors(t *testing.T) {
	env := func(vals map[string]string) func(string) string {
		return func(k string) string { return vals[k] }
	}
	assert.True(t, detectColors(env(nil), true))
	assert.False(t, detectColors(env(nil), false))
	assert.False(t, detectColors(env(map[string]string{"NO_COLOR": "1", "FORCE_COLOR": "1"}), true))
	assert.True(t, detectColors(env(map[string]string{"FORCE_COLOR": "1"}), false))
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestSetupLogger_WritesToFile(t *testing.T) {
	cfg := config.Default()
	cfg.Log.File = t.TempDir() + "/logs/texsnap.log"
	cfg.Log.Level = "warn"

	logger, closer, err := SetupLogger(cfg, false)
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("visible", "k", "v")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(cfg.Log.File)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "msg=visible k=v")

	cfg.Log.Level = "loud"
	_, _, err = SetupLogger(cfg, false)
	assert.Equal(t, ExitConfigError, ExitCode(err))
}

func TestPrintVersion(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, PrintVersion(buf, false))
	assert.Contains(t, buf.String(), "texsnap version "+Version)

	buf.Reset()
	require.NoError(t, PrintVersion(buf, true))
	assert.Contains(t, buf.String(), `"version": "`+Version+`"`)
}
