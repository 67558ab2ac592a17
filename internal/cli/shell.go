// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// shell.go - Line-oriented editor shell.
//
// Command: shell [dir]
// Short:   Edit a project from a prompt with history
//
// The shell drives the same session as the full-screen editor, which makes
// it usable over plain ssh or from scripts (commands are read from stdin
// when it is not a terminal).

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/peterh/liner"

	"github.com/jeranaias/texsnap/internal/config"
	"github.com/jeranaias/texsnap/internal/diff"
	"github.com/jeranaias/texsnap/internal/document"
	"github.com/jeranaias/texsnap/internal/snapshot"
	"github.com/jeranaias/texsnap/internal/util"
)

// bodyTerminator ends multi-line input for "set".
const bodyTerminator = "."

const shellHelp = `Files:
  files                      List files (> selected, * primary)
  open <name>                Select a file
  new [name]                 Add a file (default: untitledN.tex)
  rename <old> <new>         Rename a file
  rm <name>                  Delete a file
  show [name] [--snap N]     Print a file, live or from a snapshot
  set [name]                 Replace a file; end input with a lone "."
  snippet <b|i|u|m|l>        Append a formatting snippet to the selected file

History:
  snap                       Take a snapshot
  list                       List snapshots
  restore <n> [-y]           Restore snapshot n
  diff <n> [name] [-u]       Diff snapshot n against the live file
  export <n>                 Export snapshot n to the export directory

Project:
  compile                    Compile the primary file and save the PDF
  write                      Write all files to the project directory
  status                     Show session status
  help                       Show this help
  quit                       Leave the shell`

// Shell is an interactive command loop over a Project.
type Shell struct {
	project *Project
	out     io.Writer

	// prompt reads one line of input; io.EOF ends the shell.
	prompt func(string) (string, error)
}

// NewShell creates a shell reading commands from in.
func NewShell(p *Project, in io.Reader, out io.Writer) *Shell {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	return &Shell{
		project: p,
		out:     out,
		prompt: func(string) (string, error) {
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return "", err
				}
				return "", io.EOF
			}
			return scanner.Text(), nil
		},
	}
}

// Run reads and executes commands until quit or end of input. On a
// terminal the liner line editor provides history.
func (s *Shell) Run(ctx context.Context, interactive bool) error {
	if interactive {
		line := liner.NewLiner()
		line.SetCtrlCAborts(true)
		historyFile := shellHistoryPath()
		if f, err := os.Open(historyFile); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if err := config.EnsureConfigDir(); err == nil {
				if f, err := os.OpenFile(historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
					_, _ = line.WriteHistory(f)
					f.Close()
				}
			}
			line.Close()
		}()
		s.prompt = func(p string) (string, error) {
			input, err := line.Prompt(p)
			if err == nil && strings.TrimSpace(input) != "" {
				line.AppendHistory(input)
			}
			return input, err
		}

		st := s.project.Session.Status()
		fmt.Fprintf(s.out, "texsnap %s - %s (%d files). Type help for commands.\n", Version, s.project.Dir, st.FileCount)
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		input, err := s.prompt(s.promptText())
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				return s.warnUnsaved()
			}
			return err
		}

		quit, err := s.Exec(ctx, input)
		if err != nil {
			DisplayError(s.out, err, false)
		}
		if quit {
			return s.warnUnsaved()
		}
	}
}

func (s *Shell) promptText() string {
	name := s.project.Session.Selected()
	if s.project.Session.IsDirty() {
		name += "*"
	}
	return "texsnap:" + name + "> "
}

func (s *Shell) warnUnsaved() error {
	if s.project.Session.IsDirty() {
		fmt.Fprintln(s.out, RenderConditional(WarningStyle, "Unsaved changes were not written to "+s.project.Dir))
	}
	return nil
}

func shellHistoryPath() string {
	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "shell_history")
}

// =============================================================================
// COMMAND DISPATCH
// =============================================================================

// Exec runs one command line. quit reports that the shell should stop.
func (s *Shell) Exec(ctx context.Context, input string) (quit bool, err error) {
	fields := strings.Fields(input)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return false, nil
	}
	cmd := strings.ToLower(fields[0])
	p := NewArgParser(fields[1:], "y", "yes", "u", "unified")
	ctrl := s.project.Session

	switch cmd {
	case "quit", "exit", "q":
		return true, nil

	case "help", "?":
		fmt.Fprintln(s.out, shellHelp)

	case "files", "ls":
		s.listFiles()

	case "open":
		if p.Positional(0) == "" {
			return false, ErrMissingArgument("name", "open <name>")
		}
		return false, ctrl.Select(p.Positional(0))

	case "new":
		name, err := ctrl.AddFile(p.Positional(0))
		if err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "Added %s\n", name)

	case "rename", "mv":
		if p.PositionalCount() != 2 {
			return false, ErrMissingArgument("old and new name", "rename <old> <new>")
		}
		return false, ctrl.RenameFile(p.Positional(0), p.Positional(1))

	case "rm", "delete":
		if p.Positional(0) == "" {
			return false, ErrMissingArgument("name", "rm <name>")
		}
		return false, ctrl.DeleteFile(p.Positional(0))

	case "show", "cat":
		return false, s.show(p)

	case "set":
		return false, s.set(p.Positional(0))

	case "snippet":
		return false, s.snippet(p.Positional(0))

	case "snap", "snapshot":
		meta := ctrl.TakeSnapshot()
		fmt.Fprintf(s.out, "Snapshot %d taken at %s\n", meta.Index, meta.Timestamp)

	case "list", "history":
		s.listSnapshots()

	case "restore":
		return false, s.restore(ctx, p)

	case "diff":
		return false, s.diff(p)

	case "export":
		index, err := ParseIndex(p.Positional(0))
		if err != nil {
			return false, err
		}
		dir, paths, err := s.project.Export(index)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "Exported %d files to %s\n", len(paths), dir)

	case "compile":
		return false, s.compile(ctx)

	case "write", "save":
		if err := s.project.Save(); err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "Wrote %d files to %s\n", ctrl.Documents().Len(), s.project.Dir)

	case "status":
		s.status()

	default:
		return false, &UsageError{Reason: "unknown command: " + cmd, Example: "help"}
	}
	return false, nil
}

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

func (s *Shell) listFiles() {
	ctrl := s.project.Session
	selected := ctrl.Selected()
	primary := document.NormalizeName(ctrl.Config().PrimaryFile)
	for _, f := range ctrl.Documents().Files() {
		mark := "  "
		if f.Name == selected {
			mark = "> "
		}
		name := f.Name
		if f.Name == primary {
			name += " *"
		}
		fmt.Fprintf(s.out, "%s%s %s\n", mark, util.PadWidth(name, 28),
			RenderConditional(DimStyle, formatBytes(int64(len(f.Content)))))
	}
}

func (s *Shell) show(p *ArgParser) error {
	ctrl := s.project.Session
	name := p.Positional(0)
	if name == "" {
		name = ctrl.Selected()
	}

	if snap := p.Flag("snap", "snapshot"); snap != "" {
		index, err := ParseIndex(snap)
		if err != nil {
			return err
		}
		return ctrl.WriteSnapshotFile(index, name, s.out)
	}

	f, ok := ctrl.Documents().Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", document.ErrNotFound, name)
	}
	fmt.Fprint(s.out, f.Content)
	if !strings.HasSuffix(f.Content, "\n") {
		fmt.Fprintln(s.out)
	}
	return nil
}

func (s *Shell) set(name string) error {
	ctrl := s.project.Session
	if name != "" {
		if err := ctrl.Select(name); err != nil {
			return err
		}
	}
	fmt.Fprintf(s.out, "Enter new content for %s, end with a line containing only %q\n", ctrl.Selected(), bodyTerminator)

	var lines []string
	for {
		line, err := s.prompt("")
		if err != nil {
			return fmt.Errorf("input ended before %q: %w", bodyTerminator, err)
		}
		if line == bodyTerminator {
			break
		}
		lines = append(lines, line)
	}
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	return ctrl.Edit(content)
}

func (s *Shell) snippet(key string) error {
	sn, ok := document.SnippetByKey(key)
	if !ok {
		var keys []string
		for _, sn := range document.Snippets {
			keys = append(keys, sn.Key+"="+sn.Label)
		}
		return &UsageError{Reason: fmt.Sprintf("unknown snippet %q", key), Example: "snippet <" + strings.Join(keys, "|") + ">"}
	}
	end := utf8.RuneCountInString(s.project.Session.SelectedFile().Content)
	return s.project.Session.InsertSnippet(end, end, sn.Text)
}

func (s *Shell) listSnapshots() {
	metas := s.project.Session.Snapshots()
	if len(metas) == 0 {
		fmt.Fprintln(s.out, "No snapshots yet")
		return
	}
	for _, m := range metas {
		fmt.Fprintf(s.out, "%3d  %s  %s\n", m.Index, m.Timestamp,
			RenderConditional(DimStyle, fmt.Sprintf("%d files", m.FileCount)))
	}
}

func (s *Shell) restore(ctx context.Context, p *ArgParser) error {
	index, err := ParseIndex(p.Positional(0))
	if err != nil {
		return err
	}

	var confirm func(snapshot.Meta) bool
	if s.project.Config.Editor.ConfirmRestore && !p.BoolFlag("y", "yes") {
		confirm = func(m snapshot.Meta) bool {
			answer, err := s.prompt(fmt.Sprintf("Restore snapshot %d from %s? Unsnapshotted changes will be lost [y/N] ", m.Index, m.Timestamp))
			if err != nil {
				return false
			}
			ok, _ := ParseBoolString(answer)
			return ok
		}
	}

	before := time.Now()
	restored, err := s.project.Session.RestoreSnapshot(ctx, index, confirm)
	if err != nil {
		return err
	}
	if !restored {
		fmt.Fprintln(s.out, "Restore cancelled")
		return nil
	}
	fmt.Fprintf(s.out, "Restored snapshot %d\n", index)

	res, ok := s.project.Session.LastCompile()
	if !ok || res.At.Before(before) {
		return nil
	}
	if res.Err != nil {
		fmt.Fprintln(s.out, RenderConditional(WarningStyle, "Compile after restore failed: "+res.Err.Error()))
		return nil
	}
	return s.writeArtifact()
}

func (s *Shell) diff(p *ArgParser) error {
	index, err := ParseIndex(p.Positional(0))
	if err != nil {
		return err
	}
	name := p.Positional(1)
	if name == "" {
		name = s.project.Session.Config().PrimaryFile
	}

	d, err := s.project.Session.ViewDiffFile(index, name)
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out, RenderConditional(TitleStyle, fmt.Sprintf("%s vs snapshot %d: %s", d.Name, index, d.Summary())))
	if d.Identical() {
		return nil
	}
	if p.BoolFlag("u", "unified") {
		fmt.Fprint(s.out, RenderUnified(diff.LineDiff(d.Name, d.Old, d.New)))
		return nil
	}
	fmt.Fprintln(s.out, RenderSegments(d.Segments))
	return nil
}

func (s *Shell) compile(ctx context.Context) error {
	fmt.Fprintln(s.out, RenderConditional(DimStyle, "Compiling via "+s.project.Client.BaseURL()+"..."))
	if _, err := s.project.Session.Compile(ctx); err != nil {
		return err
	}
	return s.writeArtifact()
}

func (s *Shell) writeArtifact() error {
	res, ok := s.project.Session.LastCompile()
	if !ok || !res.OK() {
		return nil
	}
	path, err := s.project.WritePDF(res.Artifact)
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("Compiled in %s, wrote %s (%s", formatDurationShort(res.Duration), path, formatBytes(int64(res.Artifact.Size())))
	if res.Artifact.Pages > 0 {
		msg += fmt.Sprintf(", %d pages", res.Artifact.Pages)
	}
	fmt.Fprintln(s.out, RenderConditional(SuccessStyle, msg+")"))
	return nil
}

func (s *Shell) status() {
	st := s.project.Session.Status()
	fmt.Fprintln(s.out, RenderField("Session", st.SessionID))
	fmt.Fprintln(s.out, RenderField("Project", s.project.Dir))
	fmt.Fprintln(s.out, RenderField("Primary file", st.PrimaryFile))
	fmt.Fprintln(s.out, RenderField("Selected", st.Selected))
	fmt.Fprintln(s.out, RenderField("Files", fmt.Sprint(st.FileCount)))
	fmt.Fprintln(s.out, RenderField("Snapshots", fmt.Sprint(st.SnapshotCount)))
	fmt.Fprintln(s.out, RenderField("Unsaved changes", fmt.Sprint(st.IsDirty)))
	fmt.Fprintln(s.out, RenderField("Compile service", s.project.Client.BaseURL()))
	if !st.LastCompileAt.IsZero() {
		result := "failed"
		if st.LastCompileOK {
			result = "ok"
		}
		fmt.Fprintln(s.out, RenderField("Last compile", st.LastCompileAt.Format("15:04:05")+" "+result))
	}
	fmt.Fprintln(s.out, RenderField("Uptime", formatDurationShort(st.Duration)))
}
