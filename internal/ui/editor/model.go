// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/texsnap/internal/compile"
	"github.com/jeranaias/texsnap/internal/session"
	"github.com/jeranaias/texsnap/internal/ui/components"
	"github.com/jeranaias/texsnap/internal/ui/styles"
)

// =============================================================================
// MODEL STATE
// =============================================================================

// pane identifies a focusable area of the editor.
type pane int

const (
	paneEditor pane = iota
	paneFiles
	paneHistory
	paneDiff
)

// String returns the pane name.
func (p pane) String() string {
	switch p {
	case paneFiles:
		return "files"
	case paneHistory:
		return "history"
	case paneDiff:
		return "diff"
	default:
		return "editor"
	}
}

// promptKind is the question the input line is answering.
type promptKind int

const (
	promptNone promptKind = iota
	promptNewFile
	promptRename
)

// confirmKind is the action waiting for a y/n answer.
type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmRestore
	confirmDelete
	confirmQuit
)

// Options configures the editor model.
type Options struct {
	// Session is the editing session the model drives. Required.
	Session *session.Controller

	// Theme defaults to styles.NewTheme(styles.ModeAuto).
	Theme *styles.Theme

	// ProjectDir is shown in the header.
	ProjectDir string

	// ConfirmRestore asks before a restore replaces the live files.
	ConfirmRestore bool

	// Save writes the live files to disk and marks the session clean.
	Save func() error

	// WritePDF stores a compiled artifact and returns its path.
	WritePDF func(*compile.Artifact) (string, error)

	// Export writes a snapshot to disk and returns the directory and files.
	Export func(index int) (string, []string, error)

	// Events delivers external edits already applied to the session.
	Events <-chan ExternalEditMsg

	// Context bounds compiles started from the editor.
	Context context.Context

	Logger *slog.Logger
}

// Model is the full-screen editor.
type Model struct {
	ctrl   *session.Controller
	theme  *styles.Theme
	keys   KeyMap
	ctx    context.Context
	logger *slog.Logger

	confirmRestore bool
	save           func() error
	writePDF       func(*compile.Artifact) (string, error)
	export         func(int) (string, []string, error)
	events         <-chan ExternalEditMsg

	// Components
	header   *components.Header
	status   *components.StatusBar
	files    *components.FileList
	history  *components.HistoryList
	diffView *components.DiffViewer

	textarea textarea.Model
	input    textinput.Model
	spinner  spinner.Model

	focus pane

	prompt       promptKind
	promptTarget string

	confirm      confirmKind
	confirmIndex int
	confirmName  string

	loaded string // Name of the file shown in the textarea
	synced string // Textarea value last pushed to the session

	compiling bool
	msgID     int

	width  int
	height int
}

// New creates the editor model.
func New(opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(styles.ModeAuto)
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	ta := textarea.New()
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.MaxWidth = 0
	ta.Prompt = ""
	ta.ShowLineNumbers = true
	ta.Focus()

	in := textinput.New()
	in.CharLimit = 255

	sp := spinner.New()
	sp.Spinner = styles.CompileSpinner

	header := components.NewHeader(theme)
	header.Project = opts.ProjectDir

	m := Model{
		ctrl:           opts.Session,
		theme:          theme,
		keys:           DefaultKeyMap(),
		ctx:            ctx,
		logger:         logger,
		confirmRestore: opts.ConfirmRestore,
		save:           opts.Save,
		writePDF:       opts.WritePDF,
		export:         opts.Export,
		events:         opts.Events,
		header:         header,
		status:         components.NewStatusBar(theme),
		files:          components.NewFileList(theme),
		history:        components.NewHistoryList(theme),
		diffView:       components.NewDiffViewer(theme),
		textarea:       ta,
		input:          in,
		spinner:        sp,
		focus:          paneEditor,
	}
	m.applyTheme()
	m.refresh()
	m.status.SetMessage("ctrl+s snapshot, ctrl+b compile, ctrl+q quit")
	return m
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts cursor blinking and listening for external edits.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.waitForEvent())
}

// View renders the editor.
func (m Model) View() string {
	return m.render()
}

// =============================================================================
// SESSION SYNC
// =============================================================================

// refresh copies session state into the components and reloads the
// textarea when the selected file changed underneath it.
func (m *Model) refresh() {
	docs := m.ctrl.Documents()
	selected := m.ctrl.Selected()
	dirty := m.ctrl.IsDirty()
	snaps := m.ctrl.Snapshots()

	m.files.SetFiles(docs.Files(), selected, m.ctrl.Config().PrimaryFile)
	m.history.SetItems(snaps)

	m.header.FileCount = docs.Len()
	m.header.SnapshotCount = len(snaps)
	m.header.Dirty = dirty
	m.status.Selected = selected
	m.status.Dirty = dirty

	if selected != m.loaded {
		m.loadSelected()
	}
}

// loadSelected puts the selected file into the textarea with the cursor at
// the top.
func (m *Model) loadSelected() {
	f := m.ctrl.SelectedFile()
	m.textarea.SetValue(f.Content)
	for m.textarea.Line() > 0 {
		m.textarea.CursorUp()
	}
	m.textarea.CursorStart()
	m.loaded = f.Name
	m.synced = m.textarea.Value()
	m.status.Selected = f.Name
}

// syncEditor pushes textarea changes into the session.
func (m *Model) syncEditor() {
	v := m.textarea.Value()
	if v == m.synced {
		return
	}
	m.synced = v
	if err := m.ctrl.Edit(v); err != nil {
		m.logger.Warn("edit rejected", "file", m.loaded, "error", err)
		m.status.SetError(err.Error())
		return
	}
	m.refresh()
	m.refreshDiff()
}

// refreshDiff recomputes an open diff of the selected file.
func (m *Model) refreshDiff() {
	d := m.diffView.Diff()
	if d == nil || d.Name != m.ctrl.Selected() {
		return
	}
	fresh, err := m.ctrl.ViewDiffFile(m.diffView.Index(), d.Name)
	if err != nil {
		m.diffView.Clear()
		return
	}
	mode := m.diffView.Mode()
	m.diffView.SetDiff(m.diffView.Index(), fresh)
	if m.diffView.Mode() != mode {
		m.diffView.ToggleMode()
	}
}

// cursorOffset is the rune offset of the textarea cursor in its value.
func (m *Model) cursorOffset() int {
	lines := strings.Split(m.textarea.Value(), "\n")
	off := 0
	for i := 0; i < m.textarea.Line() && i < len(lines); i++ {
		off += utf8.RuneCountInString(lines[i]) + 1
	}
	li := m.textarea.LineInfo()
	return off + li.StartColumn + li.ColumnOffset
}

// applyTheme restyles the bubbles widgets from the theme.
func (m *Model) applyTheme() {
	c := m.theme.Color
	focused, blurred := textarea.DefaultStyles()
	focused.CursorLine = lipgloss.NewStyle().Background(c(styles.SurfaceDim))
	focused.LineNumber = lipgloss.NewStyle().Foreground(c(styles.TextMuted))
	focused.CursorLineNumber = lipgloss.NewStyle().Foreground(c(styles.Purple))
	focused.Text = lipgloss.NewStyle().Foreground(c(styles.TextPrimary))
	blurred.LineNumber = focused.LineNumber
	blurred.CursorLineNumber = focused.LineNumber
	blurred.Text = lipgloss.NewStyle().Foreground(c(styles.TextSecondary))
	m.textarea.FocusedStyle = focused
	m.textarea.BlurredStyle = blurred
	// Focus and Blur re-point the textarea at its own style fields.
	if m.focus == paneEditor {
		m.textarea.Focus()
	} else {
		m.textarea.Blur()
	}

	m.spinner.Style = m.theme.WarningStyle
	m.input.PromptStyle = m.theme.ShortcutKey
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m Model) waitForEvent() tea.Cmd {
	ch := m.events
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}
