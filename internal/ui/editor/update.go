// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/texsnap/internal/compile"
	"github.com/jeranaias/texsnap/internal/document"
	"github.com/jeranaias/texsnap/internal/ui/components"
)

// messageTimeout is how long a status message stays visible.
const messageTimeout = 6 * time.Second

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.compiling {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.status.Spinner = m.spinner.View()
		return m, cmd

	case compileDoneMsg:
		m.compiling = false
		return m, m.handleCompileDone(msg)

	case exportDoneMsg:
		if msg.err != nil {
			return m, m.setError(fmt.Sprintf("Export of snapshot %d failed: %v", msg.index, msg.err))
		}
		return m, m.setMessage(fmt.Sprintf("Exported snapshot %d (%d files) to %s", msg.index, msg.files, msg.dir))

	case savedMsg:
		m.refresh()
		if msg.err != nil {
			return m, m.setError("Write failed: " + msg.err.Error())
		}
		return m, m.setMessage("Wrote project to disk")

	case ExternalEditMsg:
		return m.handleExternalEdit(msg)

	case clearMessageMsg:
		if msg.id == m.msgID {
			m.status.SetMessage("")
		}
		return m, nil
	}

	// Cursor blink and other widget messages.
	var cmd tea.Cmd
	if m.prompt != promptNone {
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirm != confirmNone {
		return m.handleConfirmKey(msg)
	}
	if m.prompt != promptNone {
		return m.handlePromptKey(msg)
	}

	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		m.syncEditor()
		if m.ctrl.IsDirty() && m.save != nil {
			m.confirm = confirmQuit
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, k.Snapshot):
		m.syncEditor()
		meta := m.ctrl.TakeSnapshot()
		m.refresh()
		return m, m.setMessage(fmt.Sprintf("Snapshot %d taken at %s", meta.Index, meta.Timestamp))

	case key.Matches(msg, k.Restore):
		return m.requestRestore()

	case key.Matches(msg, k.Diff):
		return m.showDiff()

	case key.Matches(msg, k.Compile):
		m.syncEditor()
		return m, m.startCompile()

	case key.Matches(msg, k.Export):
		return m.startExport()

	case key.Matches(msg, k.NewFile):
		m.syncEditor()
		return m.openPrompt(promptNewFile, "", "")

	case key.Matches(msg, k.Write):
		m.syncEditor()
		if m.save == nil {
			return m, m.setError("Writing is not available")
		}
		return m, m.saveCmd()

	case key.Matches(msg, k.ToggleTheme):
		m.theme.Toggle()
		m.applyTheme()
		mode := "light"
		if m.theme.IsDark {
			mode = "dark"
		}
		return m, m.setMessage("Theme: " + mode)

	case key.Matches(msg, k.NextPane):
		m.syncEditor()
		return m, m.setFocus(m.cyclePane(1))

	case key.Matches(msg, k.PrevPane):
		m.syncEditor()
		return m, m.setFocus(m.cyclePane(-1))
	}

	for _, sk := range k.snippetKeys() {
		if key.Matches(msg, sk.binding) {
			return m, m.insertSnippet(sk.key)
		}
	}

	switch m.focus {
	case paneFiles:
		return m.handleFilesKey(msg)
	case paneHistory:
		return m.handleHistoryKey(msg)
	case paneDiff:
		return m.handleDiffKey(msg)
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	m.syncEditor()
	return m, cmd
}

func (m Model) handleFilesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Up):
		return m, m.selectFile(m.files.Prev())
	case key.Matches(msg, k.Down):
		return m, m.selectFile(m.files.Next())
	case key.Matches(msg, k.Open):
		return m, m.setFocus(paneEditor)
	case key.Matches(msg, k.Rename):
		name := m.ctrl.Selected()
		return m.openPrompt(promptRename, name, name)
	case key.Matches(msg, k.Delete):
		m.confirm = confirmDelete
		m.confirmName = m.ctrl.Selected()
		return m, nil
	case key.Matches(msg, k.Close):
		return m, m.setFocus(paneEditor)
	}
	return m, nil
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Up):
		m.history.MoveUp()
	case key.Matches(msg, k.Down):
		m.history.MoveDown()
	case key.Matches(msg, k.Open):
		return m.showDiff()
	case key.Matches(msg, k.Close):
		return m, m.setFocus(paneEditor)
	}
	return m, nil
}

func (m Model) handleDiffKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	page := max(m.height-6, 1)
	switch {
	case key.Matches(msg, k.Up):
		m.diffView.ScrollUp(1)
	case key.Matches(msg, k.Down):
		m.diffView.ScrollDown(1)
	case key.Matches(msg, k.PageUp):
		m.diffView.ScrollUp(page)
	case key.Matches(msg, k.PageDown):
		m.diffView.ScrollDown(page)
	case key.Matches(msg, k.ToggleDiff):
		m.diffView.ToggleMode()
	case key.Matches(msg, k.Close):
		m.diffView.Clear()
		return m, m.setFocus(paneEditor)
	}
	return m, nil
}

// =============================================================================
// CONFIRM AND PROMPT
// =============================================================================

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		kind := m.confirm
		m.confirm = confirmNone
		switch kind {
		case confirmRestore:
			return m.restore(m.confirmIndex)
		case confirmDelete:
			if err := m.ctrl.DeleteFile(m.confirmName); err != nil {
				return m, m.setError(err.Error())
			}
			m.refresh()
			m.layout()
			return m, m.setMessage("Deleted " + m.confirmName)
		case confirmQuit:
			return m, tea.Quit
		}

	case key.Matches(msg, m.keys.Cancel):
		kind := m.confirm
		m.confirm = confirmNone
		if kind == confirmRestore {
			return m, m.setMessage("Restore cancelled")
		}
	}
	return m, nil
}

func (m Model) openPrompt(kind promptKind, target, value string) (tea.Model, tea.Cmd) {
	m.prompt = kind
	m.promptTarget = target
	switch kind {
	case promptNewFile:
		m.input.Prompt = "New file: "
		m.input.Placeholder = m.ctrl.Documents().NextUntitledName()
	case promptRename:
		m.input.Prompt = "Rename " + target + " to: "
		m.input.Placeholder = ""
	}
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.textarea.Blur()
	return m, m.input.Focus()
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt()
		return m, nil

	case tea.KeyEnter:
		kind, target := m.prompt, m.promptTarget
		value := strings.TrimSpace(m.input.Value())
		m.closePrompt()

		switch kind {
		case promptNewFile:
			name, err := m.ctrl.AddFile(value)
			if err != nil {
				return m, m.setError(err.Error())
			}
			m.refresh()
			return m, tea.Batch(m.setFocus(paneEditor), m.setMessage("Added "+name))

		case promptRename:
			if value == "" || value == target {
				return m, nil
			}
			if err := m.ctrl.RenameFile(target, value); err != nil {
				return m, m.setError(err.Error())
			}
			m.refresh()
			return m, m.setMessage("Renamed " + target + " to " + document.NormalizeName(value))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt() {
	m.prompt = promptNone
	m.promptTarget = ""
	m.input.Blur()
	m.input.Reset()
	if m.focus == paneEditor {
		m.textarea.Focus()
	}
}

// =============================================================================
// ACTIONS
// =============================================================================

// setFocus moves focus to p and resizes the panes for it.
func (m *Model) setFocus(p pane) tea.Cmd {
	if p == paneDiff && !m.diffView.HasDiff() {
		p = paneEditor
	}
	m.focus = p
	m.files.Focused = p == paneFiles
	m.history.Focused = p == paneHistory
	m.layout()
	if p == paneEditor {
		return m.textarea.Focus()
	}
	m.textarea.Blur()
	return nil
}

// cyclePane returns the pane dir steps away from the focused one.
func (m *Model) cyclePane(dir int) pane {
	panes := []pane{paneEditor, paneFiles, paneHistory}
	if m.diffView.HasDiff() {
		panes = append(panes, paneDiff)
	}
	pos := 0
	for i, p := range panes {
		if p == m.focus {
			pos = i
		}
	}
	return panes[(pos+dir+len(panes))%len(panes)]
}

func (m *Model) selectFile(name string) tea.Cmd {
	if name == "" {
		return nil
	}
	if err := m.ctrl.Select(name); err != nil {
		return m.setError(err.Error())
	}
	m.refresh()
	return nil
}

func (m *Model) insertSnippet(snippetKey string) tea.Cmd {
	sn, ok := document.SnippetByKey(snippetKey)
	if !ok {
		return nil
	}
	cmd := m.setFocus(paneEditor)
	m.syncEditor()

	off := m.cursorOffset()
	if err := m.ctrl.InsertSnippet(off, off, sn.Text); err != nil {
		return m.setError(err.Error())
	}
	m.textarea.InsertString(sn.Text)

	// The textarea normalises tabs, so resync if the two drifted apart.
	if v := m.textarea.Value(); v != m.ctrl.SelectedFile().Content {
		if err := m.ctrl.Edit(v); err != nil {
			return m.setError(err.Error())
		}
	}
	m.synced = m.textarea.Value()
	m.refresh()
	m.refreshDiff()
	return cmd
}

func (m Model) showDiff() (tea.Model, tea.Cmd) {
	m.syncEditor()
	meta, ok := m.history.Selected()
	if !ok {
		return m, m.setError("No snapshots yet, press ctrl+s to take one")
	}
	d, err := m.ctrl.ViewDiffFile(meta.Index, m.ctrl.Selected())
	if err != nil {
		return m, m.setError(err.Error())
	}
	m.diffView.SetDiff(meta.Index, d)
	return m, tea.Batch(m.setFocus(paneDiff), m.setMessage(d.Name+" vs snapshot "+fmt.Sprint(meta.Index)+": "+d.Summary()))
}

func (m Model) requestRestore() (tea.Model, tea.Cmd) {
	m.syncEditor()
	meta, ok := m.history.Selected()
	if !ok {
		return m, m.setError("No snapshots yet, press ctrl+s to take one")
	}
	if m.compiling {
		return m, m.setError("Wait for the running compile to finish")
	}
	if m.confirmRestore {
		m.confirm = confirmRestore
		m.confirmIndex = meta.Index
		return m, nil
	}
	return m.restore(meta.Index)
}

// restore swaps the snapshot in and reloads the editor before anything
// else can read the textarea. A configured compile then runs on its own.
func (m Model) restore(index int) (tea.Model, tea.Cmd) {
	if _, err := m.ctrl.Restore(index, nil); err != nil {
		return m, m.setError(fmt.Sprintf("Restore of snapshot %d failed: %v", index, err))
	}

	m.diffView.Clear()
	m.loaded = ""
	m.refresh()
	cmds := []tea.Cmd{m.setFocus(paneEditor), m.setMessage(fmt.Sprintf("Restored snapshot %d", index))}
	if m.ctrl.CompileAfterRestore() {
		cmds = append(cmds, m.startCompile())
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) startCompile() tea.Cmd {
	if m.compiling {
		return m.setMessage("Compile already running")
	}
	m.compiling = true
	m.status.State = components.CompileRunning
	m.status.Spinner = ""

	ctrl, ctx := m.ctrl, m.ctx
	run := func() tea.Msg {
		start := time.Now()
		art, err := ctrl.Compile(ctx)
		return compileDoneMsg{artifact: art, err: err, duration: time.Since(start)}
	}
	return tea.Batch(run, m.spinner.Tick)
}

func (m *Model) handleCompileDone(msg compileDoneMsg) tea.Cmd {
	if msg.err != nil {
		m.status.State = components.CompileFailed
		m.logger.Warn("compile failed", "error", msg.err)
		return m.setError(compileErrorText(msg.err))
	}
	m.status.State = components.CompileSucceeded

	text := fmt.Sprintf("Compiled in %s", msg.duration.Round(10*time.Millisecond))
	if m.writePDF != nil && msg.artifact != nil {
		path, err := m.writePDF(msg.artifact)
		if err != nil {
			m.status.State = components.CompileFailed
			return m.setError("Saving PDF failed: " + err.Error())
		}
		text += ", wrote " + path
	}
	if msg.artifact != nil && msg.artifact.Pages > 0 {
		text += fmt.Sprintf(" (%d pages)", msg.artifact.Pages)
	}
	return m.setMessage(text)
}

// compileErrorText shortens a compile error for the status line. For LaTeX
// failures the first "!" line of the log names the problem.
func compileErrorText(err error) string {
	var svcErr *compile.ServiceError
	if errors.As(err, &svcErr) {
		for _, line := range strings.Split(svcErr.Log, "\n") {
			if strings.HasPrefix(line, "!") {
				return svcErr.Message + " " + strings.TrimSpace(line)
			}
		}
		return svcErr.Message
	}
	if errors.Is(err, compile.ErrUnreachable) {
		return "Compile service unreachable"
	}
	return err.Error()
}

func (m Model) startExport() (tea.Model, tea.Cmd) {
	meta, ok := m.history.Selected()
	if !ok {
		return m, m.setError("No snapshots yet, press ctrl+s to take one")
	}
	if m.export == nil {
		return m, m.setError("Export is not available")
	}
	export, index := m.export, meta.Index
	return m, func() tea.Msg {
		dir, files, err := export(index)
		return exportDoneMsg{index: index, dir: dir, files: len(files), err: err}
	}
}

func (m *Model) saveCmd() tea.Cmd {
	save := m.save
	return func() tea.Msg {
		return savedMsg{err: save()}
	}
}

func (m Model) handleExternalEdit(msg ExternalEditMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.waitForEvent()}
	if msg.Err != nil {
		cmds = append(cmds, m.setError("Ignored change to "+msg.Name+": "+msg.Err.Error()))
		return m, tea.Batch(cmds...)
	}
	if document.NormalizeName(msg.Name) == m.loaded {
		m.loaded = ""
	}
	m.refresh()
	m.refreshDiff()
	cmds = append(cmds, m.setMessage(msg.Name+" changed on disk"))
	return m, tea.Batch(cmds...)
}

// =============================================================================
// STATUS MESSAGES
// =============================================================================

func (m *Model) setMessage(text string) tea.Cmd {
	m.status.SetMessage(text)
	return m.expireMessage()
}

func (m *Model) setError(text string) tea.Cmd {
	m.status.SetError(text)
	return m.expireMessage()
}

func (m *Model) expireMessage() tea.Cmd {
	m.msgID++
	id := m.msgID
	return tea.Tick(messageTimeout, func(time.Time) tea.Msg {
		return clearMessageMsg{id: id}
	})
}
