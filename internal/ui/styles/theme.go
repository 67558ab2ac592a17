// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// THEME MODE
// =============================================================================

// Mode selects the palette variant.
type Mode int

const (
	ModeAuto Mode = iota
	ModeDark
	ModeLight
)

// String returns the config spelling of the mode.
func (m Mode) String() string {
	switch m {
	case ModeDark:
		return "dark"
	case ModeLight:
		return "light"
	default:
		return "auto"
	}
}

// ParseMode parses "dark", "light" or "auto".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "dark":
		return ModeDark, nil
	case "light":
		return ModeLight, nil
	}
	return ModeAuto, fmt.Errorf("unknown theme %q", s)
}

// =============================================================================
// THEME
// =============================================================================

// Theme holds the resolved styles for one editor instance. Colours are
// picked from the adaptive palette according to IsDark rather than the
// renderer's global background guess, so toggling is per theme.
type Theme struct {
	Mode   Mode
	IsDark bool

	// Layout dimensions
	Width  int
	Height int

	App         lipgloss.Style
	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderMeta  lipgloss.Style

	Panel        lipgloss.Style
	PanelFocused lipgloss.Style
	PanelTitle   lipgloss.Style

	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style
	ListItemMeta     lipgloss.Style
	PrimaryMarker    lipgloss.Style

	DiffEqual  lipgloss.Style
	DiffInsert lipgloss.Style
	DiffDelete lipgloss.Style
	DiffHunk   lipgloss.Style
	DiffHeader lipgloss.Style

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Dirty        lipgloss.Style

	ConfirmBox lipgloss.Style

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	Muted        lipgloss.Style
}

// NewTheme builds a theme for mode. ModeAuto follows the terminal
// background.
func NewTheme(mode Mode) *Theme {
	return newTheme(mode, termenv.HasDarkBackground)
}

func newTheme(mode Mode, detectDark func() bool) *Theme {
	t := &Theme{Mode: mode}
	switch mode {
	case ModeDark:
		t.IsDark = true
	case ModeLight:
		t.IsDark = false
	default:
		t.IsDark = detectDark()
	}
	t.initStyles()
	return t
}

// Toggle flips between the dark and light palettes.
func (t *Theme) Toggle() {
	if t.IsDark {
		t.Mode = ModeLight
	} else {
		t.Mode = ModeDark
	}
	t.IsDark = !t.IsDark
	t.initStyles()
}

// Color resolves an adaptive colour for this theme.
func (t *Theme) Color(c lipgloss.AdaptiveColor) lipgloss.Color {
	if t.IsDark {
		return lipgloss.Color(c.Dark)
	}
	return lipgloss.Color(c.Light)
}

func (t *Theme) initStyles() {
	c := t.Color

	t.App = lipgloss.NewStyle().Foreground(c(TextPrimary))

	t.Header = lipgloss.NewStyle().
		Background(c(SurfaceDim)).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(c(Cyan))
	t.HeaderMeta = lipgloss.NewStyle().
		Foreground(c(TextSecondary))

	t.Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(c(Overlay))
	t.PanelFocused = t.Panel.
		BorderForeground(c(Purple))
	t.PanelTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(c(TextSecondary))

	t.ListItem = lipgloss.NewStyle().
		Foreground(c(TextPrimary))
	t.ListItemSelected = lipgloss.NewStyle().
		Foreground(c(TextPrimary)).
		Background(c(SelectionBg)).
		Bold(true)
	t.ListItemMeta = lipgloss.NewStyle().
		Foreground(c(TextMuted))
	t.PrimaryMarker = lipgloss.NewStyle().
		Foreground(c(Cyan))

	t.DiffEqual = lipgloss.NewStyle().
		Foreground(c(TextSecondary))
	t.DiffInsert = lipgloss.NewStyle().
		Foreground(c(DiffAddedFg)).
		Background(c(DiffAddedBg))
	t.DiffDelete = lipgloss.NewStyle().
		Foreground(c(DiffRemovedFg)).
		Background(c(DiffRemovedBg)).
		Strikethrough(true)
	t.DiffHunk = lipgloss.NewStyle().
		Foreground(c(Cyan))
	t.DiffHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(c(TextPrimary))

	t.StatusBar = lipgloss.NewStyle().
		Background(c(SurfaceDim)).
		Foreground(c(TextSecondary)).
		Padding(0, 1)
	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(c(Purple)).
		Bold(true)
	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(c(TextMuted))
	t.Dirty = lipgloss.NewStyle().
		Foreground(c(Amber)).
		Bold(true)

	t.ConfirmBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(c(Amber)).
		Foreground(c(TextPrimary)).
		Padding(0, 2)

	t.SuccessStyle = lipgloss.NewStyle().Foreground(c(Emerald)).Bold(true)
	t.ErrorStyle = lipgloss.NewStyle().Foreground(c(Rose)).Bold(true)
	t.WarningStyle = lipgloss.NewStyle().Foreground(c(Amber)).Bold(true)
	t.Muted = lipgloss.NewStyle().Foreground(c(TextMuted))
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns: editor only
	LayoutMedium                   // 60-100 columns: editor and side panel
	LayoutWide                     // > 100 columns: all three panels
)

// =============================================================================
// STATUS HELPERS
// =============================================================================

// RenderSuccess renders a success message with its shape indicator.
func (t *Theme) RenderSuccess(message string) string {
	return t.SuccessStyle.Render(StatusIndicators.Success + " " + message)
}

// RenderError renders an error message with its shape indicator.
func (t *Theme) RenderError(message string) string {
	return t.ErrorStyle.Render(StatusIndicators.Error + " " + message)
}

// RenderWarning renders a warning with its shape indicator.
func (t *Theme) RenderWarning(message string) string {
	return t.WarningStyle.Render(StatusIndicators.Warning + " " + message)
}

// =============================================================================
// SPINNER
// =============================================================================

// CompileSpinner is shown while a compile request is in flight.
var CompileSpinner = spinner.Spinner{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    time.Second / 10,
}
