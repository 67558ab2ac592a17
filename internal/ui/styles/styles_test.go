// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
		ok   bool
	}{
		{"", ModeAuto, true},
		{"auto", ModeAuto, true},
		{" Dark ", ModeDark, true},
		{"LIGHT", ModeLight, true},
		{"sepia", ModeAuto, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if !tt.ok {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.in != "" {
				_, err := ParseMode(got.String())
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewTheme_AutoFollowsDetection(t *testing.T) {
	dark := newTheme(ModeAuto, func() bool { return true })
	assert.True(t, dark.IsDark)

	light := newTheme(ModeAuto, func() bool { return false })
	assert.False(t, light.IsDark)

	called := false
	forced := newTheme(ModeLight, func() bool { called = true; return true })
	assert.False(t, forced.IsDark)
	assert.False(t, called, "explicit modes must not probe the terminal")
}

func TestTheme_Color(t *testing.T) {
	c := lipgloss.AdaptiveColor{Light: "#111111", Dark: "#EEEEEE"}

	th := newTheme(ModeDark, nil)
	assert.Equal(t, lipgloss.Color("#EEEEEE"), th.Color(c))

	th.Toggle()
	assert.Equal(t, ModeLight, th.Mode)
	assert.False(t, th.IsDark)
	assert.Equal(t, lipgloss.Color("#111111"), th.Color(c))

	th.Toggle()
	assert.Equal(t, ModeDark, th.Mode)
}

func TestTheme_LayoutMode(t *testing.T) {
	th := newTheme(ModeDark, nil)
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
		{200, LayoutWide},
	}
	for _, tt := range tests {
		th.SetSize(tt.width, 30)
		assert.Equal(t, tt.want, th.GetLayoutMode(), "width %d", tt.width)
	}
}

func TestTheme_StatusHelpers(t *testing.T) {
	th := newTheme(ModeDark, nil)
	assert.Contains(t, th.RenderSuccess("compiled"), "compiled")
	assert.Contains(t, th.RenderError("failed"), "failed")
	assert.Contains(t, th.RenderWarning("dirty"), "dirty")
}
