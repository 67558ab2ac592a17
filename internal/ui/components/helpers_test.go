// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"testing"

	"github.com/mattn/go-runewidth"
)

// =============================================================================
// HELPER FUNCTION TESTS
// =============================================================================

func TestToStr(t *testing.T) {
	tests := []struct {
		input int
		want  string
	}{
		{0, "0"},
		{1, "1"},
		{9, "9"},
		{10, "10"},
		{123, "123"},
		{1000, "1000"},
		{-1, "-1"},
		{-123, "-123"},
		{-9223372036854775808, "-9223372036854775808"}, // MinInt64 special case
	}

	for _, tc := range tests {
		got := toStr(tc.input)
		if got != tc.want {
			t.Errorf("toStr(%d) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestFmtNumber(t *testing.T) {
	tests := []struct {
		input int
		want  string
	}{
		{0, "0"},
		{1, "1"},
		{999, "999"},
		{1000, "1,000"},
		{1234, "1,234"},
		{12345, "12,345"},
		{123456, "123,456"},
		{1234567, "1,234,567"},
		{1234567890, "1,234,567,890"},
		{-1, "-1"},
		{-1000, "-1,000"},
		{-123456, "-123,456"},
		{-9223372036854775808, "-9,223,372,036,854,775,808"}, // MinInt64
	}

	for _, tc := range tests {
		got := fmtNumber(tc.input)
		if got != tc.want {
			t.Errorf("fmtNumber(%d) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestPlural(t *testing.T) {
	if got := plural(1, "file"); got != "1 file" {
		t.Errorf("plural(1) = %q", got)
	}
	if got := plural(0, "file"); got != "0 files" {
		t.Errorf("plural(0) = %q", got)
	}
	if got := plural(1200, "snapshot"); got != "1,200 snapshots" {
		t.Errorf("plural(1200) = %q", got)
	}
}

func TestFitLine(t *testing.T) {
	tests := []struct {
		in    string
		width int
	}{
		{"main.tex", 12},
		{"a-very-long-file-name.tex", 10},
		{"日本語.tex", 6},
		{"", 4},
	}
	for _, tc := range tests {
		got := fitLine(tc.in, tc.width)
		if w := runewidth.StringWidth(got); w != tc.width {
			t.Errorf("fitLine(%q, %d) width = %d", tc.in, tc.width, w)
		}
	}
	if got := fitLine("x", 0); got != "" {
		t.Errorf("fitLine with zero width = %q", got)
	}
}

func TestVisibleWindow(t *testing.T) {
	tests := []struct {
		n, cursor, height int
		start, end        int
	}{
		{5, 0, 10, 0, 5},
		{20, 0, 5, 0, 5},
		{20, 10, 5, 8, 13},
		{20, 19, 5, 15, 20},
		{20, 3, 0, 0, 20},
	}
	for _, tc := range tests {
		start, end := visibleWindow(tc.n, tc.cursor, tc.height)
		if start != tc.start || end != tc.end {
			t.Errorf("visibleWindow(%d, %d, %d) = (%d, %d), want (%d, %d)",
				tc.n, tc.cursor, tc.height, start, end, tc.start, tc.end)
		}
	}
}
