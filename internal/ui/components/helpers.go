// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/texsnap/internal/util"
)

// =============================================================================
// SHARED HELPER FUNCTIONS
// =============================================================================

// toStr converts an integer to a string without using fmt package.
func toStr(n int) string {
	if n == 0 {
		return "0"
	}

	if n == -9223372036854775808 { // math.MinInt64
		return "-9223372036854775808"
	}

	negative := n < 0
	if negative {
		n = -n
	}

	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}

	if negative {
		return "-" + string(digits)
	}
	return string(digits)
}

// fmtNumber formats a number with thousand separators.
func fmtNumber(n int) string {
	if n == -9223372036854775808 {
		return "-9,223,372,036,854,775,808"
	}
	if n < 0 {
		return "-" + fmtNumber(-n)
	}
	if n < 1000 {
		return toStr(n)
	}

	s := toStr(n)
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// plural returns "1 file", "2 files".
func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmtNumber(n) + " " + word + "s"
}

// fitLine truncates s to width cells and pads it to exactly width.
func fitLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return util.PadWidth(s, width)
}

// visibleWindow returns the [start, end) range of n rows that keeps cursor
// visible in a window of height rows.
func visibleWindow(n, cursor, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	start := cursor - height/2
	start = max(0, min(start, n-height))
	return start, start + height
}

// panel wraps body in the focused or unfocused panel border with a title.
func panel(title, body string, width, height int, focused bool, normal, active, titleStyle lipgloss.Style) string {
	style := normal
	if focused {
		style = active
	}
	inner := max(width-2, 1)
	content := titleStyle.Render(fitLine(title, inner)) + "\n" + body
	return style.
		Width(inner).
		Height(max(height-2, 1)).
		Render(content)
}
