// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package document

// Snippet is a toolbar insertion.
type Snippet struct {
	Label string
	Key   string // shortcut suffix, bound as alt+Key in the editor
	Text  string
}

// Snippets are the formatting helpers offered by the toolbar, in display order.
var Snippets = []Snippet{
	{Label: "Bold", Key: "b", Text: `\textbf{}`},
	{Label: "Italic", Key: "i", Text: `\textit{}`},
	{Label: "Underline", Key: "u", Text: `\underline{}`},
	{Label: "Math", Key: "m", Text: "$...$"},
	{Label: "List", Key: "l", Text: "\\begin{itemize}\n  \\item ...\n\\end{itemize}"},
}

// SnippetByKey returns the snippet bound to key.
func SnippetByKey(key string) (Snippet, bool) {
	for _, s := range Snippets {
		if s.Key == key {
			return s, true
		}
	}
	return Snippet{}, false
}
