// internal/util/util.go

// Package util holds small text helpers shared by the terminal renderers.
package util

import (
	"strings"
	"unicode/utf8"
)

// Collapse joins the fields of s with single spaces, folding newlines and
// indentation out of multi-line SQL.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate shortens s to at most maxRunes runes, the last of which is an
// ellipsis when anything was cut.
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes-1]) + "…"
}

// Wrap breaks s into lines of at most width runes at spaces. Words longer
// than width are split.
func Wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	var lines []string
	var line []rune
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		for len(w) > width {
			if len(line) > 0 {
				lines = append(lines, string(line))
				line = line[:0]
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(line) == 0:
			line = append(line, w...)
		case len(line)+1+len(w) <= width:
			line = append(append(line, ' '), w...)
		default:
			lines = append(lines, string(line))
			line = append(line[:0], w...)
		}
	}
	if len(line) > 0 {
		lines = append(lines, string(line))
	}
	return strings.Join(lines, "\n")
}
