// Package textutil provides width-aware text helpers for TUI rendering.
package textutil

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Ellipsis marks truncated text.
const Ellipsis = "…"

// Width returns the number of terminal columns s occupies. Escape
// sequences count as zero.
func Width(s string) int {
	return ansi.StringWidth(s)
}

// Truncate shortens plain text to at most width columns, ending in an
// ellipsis when anything was cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, Ellipsis)
}

// TruncateStyled is Truncate for text that may carry escape sequences.
func TruncateStyled(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, Ellipsis)
}

// PadRight pads plain text with spaces to width columns, truncating it
// first if it is wider.
func PadRight(s string, width int) string {
	s = Truncate(s, width)
	return runewidth.FillRight(s, width)
}

// PadLeft right-aligns plain text in width columns.
func PadLeft(s string, width int) string {
	s = Truncate(s, width)
	return runewidth.FillLeft(s, width)
}

// Fit makes a possibly styled line exactly width columns wide.
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = TruncateStyled(s, width)
	if w := Width(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}
