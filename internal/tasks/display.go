package tasks

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

// Display makes task text safe to print on a terminal. Escape sequences are
// stripped, remaining control characters dropped, and line breaks and tabs
// folded to spaces so one task always renders as one line.
func Display(text string) string {
	text = ansi.Strip(text)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, text)
}
