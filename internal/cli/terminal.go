package cli

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
// Output to pipes and files is rendered as plain markdown.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
