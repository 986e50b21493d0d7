package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Triage banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	// Warm gradient, red to amber
	lines := []struct{ text, color string }{
		{"  _____     _                 ", "#ef4444"},
		{" |_   _| __(_) __ _  __ _  ___ ", "#f97316"},
		{"   | || '__| |/ _` |/ _` |/ _ \\", "#f59e0b"},
		{"   | || |  | | (_| | (_| |  __/", "#eab308"},
		{"   |_||_|  |_|\\__,_|\\__, |\\___|", "#facc15"},
		{"                    |___/      ", "#fde047"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, out.String("   first-aid triage v"+v).Faint())
	}
	fmt.Fprintln(w)
}
