package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the undokit banner to w.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	lines := []struct{ text, color string }{
		{"                 _       _    _ _   ", "#818cf8"},
		{"  _   _ _ __   __| | ___ | | _(_) |_ ", "#a78bfa"},
		{" | | | | '_ \\ / _` |/ _ \\| |/ / | __|", "#c084fc"},
		{" | |_| | | | | (_| | (_) |   <| | |_ ", "#e879f9"},
		{"  \\__,_|_| |_|\\__,_|\\___/|_|\\_\\_|\\__|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
