package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the qdsl ASCII banner to w. Colors degrade to plain
// text when w is not a color terminal.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{"              _     _ ", "#818cf8"},
		{"   __ _    __| |___| |", "#a78bfa"},
		{"  / _` |  / _` / __| |", "#c084fc"},
		{" | (_| | | (_| \\__ \\ |", "#e879f9"},
		{"  \\__, |  \\__,_|___/_|", "#f472b6"},
		{"     |_|              ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String(" qdsl "+version).Faint())
	fmt.Fprintln(w)
}
