package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the ASCII art banner shown by the watch and serve commands.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Camel sand to sunset
	lines := []struct {
		text  string
		color string
	}{
		{"  _                     _   _       ", "#fde68a"},
		{" | |__   __ ___      __| |_(_) ___  ", "#fcd34d"},
		{" | '_ \\ / _` \\ \\ /\\ / /| __| |/ _ \\ ", "#fbbf24"},
		{" | | | | (_| |\\ V  V / | |_| | (_) |", "#f59e0b"},
		{" |_| |_|\\__,_| \\_/\\_/   \\__|_|\\___/ ", "#d97706"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
