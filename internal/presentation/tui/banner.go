package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner shown by interactive sessions.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Indigo-to-pink gradient, top to bottom.
	s1 := termenv.String("   __ _            ").Foreground(p.Color("#818cf8"))
	s2 := termenv.String("  / _| |_   ___  __").Foreground(p.Color("#a78bfa"))
	s3 := termenv.String(" | |_| | | | \\ \\/ /").Foreground(p.Color("#c084fc"))
	s4 := termenv.String(" |  _| | |_| |>  < ").Foreground(p.Color("#e879f9"))
	s5 := termenv.String(" |_| |_|\\__,_/_/\\_\\").Foreground(p.Color("#f472b6"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	if version != "" {
		fmt.Println(termenv.String(" v" + version).Foreground(p.Color("#6b7280")))
	}
	fmt.Println()
}
