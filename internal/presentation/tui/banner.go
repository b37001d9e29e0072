package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Selim banner and the mode line to w.
func PrintBanner(w io.Writer, version string, remote bool) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"   ____       _ _           ", "#38bdf8"},
		{"  / ___|  ___| (_)_ __ ___  ", "#60a5fa"},
		{"  \\___ \\ / _ \\ | | '_ ` _ \\ ", "#818cf8"},
		{"   ___) |  __/ | | | | | | |", "#a78bfa"},
		{"  |____/ \\___|_|_|_| |_| |_|", "#c084fc"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}

	mode := termenv.String("Demo modu (yerel yanıtlar)").Foreground(p.Color("#fbbf24"))
	if remote {
		mode = termenv.String("Gemini bağlı").Foreground(p.Color("#34d399"))
	}
	fmt.Fprintf(w, "  v%s · %s\n", version, mode)
	fmt.Fprintln(w, termenv.String("  /temizle sohbeti sıfırlar, /çık çıkar.").Faint())
	fmt.Fprintln(w)
}
