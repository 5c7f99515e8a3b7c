package report

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorScheme defines the colors used for the elements of a console report.
type ColorScheme struct {
	Rule      *color.Color
	Title     *color.Color
	Label     *color.Color
	Value     *color.Color
	Good      *color.Color
	Warn      *color.Color
	Bad       *color.Color
	Highlight *color.Color
}

// DefaultColorScheme returns the default color scheme.
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Rule:      color.New(color.FgCyan),
		Title:     color.New(color.Bold),
		Label:     color.New(color.FgYellow),
		Value:     color.New(color.FgCyan),
		Good:      color.New(color.FgGreen),
		Warn:      color.New(color.FgYellow, color.Bold),
		Bad:       color.New(color.FgRed, color.Bold),
		Highlight: color.New(color.FgMagenta, color.Bold),
	}
}

// NoColorScheme returns a color scheme with all colors disabled.
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()
	for _, c := range []*color.Color{
		scheme.Rule, scheme.Title, scheme.Label, scheme.Value,
		scheme.Good, scheme.Warn, scheme.Bad, scheme.Highlight,
	} {
		c.DisableColor()
	}
	return scheme
}

// forceColors enables every color of the scheme even when color.NoColor is set.
func (s *ColorScheme) forceColors() *ColorScheme {
	for _, c := range []*color.Color{
		s.Rule, s.Title, s.Label, s.Value,
		s.Good, s.Warn, s.Bad, s.Highlight,
	} {
		c.EnableColor()
	}
	return s
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// supportsColors checks the environment for color preferences.
func supportsColors() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}
