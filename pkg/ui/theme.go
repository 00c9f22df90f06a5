package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Open      lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Styles
	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style

	// Pre-computed row styles, created once instead of per frame
	Cursor      lipgloss.Style
	Title       lipgloss.Style
	Summary     lipgloss.Style
	Tag         lipgloss.Style
	Age         lipgloss.Style
	Glyph       lipgloss.Style
	GlyphOpen   lipgloss.Style
	GlyphActive lipgloss.Style
	Detail      lipgloss.Style
	Status      lipgloss.Style
	Help        lipgloss.Style
	HelpKey     lipgloss.Style
	Error       lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive).
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"}, // Dim
		Open:      lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}, // Green

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.Cursor = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.Title = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}).Bold(true)
	t.Summary = r.NewStyle().Foreground(t.Subtext)
	t.Tag = r.NewStyle().Foreground(ThemeFg("#8BE9FD"))
	t.Age = r.NewStyle().Foreground(t.Muted)
	t.Glyph = r.NewStyle().Foreground(t.Secondary)
	t.GlyphOpen = r.NewStyle().Foreground(t.Open).Bold(true)
	t.GlyphActive = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.Detail = r.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(t.Border).
		PaddingLeft(1)
	t.Status = r.NewStyle().Foreground(t.Subtext).Italic(true)
	t.Help = r.NewStyle().Foreground(t.Muted)
	t.HelpKey = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.Error = r.NewStyle().Foreground(ThemeFg("#FF5555")).Bold(true)

	return t
}

// ThemeFor builds the theme for a configured mode: "dark" and "light"
// force the background, anything else keeps the renderer's detection.
func ThemeFor(mode string) Theme {
	r := lipgloss.NewRenderer(os.Stdout)
	switch mode {
	case "dark":
		r.SetHasDarkBackground(true)
	case "light":
		r.SetHasDarkBackground(false)
	}
	return DefaultTheme(r)
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
