// Package display renders mana base results for the terminal.
package display

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ramonehamilton/mtg-manabase/internal/mtga/manacost"
)

// Palette
var (
	Accent  = lipgloss.Color("#8BC34A")
	Muted   = lipgloss.Color("#8A8F98")
	Warning = lipgloss.Color("#FFC107")
	Danger  = lipgloss.Color("#E53935")
)

// ManaColors maps each color to its terminal swatch.
var ManaColors = map[manacost.Color]lipgloss.Color{
	manacost.White:     lipgloss.Color("#F8E7B9"),
	manacost.Blue:      lipgloss.Color("#0E68AB"),
	manacost.Black:     lipgloss.Color("#9E8E88"),
	manacost.Red:       lipgloss.Color("#D3202A"),
	manacost.Green:     lipgloss.Color("#00733E"),
	manacost.Colorless: lipgloss.Color("#A59E9A"),
}

// Styles holds the styled components used by the renderers.
type Styles struct {
	Title   lipgloss.Style
	Section lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Muted   lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Border  lipgloss.Style
}

// DefaultStyles returns the standard styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(Accent).
			MarginBottom(1),
		Section: lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			MarginTop(1),
		Label:   lipgloss.NewStyle().Foreground(Muted).Width(12),
		Value:   lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(Muted),
		Warning: lipgloss.NewStyle().Foreground(Warning),
		Error:   lipgloss.NewStyle().Foreground(Danger).Bold(true),
		Border:  lipgloss.NewStyle().Foreground(Muted),
	}
}

// Swatch styles text in the color's swatch.
func Swatch(c manacost.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ManaColors[c]).Bold(true)
}
