package theme

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// House palette on a dark castle background.
var (
	Scarlet = lipgloss.Color("#B91C1C")
	Gold    = lipgloss.Color("#EAB308")
	Blue    = lipgloss.Color("#38BDF8")
	Emerald = lipgloss.Color("#22C55E")
	Rose    = lipgloss.Color("#F43F5E")

	Text    = lipgloss.Color("#F8FAFC")
	TextDim = lipgloss.Color("#94A3B8")
	BgCard  = lipgloss.Color("#1E293B")
	Border  = lipgloss.Color("#334155")
)

var (
	Brand = lipgloss.NewStyle().Foreground(Scarlet).Bold(true)
	Score = lipgloss.NewStyle().Foreground(Gold)

	Hint   = lipgloss.NewStyle().Foreground(TextDim).Italic(true)
	Dimmed = lipgloss.NewStyle().Foreground(TextDim)

	KeyLabel = lipgloss.NewStyle().Foreground(Text).Bold(true)
	KeyDesc  = lipgloss.NewStyle().Foreground(TextDim)
)

// Bar frames the header and footer.
var Bar = lipgloss.NewStyle().
	Background(BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border)

var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	// Banner announces a difficulty change.
	Banner = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(Gold).
		Foreground(Gold).
		Bold(true).
		Padding(0, 2)
)

// Option states.
var (
	Selected   = lipgloss.NewStyle().Foreground(Gold).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Text)
	Correct    = lipgloss.NewStyle().Foreground(Emerald).Bold(true)
	Incorrect  = lipgloss.NewStyle().Foreground(Rose).Bold(true)
)

var (
	ProgressFilled = lipgloss.NewStyle().Background(Gold)
	ProgressEmpty  = lipgloss.NewStyle().Background(Border)
)

// Difficulty returns the badge style for a difficulty rung. Unknown rungs
// render in blue.
func Difficulty(level string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch strings.ToLower(level) {
	case "easy":
		return base.Foreground(Emerald)
	case "medium":
		return base.Foreground(Gold)
	case "hard":
		return base.Foreground(Scarlet)
	default:
		return base.Foreground(Blue)
	}
}
