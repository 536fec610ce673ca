package theme

import (
	"charm.land/lipgloss/v2"

	"github.com/zhongchar/zhongchar/internal/mastery"
)

// Color palette, ink and seal red on paper tones
var (
	Primary   = lipgloss.Color("#B91C1C") // Seal Red
	Secondary = lipgloss.Color("#0F766E") // Jade
	Accent    = lipgloss.Color("#CA8A04") // Gold
	Text      = lipgloss.Color("#F5F5F4") // Paper
	TextDim   = lipgloss.Color("#A8A29E") // Stone
	Border    = lipgloss.Color("#57534E") // Ink Wash
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Label = lipgloss.NewStyle().
		Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	// Glyph renders a radical form large enough to stand out in a line.
	Glyph = lipgloss.NewStyle().
		Bold(true).
		Foreground(Text).
		Padding(0, 1)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 2)
)

// Understanding levels
var (
	DontKnow = lipgloss.NewStyle().
			Foreground(Primary)

	Know = lipgloss.NewStyle().
		Foreground(Accent)

	InstantRecall = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)
)

// LevelStyle returns the style used for an understanding level.
func LevelStyle(l mastery.Level) lipgloss.Style {
	switch l {
	case mastery.Know:
		return Know
	case mastery.InstantRecall:
		return InstantRecall
	default:
		return DontKnow
	}
}

// Understanding renders u in its level's style.
func Understanding(u mastery.Understanding) string {
	return LevelStyle(u.Level).Render(u.String())
}
