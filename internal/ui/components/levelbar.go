package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/zhongchar/zhongchar/internal/mastery"
	"github.com/zhongchar/zhongchar/internal/ui/theme"
)

// Bar cells per level. Distinct glyphs keep the bar readable without color.
const (
	cellInstantRecall = "█"
	cellKnow          = "▓"
	cellDontKnow      = "░"
)

// LevelBar displays a horizontal bar split by understanding level.
type LevelBar struct {
	Label         string
	DontKnow      int
	Know          int
	InstantRecall int
	Width         int // bar cells, excluding label and totals
}

// NewLevelBar creates a level bar from per-level counts.
func NewLevelBar(label string, counts map[mastery.Level]int, width int) LevelBar {
	return LevelBar{
		Label:         label,
		DontKnow:      counts[mastery.DontKnow],
		Know:          counts[mastery.Know],
		InstantRecall: counts[mastery.InstantRecall],
		Width:         width,
	}
}

// Cells returns how many bar cells each level gets. The three always add up
// to the bar width; an empty bar is all DontKnow.
func (b LevelBar) Cells() (instantRecall, know, dontKnow int) {
	w := max(b.Width, 4)
	total := b.DontKnow + b.Know + b.InstantRecall
	if total <= 0 {
		return 0, 0, w
	}
	instantRecall = w * b.InstantRecall / total
	know = w*(b.InstantRecall+b.Know)/total - instantRecall
	return instantRecall, know, w - instantRecall - know
}

// View renders the bar, mastered cells first.
func (b LevelBar) View() string {
	var sb strings.Builder

	if b.Label != "" {
		sb.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(b.Label) + "  ")
	}

	ir, k, dk := b.Cells()
	sb.WriteString(theme.InstantRecall.Render(strings.Repeat(cellInstantRecall, ir)))
	sb.WriteString(theme.Know.Render(strings.Repeat(cellKnow, k)))
	sb.WriteString(theme.DontKnow.Render(strings.Repeat(cellDontKnow, dk)))

	total := b.DontKnow + b.Know + b.InstantRecall
	sb.WriteString(theme.Label.Render(fmt.Sprintf("  %d/%d", b.InstantRecall, total)))
	return sb.String()
}
