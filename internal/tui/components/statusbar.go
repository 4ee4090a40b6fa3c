package components

import (
	"strings"

	"github.com/theirongolddev/pricecraft/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom bar with key hints on the left and
// status on the right.
func RenderStatusBar(width int, hints, status string) string {
	t := theme.Active

	hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	statusStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	left := hintStyle.Render(" " + hints)
	right := statusStyle.Render(status + " ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	fill := lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", gap))

	return lipgloss.NewStyle().MaxWidth(width).Render(left + fill + right)
}
