package components

import (
	"fmt"

	"github.com/theirongolddev/pricecraft/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// marginScale is the margin shown as a full gauge.
const marginScale = 100.0

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func solidBar(color lipgloss.Color, width int) progress.Model {
	if width < 4 {
		width = 4
	}
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(theme.Active.TextDim)
	return bar
}

// MarginGauge renders a labeled profit margin gauge colored by health.
// Negative margins show an empty red gauge.
func MarginGauge(label string, margin float64, labelW, barWidth int) string {
	t := theme.Active
	color := t.MarginColor(margin)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		space +
		solidBar(color, barWidth).ViewAs(clamp01(margin/marginScale)) +
		space +
		pctStyle.Render(fmt.Sprintf("%.2f%%", margin))
}

// ValueBar renders a labeled bar of value against maxValue followed by
// its formatted text.
func ValueBar(label string, value, maxValue float64, text string, color lipgloss.Color, labelW, barWidth int) string {
	t := theme.Active

	pct := 0.0
	if maxValue > 0 {
		pct = clamp01(value / maxValue)
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		space +
		solidBar(color, barWidth).ViewAs(pct) +
		space +
		textStyle.Render(text)
}
