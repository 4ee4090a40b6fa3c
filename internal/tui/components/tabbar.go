package components

import (
	"strings"

	"github.com/theirongolddev/pricecraft/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab is one entry of the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // index of the shortcut letter in Name
}

// Tabs are the TUI tabs in display order.
var Tabs = []Tab{
	{Name: "Calculator", Key: 'c', KeyPos: 0},
	{Name: "Assistant", Key: 'a', KeyPos: 0},
	{Name: "Presets", Key: 'p', KeyPos: 0},
	{Name: "Settings", Key: 's', KeyPos: 0},
}

const tabSeparator = "│"

func renderTab(tab Tab, active bool) string {
	t := theme.Active

	if active {
		return lipgloss.NewStyle().
			Foreground(t.Accent).
			Background(t.SurfaceBright).
			Bold(true).
			Padding(0, 1).
			Render(tab.Name)
	}

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	key := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	bracket := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	name := tab.Name
	pos := tab.KeyPos
	if pos < 0 || pos >= len(name) {
		pos = 0
	}
	return base.Render(" "+name[:pos]) +
		bracket.Render("[") + key.Render(name[pos:pos+1]) + bracket.Render("]") +
		base.Render(name[pos+1:]+" ")
}

// TabVisualWidth returns the rendered width of a tab.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(renderTab(tab, active))
}

// RenderTabBar renders a single-line tab bar padded to width.
func RenderTabBar(activeIdx, width int) string {
	t := theme.Active
	sep := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface).Render(tabSeparator)

	parts := make([]string, 0, len(Tabs))
	for i, tab := range Tabs {
		parts = append(parts, renderTab(tab, i == activeIdx))
	}
	bar := strings.Join(parts, sep)

	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(bar)
}

// TabIdxByKey returns the tab index for a shortcut key, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
