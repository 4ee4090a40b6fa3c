package components

import (
	"strings"
	"testing"

	"github.com/theirongolddev/pricecraft/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 7} {
		widths := LayoutRow(100, n)
		sum := 0
		for _, w := range widths {
			sum += w
		}
		if sum != 100 {
			t.Fatalf("n=%d: widths %v sum to %d", n, widths, sum)
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Fatal("n=0 should return nil")
	}
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("test setup: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}

	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Errorf("line %d has no ANSI codes: %q", i, lines[i])
		}
	}
}

func TestCardRowWidthConsistency(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "A", 30)
	tallCard := ContentCard("Tall", "A\nB\nC\nD\nE\nF", 20)

	joined := CardRow([]string{tallCard, shortCard})
	want := lipgloss.Width(tallCard) + lipgloss.Width(shortCard)
	for i, line := range strings.Split(joined, "\n") {
		if w := lipgloss.Width(line); w != want {
			t.Errorf("line %d width = %d, want %d", i, w, want)
		}
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")

	row := MetricCardRow([]Metric{
		{Label: "Price", Value: "$79.10"},
		{Label: "Profit", Value: "$39.55", Note: "50.00% margin"},
		{Label: "Markup", Value: "100.00%"},
	}, 90)

	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 90 {
			t.Errorf("line %d width = %d, want 90", i, w)
		}
	}
	if !strings.Contains(row, "$79.10") || !strings.Contains(row, "50.00% margin") {
		t.Fatalf("metric values missing:\n%s", row)
	}
}

func TestTabVisualWidth(t *testing.T) {
	for _, tab := range Tabs {
		if got, want := TabVisualWidth(tab, true), len(tab.Name)+2; got != want {
			t.Errorf("active %s width = %d, want %d", tab.Name, got, want)
		}
		if got, want := TabVisualWidth(tab, false), len(tab.Name)+4; got != want {
			t.Errorf("inactive %s width = %d, want %d", tab.Name, got, want)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if TabIdxByKey('c') != 0 || TabIdxByKey('s') != 3 {
		t.Fatal("unexpected tab shortcut mapping")
	}
	if TabIdxByKey('z') != -1 {
		t.Fatal("unknown key should map to -1")
	}
}

func TestMarginGaugeShowsPercent(t *testing.T) {
	theme.SetActive("flexoki-dark")

	for _, m := range []float64{-31.83, 0, 50, 140} {
		g := MarginGauge("Margin", m, 8, 20)
		if !strings.Contains(g, "%") {
			t.Fatalf("gauge for %v missing percent: %q", m, g)
		}
	}
	if !strings.Contains(MarginGauge("Margin", -31.83, 8, 20), "-31.83%") {
		t.Fatal("negative margin text missing")
	}
}

func TestStatusBarFitsWidth(t *testing.T) {
	theme.SetActive("terminal")
	defer theme.SetActive("flexoki-dark")

	bar := RenderStatusBar(80, "[?]help  [q]uit", "AI: openai")
	if w := lipgloss.Width(bar); w != 80 {
		t.Fatalf("status bar width = %d, want 80", w)
	}
}
