package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/pricecraft/internal/cli"
	"github.com/theirongolddev/pricecraft/internal/store"
	"github.com/theirongolddev/pricecraft/internal/tui/components"
	"github.com/theirongolddev/pricecraft/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// presetsState tracks the presets tab.
type presetsState struct {
	list          []store.Preset
	cursor        int
	err           error
	notice        string
	confirmDelete bool
}

func (a App) selectedPreset() (store.Preset, bool) {
	if a.library.cursor < 0 || a.library.cursor >= len(a.library.list) {
		return store.Preset{}, false
	}
	return a.library.list[a.library.cursor], true
}

func (a App) presetsKey(key string) (App, tea.Cmd, bool) {
	if a.library.confirmDelete {
		a.library.confirmDelete = false
		p, ok := a.selectedPreset()
		if key == "y" && ok {
			return a, deletePresetCmd(a.presets, p.ID), true
		}
		a.library.notice = ""
		return a, nil, true
	}

	switch key {
	case "j", "down":
		if a.library.cursor < len(a.library.list)-1 {
			a.library.cursor++
		}
	case "k", "up":
		if a.library.cursor > 0 {
			a.library.cursor--
		}
	case "enter":
		p, ok := a.selectedPreset()
		if !ok {
			return a, nil, true
		}
		if err := a.rec.SetWorking(p.Inputs); err != nil {
			a.library.notice = err.Error()
			return a, nil, true
		}
		a.calc.origin = "preset " + p.Name
		a.calc.notice = fmt.Sprintf("Loaded preset %q", p.Name)
		a.syncCalc()
		a.activeTab = tabCalculator
	case "d":
		p, ok := a.selectedPreset()
		if !ok {
			return a, nil, true
		}
		a.library.confirmDelete = true
		a.library.notice = fmt.Sprintf("Delete %q? [y] to confirm", p.Name)
	case "r":
		if a.presets != nil {
			return a, loadPresetsCmd(a.presets), true
		}
	default:
		return a, nil, false
	}
	return a, nil, true
}

func (a App) renderPresetsTab(cw int) string {
	t := theme.Active
	sym := a.currency()

	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	headStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	noticeStyle := lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Surface)
	errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)

	if a.presets == nil {
		return components.ContentCard("Presets", errStyle.Render(presetsUnavailable(a.presetsErr)), cw)
	}

	inner := components.CardInnerWidth(cw)
	nameW := inner - 12 - 12 - 18
	if nameW < 12 {
		nameW = 12
	}

	var b strings.Builder
	switch {
	case a.library.err != nil:
		b.WriteString(errStyle.Render(fmt.Sprintf("Could not load presets: %s", a.library.err)))
	case len(a.library.list) == 0:
		b.WriteString(dimStyle.Render("No presets yet. Press [S] on the Calculator tab to save one."))
	default:
		b.WriteString(headStyle.Render(fmt.Sprintf("%-*s %11s %11s %17s", nameW, "Name", "Cost", "Price", "Updated")))
		b.WriteString("\n")
		for i, p := range a.library.list {
			r := a.engine.Calculate(p.Inputs)
			line := fmt.Sprintf("%-*s %11s %11s %17s",
				nameW, truncStr(p.Name, nameW),
				cli.FormatMoney(sym, r.AdjustedPrice),
				cli.FormatMoney(sym, r.FinalPrice),
				p.UpdatedAt.Local().Format("2006-01-02 15:04"))
			if i == a.library.cursor {
				b.WriteString(selStyle.Render(line))
			} else {
				b.WriteString(rowStyle.Render(line))
			}
			b.WriteString("\n")
		}
	}
	if a.library.notice != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(a.library.notice))
	}

	out := components.FocusCard(fmt.Sprintf("Presets (%d)", len(a.library.list)), b.String(), cw)

	if p, ok := a.selectedPreset(); ok {
		in := p.Inputs
		selling := "auto"
		if !in.AutoPrice() {
			selling = cli.FormatMoney(sym, in.SellingPrice)
		}
		var d strings.Builder
		fmt.Fprintf(&d, "Materials %s   Hours %s   Rate %s/h\n",
			cli.FormatMoney(sym, in.MaterialCost), cli.FormatHours(in.HoursWorked), cli.FormatMoney(sym, in.LaborRate))
		fmt.Fprintf(&d, "Uniqueness %s   Demand %s   Selling price %s",
			cli.FormatRating(in.Uniqueness), cli.FormatRating(in.Demand), selling)
		body := rowStyle.Render(d.String())
		if p.Notes != "" {
			body += "\n" + dimStyle.Render(p.Notes)
		}
		out += "\n" + components.ContentCard(p.Name, body, cw)
	}
	return out
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
