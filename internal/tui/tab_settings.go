package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/pricecraft/internal/cli"
	"github.com/theirongolddev/pricecraft/internal/config"
	"github.com/theirongolddev/pricecraft/internal/pricing"
	"github.com/theirongolddev/pricecraft/internal/tui/components"
	"github.com/theirongolddev/pricecraft/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldProvider = iota
	settingsFieldModel
	settingsFieldAPIKey
	settingsFieldTheme
	settingsFieldCurrency
	settingsFieldUniquenessWeight
	settingsFieldDemandWeight
	settingsFieldEconomyModifier
	settingsFieldPremiumModifier
	settingsFieldMultiplier
	settingsFieldCount // sentinel
)

var settingsLabels = [settingsFieldCount]string{
	"AI Provider",
	"AI Model",
	"API Key",
	"Theme",
	"Currency",
	"Uniqueness Weight",
	"Demand Weight",
	"Economy Modifier",
	"Premium Modifier",
	"Price Multiplier",
}

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message
	saveErr error // non-nil if last save failed
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	return ti
}

func (a App) settingsKey(key string) (App, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		if a.settings.cursor < settingsFieldCount-1 {
			a.settings.cursor++
		}
	case "k", "up":
		if a.settings.cursor > 0 {
			a.settings.cursor--
		}
	case "enter":
		m, cmd := a.settingsStartEdit()
		return m.(App), cmd, true
	default:
		return a, nil, false
	}
	return a, nil, true
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	a.settings.editing = true
	a.settings.saved = false
	a.settings.saveErr = nil

	ti := newSettingsInput()
	w := a.engine.Weights()
	ff := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

	switch a.settings.cursor {
	case settingsFieldProvider:
		ti.Placeholder = "openai, gemini, none"
		ti.SetValue(a.cfg.AI.Provider)
	case settingsFieldModel:
		ti.Placeholder = "blank for the provider default"
		ti.SetValue(a.cfg.AI.Model)
	case settingsFieldAPIKey:
		ti.Placeholder = "sk-..."
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
		ti.SetValue(a.cfg.AI.APIKey)
	case settingsFieldTheme:
		names := make([]string, 0, len(theme.All))
		for _, t := range theme.All {
			names = append(names, t.Name)
		}
		ti.Placeholder = strings.Join(names, ", ")
		ti.SetValue(a.cfg.Appearance.Theme)
	case settingsFieldCurrency:
		ti.Placeholder = "$"
		ti.SetValue(a.cfg.General.CurrencySymbol)
	case settingsFieldUniquenessWeight:
		ti.SetValue(ff(w.UniquenessWeight))
	case settingsFieldDemandWeight:
		ti.SetValue(ff(w.DemandWeight))
	case settingsFieldEconomyModifier:
		ti.SetValue(ff(w.EconomyModifier))
	case settingsFieldPremiumModifier:
		ti.SetValue(ff(w.PremiumModifier))
	case settingsFieldMultiplier:
		ti.SetValue(ff(w.SuggestedPriceMultiplier))
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// applySetting writes one edited value into cfg. A rejected value leaves
// cfg untouched.
func applySetting(cfg *config.Config, field int, val string) error {
	next := *cfg
	parseWeight := func(set func(*pricing.Weights, float64)) error {
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("%s must be a number", settingsLabels[field])
		}
		w, err := next.Weights()
		if err != nil {
			return err
		}
		set(&w, v)
		if err := w.Validate(); err != nil {
			return err
		}
		next.Pricing.SetWeights(w)
		return nil
	}

	var err error
	switch field {
	case settingsFieldProvider:
		next.AI.Provider = strings.ToLower(val)
	case settingsFieldModel:
		next.AI.Model = val
	case settingsFieldAPIKey:
		next.AI.APIKey = val
	case settingsFieldTheme:
		if !theme.Exists(val) {
			return fmt.Errorf("unknown theme %q", val)
		}
		next.Appearance.Theme = val
	case settingsFieldCurrency:
		if val == "" {
			return fmt.Errorf("currency symbol is required")
		}
		next.General.CurrencySymbol = val
	case settingsFieldUniquenessWeight:
		err = parseWeight(func(w *pricing.Weights, v float64) { w.UniquenessWeight = v })
	case settingsFieldDemandWeight:
		err = parseWeight(func(w *pricing.Weights, v float64) { w.DemandWeight = v })
	case settingsFieldEconomyModifier:
		err = parseWeight(func(w *pricing.Weights, v float64) { w.EconomyModifier = v })
	case settingsFieldPremiumModifier:
		err = parseWeight(func(w *pricing.Weights, v float64) { w.PremiumModifier = v })
	case settingsFieldMultiplier:
		err = parseWeight(func(w *pricing.Weights, v float64) { w.SuggestedPriceMultiplier = v })
	}
	if err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*cfg = next
	return nil
}

// settingsSave applies the edit to the config file and to the running app.
// The file copy is loaded fresh so environment overrides are not persisted.
func (a *App) settingsSave() {
	field := a.settings.cursor
	val := strings.TrimSpace(a.settings.input.Value())

	live := a.cfg
	if err := applySetting(&live, field, val); err != nil {
		a.settings.saveErr = err
		return
	}
	fileCfg := loadConfigOrDefault()
	if err := applySetting(&fileCfg, field, val); err != nil {
		a.settings.saveErr = err
		return
	}
	a.settings.saveErr = config.Save(fileCfg)
	a.cfg = live

	switch field {
	case settingsFieldProvider, settingsFieldModel, settingsFieldAPIKey:
		a.rebuildBackend()
	case settingsFieldTheme:
		theme.SetActive(val)
	case settingsFieldUniquenessWeight, settingsFieldDemandWeight, settingsFieldEconomyModifier,
		settingsFieldPremiumModifier, settingsFieldMultiplier:
		w, _ := live.Weights()
		a.engine.UpdateWeights(pricing.WeightUpdate{
			UniquenessWeight:         &w.UniquenessWeight,
			DemandWeight:             &w.DemandWeight,
			EconomyModifier:          &w.EconomyModifier,
			PremiumModifier:          &w.PremiumModifier,
			SuggestedPriceMultiplier: &w.SuggestedPriceMultiplier,
		})
		a.syncCalc()
	}
}

func (a App) settingsValues() [settingsFieldCount]string {
	w := a.engine.Weights()
	ff := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

	model := a.cfg.AI.Model
	if model == "" {
		model = "(provider default)"
	}
	return [settingsFieldCount]string{
		a.cfg.AI.Provider,
		model,
		cli.MaskSecret(config.GetAPIKey(a.cfg)),
		a.cfg.Appearance.Theme,
		a.currency(),
		ff(w.UniquenessWeight),
		ff(w.DemandWeight),
		ff(w.EconomyModifier),
		ff(w.PremiumModifier),
		ff(w.SuggestedPriceMultiplier),
	}
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	sectionStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	values := a.settingsValues()
	innerW := components.CardInnerWidth(cw)

	var formBody strings.Builder
	for i := 0; i < settingsFieldCount; i++ {
		switch i {
		case settingsFieldProvider:
			formBody.WriteString(sectionStyle.Render("Assistant"))
			formBody.WriteString("\n")
		case settingsFieldTheme:
			formBody.WriteString("\n")
			formBody.WriteString(sectionStyle.Render("Display"))
			formBody.WriteString("\n")
		case settingsFieldUniquenessWeight:
			formBody.WriteString("\n")
			formBody.WriteString(sectionStyle.Render("Pricing weights"))
			formBody.WriteString("\n")
		}

		label := fmt.Sprintf("%-18s ", settingsLabels[i]+":")
		switch {
		case a.settings.editing && i == a.settings.cursor:
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(label))
			formBody.WriteString(a.settings.input.View())
		case i == a.settings.cursor:
			marker := markerStyle.Render("▸ ")
			l := selectedLabelStyle.Render(label)
			v := selectedStyle.Render(values[i])
			formBody.WriteString(marker + l + v)
			if pad := innerW - lipgloss.Width(marker) - lipgloss.Width(l) - lipgloss.Width(v); pad > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad)))
			}
		default:
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(label))
			formBody.WriteString(valueStyle.Render(values[i]))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Save failed: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	status := "unavailable"
	if a.backend.Available() {
		status = "ready (" + a.backend.Name() + ")"
	}
	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Assistant:    ") + valueStyle.Render(status) + "\n")
	infoBody.WriteString(labelStyle.Render("Config file:  ") + valueStyle.Render(config.ConfigPath()) + "\n")
	infoBody.WriteString(labelStyle.Render("Presets:      ") + valueStyle.Render(config.PresetDBPath()) + "\n")
	infoBody.WriteString(labelStyle.Render("Log file:     ") + valueStyle.Render(config.LogPath()))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))
	return b.String()
}
