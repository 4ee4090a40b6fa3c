package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/pricecraft/internal/cli"
	"github.com/theirongolddev/pricecraft/internal/pricing"
	"github.com/theirongolddev/pricecraft/internal/recommend"
	"github.com/theirongolddev/pricecraft/internal/tui/components"
	"github.com/theirongolddev/pricecraft/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// calcField is one editable input of the calculator form.
type calcField struct {
	label string
	field string // pricing.Field* name used by validation errors
	hint  string
	value func(*pricing.RawInputs) *string
}

var calcFields = []calcField{
	{"Material cost", pricing.FieldMaterialCost, "total cost of materials",
		func(r *pricing.RawInputs) *string { return &r.MaterialCost }},
	{"Hours worked", pricing.FieldHoursWorked, "time spent making the item",
		func(r *pricing.RawInputs) *string { return &r.HoursWorked }},
	{"Labor rate", pricing.FieldLaborRate, "what an hour of your work is worth",
		func(r *pricing.RawInputs) *string { return &r.LaborRate }},
	{"Uniqueness", pricing.FieldUniqueness, "1 common to 10 one of a kind",
		func(r *pricing.RawInputs) *string { return &r.Uniqueness }},
	{"Demand", pricing.FieldDemand, "1 niche to 10 sought after",
		func(r *pricing.RawInputs) *string { return &r.Demand }},
	{"Selling price", pricing.FieldSellingPrice, "blank or 0 to auto-calculate",
		func(r *pricing.RawInputs) *string { return &r.SellingPrice }},
}

// calcState tracks the calculator tab.
type calcState struct {
	cursor  int
	editing bool
	naming  bool // typing a preset name
	input   textinput.Model

	raw    pricing.RawInputs
	inputs pricing.Inputs
	result pricing.Result
	errs   map[string]string // field -> message for the value being edited

	origin string // where the working inputs came from
	notice string
}

func newCalcState() calcState {
	return calcState{origin: "defaults"}
}

func newFieldInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 32
	ti.Width = 16
	return ti
}

// syncCalc reloads the form from the reconciler's working inputs.
func (a *App) syncCalc() {
	in := a.rec.Working()
	a.calc.inputs = in
	a.calc.raw = pricing.FromInputs(in)
	if in.AutoPrice() {
		a.calc.raw.SellingPrice = ""
	}
	a.calc.errs = nil
	a.calc.result = a.engine.Calculate(in)
}

// preview parses the form with the value being edited. On success the
// result is recalculated so the cards update as the user types.
func (a *App) preview() (pricing.Inputs, bool) {
	raw := a.calc.raw
	*calcFields[a.calc.cursor].value(&raw) = a.calc.input.Value()

	in, err := pricing.ParseInputs(raw)
	if err != nil {
		a.calc.errs = make(map[string]string)
		for _, fe := range pricing.FieldErrors(err) {
			a.calc.errs[fe.Field] = fe.Msg
		}
		return pricing.Inputs{}, false
	}
	a.calc.errs = nil
	a.calc.result = a.engine.Calculate(in)
	return in, true
}

func (a App) calcKey(key string) (App, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		if a.calc.cursor < len(calcFields)-1 {
			a.calc.cursor++
		}
	case "k", "up":
		if a.calc.cursor > 0 {
			a.calc.cursor--
		}
	case "enter", "e":
		ti := newFieldInput()
		ti.Placeholder = calcFields[a.calc.cursor].hint
		ti.SetValue(*calcFields[a.calc.cursor].value(&a.calc.raw))
		ti.Focus()
		a.calc.input = ti
		a.calc.editing = true
		a.calc.notice = ""
		return a, ti.Cursor.BlinkCmd(), true
	case "d":
		a.rec.ResetToDefaults()
		a.calc.origin = "defaults"
		a.calc.notice = "Reset to defaults"
		a.syncCalc()
	case "r":
		if _, ok := a.rec.ResetToRecommendation(); !ok {
			a.calc.notice = "No recommendation yet. Ask the assistant first."
			return a, nil, true
		}
		cur, _ := a.rec.Current()
		a.calc.origin = originOf(cur)
		a.calc.notice = "Reset to " + a.calc.origin
		a.syncCalc()
	case "1", "2", "3":
		s := pricing.Scenarios[int(key[0]-'1')]
		if err := a.rec.SetWorking(s.Inputs); err != nil {
			a.calc.notice = err.Error()
			return a, nil, true
		}
		a.calc.origin = s.Name
		a.calc.notice = "Loaded example: " + s.Name
		a.syncCalc()
	case "S":
		if a.presets == nil {
			a.calc.notice = presetsUnavailable(a.presetsErr)
			return a, nil, true
		}
		ti := newFieldInput()
		ti.CharLimit = 64
		ti.Width = 30
		ti.Placeholder = "preset name"
		ti.Focus()
		a.calc.input = ti
		a.calc.naming = true
		a.calc.notice = ""
		return a, ti.Cursor.BlinkCmd(), true
	default:
		return a, nil, false
	}
	return a, nil, true
}

func (a App) updateCalcInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.calc.editing = false
		a.calc.naming = false
		a.syncCalc()
		return a, nil

	case "enter":
		if a.calc.naming {
			name := strings.TrimSpace(a.calc.input.Value())
			if name == "" {
				return a, nil
			}
			a.calc.naming = false
			return a, savePresetCmd(a.presets, name, a.rec.Working())
		}

		in, ok := a.preview()
		if !ok {
			return a, nil
		}
		if err := a.rec.SetWorking(in); err != nil {
			a.calc.notice = err.Error()
			return a, nil
		}
		a.calc.editing = false
		a.calc.origin = "custom"
		a.syncCalc()
		return a, nil
	}

	var cmd tea.Cmd
	a.calc.input, cmd = a.calc.input.Update(msg)
	if a.calc.editing {
		a.preview()
	}
	return a, cmd
}

// originOf describes a recommendation as a value source.
func originOf(r recommend.Recommendation) string {
	if r.IsDefault() {
		return "default recommendation"
	}
	return "AI recommendation"
}

func presetsUnavailable(err error) string {
	if err != nil {
		return fmt.Sprintf("Presets unavailable: %s", err)
	}
	return "Presets unavailable"
}

func (a App) renderCalculatorTab(cw int) string {
	form := a.renderCalcForm()
	if a.isCompactLayout() {
		var b strings.Builder
		b.WriteString(components.FocusCard("Inputs", form, cw))
		b.WriteString("\n")
		b.WriteString(a.renderCalcResults(cw))
		return b.String()
	}

	leftW := 46
	rightW := cw - leftW
	left := components.FocusCard("Inputs", form, leftW)
	right := a.renderCalcResults(rightW)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (a App) renderCalcForm() string {
	t := theme.Active
	sym := a.currency()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedLabel := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	selectedValue := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	noticeStyle := lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	in := a.calc.inputs
	display := []string{
		cli.FormatMoney(sym, in.MaterialCost),
		cli.FormatHours(in.HoursWorked),
		cli.FormatMoney(sym, in.LaborRate) + "/h",
		cli.FormatRating(in.Uniqueness),
		cli.FormatRating(in.Demand),
		"auto",
	}
	if !in.AutoPrice() {
		display[5] = cli.FormatMoney(sym, in.SellingPrice)
	}

	var b strings.Builder
	for i, f := range calcFields {
		label := fmt.Sprintf("%-15s", f.label)
		switch {
		case a.calc.editing && i == a.calc.cursor:
			b.WriteString(markerStyle.Render("▸ "))
			b.WriteString(selectedLabel.Render(label))
			b.WriteString(a.calc.input.View())
		case i == a.calc.cursor:
			b.WriteString(markerStyle.Render("▸ "))
			b.WriteString(selectedLabel.Render(label))
			b.WriteString(selectedValue.Render(display[i]))
		default:
			b.WriteString(space.Render("  "))
			b.WriteString(labelStyle.Render(label))
			b.WriteString(valueStyle.Render(display[i]))
		}
		b.WriteString("\n")
		if msg, ok := a.calc.errs[f.field]; ok {
			b.WriteString(errStyle.Render("    " + msg))
			b.WriteString("\n")
		}
	}

	if a.calc.editing {
		b.WriteString("\n")
		b.WriteString(hintStyle.Render(calcFields[a.calc.cursor].hint))
	}
	if a.calc.naming {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Save as "))
		b.WriteString(a.calc.input.View())
	}

	b.WriteString("\n")
	for i, s := range pricing.Scenarios {
		b.WriteString(hintStyle.Render(fmt.Sprintf("[%d] %s  ", i+1, s.Name)))
		if i == 1 {
			b.WriteString("\n")
		}
	}
	if a.calc.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(noticeStyle.Render(a.calc.notice))
	}
	return b.String()
}

func (a App) renderCalcResults(w int) string {
	t := theme.Active
	sym := a.currency()
	r := a.calc.result

	priceLabel := "Suggested price"
	if r.SellingPrice > 0 {
		priceLabel = "Your price"
	}

	metrics := []components.Metric{
		{Label: priceLabel, Value: cli.FormatMoney(sym, r.FinalPrice), Color: t.AccentBright},
		{Label: "Total cost", Value: cli.FormatMoney(sym, r.AdjustedPrice)},
		{
			Label: "Profit",
			Value: cli.FormatMoney(sym, r.ProfitAmount),
			Note:  cli.FormatPercent(r.ProfitMarginPercentage) + " margin",
			Color: t.MarginColor(r.ProfitMarginPercentage),
		},
		{Label: "Markup", Value: cli.FormatPercent(r.MarkupPercentage)},
	}

	var b strings.Builder
	if w < 90 {
		half := components.LayoutRow(w, 2)
		b.WriteString(components.CardRow([]string{
			components.MetricCardRow(metrics[:2], half[0]),
			components.MetricCardRow(metrics[2:], half[1]),
		}))
	} else {
		b.WriteString(components.MetricCardRow(metrics, w))
	}
	b.WriteString("\n")

	widths := components.LayoutRow(w, 2)
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Price Tiers", a.renderTierBars(components.CardInnerWidth(widths[0])), widths[0]),
		components.ContentCard("Cost Breakdown", a.renderBreakdown(), widths[1]),
	}))
	return b.String()
}

func (a App) renderTierBars(inner int) string {
	t := theme.Active
	sym := a.currency()
	r := a.calc.result

	barW := inner - 10 - 12
	if barW < 6 {
		barW = 6
	}
	standard := "Standard"
	if r.SellingPrice > 0 {
		standard = "Yours"
	}

	var b strings.Builder
	b.WriteString(components.ValueBar("Economy", r.EconomyPrice, r.PremiumPrice,
		cli.FormatMoney(sym, r.EconomyPrice), t.Cyan, 9, barW))
	b.WriteString("\n")
	b.WriteString(components.ValueBar(standard, r.FinalPrice, r.PremiumPrice,
		cli.FormatMoney(sym, r.FinalPrice), t.Accent, 9, barW))
	b.WriteString("\n")
	b.WriteString(components.ValueBar("Premium", r.PremiumPrice, r.PremiumPrice,
		cli.FormatMoney(sym, r.PremiumPrice), t.AccentBright, 9, barW))
	b.WriteString("\n\n")
	b.WriteString(components.MarginGauge("Margin", r.ProfitMarginPercentage, 9, barW))
	if r.ProfitAmount < 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).
			Render("Selling price is below total cost."))
	}
	return b.String()
}

func (a App) renderBreakdown() string {
	t := theme.Active
	sym := a.currency()
	r := a.calc.result

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	totalStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)

	rows := []struct {
		label, value string
		total        bool
	}{
		{"Materials", cli.FormatMoney(sym, r.MaterialCost), false},
		{"Labor", cli.FormatMoney(sym, r.LaborCost), false},
		{"Base price", cli.FormatMoney(sym, r.BasePrice), false},
		{"Uniqueness adj.", cli.FormatSignedMoney(sym, r.UniquenessAdjustment), false},
		{"Demand adj.", cli.FormatSignedMoney(sym, r.DemandAdjustment), false},
		{"Total cost", cli.FormatMoney(sym, r.AdjustedPrice), true},
	}

	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		vs := valueStyle
		if row.total {
			vs = totalStyle
		}
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-17s", row.label)))
		b.WriteString(vs.Render(fmt.Sprintf("%12s", row.value)))
	}
	return b.String()
}
