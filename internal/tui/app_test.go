package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/pricecraft/internal/config"
	"github.com/theirongolddev/pricecraft/internal/pricing"
	"github.com/theirongolddev/pricecraft/internal/recommend"
	"github.com/theirongolddev/pricecraft/internal/tui/components"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func newTestApp() App {
	return NewApp(Options{Config: config.DefaultConfig()})
}

func press(t *testing.T, a App, keys ...string) App {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ := a.Update(msg)
		a = m.(App)
	}
	return a
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	n := len(components.Tabs)
	for active := 0; active < n; active++ {
		a := App{activeTab: active}
		pos := 0
		for i, tab := range components.Tabs {
			w := components.TabVisualWidth(tab, i == active)
			if got := a.tabAtX(pos + w/2); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, pos+w/2, got, i)
			}
			pos += w
			if i < n-1 {
				pos++ // separator
			}
		}
		if got := a.tabAtX(pos + 5); got != -1 {
			t.Fatalf("x past the last tab -> %d, want -1", got)
		}
	}
}

func TestNewAppStartsAtDefaults(t *testing.T) {
	a := newTestApp()
	if a.calc.inputs != pricing.DefaultInputs() {
		t.Fatalf("inputs = %+v", a.calc.inputs)
	}
	if a.calc.origin != "defaults" {
		t.Fatalf("origin = %q", a.calc.origin)
	}
	if a.calc.raw.SellingPrice != "" {
		t.Fatalf("auto selling price should edit as blank, got %q", a.calc.raw.SellingPrice)
	}
}

func TestCalculatorEditRecalculates(t *testing.T) {
	a := press(t, newTestApp(), "enter")
	if !a.calc.editing {
		t.Fatal("enter should start editing")
	}

	a.calc.input.SetValue("5")
	a = press(t, a, "enter")

	if a.calc.editing {
		t.Fatal("valid value should end editing")
	}
	if got := a.rec.Working().MaterialCost; got != 5 {
		t.Fatalf("working material cost = %v, want 5", got)
	}
	if a.calc.result.FinalPrice != 70 {
		t.Fatalf("final price = %v, want 70", a.calc.result.FinalPrice)
	}
	if a.calc.origin != "custom" {
		t.Fatalf("origin = %q", a.calc.origin)
	}
}

func TestCalculatorRejectsInvalidEdit(t *testing.T) {
	a := press(t, newTestApp(), "j", "j", "j", "enter") // uniqueness
	a.calc.input.SetValue("11")
	a = press(t, a, "enter")

	if !a.calc.editing {
		t.Fatal("invalid value should keep the field in edit mode")
	}
	if _, ok := a.calc.errs[pricing.FieldUniqueness]; !ok {
		t.Fatalf("missing uniqueness error, errs = %v", a.calc.errs)
	}
	if a.rec.Working() != pricing.DefaultInputs() {
		t.Fatal("working inputs changed by an invalid edit")
	}

	a = press(t, a, "esc")
	if a.calc.editing || a.calc.errs != nil {
		t.Fatal("esc should cancel the edit and clear errors")
	}
}

func TestScenarioHotkeys(t *testing.T) {
	a := press(t, newTestApp(), "1")
	if a.calc.result.FinalPrice != 79.10 {
		t.Fatalf("jewelry final price = %v, want 79.10", a.calc.result.FinalPrice)
	}
	if a.calc.origin != "Simple Jewelry" {
		t.Fatalf("origin = %q", a.calc.origin)
	}

	a = press(t, a, "d")
	if a.rec.Working() != pricing.DefaultInputs() {
		t.Fatal("d should restore defaults")
	}
}

func TestResetToRecommendationWithoutOne(t *testing.T) {
	a := press(t, newTestApp(), "r")
	if !strings.Contains(a.calc.notice, "No recommendation") {
		t.Fatalf("notice = %q", a.calc.notice)
	}
}

func TestRecommendWithoutBackendFallsBack(t *testing.T) {
	a := newTestApp()

	msg := recommendCmd(a.rec, a.conv, time.Second)()
	rm, ok := msg.(recommendationMsg)
	if !ok {
		t.Fatalf("got %T, want recommendationMsg", msg)
	}
	if !rm.rec.IsDefault() {
		t.Fatal("recommendation without a backend must be marked default")
	}
	if !errors.Is(rm.rec.Reason, recommend.ErrUnavailable) {
		t.Fatalf("reason = %v", rm.rec.Reason)
	}
}

func TestApplyRecommendation(t *testing.T) {
	a := newTestApp()
	a.activeTab = tabAssistant

	rec := recommend.Recommendation{
		MaterialCost: 25, HoursWorked: 8, LaborRate: 20,
		Uniqueness: 9, Demand: 5, SellingPrice: 300,
		Explanation: "Large original piece.",
		Source:      recommend.SourceAI,
	}
	m, _ := a.Update(recommendationMsg{rec: rec})
	a = m.(App)
	if a.assist.pending == nil {
		t.Fatal("recommendation should be pending")
	}

	a = press(t, a, "A")
	if a.activeTab != tabCalculator {
		t.Fatal("applying should switch to the calculator")
	}
	if a.calc.origin != "AI recommendation" {
		t.Fatalf("origin = %q", a.calc.origin)
	}
	if got := a.rec.Working(); got.SellingPrice != 300 || got.HoursWorked != 8 {
		t.Fatalf("working = %+v", got)
	}
	if a.calc.result.FinalPrice != 300 {
		t.Fatalf("final price = %v, want the user price", a.calc.result.FinalPrice)
	}

	a = press(t, a, "1", "r")
	if a.rec.Working().HoursWorked != 8 {
		t.Fatal("r should restore the applied recommendation")
	}
}

func TestRebuildBackendKeepsRecommendation(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	a := newTestApp()
	rec := recommend.Recommendation{
		MaterialCost: 25, HoursWorked: 8, LaborRate: 20,
		Uniqueness: 9, Demand: 5,
		Source: recommend.SourceAI,
	}
	if _, err := a.rec.Accept(rec); err != nil {
		t.Fatal(err)
	}
	a = press(t, a, "1")
	working := a.rec.Working()

	a.rebuildBackend()

	if _, ok := a.rec.Current(); !ok {
		t.Fatal("recommendation baseline lost after backend rebuild")
	}
	if got := a.rec.Working(); got != working {
		t.Fatalf("working = %+v, want %+v", got, working)
	}
	a = press(t, a, "r")
	if a.rec.Working().HoursWorked != 8 {
		t.Fatal("r should still restore the recommendation")
	}
}

func TestAssistantInputNeedsBackend(t *testing.T) {
	a := newTestApp()
	a.activeTab = tabAssistant
	a = press(t, a, "i")
	if a.assist.typing {
		t.Fatal("typing should not start without a backend")
	}
	if a.assist.notice == "" {
		t.Fatal("expected a notice explaining the assistant is off")
	}
}

func TestApplySetting(t *testing.T) {
	cfg := config.DefaultConfig()

	if err := applySetting(&cfg, settingsFieldMultiplier, "3"); err != nil {
		t.Fatal(err)
	}
	w, err := cfg.Weights()
	if err != nil || w.SuggestedPriceMultiplier != 3 {
		t.Fatalf("weights = %+v, %v", w, err)
	}

	if err := applySetting(&cfg, settingsFieldDemandWeight, "-1"); err == nil {
		t.Fatal("negative weight accepted")
	}
	if err := applySetting(&cfg, settingsFieldDemandWeight, "lots"); err == nil {
		t.Fatal("non-numeric weight accepted")
	}
	if err := applySetting(&cfg, settingsFieldTheme, "neon"); err == nil {
		t.Fatal("unknown theme accepted")
	}
	before := cfg.AI.Provider
	if err := applySetting(&cfg, settingsFieldProvider, "claude"); err == nil {
		t.Fatal("unknown provider accepted")
	}
	if cfg.AI.Provider != before {
		t.Fatalf("rejected provider left behind: %q", cfg.AI.Provider)
	}
	if w, _ := cfg.Weights(); w.DemandWeight != pricing.DefaultWeights().DemandWeight {
		t.Fatalf("rejected weight left behind: %v", w.DemandWeight)
	}
	if err := applySetting(&cfg, settingsFieldCurrency, "€"); err != nil || cfg.General.CurrencySymbol != "€" {
		t.Fatalf("currency not applied: %v", err)
	}
}

func TestSetupValuesApply(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AI.APIKey = "existing"

	vals := SetupValuesFrom(cfg)
	vals.Provider = config.ProviderGemini
	vals.Theme = "tokyo-night"
	vals.Currency = " £ "

	got := vals.Apply(cfg)
	if got.AI.Provider != config.ProviderGemini || got.Appearance.Theme != "tokyo-night" {
		t.Fatalf("setup not applied: %+v", got)
	}
	if got.AI.APIKey != "existing" {
		t.Fatal("blank key answer should keep the existing key")
	}
	if got.General.CurrencySymbol != "£" {
		t.Fatalf("currency = %q", got.General.CurrencySymbol)
	}

	vals.Theme = "neon"
	if vals.Apply(cfg).Appearance.Theme != cfg.Appearance.Theme {
		t.Fatal("unknown theme should be ignored")
	}
}

func TestViewRendersEachTab(t *testing.T) {
	a := newTestApp()
	m, _ := a.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	a = press(t, m.(App), "1")

	view := a.View()
	for _, want := range []string{"Calculator", "Inputs", "$79.10", "Cost Breakdown"} {
		if !strings.Contains(view, want) {
			t.Fatalf("calculator view missing %q", want)
		}
	}

	for _, tab := range []int{tabAssistant, tabPresets, tabSettings} {
		a.activeTab = tab
		if out := a.View(); lipgloss.Height(out) != 40 {
			t.Fatalf("tab %d view height = %d, want 40", tab, lipgloss.Height(out))
		}
	}
}

func TestViewTooNarrow(t *testing.T) {
	m, _ := newTestApp().Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	if !strings.Contains(m.View(), "too narrow") {
		t.Fatal("expected the narrow terminal message")
	}
}
