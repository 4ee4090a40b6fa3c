// Package tui implements the interactive pricecraft calculator.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/pricecraft/internal/config"
	"github.com/theirongolddev/pricecraft/internal/logging"
	"github.com/theirongolddev/pricecraft/internal/pricing"
	"github.com/theirongolddev/pricecraft/internal/recommend"
	"github.com/theirongolddev/pricecraft/internal/recommend/provider"
	"github.com/theirongolddev/pricecraft/internal/store"
	"github.com/theirongolddev/pricecraft/internal/tui/components"
	"github.com/theirongolddev/pricecraft/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const (
	tabCalculator = iota
	tabAssistant
	tabPresets
	tabSettings
)

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5
)

// Options configures NewApp.
type Options struct {
	Config  config.Config
	Backend recommend.Backend
	// Presets may be nil when the database could not be opened; PresetsErr
	// then says why.
	Presets    *store.Store
	PresetsErr error
	NeedSetup  bool
}

// App is the root bubbletea model.
type App struct {
	cfg     config.Config
	engine  *pricing.Engine
	rec     *recommend.Reconciler
	conv    *recommend.Conversation
	backend recommend.Backend

	presets    *store.Store
	presetsErr error

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Per-tab state
	calc     calcState
	assist   assistState
	library  presetsState
	settings settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues

	spinner spinner.Model
}

// NewApp creates the TUI model.
func NewApp(opts Options) App {
	cfg := opts.Config

	weights, err := cfg.Weights()
	if err != nil {
		weights = pricing.DefaultWeights()
	}
	defaults, err := cfg.DefaultInputs()
	if err != nil {
		defaults = pricing.DefaultInputs()
	}
	backend := opts.Backend
	if backend == nil {
		backend = recommend.Unavailable{}
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	a := App{
		cfg:        cfg,
		engine:     pricing.NewEngine(weights),
		rec:        recommend.NewReconciler(backend, defaults),
		conv:       recommend.NewConversation(backend),
		backend:    backend,
		presets:    opts.Presets,
		presetsErr: opts.PresetsErr,
		calc:       newCalcState(),
		assist:     newAssistState(),
		spinner:    sp,
	}
	a.watchWorking()
	a.syncCalc()

	if opts.NeedSetup {
		vals := SetupValuesFrom(cfg)
		a.setupVals = &vals
		a.setupForm = NewSetupForm(a.setupVals)
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion}
	if a.presets != nil {
		cmds = append(cmds, loadPresetsCmd(a.presets))
	}
	if a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	}
	return tea.Batch(cmds...)
}

// watchWorking logs every change of the working inputs.
func (a App) watchWorking() {
	a.rec.Subscribe(func(in pricing.Inputs) {
		logging.L().Debug("working inputs changed",
			logging.Float64("material_cost", in.MaterialCost),
			logging.Float64("hours_worked", in.HoursWorked),
			logging.Float64("labor_rate", in.LaborRate),
			logging.Float64("uniqueness", in.Uniqueness),
			logging.Float64("demand", in.Demand),
			logging.Float64("selling_price", in.SellingPrice),
		)
	})
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if a.showHelp || a.setupForm != nil {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabAssistant {
				a.assist.scroll++
			}
		case tea.MouseButtonWheelDown:
			if a.activeTab == tabAssistant && a.assist.scroll > 0 {
				a.assist.scroll--
			}
		case tea.MouseButtonLeft:
			if msg.Action == tea.MouseActionPress && msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					return a.switchTab(tab)
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case chatReplyMsg:
		a.assist.waiting = false
		a.assist.err = msg.err
		a.assist.scroll = 0
		return a, nil

	case recommendationMsg:
		a.assist.recommending = false
		rec := msg.rec
		a.assist.pending = &rec
		a.assist.err = nil
		return a, nil

	case presetsLoadedMsg:
		a.library.list = msg.presets
		a.library.err = msg.err
		if a.library.cursor >= len(a.library.list) {
			a.library.cursor = max(0, len(a.library.list)-1)
		}
		return a, nil

	case presetSavedMsg:
		if msg.err != nil {
			a.calc.notice = fmt.Sprintf("Could not save preset: %s", msg.err)
			return a, nil
		}
		a.calc.notice = fmt.Sprintf("Saved preset %q", msg.preset.Name)
		return a, loadPresetsCmd(a.presets)

	case presetDeletedMsg:
		if msg.err != nil {
			a.library.notice = fmt.Sprintf("Could not delete: %s", msg.err)
			return a, nil
		}
		a.library.notice = fmt.Sprintf("Deleted %q", msg.name)
		return a, loadPresetsCmd(a.presets)

	case spinner.TickMsg:
		if a.busy() {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages (cursor blinks) to whatever has focus.
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a.forwardToFocused(msg)
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	// First-run setup intercepts all keys
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	// Text entry modes own the keyboard
	switch {
	case a.activeTab == tabCalculator && (a.calc.editing || a.calc.naming):
		return a.updateCalcInput(msg)
	case a.activeTab == tabAssistant && a.assist.typing:
		return a.updateAssistInput(msg)
	case a.activeTab == tabSettings && a.settings.editing:
		return a.updateSettingsInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	var (
		handled bool
		cmd     tea.Cmd
	)
	switch a.activeTab {
	case tabCalculator:
		a, cmd, handled = a.calcKey(key)
	case tabAssistant:
		a, cmd, handled = a.assistKey(key)
	case tabPresets:
		a, cmd, handled = a.presetsKey(key)
	case tabSettings:
		a, cmd, handled = a.settingsKey(key)
	}
	if handled {
		return a, cmd
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "left", "shift+tab":
		return a.switchTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
	case "right", "tab":
		return a.switchTab((a.activeTab + 1) % len(components.Tabs))
	}
	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			return a.switchTab(idx)
		}
	}
	return a, nil
}

// switchTab activates a tab and starts whatever the tab needs.
func (a App) switchTab(idx int) (tea.Model, tea.Cmd) {
	a.activeTab = idx
	switch idx {
	case tabAssistant:
		return a.ensureGreeting()
	case tabPresets:
		if a.presets != nil {
			return a, loadPresetsCmd(a.presets)
		}
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.saveSetupConfig()
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

// saveSetupConfig persists the setup answers and applies them to the
// running app.
func (a *App) saveSetupConfig() {
	fileCfg := loadConfigOrDefault()
	if err := config.Save(a.setupVals.Apply(fileCfg)); err != nil {
		logging.L().Warn("saving setup config failed", logging.Error(err))
		a.calc.notice = fmt.Sprintf("Could not save config: %s", err)
	}

	a.cfg = a.setupVals.Apply(a.cfg)
	theme.SetActive(a.cfg.Appearance.Theme)
	a.rebuildBackend()
}

// rebuildBackend swaps in the backend described by the current config. The
// working inputs survive, the conversation starts over.
func (a *App) rebuildBackend() {
	b, err := provider.New(context.Background(), a.cfg)
	if err != nil {
		logging.L().Warn("assistant backend unavailable", logging.Error(err))
		b = recommend.Unavailable{Why: err.Error()}
	}

	working := a.rec.Working()
	current, hasCurrent := a.rec.Current()
	a.backend = b
	a.rec = recommend.NewReconciler(b, a.rec.Defaults())
	if hasCurrent {
		if _, err := a.rec.Accept(current); err != nil {
			logging.L().Warn("dropping recommendation baseline", logging.Error(err))
		}
	}
	_ = a.rec.SetWorking(working)
	a.watchWorking()
	a.conv = recommend.NewConversation(b)
	a.assist = newAssistState()
}

func (a App) forwardToFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case a.calc.editing || a.calc.naming:
		a.calc.input, cmd = a.calc.input.Update(msg)
	case a.assist.typing:
		a.assist.input, cmd = a.assist.input.Update(msg)
	case a.settings.editing:
		a.settings.input, cmd = a.settings.input.Update(msg)
	}
	return a, cmd
}

func (a App) busy() bool {
	return a.assist.waiting || a.assist.recommending
}

// aiTimeout bounds a single assistant call.
func (a App) aiTimeout() time.Duration {
	if a.cfg.AI.TimeoutSec > 0 {
		return time.Duration(a.cfg.AI.TimeoutSec) * time.Second
	}
	return 60 * time.Second
}

func (a App) currency() string {
	if a.cfg.General.CurrencySymbol == "" {
		return "$"
	}
	return a.cfg.General.CurrencySymbol
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  pricecraft needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"c a p s", "Jump to tab"},
			{"← → Tab", "Previous / Next tab"},
			{"j k", "Move selection"},
		}},
		{"Calculator", []struct{ key, desc string }{
			{"Enter", "Edit field / Confirm"},
			{"Esc", "Cancel edit"},
			{"1 2 3", "Load example scenario"},
			{"d", "Reset to defaults"},
			{"r", "Reset to recommendation"},
			{"S", "Save as preset"},
		}},
		{"Assistant", []struct{ key, desc string }{
			{"i", "Write a message"},
			{"g", "Get a recommendation"},
			{"A", "Apply recommendation"},
			{"n", "New conversation"},
		}},
		{"General", []struct{ key, desc string }{
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)
	statusBar := components.RenderStatusBar(w, a.statusHints(), a.statusText())

	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case tabCalculator:
		content = a.renderCalculatorTab(cw)
	case tabAssistant:
		content = a.renderAssistantTab(cw, contentH)
	case tabPresets:
		content = a.renderPresetsTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) statusHints() string {
	switch a.activeTab {
	case tabCalculator:
		if a.calc.editing || a.calc.naming {
			return "[Enter]confirm  [Esc]cancel"
		}
		return "[Enter]edit  [d]efaults  [r]ecommended  [S]ave  [?]help  [q]uit"
	case tabAssistant:
		if a.assist.typing {
			return "[Enter]send  [Esc]done"
		}
		return "[i]nput  [g]et recommendation  [A]pply  [n]ew  [?]help"
	case tabPresets:
		return "[Enter]load  [d]elete  [r]eload  [?]help  [q]uit"
	}
	return "[Enter]edit  [?]help  [q]uit"
}

func (a App) statusText() string {
	ai := "AI: off"
	if a.backend.Available() {
		ai = "AI: " + a.backend.Name()
		if a.cfg.AI.Model != "" {
			ai += " " + a.cfg.AI.Model
		}
	}
	if a.busy() {
		ai = a.spinner.View() + " " + ai
	}
	return fmt.Sprintf("Values: %s │ %s", a.calc.origin, ai)
}

// ─── Helpers ────────────────────────────────────────────────────

// loadConfigOrDefault loads the config file, returning defaults on error.
// Settings edits go through it so env overrides never reach the file.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the widths used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
