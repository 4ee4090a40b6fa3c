package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/pricecraft/internal/cli"
	"github.com/theirongolddev/pricecraft/internal/recommend"
	"github.com/theirongolddev/pricecraft/internal/tui/components"
	"github.com/theirongolddev/pricecraft/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// assistState tracks the assistant tab.
type assistState struct {
	input        textinput.Model
	typing       bool
	waiting      bool // chat turn in flight
	recommending bool // recommendation in flight
	greeted      bool
	pending      *recommend.Recommendation // last recommendation, not yet applied
	err          error
	scroll       int // lines scrolled up from the bottom of the transcript
	notice       string
}

func newAssistState() assistState {
	ti := textinput.New()
	ti.Placeholder = "Describe your product, materials, time spent..."
	ti.CharLimit = 1000
	ti.Width = 60
	return assistState{input: ti}
}

// ensureGreeting opens the conversation the first time the tab is shown.
func (a App) ensureGreeting() (tea.Model, tea.Cmd) {
	if a.assist.greeted || a.assist.waiting || !a.backend.Available() || a.conv.Turns() > 1 {
		return a, nil
	}
	a.assist.greeted = true
	a.assist.waiting = true
	return a, tea.Batch(
		sendChatCmd(a.conv, recommend.OpeningMessage, a.aiTimeout()),
		a.spinner.Tick,
	)
}

func (a App) assistKey(key string) (App, tea.Cmd, bool) {
	switch key {
	case "i", "enter":
		if !a.backend.Available() {
			a.assist.notice = "The assistant is not configured. Press [g] for default values."
			return a, nil, true
		}
		a.assist.typing = true
		a.assist.notice = ""
		return a, a.assist.input.Focus(), true

	case "g":
		if a.assist.recommending {
			return a, nil, true
		}
		a.assist.recommending = true
		a.assist.notice = ""
		return a, tea.Batch(recommendCmd(a.rec, a.conv, a.aiTimeout()), a.spinner.Tick), true

	case "A":
		if a.assist.pending == nil {
			a.assist.notice = "No recommendation to apply. Press [g] first."
			return a, nil, true
		}
		rec := *a.assist.pending
		if _, err := a.rec.Accept(rec); err != nil {
			a.assist.notice = fmt.Sprintf("Could not apply: %s", err)
			return a, nil, true
		}
		a.assist.pending = nil
		a.calc.origin = originOf(rec)
		a.calc.notice = "Applied " + a.calc.origin
		a.syncCalc()
		a.activeTab = tabCalculator
		return a, nil, true

	case "n":
		if a.busy() {
			return a, nil, true
		}
		a.conv.Reset()
		a.assist = newAssistState()
		m, cmd := a.ensureGreeting()
		return m.(App), cmd, true

	case "k", "up":
		a.assist.scroll++
		return a, nil, true
	case "j", "down":
		if a.assist.scroll > 0 {
			a.assist.scroll--
		}
		return a, nil, true
	}
	return a, nil, false
}

func (a App) updateAssistInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.assist.typing = false
		a.assist.input.Blur()
		return a, nil
	case "enter":
		text := strings.TrimSpace(a.assist.input.Value())
		if text == "" || a.assist.waiting {
			return a, nil
		}
		a.assist.input.Reset()
		a.assist.waiting = true
		a.assist.err = nil
		a.assist.scroll = 0
		return a, tea.Batch(sendChatCmd(a.conv, text, a.aiTimeout()), a.spinner.Tick)
	}

	var cmd tea.Cmd
	a.assist.input, cmd = a.assist.input.Update(msg)
	return a, cmd
}

func (a App) renderAssistantTab(cw, h int) string {
	recCard := a.renderRecommendationCard(cw)
	inputCard := a.renderAssistInput(cw)

	transcriptH := h - lipgloss.Height(recCard) - lipgloss.Height(inputCard) - 3
	if transcriptH < 3 {
		transcriptH = 3
	}
	transcript := components.ContentCard("Conversation",
		a.renderTranscript(components.CardInnerWidth(cw), transcriptH), cw)

	return transcript + "\n" + inputCard + "\n" + recCard
}

func (a App) renderTranscript(inner, h int) string {
	t := theme.Active

	userStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	botStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(inner)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Width(inner)

	if u, ok := a.backend.(recommend.Unavailable); ok {
		why := "not configured"
		if u.Why != "" {
			why = u.Why
		}
		return dimStyle.Render("Assistant unavailable: "+why) + "\n" +
			dimStyle.Render("Recommendations will use default values. Run `pricecraft setup` to enable it.")
	}

	var lines []string
	for _, m := range a.conv.Messages() {
		switch m.Role {
		case recommend.RoleUser:
			lines = append(lines, userStyle.Render("You"))
		case recommend.RoleAssistant:
			lines = append(lines, botStyle.Render("Assistant"))
		default:
			continue
		}
		lines = append(lines, strings.Split(textStyle.Render(m.Content), "\n")...)
		lines = append(lines, "")
	}
	if a.assist.waiting {
		lines = append(lines, a.spinner.View()+dimStyle.Render(" thinking..."))
	}
	if a.assist.err != nil {
		lines = append(lines, strings.Split(errStyle.Render(chatErrorText(a.assist.err)), "\n")...)
	}
	if len(lines) == 0 {
		return dimStyle.Render("Press [i] to start talking about your product.")
	}

	// Show the window ending `scroll` lines above the bottom.
	end := len(lines) - a.assist.scroll
	if end < h {
		end = min(h, len(lines))
	}
	start := max(0, end-h)
	return strings.Join(lines[start:end], "\n")
}

func chatErrorText(err error) string {
	if errors.Is(err, recommend.ErrUnavailable) {
		return "The assistant did not answer: " + err.Error()
	}
	return "Something went wrong: " + err.Error()
}

func (a App) renderAssistInput(cw int) string {
	t := theme.Active
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	noticeStyle := lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Surface)

	body := dimStyle.Render("[i] type a message  [g] get a recommendation")
	if a.assist.typing {
		body = a.assist.input.View()
	}
	if a.assist.notice != "" {
		body += "\n" + noticeStyle.Render(a.assist.notice)
	}
	if a.assist.typing {
		return components.FocusCard("Message", body, cw)
	}
	return components.ContentCard("Message", body, cw)
}

func (a App) renderRecommendationCard(cw int) string {
	t := theme.Active
	sym := a.currency()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	aiStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface).Bold(true)
	defaultStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	explStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).
		Width(components.CardInnerWidth(cw))

	if a.assist.recommending {
		return components.ContentCard("Recommendation",
			a.spinner.View()+dimStyle.Render(" Working out a recommendation..."), cw)
	}
	rec := a.assist.pending
	if rec == nil {
		return components.ContentCard("Recommendation",
			dimStyle.Render("No recommendation yet. Chat a little, then press [g]."), cw)
	}

	var b strings.Builder
	if rec.IsDefault() {
		b.WriteString(defaultStyle.Render("Default values"))
		if rec.Reason != nil {
			b.WriteString(dimStyle.Render("  " + rec.Reason.Error()))
		}
	} else {
		b.WriteString(aiStyle.Render("AI recommendation"))
	}
	b.WriteString("\n")

	selling := "auto"
	if rec.SellingPrice > 0 {
		selling = cli.FormatMoney(sym, rec.SellingPrice)
	}
	pairs := []struct{ label, value string }{
		{"Materials", cli.FormatMoney(sym, rec.MaterialCost)},
		{"Hours", cli.FormatHours(rec.HoursWorked)},
		{"Rate", cli.FormatMoney(sym, rec.LaborRate) + "/h"},
		{"Uniqueness", cli.FormatRating(rec.Uniqueness)},
		{"Demand", cli.FormatRating(rec.Demand)},
		{"Price", selling},
	}
	for i, p := range pairs {
		if i > 0 {
			b.WriteString(dimStyle.Render("  │  "))
		}
		b.WriteString(labelStyle.Render(p.label + " "))
		b.WriteString(valueStyle.Render(p.value))
	}
	b.WriteString("\n\n")
	b.WriteString(explStyle.Render(rec.Explanation))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("[A] apply to calculator"))

	return components.FocusCard("Recommendation", b.String(), cw)
}
