package tui

import (
	"errors"
	"strings"

	"github.com/theirongolddev/pricecraft/internal/config"
	"github.com/theirongolddev/pricecraft/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues are the answers collected by the setup form.
type SetupValues struct {
	Provider string
	APIKey   string
	Model    string
	Theme    string
	Currency string
}

// SetupValuesFrom seeds the form from an existing configuration. The API
// key is left blank so an existing key is only replaced when typed.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		Provider: cfg.AI.Provider,
		Model:    cfg.AI.Model,
		Theme:    cfg.Appearance.Theme,
		Currency: cfg.General.CurrencySymbol,
	}
}

// Apply writes the answers into cfg.
func (v SetupValues) Apply(cfg config.Config) config.Config {
	cfg.AI.Provider = v.Provider
	cfg.AI.Model = strings.TrimSpace(v.Model)
	if key := strings.TrimSpace(v.APIKey); key != "" {
		cfg.AI.APIKey = key
	}
	if theme.Exists(v.Theme) {
		cfg.Appearance.Theme = v.Theme
	}
	if c := strings.TrimSpace(v.Currency); c != "" {
		cfg.General.CurrencySymbol = c
	}
	return cfg
}

// NewSetupForm builds the first-run form. Answers are written to vals.
func NewSetupForm(vals *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Title, t.Name))
	}

	noAI := func() bool { return vals.Provider == config.ProviderNone }

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to pricecraft").
				Description("Price handmade goods from materials, labor,\n"+
					"uniqueness and market demand.\n\n"+
					"An optional AI assistant can interview you about\n"+
					"your product and suggest starting values."),
			huh.NewSelect[string]().
				Title("AI assistant").
				Options(
					huh.NewOption("OpenAI", config.ProviderOpenAI),
					huh.NewOption("Google Gemini", config.ProviderGemini),
					huh.NewOption("None (calculator only)", config.ProviderNone),
				).
				Value(&vals.Provider),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("API key").
				DescriptionFunc(func() string {
					return "Leave blank to keep the current key or use $" +
						config.APIKeyEnvVar(vals.Provider) + "."
				}, &vals.Provider).
				EchoMode(huh.EchoModePassword).
				Value(&vals.APIKey),
			huh.NewInput().
				Title("Model").
				Description("Leave blank for the provider default.").
				Value(&vals.Model),
		).WithHideFunc(noAI),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
			huh.NewInput().
				Title("Currency symbol").
				Value(&vals.Currency).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("currency symbol is required")
					}
					return nil
				}),
		),
	).WithShowHelp(true)
}
