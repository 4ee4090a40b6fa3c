package cmd

import (
	"fmt"

	"github.com/theirongolddev/pricecraft/internal/config"
	"github.com/theirongolddev/pricecraft/internal/logging"
	"github.com/theirongolddev/pricecraft/internal/store"
	"github.com/theirongolddev/pricecraft/internal/tui"
	"github.com/theirongolddev/pricecraft/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive calculator",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	theme.SetActive(appCfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	presets, presetsErr := store.Open(config.PresetDBPath())
	if presetsErr != nil {
		logging.L().Warn("presets unavailable", logging.Error(presetsErr))
		presets = nil
	} else {
		defer presets.Close()
	}

	app := tui.NewApp(tui.Options{
		Config:     appCfg,
		Backend:    newBackend(cmd.Context()),
		Presets:    presets,
		PresetsErr: presetsErr,
		NeedSetup:  !config.Exists(),
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
