// Package cmd implements the pricecraft CLI commands.
package cmd

import (
	"fmt"

	"github.com/theirongolddev/pricecraft/internal/cli"
	"github.com/theirongolddev/pricecraft/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appCfg

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Currency:  %s\n", currency())
	fmt.Printf("    Log level: %s\n", cfg.General.LogLevel)
	fmt.Printf("    Log file:  %s\n", config.LogPath())
	fmt.Println()

	fmt.Println("  [AI]")
	fmt.Printf("    Provider: %s\n", cfg.AI.Provider)
	if cfg.AI.Model != "" {
		fmt.Printf("    Model:    %s\n", cfg.AI.Model)
	} else {
		fmt.Println("    Model:    provider default")
	}
	if cfg.AI.BaseURL != "" {
		fmt.Printf("    Base URL: %s\n", cfg.AI.BaseURL)
	}
	if env := config.APIKeyEnvVar(cfg.AI.Provider); env != "" {
		fmt.Printf("    API key:  %s (env %s)\n", cli.MaskSecret(config.GetAPIKey(cfg)), env)
	}
	fmt.Printf("    Timeout:  %ds, %d retries\n", cfg.AI.TimeoutSec, cfg.AI.MaxRetries)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	w, _ := cfg.Weights()
	fmt.Println("  [Pricing]")
	fmt.Printf("    Uniqueness weight:  %g\n", w.UniquenessWeight)
	fmt.Printf("    Demand weight:      %g\n", w.DemandWeight)
	fmt.Printf("    Economy modifier:   %g\n", w.EconomyModifier)
	fmt.Printf("    Premium modifier:   %g\n", w.PremiumModifier)
	fmt.Printf("    Price multiplier:   %g\n", w.SuggestedPriceMultiplier)
	fmt.Println()

	in, _ := cfg.DefaultInputs()
	sym := currency()
	fmt.Println("  [Defaults]")
	fmt.Printf("    Material cost: %s\n", cli.FormatMoney(sym, in.MaterialCost))
	fmt.Printf("    Hours worked:  %s\n", cli.FormatHours(in.HoursWorked))
	fmt.Printf("    Labor rate:    %s/h\n", cli.FormatMoney(sym, in.LaborRate))
	fmt.Printf("    Uniqueness:    %s\n", cli.FormatRating(in.Uniqueness))
	fmt.Printf("    Demand:        %s\n", cli.FormatRating(in.Demand))
	fmt.Println()

	fmt.Println("  Run `pricecraft setup` to reconfigure.")
	return nil
}
