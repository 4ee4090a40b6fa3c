package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/pricecraft/internal/cli"
	"github.com/theirongolddev/pricecraft/internal/config"
	"github.com/theirongolddev/pricecraft/internal/store"

	"github.com/spf13/cobra"
)

var (
	presetFlags inputFlags
	presetNotes string
)

var presetCmd = &cobra.Command{
	Use:     "preset",
	Aliases: []string{"presets"},
	Short:   "Manage saved calculations",
}

var presetSaveCmd = &cobra.Command{
	Use:   "save NAME",
	Short: "Save inputs under a name (overwrites an existing preset)",
	Example: "  pricecraft preset save \"Beaded Ring\" --scenario jewelry --price 45\n" +
		"  pricecraft preset save Mug --material 4 --hours 1.5 --notes \"stoneware, 350ml\"",
	Args: cobra.ExactArgs(1),
	RunE: runPresetSave,
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved presets",
	Args:  cobra.NoArgs,
	RunE:  runPresetList,
}

var presetShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show the full report for a preset",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetShow,
}

var presetRmCmd = &cobra.Command{
	Use:     "rm NAME",
	Aliases: []string{"delete"},
	Short:   "Delete a preset",
	Args:    cobra.ExactArgs(1),
	RunE:    runPresetRm,
}

func init() {
	presetFlags.register(presetSaveCmd)
	presetSaveCmd.Flags().StringVar(&presetNotes, "notes", "", "Free-form notes")

	presetCmd.AddCommand(presetSaveCmd, presetListCmd, presetShowCmd, presetRmCmd)
	rootCmd.AddCommand(presetCmd)
}

func openPresets() (*store.Store, error) {
	s, err := store.Open(config.PresetDBPath())
	if err != nil {
		return nil, fmt.Errorf("opening presets: %w", err)
	}
	return s, nil
}

func runPresetSave(cmd *cobra.Command, args []string) error {
	in, err := presetFlags.resolve(cmd)
	if err != nil {
		printFieldErrors(err)
		return err
	}

	s, err := openPresets()
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := s.Save(args[0], in, presetNotes)
	if err != nil {
		return err
	}

	r := newEngine().Calculate(p.Inputs)
	fmt.Printf("  Saved %q (%s)\n", p.Name, cli.FormatMoney(currency(), r.FinalPrice))
	return nil
}

func runPresetList(_ *cobra.Command, _ []string) error {
	s, err := openPresets()
	if err != nil {
		return err
	}
	defer s.Close()

	list, err := s.List()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("  No presets yet. Save one with: pricecraft preset save NAME")
		return nil
	}

	engine := newEngine()
	sym := currency()
	rows := make([][]string, 0, len(list))
	for _, p := range list {
		r := engine.Calculate(p.Inputs)
		rows = append(rows, []string{
			p.Name,
			cli.FormatMoney(sym, r.AdjustedPrice),
			cli.FormatMoney(sym, r.FinalPrice),
			cli.FormatPercent(r.ProfitMarginPercentage),
			p.UpdatedAt.Local().Format("2006-01-02 15:04"),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Presets (%d)", len(list)),
		Headers: []string{"Name", "Cost", "Price", "Margin", "Updated"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}

func runPresetShow(_ *cobra.Command, args []string) error {
	p, err := loadPreset(args[0])
	if err != nil {
		return err
	}

	r := newEngine().Calculate(p.Inputs)
	fmt.Println()
	fmt.Println(cli.RenderTitle("PRICECRAFT  " + p.Name))
	if p.Notes != "" {
		fmt.Printf("  %s\n", cli.Muted(p.Notes))
	}
	fmt.Println()
	fmt.Print(cli.RenderReport(currency(), p.Inputs, r))
	fmt.Println()
	return nil
}

func runPresetRm(_ *cobra.Command, args []string) error {
	s, err := openPresets()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Delete(args[0]); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("preset %q: %w", args[0], err)
		}
		return err
	}
	fmt.Printf("  Deleted %q\n", args[0])
	return nil
}
