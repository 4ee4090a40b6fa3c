package cmd

import (
	"fmt"

	"github.com/theirongolddev/pricecraft/internal/cli"
	"github.com/theirongolddev/pricecraft/internal/pricing"

	"github.com/spf13/cobra"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the built-in example products with their prices",
	RunE:  runScenarios,
}

func init() {
	rootCmd.AddCommand(scenariosCmd)
}

func runScenarios(_ *cobra.Command, _ []string) error {
	engine := newEngine()
	sym := currency()

	rows := make([][]string, 0, len(pricing.Scenarios))
	for _, s := range pricing.Scenarios {
		r := engine.Calculate(s.Inputs)
		rows = append(rows, []string{
			s.Key,
			s.Name,
			cli.FormatMoney(sym, s.Inputs.MaterialCost),
			cli.FormatHours(s.Inputs.HoursWorked),
			cli.FormatMoney(sym, s.Inputs.LaborRate),
			cli.FormatRating(s.Inputs.Uniqueness),
			cli.FormatRating(s.Inputs.Demand),
			cli.FormatMoney(sym, r.FinalPrice),
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("PRICECRAFT  Example Scenarios"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Key", "Name", "Materials", "Hours", "Rate", "Unique", "Demand", "Price"},
		Rows:    rows,
	}))
	fmt.Println()
	fmt.Println(cli.Muted("  Try: pricecraft calc --scenario jewelry"))
	fmt.Println()
	return nil
}
