package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/theirongolddev/pricecraft/internal/cli"
	"github.com/theirongolddev/pricecraft/internal/logging"
	"github.com/theirongolddev/pricecraft/internal/pricing"

	"github.com/spf13/cobra"
)

var (
	calcFlags inputFlags
	calcJSON  bool
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Calculate a price from the command line",
	Example: "  pricecraft calc --material 5 --hours 2 --rate 15 --uniqueness 6 --demand 7\n" +
		"  pricecraft calc --scenario art --price 300\n" +
		"  pricecraft calc --preset \"Beaded Ring\" --json",
	RunE: runCalc,
}

func init() {
	calcFlags.register(calcCmd)
	calcCmd.Flags().BoolVar(&calcJSON, "json", false, "Print the result as JSON")
	rootCmd.AddCommand(calcCmd)
}

// calcOutput is the --json document.
type calcOutput struct {
	Inputs  pricing.Inputs  `json:"inputs"`
	Weights pricing.Weights `json:"weights"`
	Result  pricing.Result  `json:"result"`
}

func runCalc(cmd *cobra.Command, _ []string) error {
	in, err := calcFlags.resolve(cmd)
	if err != nil {
		printFieldErrors(err)
		return err
	}

	engine := newEngine()
	result := engine.Calculate(in)
	logging.L().Debug("calculated",
		logging.Float64("final_price", result.FinalPrice),
		logging.Float64("margin", result.ProfitMarginPercentage),
	)

	if calcJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(calcOutput{Inputs: in, Weights: engine.Weights(), Result: result})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("PRICECRAFT  Price Calculation"))
	fmt.Println()
	fmt.Print(cli.RenderReport(currency(), in, result))
	fmt.Println()
	return nil
}
