package cmd

import (
	"fmt"

	"github.com/theirongolddev/pricecraft/internal/config"
	"github.com/theirongolddev/pricecraft/internal/pricing"
	"github.com/theirongolddev/pricecraft/internal/store"

	"github.com/spf13/cobra"
)

// inputFlags are the calculation flags shared by calc and preset save.
// Values stay strings so they go through the same parsing as the TUI form.
type inputFlags struct {
	material   string
	hours      string
	rate       string
	uniqueness string
	demand     string
	price      string
	scenario   string
	preset     string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.material, "material", "", "Material cost")
	fl.StringVar(&f.hours, "hours", "", "Hours worked")
	fl.StringVar(&f.rate, "rate", "", "Labor rate per hour")
	fl.StringVar(&f.uniqueness, "uniqueness", "", "Uniqueness rating (1-10)")
	fl.StringVar(&f.demand, "demand", "", "Market demand rating (1-10)")
	fl.StringVar(&f.price, "price", "", "Selling price (0 or empty to auto-calculate)")
	fl.StringVarP(&f.scenario, "scenario", "s", "", "Start from a built-in scenario (jewelry, art, batch)")
	fl.StringVarP(&f.preset, "preset", "p", "", "Start from a saved preset")
}

// resolve layers the starting inputs: configured defaults, then a scenario
// or preset, then any explicitly set flag.
func (f *inputFlags) resolve(cmd *cobra.Command) (pricing.Inputs, error) {
	base := defaultInputs()

	if f.scenario != "" && f.preset != "" {
		return pricing.Inputs{}, fmt.Errorf("--scenario and --preset are mutually exclusive")
	}
	if f.scenario != "" {
		s, ok := pricing.LookupScenario(f.scenario)
		if !ok {
			return pricing.Inputs{}, fmt.Errorf("unknown scenario %q (try: pricecraft scenarios)", f.scenario)
		}
		base = s.Inputs
	}
	if f.preset != "" {
		p, err := loadPreset(f.preset)
		if err != nil {
			return pricing.Inputs{}, err
		}
		base = p.Inputs
	}

	raw := pricing.FromInputs(base)
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("material", &raw.MaterialCost, f.material)
	set("hours", &raw.HoursWorked, f.hours)
	set("rate", &raw.LaborRate, f.rate)
	set("uniqueness", &raw.Uniqueness, f.uniqueness)
	set("demand", &raw.Demand, f.demand)
	set("price", &raw.SellingPrice, f.price)

	return pricing.ParseInputs(raw)
}

func loadPreset(name string) (store.Preset, error) {
	s, err := store.Open(config.PresetDBPath())
	if err != nil {
		return store.Preset{}, fmt.Errorf("opening presets: %w", err)
	}
	defer s.Close()

	p, err := s.Get(name)
	if err != nil {
		return store.Preset{}, fmt.Errorf("preset %q: %w", name, err)
	}
	return p, nil
}

// printFieldErrors lists validation failures one per line.
func printFieldErrors(err error) {
	fields := pricing.FieldErrors(err)
	if len(fields) == 0 {
		return
	}
	fmt.Println()
	fmt.Println("  Please fix the following:")
	for _, fe := range fields {
		fmt.Printf("    - %s\n", fe.Error())
	}
	fmt.Println()
}
