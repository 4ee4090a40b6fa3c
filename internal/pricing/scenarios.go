package pricing

import "strings"

// Scenario is a named example product.
type Scenario struct {
	Key    string
	Name   string
	Inputs Inputs
}

// Scenarios are the built-in examples, in menu order.
var Scenarios = []Scenario{
	{
		Key:  "jewelry",
		Name: "Simple Jewelry",
		Inputs: Inputs{
			MaterialCost: 5.0, HoursWorked: 2.0, LaborRate: 15.0,
			Uniqueness: 6.0, Demand: 7.0,
		},
	},
	{
		Key:  "art",
		Name: "Complex Art",
		Inputs: Inputs{
			MaterialCost: 25.0, HoursWorked: 8.0, LaborRate: 20.0,
			Uniqueness: 9.0, Demand: 5.0,
		},
	},
	{
		Key:  "batch",
		Name: "Batch Production",
		Inputs: Inputs{
			MaterialCost: 3.0, HoursWorked: 0.5, LaborRate: 15.0,
			Uniqueness: 4.0, Demand: 8.0,
		},
	},
}

// LookupScenario finds a scenario by key or case-insensitive name.
func LookupScenario(name string) (Scenario, bool) {
	name = strings.TrimSpace(name)
	for _, s := range Scenarios {
		if s.Key == strings.ToLower(name) || strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Scenario{}, false
}

// DefaultInputs is the stock starting point for a new calculation.
func DefaultInputs() Inputs {
	return Inputs{
		MaterialCost: 10.0,
		HoursWorked:  2.0,
		LaborRate:    15.0,
		Uniqueness:   5.0,
		Demand:       5.0,
		SellingPrice: 0.0,
	}
}
