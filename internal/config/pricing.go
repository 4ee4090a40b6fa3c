package config

import (
	"github.com/theirongolddev/pricecraft/internal/pricing"
)

// PricingOverrides holds user-defined pricing weights. Unset fields keep
// the stock weight.
type PricingOverrides struct {
	UniquenessWeight         *float64 `toml:"uniqueness_weight,omitempty"`
	DemandWeight             *float64 `toml:"demand_weight,omitempty"`
	EconomyModifier          *float64 `toml:"economy_modifier,omitempty"`
	PremiumModifier          *float64 `toml:"premium_modifier,omitempty"`
	SuggestedPriceMultiplier *float64 `toml:"suggested_price_multiplier,omitempty"`
}

// Update converts the overrides to a partial weight update.
func (p PricingOverrides) Update() pricing.WeightUpdate {
	return pricing.WeightUpdate{
		UniquenessWeight:         p.UniquenessWeight,
		DemandWeight:             p.DemandWeight,
		EconomyModifier:          p.EconomyModifier,
		PremiumModifier:          p.PremiumModifier,
		SuggestedPriceMultiplier: p.SuggestedPriceMultiplier,
	}
}

// SetWeights records every field of w as an override.
func (p *PricingOverrides) SetWeights(w pricing.Weights) {
	p.UniquenessWeight = ptr(w.UniquenessWeight)
	p.DemandWeight = ptr(w.DemandWeight)
	p.EconomyModifier = ptr(w.EconomyModifier)
	p.PremiumModifier = ptr(w.PremiumModifier)
	p.SuggestedPriceMultiplier = ptr(w.SuggestedPriceMultiplier)
}

// Weights returns the stock weights with the configured overrides applied.
func (c Config) Weights() (pricing.Weights, error) {
	w := pricing.DefaultWeights().Merge(c.Pricing.Update())
	if err := w.Validate(); err != nil {
		return pricing.DefaultWeights(), err
	}
	return w, nil
}

// DefaultInputs returns the stock starting inputs with the configured
// overrides applied. The selling price always starts at auto.
func (c Config) DefaultInputs() (pricing.Inputs, error) {
	in := pricing.DefaultInputs()
	d := c.Defaults
	if d.MaterialCost != nil {
		in.MaterialCost = *d.MaterialCost
	}
	if d.HoursWorked != nil {
		in.HoursWorked = *d.HoursWorked
	}
	if d.LaborRate != nil {
		in.LaborRate = *d.LaborRate
	}
	if d.Uniqueness != nil {
		in.Uniqueness = *d.Uniqueness
	}
	if d.Demand != nil {
		in.Demand = *d.Demand
	}
	if err := pricing.Validate(in); err != nil {
		return pricing.DefaultInputs(), err
	}
	return in, nil
}

func ptr(v float64) *float64 { return &v }
