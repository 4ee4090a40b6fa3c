// Package pricing implements the handmade-goods pricing formula.
package pricing

import "sync"

// neutralRating is the midpoint of the 1-10 rating scale. Ratings above it
// raise the price, ratings below it lower the price.
const neutralRating = 5.0

// Inputs holds the validated parameters of a single price calculation.
// SellingPrice 0 means "not set, auto-calculate".
type Inputs struct {
	MaterialCost float64 `json:"material_cost" toml:"material_cost"`
	HoursWorked  float64 `json:"hours_worked"  toml:"hours_worked"`
	LaborRate    float64 `json:"labor_rate"    toml:"labor_rate"`
	Uniqueness   float64 `json:"uniqueness"    toml:"uniqueness"`
	Demand       float64 `json:"demand"        toml:"demand"`
	SellingPrice float64 `json:"selling_price" toml:"selling_price"`
}

// AutoPrice reports whether the selling price is the auto-calculate sentinel.
func (in Inputs) AutoPrice() bool {
	return !(in.SellingPrice > 0)
}

// Result is the full breakdown of one calculation. Currency figures and
// percentages are rounded to 2 decimals.
type Result struct {
	MaterialCost float64 `json:"material_cost"`
	LaborCost    float64 `json:"labor_cost"`
	BasePrice    float64 `json:"base_price"`

	UniquenessAdjustment float64 `json:"uniqueness_adjustment"`
	DemandAdjustment     float64 `json:"demand_adjustment"`
	FactorAdjustment     float64 `json:"factor_adjustment"`

	// AdjustedPrice is the total cost basis used for profit math.
	AdjustedPrice float64 `json:"adjusted_price"`
	FinalPrice    float64 `json:"final_price"`

	ProfitAmount           float64 `json:"profit_amount"`
	ProfitMarginPercentage float64 `json:"profit_margin_percentage"`
	MarkupPercentage       float64 `json:"markup_percentage"`

	EconomyPrice float64 `json:"economy_price"`
	PremiumPrice float64 `json:"premium_price"`

	SellingPrice float64 `json:"selling_price"`
}

// Weights controls how ratings and price tiers affect the result.
type Weights struct {
	UniquenessWeight         float64 `json:"uniqueness_weight"`
	DemandWeight             float64 `json:"demand_weight"`
	EconomyModifier          float64 `json:"economy_modifier"`
	PremiumModifier          float64 `json:"premium_modifier"`
	SuggestedPriceMultiplier float64 `json:"suggested_price_multiplier"`
}

// DefaultWeights returns the stock weight set.
func DefaultWeights() Weights {
	return Weights{
		UniquenessWeight:         0.05,
		DemandWeight:             0.04,
		EconomyModifier:          0.85,
		PremiumModifier:          1.25,
		SuggestedPriceMultiplier: 2.0,
	}
}

// WeightUpdate is a partial weight change. Nil fields are left untouched.
type WeightUpdate struct {
	UniquenessWeight         *float64
	DemandWeight             *float64
	EconomyModifier          *float64
	PremiumModifier          *float64
	SuggestedPriceMultiplier *float64
}

// Merge returns w with every non-nil field of u applied.
func (w Weights) Merge(u WeightUpdate) Weights {
	if u.UniquenessWeight != nil {
		w.UniquenessWeight = *u.UniquenessWeight
	}
	if u.DemandWeight != nil {
		w.DemandWeight = *u.DemandWeight
	}
	if u.EconomyModifier != nil {
		w.EconomyModifier = *u.EconomyModifier
	}
	if u.PremiumModifier != nil {
		w.PremiumModifier = *u.PremiumModifier
	}
	if u.SuggestedPriceMultiplier != nil {
		w.SuggestedPriceMultiplier = *u.SuggestedPriceMultiplier
	}
	return w
}

// Engine owns a weight configuration and calculates prices with it.
// Calculate is safe to call concurrently with UpdateWeights.
type Engine struct {
	mu      sync.RWMutex
	weights Weights
}

// NewEngine creates an engine using w.
func NewEngine(w Weights) *Engine {
	return &Engine{weights: w}
}

// Weights returns a snapshot of the engine's current weights.
func (e *Engine) Weights() Weights {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.weights
}

// UpdateWeights merges u into the engine's weights.
func (e *Engine) UpdateWeights(u WeightUpdate) {
	e.mu.Lock()
	e.weights = e.weights.Merge(u)
	e.mu.Unlock()
}

// Calculate prices in with the engine's current weights.
func (e *Engine) Calculate(in Inputs) Result {
	return Calculate(in, e.Weights())
}

// Calculate prices in with w. It does no validation: callers must pass
// inputs that went through Validate or ParseInputs.
func Calculate(in Inputs, w Weights) Result {
	laborCost := in.HoursWorked * in.LaborRate
	basePrice := in.MaterialCost + laborCost

	uniquenessAdj := basePrice * (in.Uniqueness - neutralRating) * w.UniquenessWeight
	demandAdj := basePrice * (in.Demand - neutralRating) * w.DemandWeight
	factorAdj := uniquenessAdj + demandAdj

	adjusted := basePrice + factorAdj

	sellingPrice := 0.0
	finalPrice := adjusted * w.SuggestedPriceMultiplier
	if in.SellingPrice > 0 {
		sellingPrice = in.SellingPrice
		finalPrice = in.SellingPrice
	}

	profit := finalPrice - adjusted

	margin := 0.0
	if finalPrice > 0 {
		margin = profit / finalPrice * 100
	}

	markup := 0.0
	if adjusted > 0 {
		markup = profit / adjusted * 100
	}

	return Result{
		MaterialCost:           round2(in.MaterialCost),
		LaborCost:              round2(laborCost),
		BasePrice:              round2(basePrice),
		UniquenessAdjustment:   round2(uniquenessAdj),
		DemandAdjustment:       round2(demandAdj),
		FactorAdjustment:       round2(factorAdj),
		AdjustedPrice:          round2(adjusted),
		FinalPrice:             round2(finalPrice),
		ProfitAmount:           round2(profit),
		ProfitMarginPercentage: round2(margin),
		MarkupPercentage:       round2(markup),
		EconomyPrice:           round2(finalPrice * w.EconomyModifier),
		PremiumPrice:           round2(finalPrice * w.PremiumModifier),
		SellingPrice:           round2(sellingPrice),
	}
}
