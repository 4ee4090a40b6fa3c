package recommend

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/theirongolddev/pricecraft/internal/pricing"
)

// wireRecommendation mirrors the JSON object the services are asked for.
// Pointers distinguish a missing field from a zero.
type wireRecommendation struct {
	MaterialCost *float64 `json:"material_cost"`
	HoursWorked  *float64 `json:"hours_worked"`
	LaborRate    *float64 `json:"labor_rate"`
	Uniqueness   *float64 `json:"uniqueness"`
	Demand       *float64 `json:"demand"`
	SellingPrice *float64 `json:"selling_price"`
	Explanation  *string  `json:"explanation"`
}

// ParseRecommendation decodes a service's JSON answer. Every numeric field
// but selling_price is required, ratings are rounded to one decimal and the
// result must pass pricing.Validate. Failures wrap ErrMalformed.
func ParseRecommendation(data []byte) (Recommendation, error) {
	data = stripCodeFence(data)
	if len(data) == 0 {
		return Recommendation{}, fmt.Errorf("%w: empty response", ErrMalformed)
	}

	var w wireRecommendation
	if err := json.Unmarshal(data, &w); err != nil {
		return Recommendation{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	required := []struct {
		name string
		v    *float64
	}{
		{"material_cost", w.MaterialCost},
		{"hours_worked", w.HoursWorked},
		{"labor_rate", w.LaborRate},
		{"uniqueness", w.Uniqueness},
		{"demand", w.Demand},
	}
	for _, r := range required {
		if r.v == nil {
			return Recommendation{}, fmt.Errorf("%w: missing field %s", ErrMalformed, r.name)
		}
	}
	if w.Explanation == nil {
		return Recommendation{}, fmt.Errorf("%w: missing field explanation", ErrMalformed)
	}

	rec := Recommendation{
		MaterialCost: *w.MaterialCost,
		HoursWorked:  *w.HoursWorked,
		LaborRate:    *w.LaborRate,
		Uniqueness:   pricing.RoundRating(*w.Uniqueness),
		Demand:       pricing.RoundRating(*w.Demand),
		Explanation:  *w.Explanation,
		Source:       SourceAI,
	}
	if w.SellingPrice != nil && *w.SellingPrice > 0 {
		rec.SellingPrice = *w.SellingPrice
	}

	if err := pricing.Validate(Apply(rec)); err != nil {
		return Recommendation{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return rec, nil
}

// stripCodeFence removes a markdown ```json fence some models add.
func stripCodeFence(data []byte) []byte {
	data = bytes.TrimSpace(data)
	if !bytes.HasPrefix(data, []byte("```")) {
		return data
	}
	data = bytes.TrimPrefix(data, []byte("```"))
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		data = data[i+1:]
	}
	data = bytes.TrimSuffix(bytes.TrimSpace(data), []byte("```"))
	return bytes.TrimSpace(data)
}
