package recommend

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/pricecraft/internal/pricing"
)

func TestParseRecommendation(t *testing.T) {
	t.Run("full object", func(t *testing.T) {
		rec, err := ParseRecommendation([]byte(`{
			"material_cost": 25, "hours_worked": 8, "labor_rate": 20,
			"uniqueness": 8.96, "demand": 5.04, "selling_price": 450,
			"explanation": "Original canvas."
		}`))
		require.NoError(t, err)
		require.Equal(t, Recommendation{
			MaterialCost: 25, HoursWorked: 8, LaborRate: 20,
			Uniqueness: 9, Demand: 5, SellingPrice: 450,
			Explanation: "Original canvas.",
			Source:      SourceAI,
		}, rec)
	})

	t.Run("selling price optional", func(t *testing.T) {
		rec, err := ParseRecommendation([]byte(`{"material_cost":3,"hours_worked":0.5,"labor_rate":15,"uniqueness":4,"demand":8,"explanation":"batch"}`))
		require.NoError(t, err)
		require.Zero(t, rec.SellingPrice)
		require.True(t, Apply(rec).AutoPrice())
	})

	t.Run("code fence is tolerated", func(t *testing.T) {
		rec, err := ParseRecommendation([]byte("```json\n{\"material_cost\":1,\"hours_worked\":1,\"labor_rate\":1,\"uniqueness\":5,\"demand\":5,\"explanation\":\"\"}\n```"))
		require.NoError(t, err)
		require.Equal(t, 1.0, rec.MaterialCost)
	})

	failures := []struct {
		name string
		body string
		msg  string
	}{
		{"empty", ``, "empty response"},
		{"not json", `sure, here you go`, "malformed"},
		{"missing labor rate", `{"material_cost":1,"hours_worked":1,"uniqueness":5,"demand":5,"explanation":"x"}`, "missing field labor_rate"},
		{"missing explanation", `{"material_cost":1,"hours_worked":1,"labor_rate":1,"uniqueness":5,"demand":5}`, "missing field explanation"},
		{"wrong type", `{"material_cost":"ten","hours_worked":1,"labor_rate":1,"uniqueness":5,"demand":5,"explanation":"x"}`, "malformed"},
		{"rating out of range", `{"material_cost":1,"hours_worked":1,"labor_rate":1,"uniqueness":11,"demand":5,"explanation":"x"}`, "Uniqueness rating cannot exceed 10"},
		{"negative cost", `{"material_cost":-2,"hours_worked":1,"labor_rate":1,"uniqueness":5,"demand":5,"explanation":"x"}`, "Material cost must be at least 0"},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecommendation([]byte(tt.body))
			require.ErrorIs(t, err, ErrMalformed)
			require.ErrorContains(t, err, tt.msg)
		})
	}

	t.Run("range failures also match invalid input", func(t *testing.T) {
		_, err := ParseRecommendation([]byte(`{"material_cost":1,"hours_worked":1,"labor_rate":1,"uniqueness":0,"demand":5,"explanation":"x"}`))
		require.ErrorIs(t, err, pricing.ErrInvalidInput)
	})
}
