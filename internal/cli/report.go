package cli

import (
	"strings"

	"github.com/theirongolddev/pricecraft/internal/pricing"
)

// InputsTable lists the inputs of a calculation.
func InputsTable(symbol string, in pricing.Inputs) Table {
	selling := "auto"
	if !in.AutoPrice() {
		selling = FormatMoney(symbol, in.SellingPrice)
	}
	return Table{
		Title:   "Inputs",
		Headers: []string{"Field", "Value"},
		Rows: [][]string{
			{"Material cost", FormatMoney(symbol, in.MaterialCost)},
			{"Hours worked", FormatHours(in.HoursWorked)},
			{"Labor rate", FormatMoney(symbol, in.LaborRate) + "/h"},
			{"Uniqueness", FormatRating(in.Uniqueness)},
			{"Demand", FormatRating(in.Demand)},
			{"Selling price", selling},
		},
	}
}

// BreakdownTable shows how the cost basis was built.
func BreakdownTable(symbol string, r pricing.Result) Table {
	return Table{
		Title:   "Cost Breakdown",
		Headers: []string{"Item", "Amount"},
		Rows: [][]string{
			{"Materials", FormatMoney(symbol, r.MaterialCost)},
			{"Labor", FormatMoney(symbol, r.LaborCost)},
			{"Base price", FormatMoney(symbol, r.BasePrice)},
			{"Uniqueness adjustment", FormatSignedMoney(symbol, r.UniquenessAdjustment)},
			{"Demand adjustment", FormatSignedMoney(symbol, r.DemandAdjustment)},
			{"Total cost", FormatMoney(symbol, r.AdjustedPrice)},
		},
	}
}

// TiersTable shows the economy, standard and premium price points.
func TiersTable(symbol string, r pricing.Result) Table {
	standard := "Suggested"
	if r.SellingPrice > 0 {
		standard = "Your price"
	}
	return Table{
		Title:   "Price Tiers",
		Headers: []string{"Tier", "Price"},
		Rows: [][]string{
			{"Economy", FormatMoney(symbol, r.EconomyPrice)},
			{standard, FormatMoney(symbol, r.FinalPrice)},
			{"Premium", FormatMoney(symbol, r.PremiumPrice)},
		},
	}
}

// ProfitTable shows profit, margin and markup.
func ProfitTable(symbol string, r pricing.Result) Table {
	return Table{
		Title:   "Profit Analysis",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Profit", FormatMoney(symbol, r.ProfitAmount)},
			{"Profit margin", FormatPercent(r.ProfitMarginPercentage)},
			{"Markup", FormatPercent(r.MarkupPercentage)},
		},
	}
}

// RenderReport renders the full calculation report.
func RenderReport(symbol string, in pricing.Inputs, r pricing.Result) string {
	var b strings.Builder
	b.WriteString(RenderTable(InputsTable(symbol, in)))
	b.WriteString("\n")
	b.WriteString(RenderTable(BreakdownTable(symbol, r)))
	b.WriteString("\n")
	b.WriteString(RenderTable(TiersTable(symbol, r)))
	b.WriteString(RenderTierBars(r, 30))
	b.WriteString("\n")
	b.WriteString(RenderTable(ProfitTable(symbol, r)))
	b.WriteString("\n  Margin ")
	b.WriteString(RenderMarginBar(r.ProfitMarginPercentage, 30))
	b.WriteString("\n")
	if r.ProfitAmount < 0 {
		b.WriteString("\n  ")
		b.WriteString(badStyle.Render("Selling price is below total cost."))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderTierBars draws each price tier as a bar scaled to the premium price.
func RenderTierBars(r pricing.Result, width int) string {
	tiers := []struct {
		label string
		value float64
	}{
		{"Economy ", r.EconomyPrice},
		{"Standard", r.FinalPrice},
		{"Premium ", r.PremiumPrice},
	}
	maxValue := r.PremiumPrice
	for _, t := range tiers {
		if t.value > maxValue {
			maxValue = t.value
		}
	}

	var b strings.Builder
	for _, t := range tiers {
		b.WriteString("  ")
		b.WriteString(Muted(t.label))
		b.WriteString(" ")
		b.WriteString(RenderBar(t.value, maxValue, width))
		b.WriteString("\n")
	}
	return b.String()
}
