package pricing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Rating bounds shared by uniqueness and demand.
const (
	MinRating = 1.0
	MaxRating = 10.0
)

// ErrInvalidInput is matched by every validation failure.
var ErrInvalidInput = errors.New("invalid input")

// Field names used in validation messages.
const (
	FieldMaterialCost = "Material cost"
	FieldHoursWorked  = "Hours worked"
	FieldLaborRate    = "Labor rate"
	FieldUniqueness   = "Uniqueness rating"
	FieldDemand       = "Demand rating"
	FieldSellingPrice = "Selling price"
)

// FieldError describes one field that failed its range or type constraint.
type FieldError struct {
	Field string
	Msg   string
}

func (e *FieldError) Error() string {
	return e.Field + " " + e.Msg
}

// Is makes errors.Is(err, ErrInvalidInput) hold for every FieldError.
func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidInput
}

// FieldErrors flattens a validation error into its per-field parts.
func FieldErrors(err error) []*FieldError {
	if err == nil {
		return nil
	}
	var out []*FieldError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, FieldErrors(e)...)
		}
		return out
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		out = append(out, fe)
	}
	return out
}

type bound struct {
	field    string
	value    float64
	min, max float64
}

func (b bound) check() error {
	switch {
	case math.IsNaN(b.value) || math.IsInf(b.value, 0):
		return &FieldError{Field: b.field, Msg: "must be a valid number"}
	case b.value < b.min:
		return &FieldError{Field: b.field, Msg: "must be at least " + formatBound(b.min)}
	case b.value > b.max:
		return &FieldError{Field: b.field, Msg: "cannot exceed " + formatBound(b.max)}
	}
	return nil
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Validate checks every field of in and returns all violations joined.
// Values are never clamped.
func Validate(in Inputs) error {
	bounds := []bound{
		{FieldMaterialCost, in.MaterialCost, 0, math.MaxFloat64},
		{FieldHoursWorked, in.HoursWorked, 0, math.MaxFloat64},
		{FieldLaborRate, in.LaborRate, 0, math.MaxFloat64},
		{FieldUniqueness, in.Uniqueness, MinRating, MaxRating},
		{FieldDemand, in.Demand, MinRating, MaxRating},
		{FieldSellingPrice, in.SellingPrice, 0, math.MaxFloat64},
	}

	var errs []error
	for _, b := range bounds {
		if err := b.check(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RawInputs holds unparsed form values, e.g. from text fields or flags.
type RawInputs struct {
	MaterialCost string
	HoursWorked  string
	LaborRate    string
	Uniqueness   string
	Demand       string
	SellingPrice string
}

// FromInputs formats in for editing in a form. Values are written at full
// precision so ParseInputs(FromInputs(in)) returns in unchanged.
func FromInputs(in Inputs) RawInputs {
	format := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return RawInputs{
		MaterialCost: format(in.MaterialCost),
		HoursWorked:  format(in.HoursWorked),
		LaborRate:    format(in.LaborRate),
		Uniqueness:   format(in.Uniqueness),
		Demand:       format(in.Demand),
		SellingPrice: format(in.SellingPrice),
	}
}

// ParseInputs converts form values into validated Inputs. An empty selling
// price is the auto-calculate sentinel.
func ParseInputs(raw RawInputs) (Inputs, error) {
	var errs []error
	parse := func(field, s string, emptyOK bool) float64 {
		s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
		if s == "" && emptyOK {
			return 0
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, &FieldError{Field: field, Msg: "must be a valid number"})
			return 0
		}
		return v
	}

	in := Inputs{
		MaterialCost: parse(FieldMaterialCost, raw.MaterialCost, false),
		HoursWorked:  parse(FieldHoursWorked, raw.HoursWorked, false),
		LaborRate:    parse(FieldLaborRate, raw.LaborRate, false),
		Uniqueness:   parse(FieldUniqueness, raw.Uniqueness, false),
		Demand:       parse(FieldDemand, raw.Demand, false),
		SellingPrice: parse(FieldSellingPrice, raw.SellingPrice, true),
	}
	if len(errs) > 0 {
		return Inputs{}, errors.Join(errs...)
	}

	if err := Validate(in); err != nil {
		return Inputs{}, err
	}
	return in, nil
}

// Validate checks that no weight is negative or non-finite.
func (w Weights) Validate() error {
	named := []struct {
		name  string
		value float64
	}{
		{"uniqueness_weight", w.UniquenessWeight},
		{"demand_weight", w.DemandWeight},
		{"economy_modifier", w.EconomyModifier},
		{"premium_modifier", w.PremiumModifier},
		{"suggested_price_multiplier", w.SuggestedPriceMultiplier},
	}
	for _, n := range named {
		if math.IsNaN(n.value) || math.IsInf(n.value, 0) || n.value < 0 {
			return fmt.Errorf("pricing: %s must be a non-negative number, got %v", n.name, n.value)
		}
	}
	return nil
}
