package pricing

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestValidate_AcceptsDefaultsAndScenarios(t *testing.T) {
	if err := Validate(DefaultInputs()); err != nil {
		t.Fatalf("defaults rejected: %v", err)
	}
	for _, s := range Scenarios {
		if err := Validate(s.Inputs); err != nil {
			t.Fatalf("scenario %q rejected: %v", s.Name, err)
		}
	}
}

func TestValidate_FieldMessages(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Inputs)
		want   string
	}{
		{"negative material", func(in *Inputs) { in.MaterialCost = -1 }, "Material cost must be at least 0"},
		{"negative hours", func(in *Inputs) { in.HoursWorked = -0.5 }, "Hours worked must be at least 0"},
		{"negative rate", func(in *Inputs) { in.LaborRate = -3 }, "Labor rate must be at least 0"},
		{"uniqueness low", func(in *Inputs) { in.Uniqueness = 0.9 }, "Uniqueness rating must be at least 1"},
		{"demand high", func(in *Inputs) { in.Demand = 10.5 }, "Demand rating cannot exceed 10"},
		{"negative price", func(in *Inputs) { in.SellingPrice = -5 }, "Selling price must be at least 0"},
		{"nan rate", func(in *Inputs) { in.LaborRate = math.NaN() }, "Labor rate must be a valid number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := DefaultInputs()
			tt.mutate(&in)
			err := Validate(in)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("error %v does not match ErrInvalidInput", err)
			}
			if err.Error() != tt.want {
				t.Fatalf("message = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	err := Validate(Inputs{MaterialCost: -1, Uniqueness: 11, Demand: 0})
	fields := FieldErrors(err)
	if len(fields) != 3 {
		t.Fatalf("got %d field errors (%v), want 3", len(fields), err)
	}
	got := []string{fields[0].Field, fields[1].Field, fields[2].Field}
	want := []string{FieldMaterialCost, FieldUniqueness, FieldDemand}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("field %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseInputs(t *testing.T) {
	in, err := ParseInputs(RawInputs{
		MaterialCost: "$5.00",
		HoursWorked:  "2",
		LaborRate:    " 15 ",
		Uniqueness:   "6",
		Demand:       "7.0",
		SellingPrice: "",
	})
	if err != nil {
		t.Fatalf("ParseInputs: %v", err)
	}
	want := Inputs{MaterialCost: 5, HoursWorked: 2, LaborRate: 15, Uniqueness: 6, Demand: 7}
	if in != want {
		t.Fatalf("parsed %+v, want %+v", in, want)
	}
	if !in.AutoPrice() {
		t.Fatal("empty selling price should be the auto sentinel")
	}
}

func TestParseInputs_NonNumeric(t *testing.T) {
	_, err := ParseInputs(RawInputs{
		MaterialCost: "ten",
		HoursWorked:  "2",
		LaborRate:    "15",
		Uniqueness:   "5",
		Demand:       "NaN",
		SellingPrice: "0",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "Material cost must be a valid number") {
		t.Fatalf("missing material message in %q", msg)
	}
	if !strings.Contains(msg, "Demand rating must be a valid number") {
		t.Fatalf("missing demand message in %q", msg)
	}
}

func TestParseInputs_RangeAfterParse(t *testing.T) {
	_, err := ParseInputs(FromInputs(Inputs{MaterialCost: 1, Uniqueness: 12, Demand: 5}))
	if err == nil || !strings.Contains(err.Error(), "Uniqueness rating cannot exceed 10") {
		t.Fatalf("err = %v, want uniqueness range error", err)
	}
}

func TestFromInputsRoundTrip(t *testing.T) {
	cases := []Inputs{
		{MaterialCost: 12.5, HoursWorked: 3.25, LaborRate: 18, Uniqueness: 6.5, Demand: 4.2, SellingPrice: 60},
		{MaterialCost: 3.335, HoursWorked: 1, LaborRate: 12.125, Uniqueness: 6.25, Demand: 7.75, SellingPrice: 19.999},
		{MaterialCost: 0.1, HoursWorked: 0.333, LaborRate: 15, Uniqueness: 1, Demand: 10, SellingPrice: 0.004},
	}
	for _, want := range cases {
		got, err := ParseInputs(FromInputs(want))
		if err != nil {
			t.Fatalf("ParseInputs(%+v): %v", want, err)
		}
		if got != want {
			t.Fatalf("round trip = %+v, want %+v", got, want)
		}
	}
}

func TestFromInputsKeepsSmallSellingPrice(t *testing.T) {
	got, err := ParseInputs(FromInputs(Inputs{MaterialCost: 1, Uniqueness: 5, Demand: 5, SellingPrice: 0.004}))
	if err != nil {
		t.Fatalf("ParseInputs: %v", err)
	}
	if got.AutoPrice() {
		t.Fatal("explicit selling price 0.004 turned into auto-calculate")
	}
	if got.SellingPrice != 0.004 {
		t.Fatalf("SellingPrice = %v, want 0.004", got.SellingPrice)
	}
}
