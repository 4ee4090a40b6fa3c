package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

// round2 rounds v to cents, half away from zero, working on the shortest
// decimal representation of v so 67.235 becomes 67.24.
func round2(v float64) float64 {
	return roundPlaces(v, 2)
}

// RoundRating rounds a 1-10 rating to one decimal place.
func RoundRating(v float64) float64 {
	return roundPlaces(v, 1)
}

func roundPlaces(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
