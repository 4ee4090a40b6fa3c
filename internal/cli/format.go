// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount with a currency symbol, two decimals and
// comma separators. e.g., 1234.5 -> "$1,234.50", -9.55 -> "-$9.55"
func FormatMoney(symbol string, v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return sign + symbol + fixed
	}
	return sign + symbol + FormatNumber(n) + "." + frac
}

// FormatSignedMoney formats an adjustment with an explicit sign.
// e.g., 1.75 -> "+$1.75", -0.53 -> "-$0.53"
func FormatSignedMoney(symbol string, v float64) string {
	s := FormatMoney(symbol, v)
	if strings.HasPrefix(s, "-") {
		return s
	}
	return "+" + s
}

// FormatPercent formats a value already expressed in percent.
// e.g., 50 -> "50.00%", -31.833 -> "-31.83%"
func FormatPercent(p float64) string {
	return decimal.NewFromFloat(p).StringFixed(2) + "%"
}

// FormatRating formats a 1-10 rating. e.g., 6 -> "6.0/10"
func FormatRating(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1) + "/10"
}

// FormatHours formats a duration in hours. e.g., 2 -> "2h", 0.5 -> "0.5h"
func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64) + "h"
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// MaskSecret shortens an API key for display.
// e.g., "sk-proj-abcdefghijklmnop1234" -> "sk-proj-...1234"
func MaskSecret(key string) string {
	switch {
	case key == "":
		return "(not set)"
	case len(key) > 16:
		return key[:8] + "..." + key[len(key)-4:]
	case len(key) > 4:
		return key[:4] + "..."
	}
	return "****"
}
