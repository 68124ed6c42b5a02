// Package money formats monetary amounts for display.
//
// Amounts arrive from the backend API in minor units (cents). Formatting is
// display-only; no arithmetic beyond the minor-to-major conversion happens
// here.
package money

import "fmt"

// symbols maps ISO 4217 codes to their display symbol.
var symbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"TRY": "₺",
	"JPY": "¥",
}

// Symbol returns the display symbol for a currency code, or the code itself
// when no symbol is known.
func Symbol(currency string) string {
	if s, ok := symbols[currency]; ok {
		return s
	}
	return currency
}

// Format renders cents as a symbol-prefixed major-unit amount, e.g.
// Format(550, "EUR") == "€5.50". Unknown currencies fall back to
// "5.50 XYZ".
func Format(cents int64, currency string) string {
	major := float64(cents) / 100.0
	if s, ok := symbols[currency]; ok {
		return fmt.Sprintf("%s%.2f", s, major)
	}
	return fmt.Sprintf("%.2f %s", major, currency)
}

// FormatFloat renders a major-unit float amount, for backend payloads that
// report totals as decimals rather than cents.
func FormatFloat(amount float64, currency string) string {
	if s, ok := symbols[currency]; ok {
		return fmt.Sprintf("%s%.2f", s, amount)
	}
	return fmt.Sprintf("%.2f %s", amount, currency)
}
