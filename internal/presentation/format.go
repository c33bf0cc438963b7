package presentation

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/investimentigrugno/screener/internal/contracts"
)

// NotAvailable is shown for missing values
const NotAvailable = "N/A"

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

// Currency formats an amount with thousands separators and two decimals.
// Known currencies get a prefix symbol, others a code suffix.
func Currency(v contracts.OptFloat, code string) string {
	f, ok := v.Get()
	if !ok || !v.Finite() {
		return NotAvailable
	}

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	amount := humanize.FormatFloat("#,###.##", f)

	code = strings.ToUpper(strings.TrimSpace(code))
	if symbol, ok := currencySymbols[code]; ok {
		return sign + symbol + amount
	}
	if code == "" {
		return sign + amount
	}
	return sign + amount + " " + code
}

// Percent formats a signed percentage with two decimals
func Percent(v contracts.OptFloat) string {
	f, ok := v.Get()
	if !ok || !v.Finite() {
		return NotAvailable
	}
	return fmt.Sprintf("%+.2f%%", f)
}

// Compact abbreviates large numbers with K, M, B, T suffixes
func Compact(v contracts.OptFloat) string {
	f, ok := v.Get()
	if !ok || !v.Finite() {
		return NotAvailable
	}

	abs := math.Abs(f)
	switch {
	case abs >= 1e12:
		return fmt.Sprintf("%.2fT", f/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("%.2fB", f/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.2fM", f/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.2fK", f/1e3)
	default:
		return fmt.Sprintf("%.0f", f)
	}
}

// Number formats a plain indicator value with two decimals
func Number(v contracts.OptFloat) string {
	f, ok := v.Get()
	if !ok || !v.Finite() {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f", f)
}

// Score formats an investment score with one decimal
func Score(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
