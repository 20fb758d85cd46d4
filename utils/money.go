package utils

import "github.com/shopspring/decimal"

// cents drops sub-cent digits so a balance is never shown above what can be withdrawn.
// Rounding to 4 places first absorbs float noise from aggregates.
func cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(4).Truncate(2)
}

// Money truncates an amount to cents for display.
func Money(d decimal.Decimal) float64 {
	return cents(d).InexactFloat64()
}

// MoneyString formats an amount with two decimals, truncated like Money.
func MoneyString(d decimal.Decimal) string {
	return cents(d).StringFixed(2)
}
