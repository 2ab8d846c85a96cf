package utils

import "github.com/shopspring/decimal"

// CentsToDecimal converts an amount in minor currency units to its major-unit
// decimal representation (12345 -> 123.45). The engine stores and compares
// amounts as int64 cents; decimals exist only for presentation.
func CentsToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// FormatCents renders an amount in minor units with two fractional digits.
func FormatCents(cents int64) string {
	return CentsToDecimal(cents).StringFixed(2)
}
