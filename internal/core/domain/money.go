// internal/core/domain/money.go
package domain

import "github.com/shopspring/decimal"

// CurrencyScale is the number of decimal places carried by every monetary
// amount and weighed quantity. The target market prices in thousandths
// (millimes), so both money and scale weights round to three places.
const CurrencyScale = 3

// RoundAmount rounds d to the currency precision.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyScale)
}

// RoundQuantity rounds a quantity to the scale precision shared with money.
func RoundQuantity(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyScale)
}
