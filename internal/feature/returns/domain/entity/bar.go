package entity

import "github.com/shopspring/decimal"

// PriceBar is one trading day's open and close price for a symbol.
// A price with Valid == false was absent from the provider response.
type PriceBar struct {
	Date  string              // Trading day (YYYY-MM-DD)
	Open  decimal.NullDecimal // Opening price
	Close decimal.NullDecimal // Closing price
}

// NewPriceBar builds a bar with both prices present.
func NewPriceBar(date string, open, close decimal.Decimal) PriceBar {
	return PriceBar{
		Date:  date,
		Open:  decimal.NewNullDecimal(open),
		Close: decimal.NewNullDecimal(close),
	}
}
