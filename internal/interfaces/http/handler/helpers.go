package handler

import "github.com/shopspring/decimal"

// Price fields arrive as float64 in request DTOs and are converted to
// decimals at the handler boundary so the domain never touches floats.

func toDecimal(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func toDecimalPtr(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}
