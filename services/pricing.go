package services

import (
	"github.com/shopspring/decimal"
)

// taxRate is applied to the subtotal of every booking.
var taxRate = decimal.RequireFromString("0.10")

type Quote struct {
	Nights        int
	PricePerNight decimal.Decimal
	Subtotal      decimal.Decimal
	TaxAmount     decimal.Decimal
	TotalPrice    decimal.Decimal
}

// QuoteStay prices a stay. The tax is rounded to cents and the total is
// the exact sum of subtotal and tax.
func QuoteStay(pricePerNight decimal.Decimal, nights int) Quote {
	price := pricePerNight.Round(2)
	subtotal := price.Mul(decimal.NewFromInt(int64(nights)))
	tax := subtotal.Mul(taxRate).Round(2)

	return Quote{
		Nights:        nights,
		PricePerNight: price,
		Subtotal:      subtotal,
		TaxAmount:     tax,
		TotalPrice:    subtotal.Add(tax),
	}
}
