// Package currency converts submitted amounts into the company currency
// using a fixed lookup table of currency -> reference-currency rates.
package currency

import "github.com/shopspring/decimal"

// Converter holds the rate table. Rates are expressed against a single
// reference currency whose own rate is 1 (e.g. {USD:85, EUR:90, INR:1}
// with INR as reference). Conversion is deterministic: the same inputs
// always produce the same result.
type Converter struct {
	reference string
	rates     map[string]decimal.Decimal
}

// NewConverter creates a converter for the given reference currency and
// rate table. The reference currency is forced to rate 1.
func NewConverter(reference string, rates map[string]float64) *Converter {
	table := make(map[string]decimal.Decimal, len(rates)+1)
	for ccy, rate := range rates {
		table[ccy] = decimal.NewFromFloat(rate)
	}
	table[reference] = decimal.NewFromInt(1)
	return &Converter{reference: reference, rates: table}
}

// Reference returns the reference currency code.
func (c *Converter) Reference() string {
	return c.reference
}

// Convert converts amount from one currency to another, rounded half-up
// to 2 decimal places. Identical currencies convert 1:1 without rounding;
// unknown currencies fall back to rate 1.
func (c *Converter) Convert(amount float64, from, to string) float64 {
	if from == to {
		return amount
	}

	inReference := decimal.NewFromFloat(amount).Mul(c.rate(from))

	out := inReference
	if to != c.reference {
		out = inReference.Div(c.rate(to))
	}

	// decimal.Round rounds half away from zero, which is half-up for
	// the positive amounts this system accepts.
	f, _ := out.Round(2).Float64()
	return f
}

func (c *Converter) rate(ccy string) decimal.Decimal {
	if r, ok := c.rates[ccy]; ok && !r.IsZero() {
		return r
	}
	return decimal.NewFromInt(1)
}
