package service

import "github.com/shopspring/decimal"

// TaxRate is fixed. It mirrors the value the old Oracle FN_GET_TAX_RATE
// function returned; there is no per-region or per-product taxation.
var TaxRate = decimal.NewFromFloat(0.08)

var (
	creditTierHigh = decimal.NewFromInt(60000)
	creditTierMid  = decimal.NewFromInt(40000)

	discountHigh = decimal.NewFromFloat(0.10)
	discountMid  = decimal.NewFromFloat(0.05)
)

// DiscountForCredit maps a customer's credit limit to a discount fraction:
// above 60000 earns 10%, above 40000 earns 5%, everyone else pays full price.
// Any numeric input is acceptable; callers pass zero for missing customers.
func DiscountForCredit(creditLimit decimal.Decimal) decimal.Decimal {
	switch {
	case creditLimit.GreaterThan(creditTierHigh):
		return discountHigh
	case creditLimit.GreaterThan(creditTierMid):
		return discountMid
	default:
		return decimal.Zero
	}
}
