// Package coupon defines the coupon validation contract. Codes are validated
// by an external service; this package only models the exchange and derives
// the discount amount from the returned percentage.
package coupon

import (
	"context"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Result is the outcome of validating a coupon code.
type Result struct {
	Valid bool
	// DiscountPercentage is a value in [0, 100], meaningful only when Valid.
	DiscountPercentage decimal.Decimal
	// Message is the human-readable explanation from the validator.
	Message string
}

// Validator checks a coupon code against the external validation service.
// An error indicates a transport or server failure; an invalid code is a
// successful validation with Valid == false.
type Validator interface {
	Validate(ctx context.Context, code string) (*Result, error)
}

// DiscountAmount resolves a percentage discount against the cart subtotal,
// clamped to non-negative and rounded to 2 decimal places.
func DiscountAmount(subtotal, percentage decimal.Decimal) decimal.Decimal {
	amount := subtotal.Mul(percentage).Div(hundred)
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount.Round(2)
}
