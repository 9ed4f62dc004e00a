package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/glowmart/checkout-api/internal/domain/order"
)

// Quote is the itemized pricing breakdown for a checkout attempt.
type Quote struct {
	Subtotal              decimal.Decimal
	Discount              decimal.Decimal
	SubtotalAfterDiscount decimal.Decimal
	Tax                   decimal.Decimal
	DeliveryCharge        decimal.Decimal
	CODCharge             decimal.Decimal
	Total                 decimal.Decimal
}

// ComputeQuote derives the order total from the cart subtotal and the current
// settings record. The discount is an absolute amount, already resolved from
// the coupon percentage. The delivery charge applies unconditionally; the COD
// surcharge applies only when paying cash on delivery.
//
// Pure and total over valid inputs. The discounted subtotal is clamped at
// zero so an oversized discount can never drive the total negative.
func ComputeQuote(
	subtotal, discount, taxRate, deliveryCharge, codSurcharge decimal.Decimal,
	method order.PaymentMethod,
) Quote {
	net := subtotal.Sub(discount)
	if net.IsNegative() {
		net = decimal.Zero
	}

	tax := net.Mul(taxRate)

	cod := decimal.Zero
	if method == order.PaymentCashOnDelivery {
		cod = codSurcharge
	}

	total := net.Add(tax).Add(deliveryCharge).Add(cod)

	return Quote{
		Subtotal:              subtotal.Round(2),
		Discount:              discount.Round(2),
		SubtotalAfterDiscount: net.Round(2),
		Tax:                   tax.Round(2),
		DeliveryCharge:        deliveryCharge.Round(2),
		CODCharge:             cod.Round(2),
		Total:                 total.Round(2),
	}
}
