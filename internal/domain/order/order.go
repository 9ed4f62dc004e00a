// Package order defines the persisted order model and payment method variants.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/glowmart/checkout-api/internal/domain/address"
)

// PaymentMethod selects the completion protocol for a placed order.
type PaymentMethod string

const (
	// PaymentCreditCard hands the order off to the external payment gateway.
	PaymentCreditCard PaymentMethod = "Credit Card"
	// PaymentCashOnDelivery confirms the order immediately and collects
	// payment at delivery, with an extra surcharge.
	PaymentCashOnDelivery PaymentMethod = "Cash on Delivery"
)

// ErrUnknownPaymentMethod is returned for any method outside the two variants.
var ErrUnknownPaymentMethod = errors.New("unknown payment method")

// ParsePaymentMethod maps the wire value to a PaymentMethod.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentCreditCard:
		return PaymentCreditCard, nil
	case PaymentCashOnDelivery:
		return PaymentCashOnDelivery, nil
	default:
		return "", errors.Wrapf(ErrUnknownPaymentMethod, "%q", s)
	}
}

// Item is a priced order line with its display name resolved at build time.
type Item struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// Order is the immutable result of a successful checkout submission.
// NetTotal is the subtotal after discount; Total adds tax and charges.
type Order struct {
	ID             string
	IdempotencyKey string
	UserID         string
	Address        address.ShippingAddress
	PaymentMethod  PaymentMethod
	Items          []Item
	Subtotal       decimal.Decimal
	Discount       decimal.Decimal
	Tax            decimal.Decimal
	NetTotal       decimal.Decimal
	DeliveryCharge decimal.Decimal
	CODCharge      decimal.Decimal
	Total          decimal.Decimal
	CouponCode     string
	CreatedAt      time.Time
}

// Repository persists orders. Create is idempotent on IdempotencyKey: when a
// conflicting order already exists, the stored order is returned with
// created == false and nothing is written.
type Repository interface {
	Create(ctx context.Context, o *Order) (stored *Order, created bool, err error)
}
