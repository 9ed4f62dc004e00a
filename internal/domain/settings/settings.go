// Package settings defines the store-wide checkout configuration record.
package settings

import (
	"context"

	"github.com/shopspring/decimal"
)

// Settings holds the pricing parameters sourced from the settings service.
type Settings struct {
	// DeliveryCharge is the flat delivery fee applied to every order.
	DeliveryCharge decimal.Decimal
	// TaxRate is a fraction in [0, 1], converted from the provider's
	// percentage representation.
	TaxRate decimal.Decimal
	// CODSurcharge is the extra fee applied when paying cash on delivery.
	CODSurcharge decimal.Decimal
}

// Provider fetches the settings record. Implementations must not cache:
// checkout re-fetches per quote and per submission so that pricing always
// reflects the current record.
type Provider interface {
	Fetch(ctx context.Context) (*Settings, error)
}
