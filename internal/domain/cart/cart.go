// Package cart defines the shopping cart read model used by checkout.
//
// The cart is owned by the storefront: the checkout flow reads it once per
// submission attempt and writes it exactly once, to clear it after a
// successful cash-on-delivery completion.
package cart

import (
	"context"

	"github.com/shopspring/decimal"
)

// Line is a single cart entry. Price is the unit price captured when the
// line was added.
type Line struct {
	ProductID string          `json:"productId"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Store persists carts keyed by an opaque cart ID.
type Store interface {
	// Get returns the cart lines for the given ID. A missing cart is an
	// empty cart, not an error.
	Get(ctx context.Context, id string) ([]Line, error)
	// Put replaces the cart contents.
	Put(ctx context.Context, id string, lines []Line) error
	// Clear removes the cart entirely.
	Clear(ctx context.Context, id string) error
}

// Subtotal returns the sum of price * quantity across all lines.
func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

// ProductIDs returns the distinct product IDs across all lines, in first-seen
// order.
func ProductIDs(lines []Line) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	return ids
}
