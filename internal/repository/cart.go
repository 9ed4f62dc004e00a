package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glowmart/checkout-api/internal/domain/cart"
)

const (
	getCartSQL = `SELECT items FROM carts WHERE id = $1`

	putCartSQL = `INSERT INTO carts (id, items, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET items = EXCLUDED.items, updated_at = now()`

	clearCartSQL = `DELETE FROM carts WHERE id = $1`
)

var _ cart.Store = (*CartRepository)(nil)

// CartRepository implements cart.Store backed by PostgreSQL. Cart lines are
// stored as a JSONB document keyed by cart id.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// Get returns the cart's lines. A cart that was never written, or was
// cleared, reads back as empty rather than as an error.
func (r *CartRepository) Get(ctx context.Context, id string) ([]cart.Line, error) {
	var itemsJSON []byte
	err := r.pool.QueryRow(ctx, getCartSQL, id).Scan(&itemsJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting cart %q: %w", id, err)
	}

	var lines []cart.Line
	if err := json.Unmarshal(itemsJSON, &lines); err != nil {
		return nil, fmt.Errorf("decoding cart %q: %w", id, err)
	}
	return lines, nil
}

// Put replaces the cart's contents.
func (r *CartRepository) Put(ctx context.Context, id string, lines []cart.Line) error {
	itemsJSON, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshaling cart items: %w", err)
	}

	if _, err := r.pool.Exec(ctx, putCartSQL, id, itemsJSON); err != nil {
		return fmt.Errorf("putting cart %q: %w", id, err)
	}
	return nil
}

// Clear removes the cart. Clearing an absent cart is a no-op.
func (r *CartRepository) Clear(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, clearCartSQL, id); err != nil {
		return fmt.Errorf("clearing cart %q: %w", id, err)
	}
	return nil
}
