package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glowmart/checkout-api/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders (
			id, idempotency_key, user_id, shipping, payment_method, items,
			subtotal, discount, tax, net_total, delivery_charge, cod_charge, total,
			coupon_code, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (idempotency_key) DO NOTHING`

	getOrderByKeySQL = `SELECT
			id, idempotency_key, user_id, shipping, payment_method, items,
			subtotal, discount, tax, net_total, delivery_charge, cod_charge, total,
			coupon_code, created_at
		FROM orders WHERE idempotency_key = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. The
// idempotency key carries a unique constraint, so duplicate submissions
// resolve to the first stored row.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists the order unless one already exists for its idempotency
// key. It returns the stored order either way, with created reporting
// whether this call inserted it.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) (*order.Order, bool, error) {
	shippingJSON, err := json.Marshal(o.Address)
	if err != nil {
		return nil, false, fmt.Errorf("marshaling shipping address: %w", err)
	}
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return nil, false, fmt.Errorf("marshaling order items: %w", err)
	}

	tag, err := r.pool.Exec(ctx, createOrderSQL,
		o.ID, o.IdempotencyKey, o.UserID, shippingJSON, string(o.PaymentMethod), itemsJSON,
		o.Subtotal, o.Discount, o.Tax, o.NetTotal, o.DeliveryCharge, o.CODCharge, o.Total,
		o.CouponCode, o.CreatedAt,
	)
	if err != nil {
		return nil, false, fmt.Errorf("creating order %q: %w", o.ID, err)
	}
	if tag.RowsAffected() == 1 {
		return o, true, nil
	}

	stored, err := r.getByKey(ctx, o.IdempotencyKey)
	if err != nil {
		return nil, false, err
	}
	return stored, false, nil
}

func (r *OrderRepository) getByKey(ctx context.Context, key string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByKeySQL, key)
	if err != nil {
		return nil, fmt.Errorf("getting order by key: %w", err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("getting order by key: %w", err)
	}
	return &o, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o            order.Order
		shippingJSON []byte
		itemsJSON    []byte
		method       string
	)
	err := row.Scan(
		&o.ID, &o.IdempotencyKey, &o.UserID, &shippingJSON, &method, &itemsJSON,
		&o.Subtotal, &o.Discount, &o.Tax, &o.NetTotal, &o.DeliveryCharge, &o.CODCharge, &o.Total,
		&o.CouponCode, &o.CreatedAt,
	)
	if err != nil {
		return o, err
	}
	o.PaymentMethod = order.PaymentMethod(method)
	if err := json.Unmarshal(shippingJSON, &o.Address); err != nil {
		return o, fmt.Errorf("decoding shipping address: %w", err)
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return o, fmt.Errorf("decoding order items: %w", err)
	}
	return o, nil
}
