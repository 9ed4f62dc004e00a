package checkout

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/go-faster/sdk/zctx"

	"github.com/glowmart/checkout-api/internal/domain/address"
	"github.com/glowmart/checkout-api/internal/domain/cart"
	"github.com/glowmart/checkout-api/internal/domain/order"
	"github.com/glowmart/checkout-api/internal/gateway"
)

// Notification is the payload sent to the confirmation mailer on the
// cash-on-delivery branch.
type Notification struct {
	Email          string
	Name           string
	OrderID        string
	Total          decimal.Decimal
	Items          []order.Item
	Address        address.ShippingAddress
	DeliveryCharge decimal.Decimal
	CODCharge      decimal.Decimal
}

// Notifier sends the one-shot order confirmation email. No retry; failure is
// non-fatal to the checkout outcome.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, n *Notification) error
}

// Outcome is the result of running a completion protocol for a created order.
type Outcome struct {
	State State
	// Redirect is set on the card branch: the gateway hand-off instruction.
	Redirect *gateway.Redirect
	// NotificationSent reports whether the COD confirmation email went out.
	NotificationSent bool
}

// completion is the per-payment-method protocol that runs after order
// creation. Each variant owns its branch's side effects, so a new payment
// method cannot be added without deciding what its completion does.
type completion interface {
	complete(ctx context.Context, att *attempt, o *order.Order) (*Outcome, error)
}

// cardCompletion hands the order off to the payment gateway. It reads nothing
// but the stored order's ID and total, performs no I/O, and leaves the cart
// untouched: only a confirmed COD order destroys the cart.
type cardCompletion struct {
	gateway *gateway.Builder
}

func (c *cardCompletion) complete(_ context.Context, att *attempt, o *order.Order) (*Outcome, error) {
	if err := att.step(StateGatewayRedirect); err != nil {
		return nil, err
	}
	return &Outcome{
		State:    StateGatewayRedirect,
		Redirect: c.gateway.Build(o.ID, o.Total),
	}, nil
}

// codCompletion confirms a cash-on-delivery order: it clears the cart and
// sends the confirmation email. Both side effects are best-effort once the
// order row exists; the order stands regardless.
type codCompletion struct {
	carts    cart.Store
	cartID   string
	notifier Notifier
}

func (c *codCompletion) complete(ctx context.Context, att *attempt, o *order.Order) (*Outcome, error) {
	if err := att.step(StateConfirmingAndNotifying); err != nil {
		return nil, err
	}

	lg := zctx.From(ctx)

	if err := c.carts.Clear(ctx, c.cartID); err != nil {
		lg.Warn("Cart clear failed after order creation",
			zap.String("order_id", o.ID),
			zap.String("cart_id", c.cartID),
			zap.Error(err),
		)
	}

	sent := true
	if err := c.notifier.SendOrderConfirmation(ctx, &Notification{
		Email:          o.Address.Email,
		Name:           o.Address.RecipientName,
		OrderID:        o.ID,
		Total:          o.Total,
		Items:          o.Items,
		Address:        o.Address,
		DeliveryCharge: o.DeliveryCharge,
		CODCharge:      o.CODCharge,
	}); err != nil {
		sent = false
		lg.Warn("Order confirmation email failed",
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
	}

	if err := att.step(StateDone); err != nil {
		return nil, err
	}
	return &Outcome{
		State:            StateDone,
		NotificationSent: sent,
	}, nil
}
