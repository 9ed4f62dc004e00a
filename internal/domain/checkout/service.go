// Package checkout owns the order pricing, validation, and submission flow:
// it turns a cart plus a shipping address into a priced, persisted order and
// runs the payment-method-specific completion protocol.
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/glowmart/checkout-api/internal/domain/address"
	"github.com/glowmart/checkout-api/internal/domain/cart"
	"github.com/glowmart/checkout-api/internal/domain/coupon"
	"github.com/glowmart/checkout-api/internal/domain/order"
	"github.com/glowmart/checkout-api/internal/domain/settings"
	"github.com/glowmart/checkout-api/internal/gateway"
)

// UnknownProductName is substituted when the catalog cannot resolve a product
// id in an otherwise successful lookup.
const UnknownProductName = "Unknown Product"

const couponFailureMessage = "could not validate coupon code, please try again"

// Sentinel errors for submission validation.
var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrEmptyCouponCode = errors.New("coupon code required")
)

// InvalidQuantityError indicates a cart line with a non-positive quantity.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %s", e.ProductID)
}

// CollaboratorError wraps a transport or server failure from an external
// service during submission. Terminal for the attempt; the user may resubmit.
type CollaboratorError struct {
	Service string
	Err     error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s service: %s", e.Service, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

// NameResolver resolves product display names for a set of ids in one batched
// call, waiting for all of them. A missing id is absent from the returned map;
// a transport failure is an error that aborts the order build.
type NameResolver interface {
	ResolveNames(ctx context.Context, ids []string) (map[string]string, error)
}

// Service is the checkout dispatcher. All collaborators are injected; the
// service itself is stateless and safe for concurrent use.
type Service struct {
	carts    cart.Store
	settings settings.Provider
	coupons  coupon.Validator
	resolver NameResolver
	orders   order.Repository
	notifier Notifier
	gateway  *gateway.Builder

	newID func() string
}

// NewService creates a checkout Service with the required collaborators.
func NewService(
	carts cart.Store,
	provider settings.Provider,
	coupons coupon.Validator,
	resolver NameResolver,
	orders order.Repository,
	notifier Notifier,
	gw *gateway.Builder,
) *Service {
	return &Service{
		carts:    carts,
		settings: provider,
		coupons:  coupons,
		resolver: resolver,
		orders:   orders,
		notifier: notifier,
		gateway:  gw,
		newID:    uuid.NewString,
	}
}

// CouponApplication is the result of an Apply action on a coupon code.
type CouponApplication struct {
	Valid    bool
	Discount decimal.Decimal
	Message  string
}

// ApplyCoupon validates a code against the current cart subtotal. An invalid
// code or a validator failure resets the discount to zero and surfaces a
// message; neither is an error, since checkout may continue without a coupon.
func (s *Service) ApplyCoupon(ctx context.Context, cartID, code string) (*CouponApplication, error) {
	if code == "" {
		return nil, ErrEmptyCouponCode
	}

	lines, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, errors.Wrap(err, "get cart")
	}
	subtotal := cart.Subtotal(lines)

	res, err := s.coupons.Validate(ctx, code)
	if err != nil {
		zctx.From(ctx).Warn("Coupon validation failed", zap.String("code", code), zap.Error(err))
		return &CouponApplication{Message: couponFailureMessage}, nil
	}
	if !res.Valid {
		return &CouponApplication{Message: res.Message}, nil
	}

	return &CouponApplication{
		Valid:    true,
		Discount: coupon.DiscountAmount(subtotal, res.DiscountPercentage),
		Message:  res.Message,
	}, nil
}

// QuoteRequest asks for a live pricing breakdown of the current cart.
type QuoteRequest struct {
	CartID        string
	PaymentMethod order.PaymentMethod
	CouponCode    string
}

// QuoteResult carries the breakdown plus the coupon resolution that produced
// its discount.
type QuoteResult struct {
	Quote         Quote
	CouponApplied bool
	CouponMessage string
}

// Quote recomputes pricing for the cart with the current settings record.
// Called on every relevant state change; nothing is cached.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (*QuoteResult, error) {
	lines, err := s.carts.Get(ctx, req.CartID)
	if err != nil {
		return nil, errors.Wrap(err, "get cart")
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	set, err := s.settings.Fetch(ctx)
	if err != nil {
		return nil, &CollaboratorError{Service: "settings", Err: err}
	}

	subtotal := cart.Subtotal(lines)
	discount, applied, msg := s.resolveDiscount(ctx, subtotal, req.CouponCode)

	q := ComputeQuote(subtotal, discount, set.TaxRate, set.DeliveryCharge, set.CODSurcharge, req.PaymentMethod)
	return &QuoteResult{Quote: q, CouponApplied: applied, CouponMessage: msg}, nil
}

// PlaceOrderRequest is the submission input: the cart reference, the
// sanitized-or-raw address, the payment method, and an optional coupon code.
// IdempotencyKey dedupes retries; when empty a fresh key is generated and the
// attempt is not protected against double-submission.
type PlaceOrderRequest struct {
	CartID         string
	UserID         string
	Address        address.ShippingAddress
	PaymentMethod  order.PaymentMethod
	CouponCode     string
	IdempotencyKey string
}

// PlaceOrderResult is the submission outcome: the stored order and the
// completion result of its payment branch.
type PlaceOrderResult struct {
	Order   *order.Order
	Outcome *Outcome
	// Created is false when the idempotency key matched an existing order;
	// the stored order is returned and COD side effects are not re-run.
	Created       bool
	CouponMessage string
}

// PlaceOrder runs the full dispatcher state machine for one attempt:
// validate, price, build, persist, then branch into the payment-specific
// completion. Validation failures are local and issue no external calls.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	att := newAttempt()
	if err := att.step(StateValidating); err != nil {
		return nil, err
	}

	addr := req.Address.Normalize()
	if err := addr.Validate(); err != nil {
		_ = att.step(StateInvalid)
		return nil, err
	}
	if _, err := order.ParsePaymentMethod(string(req.PaymentMethod)); err != nil {
		_ = att.step(StateInvalid)
		return nil, err
	}

	lines, err := s.carts.Get(ctx, req.CartID)
	if err != nil {
		_ = att.step(StateInvalid)
		return nil, errors.Wrap(err, "get cart")
	}
	if len(lines) == 0 {
		_ = att.step(StateInvalid)
		return nil, ErrEmptyCart
	}
	for _, l := range lines {
		if l.Quantity <= 0 {
			_ = att.step(StateInvalid)
			return nil, &InvalidQuantityError{ProductID: l.ProductID}
		}
	}

	if err := att.step(StateSubmitting); err != nil {
		return nil, err
	}

	set, err := s.settings.Fetch(ctx)
	if err != nil {
		_ = att.step(StateFailed)
		return nil, &CollaboratorError{Service: "settings", Err: err}
	}

	subtotal := cart.Subtotal(lines)
	discount, _, couponMsg := s.resolveDiscount(ctx, subtotal, req.CouponCode)
	quote := ComputeQuote(subtotal, discount, set.TaxRate, set.DeliveryCharge, set.CODSurcharge, req.PaymentMethod)

	items, err := s.buildItems(ctx, lines)
	if err != nil {
		_ = att.step(StateFailed)
		return nil, &CollaboratorError{Service: "catalog", Err: err}
	}

	key := req.IdempotencyKey
	if key == "" {
		key = s.newID()
	}

	o := &order.Order{
		ID:             s.newID(),
		IdempotencyKey: key,
		UserID:         req.UserID,
		Address:        addr,
		PaymentMethod:  req.PaymentMethod,
		Items:          items,
		Subtotal:       quote.Subtotal,
		Discount:       quote.Discount,
		Tax:            quote.Tax,
		NetTotal:       quote.SubtotalAfterDiscount,
		DeliveryCharge: quote.DeliveryCharge,
		CODCharge:      quote.CODCharge,
		Total:          quote.Total,
		CouponCode:     req.CouponCode,
		CreatedAt:      time.Now().UTC(),
	}

	stored, created, err := s.orders.Create(ctx, o)
	if err != nil {
		_ = att.step(StateFailed)
		return nil, &CollaboratorError{Service: "orders", Err: err}
	}
	if err := att.step(StateOrderCreated); err != nil {
		return nil, err
	}
	if !created {
		zctx.From(ctx).Info("Idempotent replay, returning stored order",
			zap.String("order_id", stored.ID),
			zap.String("idempotency_key", key),
		)
	}

	outcome, err := s.runCompletion(ctx, att, req, stored, created)
	if err != nil {
		return nil, err
	}

	return &PlaceOrderResult{
		Order:         stored,
		Outcome:       outcome,
		Created:       created,
		CouponMessage: couponMsg,
	}, nil
}

// runCompletion selects the payment variant and runs its protocol. On an
// idempotent replay the COD side effects (cart clear, email) already happened
// and are not re-run; the card redirect is pure and is re-synthesized.
func (s *Service) runCompletion(ctx context.Context, att *attempt, req PlaceOrderRequest, o *order.Order, created bool) (*Outcome, error) {
	switch o.PaymentMethod {
	case order.PaymentCreditCard:
		c := &cardCompletion{gateway: s.gateway}
		return c.complete(ctx, att, o)
	case order.PaymentCashOnDelivery:
		if !created {
			if err := att.step(StateConfirmingAndNotifying); err != nil {
				return nil, err
			}
			if err := att.step(StateDone); err != nil {
				return nil, err
			}
			return &Outcome{State: StateDone}, nil
		}
		c := &codCompletion{carts: s.carts, cartID: req.CartID, notifier: s.notifier}
		return c.complete(ctx, att, o)
	default:
		return nil, errors.Wrapf(order.ErrUnknownPaymentMethod, "%q", o.PaymentMethod)
	}
}

// resolveDiscount turns an optional coupon code into an absolute discount.
// Invalid codes and validator failures degrade to a zero discount with a
// message; they never fail the surrounding quote or submission.
func (s *Service) resolveDiscount(ctx context.Context, subtotal decimal.Decimal, code string) (discount decimal.Decimal, applied bool, message string) {
	if code == "" {
		return decimal.Zero, false, ""
	}

	res, err := s.coupons.Validate(ctx, code)
	if err != nil {
		zctx.From(ctx).Warn("Coupon validation failed", zap.String("code", code), zap.Error(err))
		return decimal.Zero, false, couponFailureMessage
	}
	if !res.Valid {
		return decimal.Zero, false, res.Message
	}
	return coupon.DiscountAmount(subtotal, res.DiscountPercentage), true, res.Message
}

// buildItems resolves display names for every distinct product id in one
// batched call and assembles the priced order lines. Ids the catalog does not
// know degrade to UnknownProductName; a failed lookup aborts the build.
func (s *Service) buildItems(ctx context.Context, lines []cart.Line) ([]order.Item, error) {
	names, err := s.resolver.ResolveNames(ctx, cart.ProductIDs(lines))
	if err != nil {
		return nil, errors.Wrap(err, "resolve product names")
	}

	items := make([]order.Item, len(lines))
	for i, l := range lines {
		name, ok := names[l.ProductID]
		if !ok || name == "" {
			name = UnknownProductName
		}
		items[i] = order.Item{
			ProductID:   l.ProductID,
			ProductName: name,
			Quantity:    l.Quantity,
			Price:       l.Price,
		}
	}
	return items, nil
}
