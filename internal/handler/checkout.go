package handler

import (
	"net/http"
	"strings"

	"github.com/glowmart/checkout-api/internal/domain/address"
	"github.com/glowmart/checkout-api/internal/domain/checkout"
	"github.com/glowmart/checkout-api/internal/domain/order"
	"github.com/glowmart/checkout-api/internal/gateway"
)

// idempotencyKeyHeader carries the client's dedupe token for order submission.
const idempotencyKeyHeader = "Idempotency-Key"

type quoteRequest struct {
	CartID        string `json:"cartId"`
	PaymentMethod string `json:"paymentMethod"`
	CouponCode    string `json:"couponCode,omitempty"`
}

type quoteResponse struct {
	Subtotal              float64 `json:"subtotal"`
	Discount              float64 `json:"discount"`
	SubtotalAfterDiscount float64 `json:"subtotalAfterDiscount"`
	Tax                   float64 `json:"tax"`
	DeliveryCharge        float64 `json:"deliveryCharge"`
	CODCharge             float64 `json:"codCharge"`
	Total                 float64 `json:"total"`
	CouponApplied         bool    `json:"couponApplied"`
	CouponMessage         string  `json:"couponMessage,omitempty"`
}

// Quote prices the cart live against the current settings record.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}

	method, err := order.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res, err := h.checkout.Quote(r.Context(), checkout.QuoteRequest{
		CartID:        req.CartID,
		PaymentMethod: method,
		CouponCode:    req.CouponCode,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, quoteResponse{
		Subtotal:              res.Quote.Subtotal.InexactFloat64(),
		Discount:              res.Quote.Discount.InexactFloat64(),
		SubtotalAfterDiscount: res.Quote.SubtotalAfterDiscount.InexactFloat64(),
		Tax:                   res.Quote.Tax.InexactFloat64(),
		DeliveryCharge:        res.Quote.DeliveryCharge.InexactFloat64(),
		CODCharge:             res.Quote.CODCharge.InexactFloat64(),
		Total:                 res.Quote.Total.InexactFloat64(),
		CouponApplied:         res.CouponApplied,
		CouponMessage:         res.CouponMessage,
	})
}

type applyCouponRequest struct {
	CartID string `json:"cartId"`
	Code   string `json:"code"`
}

type applyCouponResponse struct {
	Valid    bool    `json:"valid"`
	Discount float64 `json:"discount"`
	Message  string  `json:"message,omitempty"`
}

// ApplyCoupon validates a coupon code against the current cart subtotal. An
// invalid code is a 200 with valid=false: checkout continues without it.
func (h *Handler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req applyCouponRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}

	res, err := h.checkout.ApplyCoupon(r.Context(), req.CartID, req.Code)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, applyCouponResponse{
		Valid:    res.Valid,
		Discount: res.Discount.InexactFloat64(),
		Message:  res.Message,
	})
}

type placeOrderRequest struct {
	CartID          string                  `json:"cartId"`
	UserID          string                  `json:"userId,omitempty"`
	ShippingAddress address.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                  `json:"paymentMethod"`
	CouponCode      string                  `json:"couponCode,omitempty"`
}

type orderItemResponse struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type orderResponse struct {
	ID             string              `json:"id"`
	PaymentMethod  string              `json:"paymentMethod"`
	Items          []orderItemResponse `json:"items"`
	Subtotal       float64             `json:"subtotal"`
	Discount       float64             `json:"discount"`
	Tax            float64             `json:"tax"`
	DeliveryCharge float64             `json:"deliveryCharge"`
	CODCharge      float64             `json:"codCharge"`
	Total          float64             `json:"total"`
}

type placeOrderResponse struct {
	Order            orderResponse     `json:"order"`
	State            string            `json:"state"`
	Redirect         *gateway.Redirect `json:"redirect,omitempty"`
	NotificationSent bool              `json:"notificationSent"`
	CouponMessage    string            `json:"couponMessage,omitempty"`
}

// PlaceOrder submits the checkout attempt. The payment method selects the
// response shape: cash on delivery confirms inline, credit card returns the
// gateway redirect, and a card request with Accept: text/html gets the
// self-submitting gateway form instead of JSON.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}

	res, err := h.checkout.PlaceOrder(r.Context(), checkout.PlaceOrderRequest{
		CartID:         req.CartID,
		UserID:         req.UserID,
		Address:        req.ShippingAddress,
		PaymentMethod:  order.PaymentMethod(req.PaymentMethod),
		CouponCode:     req.CouponCode,
		IdempotencyKey: r.Header.Get(idempotencyKeyHeader),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	if res.Outcome.Redirect != nil && wantsHTML(r) {
		form, err := res.Outcome.Redirect.FormHTML()
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(form)
		return
	}

	status := http.StatusCreated
	if !res.Created {
		status = http.StatusOK
	}
	writeJSON(w, r, status, placeOrderResponse{
		Order:            orderToResponse(res.Order),
		State:            string(res.Outcome.State),
		Redirect:         res.Outcome.Redirect,
		NotificationSent: res.Outcome.NotificationSent,
		CouponMessage:    res.CouponMessage,
	})
}

func orderToResponse(o *order.Order) orderResponse {
	items := make([]orderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = orderItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price.InexactFloat64(),
		}
	}
	return orderResponse{
		ID:             o.ID,
		PaymentMethod:  string(o.PaymentMethod),
		Items:          items,
		Subtotal:       o.Subtotal.InexactFloat64(),
		Discount:       o.Discount.InexactFloat64(),
		Tax:            o.Tax.InexactFloat64(),
		DeliveryCharge: o.DeliveryCharge.InexactFloat64(),
		CODCharge:      o.CODCharge.InexactFloat64(),
		Total:          o.Total.InexactFloat64(),
	}
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
