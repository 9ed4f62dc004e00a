// Package handler exposes the checkout flow over HTTP. Routes are registered
// on a plain net/http mux with method and path patterns; responses use a
// {code, message} error envelope and float64 money values on the wire.
package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/glowmart/checkout-api/internal/domain/address"
	"github.com/glowmart/checkout-api/internal/domain/cart"
	"github.com/glowmart/checkout-api/internal/domain/checkout"
	"github.com/glowmart/checkout-api/internal/domain/order"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Handler serves the cart and checkout endpoints, delegating all business
// logic to the checkout service and the cart store.
type Handler struct {
	carts    cart.Store
	checkout *checkout.Service
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(carts cart.Store, svc *checkout.Service) *Handler {
	return &Handler{carts: carts, checkout: svc}
}

// Routes registers the API endpoints on the given mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/carts/{id}", h.GetCart)
	mux.HandleFunc("PUT /api/carts/{id}", h.PutCart)
	mux.HandleFunc("POST /api/checkout/quote", h.Quote)
	mux.HandleFunc("POST /api/checkout/coupon", h.ApplyCoupon)
	mux.HandleFunc("POST /api/checkout/orders", h.PlaceOrder)
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zctx.From(r.Context()).Warn("Write response failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, errorResponse{Code: status, Message: message})
}

// writeDomainError maps checkout failures onto the HTTP surface. Validation
// failures are the caller's fault; collaborator failures are upstream ones.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		missing *address.MissingFieldsError
		badQty  *checkout.InvalidQuantityError
		collab  *checkout.CollaboratorError
	)
	switch {
	case errors.As(err, &missing),
		errors.Is(err, address.ErrInvalidEmail),
		errors.Is(err, address.ErrInvalidPhone),
		errors.Is(err, order.ErrUnknownPaymentMethod),
		errors.As(err, &badQty):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrEmptyCouponCode):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.As(err, &collab):
		zctx.From(r.Context()).Error("Collaborator failure", zap.Error(err))
		writeError(w, r, http.StatusBadGateway, collab.Error())
	default:
		zctx.From(r.Context()).Error("Unhandled error", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return errors.Wrap(err, "read body")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrap(err, "decode body")
	}
	return nil
}
