package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/glowmart/checkout-api/internal/domain/cart"
)

type cartLine struct {
	ProductID string  `json:"productId"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type cartResponse struct {
	ID       string     `json:"id"`
	Items    []cartLine `json:"items"`
	Subtotal float64    `json:"subtotal"`
}

type putCartRequest struct {
	Items []cartLine `json:"items"`
}

// GetCart returns the cart's lines and running subtotal. An unknown cart id
// reads back as an empty cart.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	lines, err := h.carts.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cartToResponse(id, lines))
}

// PutCart replaces the cart's contents and returns the updated cart.
func (h *Handler) PutCart(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req putCartRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}

	lines := make([]cart.Line, len(req.Items))
	for i, it := range req.Items {
		if it.ProductID == "" {
			writeError(w, r, http.StatusBadRequest, "item productId required")
			return
		}
		lines[i] = cart.Line{
			ProductID: it.ProductID,
			Price:     decimal.NewFromFloat(it.Price),
			Quantity:  it.Quantity,
		}
	}

	if err := h.carts.Put(r.Context(), id, lines); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cartToResponse(id, lines))
}

func cartToResponse(id string, lines []cart.Line) cartResponse {
	items := make([]cartLine, len(lines))
	for i, l := range lines {
		items[i] = cartLine{
			ProductID: l.ProductID,
			Price:     l.Price.InexactFloat64(),
			Quantity:  l.Quantity,
		}
	}
	return cartResponse{
		ID:       id,
		Items:    items,
		Subtotal: cart.Subtotal(lines).InexactFloat64(),
	}
}
