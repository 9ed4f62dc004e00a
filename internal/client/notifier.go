package client

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/glowmart/checkout-api/internal/domain/address"
	"github.com/glowmart/checkout-api/internal/domain/checkout"
)

var _ checkout.Notifier = (*NotifierClient)(nil)

// NotifierClient sends order confirmation emails through the mailer service.
type NotifierClient struct {
	httpc   *http.Client
	baseURL string
}

// NewNotifierClient creates a NotifierClient for the given base URL.
func NewNotifierClient(baseURL string, httpc *http.Client) *NotifierClient {
	return &NotifierClient{httpc: httpc, baseURL: baseURL}
}

// Wire shapes for the mailer. The service expects each line nested under a
// "product" key and the COD surcharge under its legacy extraDeliveryCharge
// name.
type confirmationPayload struct {
	Email               string                  `json:"email"`
	Name                string                  `json:"name"`
	OrderID             string                  `json:"orderId"`
	Total               float64                 `json:"total"`
	Product             []confirmationLine      `json:"product"`
	Address             address.ShippingAddress `json:"address"`
	DeliveryCharge      float64                 `json:"deliveryCharge"`
	ExtraDeliveryCharge float64                 `json:"extraDeliveryCharge"`
}

type confirmationLine struct {
	Product  confirmationProduct `json:"product"`
	Quantity int                 `json:"quantity"`
}

type confirmationProduct struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// SendOrderConfirmation posts the confirmation payload. Any non-2xx status is
// an error; the caller decides whether that matters.
func (c *NotifierClient) SendOrderConfirmation(ctx context.Context, n *checkout.Notification) error {
	payload := confirmationPayload{
		Email:               n.Email,
		Name:                n.Name,
		OrderID:             n.OrderID,
		Total:               n.Total.InexactFloat64(),
		Product:             make([]confirmationLine, 0, len(n.Items)),
		Address:             n.Address,
		DeliveryCharge:      n.DeliveryCharge.InexactFloat64(),
		ExtraDeliveryCharge: n.CODCharge.InexactFloat64(),
	}
	for _, it := range n.Items {
		payload.Product = append(payload.Product, confirmationLine{
			Product: confirmationProduct{
				ID:    it.ProductID,
				Name:  it.ProductName,
				Price: it.Price.InexactFloat64(),
			},
			Quantity: it.Quantity,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "encode confirmation")
	}

	status, _, err := postJSON(ctx, c.httpc, c.baseURL+"/sendOrderConfirmation", body)
	if err != nil {
		return errors.Wrap(err, "send confirmation")
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return errors.Errorf("send confirmation: unexpected status %d", status)
	}
	return nil
}
