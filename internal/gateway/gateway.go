// Package gateway models the hand-off to the external card payment processor.
//
// The hand-off is a fire-and-forget full-page form POST: the service never
// calls the gateway itself and consumes no response. It only synthesizes the
// redirect instruction: the gateway URL plus exactly two fields, OrderID and
// TransactionAmount, taken from the persisted order and never from card input.
package gateway

import (
	"bytes"
	"html/template"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Redirect is the terminal hand-off instruction for a card payment. There is
// no return path: post-payment reconciliation happens out-of-band.
type Redirect struct {
	URL               string `json:"url"`
	OrderID           string `json:"OrderID"`
	TransactionAmount string `json:"TransactionAmount"`
}

// Builder synthesizes redirects for a fixed gateway URL.
type Builder struct {
	url string
}

// NewBuilder returns a Builder targeting the given gateway URL.
func NewBuilder(url string) *Builder {
	return &Builder{url: url}
}

// Build creates the redirect for an order. The amount comes from the stored
// order total, formatted with two decimal places.
func (b *Builder) Build(orderID string, total decimal.Decimal) *Redirect {
	return &Redirect{
		URL:               b.url,
		OrderID:           orderID,
		TransactionAmount: total.StringFixed(2),
	}
}

var formTmpl = template.Must(template.New("gateway-form").Parse(`<!DOCTYPE html>
<html>
<head><title>Redirecting to payment</title></head>
<body>
<form id="gateway" method="POST" action="{{.URL}}">
<input type="hidden" name="OrderID" value="{{.OrderID}}">
<input type="hidden" name="TransactionAmount" value="{{.TransactionAmount}}">
<noscript><button type="submit">Continue to payment</button></noscript>
</form>
<script>document.getElementById("gateway").submit();</script>
</body>
</html>
`))

// FormHTML renders the self-submitting HTML form that performs the hand-off
// in a browser.
func (r *Redirect) FormHTML() ([]byte, error) {
	var buf bytes.Buffer
	if err := formTmpl.Execute(&buf, r); err != nil {
		return nil, errors.Wrap(err, "render gateway form")
	}
	return buf.Bytes(), nil
}
