package client

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/glowmart/checkout-api/internal/domain/coupon"
)

var _ coupon.Validator = (*CouponClient)(nil)

// CouponClient validates coupon codes against the external coupon service.
// Every Apply action issues a fresh call.
type CouponClient struct {
	httpc   *http.Client
	baseURL string
}

// NewCouponClient creates a CouponClient for the given base URL.
func NewCouponClient(baseURL string, httpc *http.Client) *CouponClient {
	return &CouponClient{httpc: httpc, baseURL: baseURL}
}

// Validate posts the code to the validator. A 2xx or 4xx response with a
// parseable body is a definitive answer (valid or not); anything else is a
// transport/server failure for the caller to degrade on.
func (c *CouponClient) Validate(ctx context.Context, code string) (*coupon.Result, error) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("code")
	e.Str(code)
	e.ObjEnd()

	status, body, err := postJSON(ctx, c.httpc, c.baseURL+"/coupons/validate", e.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "validate coupon")
	}
	if status >= http.StatusInternalServerError {
		return nil, errors.Errorf("validate coupon: unexpected status %d", status)
	}

	var (
		res        coupon.Result
		percentage decimal.Decimal
	)
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "valid":
			v, err := d.Bool()
			res.Valid = v
			return err
		case "discountPercentage":
			return decodeDecimal(d, &percentage)
		case "message":
			v, err := d.Str()
			res.Message = v
			return err
		default:
			return d.Skip()
		}
	}); err != nil {
		return nil, errors.Wrap(err, "decode coupon response")
	}
	res.DiscountPercentage = percentage

	return &res, nil
}
