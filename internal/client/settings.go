package client

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/glowmart/checkout-api/internal/domain/settings"
)

var hundred = decimal.NewFromInt(100)

// SettingsClient fetches the checkout settings record from the settings
// service. Compile-time check against the domain contract.
var _ settings.Provider = (*SettingsClient)(nil)

// SettingsClient reads a fixed settings record id on every Fetch.
type SettingsClient struct {
	httpc      *http.Client
	baseURL    string
	settingsID string
}

// NewSettingsClient creates a SettingsClient for the given base URL and
// settings record id.
func NewSettingsClient(baseURL, settingsID string, httpc *http.Client) *SettingsClient {
	return &SettingsClient{
		httpc:      httpc,
		baseURL:    baseURL,
		settingsID: settingsID,
	}
}

// Fetch retrieves and normalizes the settings record. The provider exposes
// the tax rate as a percentage and historically split the COD surcharge
// between extraDeliveryCharge and other1; both are unified here so the rest
// of the flow sees one field.
func (c *SettingsClient) Fetch(ctx context.Context) (*settings.Settings, error) {
	status, body, err := get(ctx, c.httpc, c.baseURL+"/settings/"+c.settingsID)
	if err != nil {
		return nil, errors.Wrap(err, "fetch settings")
	}
	if status != http.StatusOK {
		return nil, errors.Errorf("fetch settings: unexpected status %d", status)
	}

	var (
		delivery      decimal.Decimal
		taxPercentage decimal.Decimal
		extra         decimal.Decimal
		other1        decimal.Decimal
		hasExtra      bool
	)

	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "deliveryCharge":
			return decodeDecimal(d, &delivery)
		case "taxPercentage":
			return decodeDecimal(d, &taxPercentage)
		case "extraDeliveryCharge":
			hasExtra = true
			return decodeDecimal(d, &extra)
		case "other1":
			return decodeDecimal(d, &other1)
		default:
			return d.Skip()
		}
	}); err != nil {
		return nil, errors.Wrap(err, "decode settings")
	}

	surcharge := extra
	if !hasExtra {
		surcharge = other1
	}

	return &settings.Settings{
		DeliveryCharge: delivery,
		TaxRate:        taxPercentage.Div(hundred),
		CODSurcharge:   surcharge,
	}, nil
}

// decodeDecimal reads a JSON number into a decimal without a float round-trip.
func decodeDecimal(d *jx.Decoder, out *decimal.Decimal) error {
	num, err := d.Num()
	if err != nil {
		return err
	}
	v, err := decimal.NewFromString(num.String())
	if err != nil {
		return err
	}
	*out = v
	return nil
}
