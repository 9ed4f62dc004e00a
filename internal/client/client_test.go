package client

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/glowmart/checkout-api/internal/domain/address"
	"github.com/glowmart/checkout-api/internal/domain/checkout"
	"github.com/glowmart/checkout-api/internal/domain/order"
)

func TestSettingsClientFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/settings/main", r.URL.Path)
		io.WriteString(w, `{"deliveryCharge":200,"taxPercentage":10,"extraDeliveryCharge":50,"other1":999}`)
	}))
	defer srv.Close()

	c := NewSettingsClient(srv.URL, "main", srv.Client())
	s, err := c.Fetch(t.Context())
	require.NoError(t, err)
	require.Equal(t, "200", s.DeliveryCharge.String())
	require.Equal(t, "0.1", s.TaxRate.String())
	require.Equal(t, "50", s.CODSurcharge.String())
}

func TestSettingsClientLegacySurchargeField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"deliveryCharge":150,"taxPercentage":13,"other1":75}`)
	}))
	defer srv.Close()

	c := NewSettingsClient(srv.URL, "main", srv.Client())
	s, err := c.Fetch(t.Context())
	require.NoError(t, err)
	require.Equal(t, "75", s.CODSurcharge.String())
	require.Equal(t, "0.13", s.TaxRate.String())
}

func TestSettingsClientBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewSettingsClient(srv.URL, "main", srv.Client())
	_, err := c.Fetch(t.Context())
	require.Error(t, err)
}

func TestCouponClientValidate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/coupons/validate", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.JSONEq(t, `{"code":"SAVE10"}`, string(body))
		io.WriteString(w, `{"valid":true,"discountPercentage":10,"message":"ok"}`)
	}))
	defer srv.Close()

	c := NewCouponClient(srv.URL, srv.Client())
	res, err := c.Validate(t.Context(), "SAVE10")
	require.NoError(t, err)
	require.True(t, res.Valid)
	require.Equal(t, "10", res.DiscountPercentage.String())
	require.Equal(t, "ok", res.Message)
}

func TestCouponClientInvalidCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"valid":false,"message":"expired"}`)
	}))
	defer srv.Close()

	c := NewCouponClient(srv.URL, srv.Client())
	res, err := c.Validate(t.Context(), "OLD")
	require.NoError(t, err)
	require.False(t, res.Valid)
	require.Equal(t, "expired", res.Message)
}

func TestCouponClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewCouponClient(srv.URL, srv.Client())
	_, err := c.Validate(t.Context(), "SAVE10")
	require.Error(t, err)
}

func TestCatalogClientBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products/productnames", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.JSONEq(t, `{"ids":["p1","p2"]}`, string(body))
		io.WriteString(w, `{"names":{"p1":"Widget","p2":"Gadget"}}`)
	}))
	defer srv.Close()

	c := NewCatalogClient(srv.URL, srv.Client())
	names, err := c.ResolveNames(t.Context(), []string{"p1", "p2"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"p1": "Widget", "p2": "Gadget"}, names)
}

func TestCatalogClientFallsBackPerID(t *testing.T) {
	var perID atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/productnames":
			w.WriteHeader(http.StatusNotFound)
		case "/products/productname/p1":
			perID.Add(1)
			io.WriteString(w, `{"name":"Widget"}`)
		case "/products/productname/p2":
			perID.Add(1)
			// Unknown to the catalog: degrade, not fail.
			w.WriteHeader(http.StatusNotFound)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewCatalogClient(srv.URL, srv.Client())
	names, err := c.ResolveNames(t.Context(), []string{"p1", "p2"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"p1": "Widget"}, names)
	require.EqualValues(t, 2, perID.Load())
}

func TestCatalogClientFallbackAbortsOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/products/productnames" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewCatalogClient(srv.URL, srv.Client())
	_, err := c.ResolveNames(t.Context(), []string{"p1"})
	require.Error(t, err)
}

func TestCatalogClientEmptyIDs(t *testing.T) {
	c := NewCatalogClient("http://unreachable.invalid", http.DefaultClient)
	names, err := c.ResolveNames(t.Context(), nil)
	require.NoError(t, err)
	require.Empty(t, names)
}

func TestNotifierClientSend(t *testing.T) {
	var got confirmationPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/sendOrderConfirmation", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	c := NewNotifierClient(srv.URL, srv.Client())
	err := c.SendOrderConfirmation(t.Context(), &checkout.Notification{
		Email:   "ali@example.com",
		Name:    "Ali Khan",
		OrderID: "ord-1",
		Total:   decimal.NewFromInt(1350),
		Items: []order.Item{
			{ProductID: "p1", ProductName: "Widget", Quantity: 2, Price: decimal.NewFromInt(400)},
		},
		Address:        address.ShippingAddress{RecipientName: "Ali Khan", Email: "ali@example.com"},
		DeliveryCharge: decimal.NewFromInt(200),
		CODCharge:      decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	require.Equal(t, "ord-1", got.OrderID)
	require.Equal(t, 1350.0, got.Total)
	require.Len(t, got.Product, 1)
	require.Equal(t, "Widget", got.Product[0].Product.Name)
	require.Equal(t, 2, got.Product[0].Quantity)
	require.Equal(t, 50.0, got.ExtraDeliveryCharge)
}

func TestNotifierClientBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewNotifierClient(srv.URL, srv.Client())
	err := c.SendOrderConfirmation(t.Context(), &checkout.Notification{OrderID: "ord-2"})
	require.Error(t, err)
}
